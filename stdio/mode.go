package stdio

import (
	"os"

	"github.com/input-output-hk/catalyst-forge-libs/usd/errors"
)

// Mode is a parsed C stream mode.
type Mode struct {
	Read      bool
	Write     bool
	Append    bool
	Truncate  bool
	Create    bool
	Exclusive bool
	Binary    bool
}

// Modes used by usd.File.
var (
	ModeReadBinary  = Mode{Read: true, Binary: true}
	ModeWriteBinary = Mode{Write: true, Truncate: true, Create: true, Binary: true}
)

// ErrInvalidMode is returned by ParseMode for strings outside the C grammar.
var ErrInvalidMode = errors.New(errors.CodeInvalidInput, "stdio: invalid mode")

// ParseMode parses a C mode string: one of r, w, a, optionally followed by
// any combination of b, + and x (x only with w).
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return Mode{}, ErrInvalidMode.WithContext("mode", s)
	}

	var m Mode
	switch s[0] {
	case 'r':
		m.Read = true
	case 'w':
		m.Write, m.Truncate, m.Create = true, true, true
	case 'a':
		m.Write, m.Append, m.Create = true, true, true
	default:
		return Mode{}, ErrInvalidMode.WithContext("mode", s)
	}

	for _, c := range s[1:] {
		switch c {
		case 'b':
			if m.Binary {
				return Mode{}, ErrInvalidMode.WithContext("mode", s)
			}
			m.Binary = true
		case '+':
			m.Read, m.Write = true, true
		case 'x':
			if s[0] != 'w' || m.Exclusive {
				return Mode{}, ErrInvalidMode.WithContext("mode", s)
			}
			m.Exclusive = true
		default:
			return Mode{}, ErrInvalidMode.WithContext("mode", s)
		}
	}
	return m, nil
}

// Flag converts m to os.OpenFile flags.
func (m Mode) Flag() int {
	var flag int
	switch {
	case m.Read && m.Write:
		flag = os.O_RDWR
	case m.Write:
		flag = os.O_WRONLY
	default:
		flag = os.O_RDONLY
	}
	if m.Create {
		flag |= os.O_CREATE
	}
	if m.Truncate {
		flag |= os.O_TRUNC
	}
	if m.Append {
		flag |= os.O_APPEND
	}
	if m.Exclusive {
		flag |= os.O_EXCL
	}
	return flag
}

// String returns the canonical C spelling of m.
func (m Mode) String() string {
	var s string
	switch {
	case m.Append:
		s = "a"
	case m.Truncate:
		s = "w"
	default:
		s = "r"
	}
	if m.Binary {
		s += "b"
	}
	if m.Read && m.Write {
		s += "+"
	}
	if m.Exclusive {
		s += "x"
	}
	return s
}
