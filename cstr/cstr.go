// Package cstr builds null-terminated byte sequences for the native stream layer.
//
// A CString owns its storage. It is handed to a native call by value and stays
// alive for the whole call, so no pointer into it can outlive its owner.
//
// Embedded zero bytes are kept in the buffer but truncate the string as seen by
// a callee that stops at the first terminator. This is documented behavior,
// not an error.
package cstr

import "bytes"

// CString is an owned byte buffer whose last byte is zero.
type CString []byte

// New returns the bytes of s followed by a single zero byte.
// The result is sized exactly len(s)+1.
func New(s string) CString {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return CString(b)
}

// FromBytes is like New but copies from a byte slice.
func FromBytes(p []byte) CString {
	b := make([]byte, len(p)+1)
	copy(b, p)
	return CString(b)
}

// Bytes returns the full buffer including the terminator.
func (c CString) Bytes() []byte {
	return []byte(c)
}

// Len returns the number of bytes a callee sees before the first zero byte.
func (c CString) Len() int {
	if i := bytes.IndexByte(c, 0); i >= 0 {
		return i
	}
	return len(c)
}

// String returns the callee's view of the buffer: the bytes before the first zero.
func (c CString) String() string {
	return string(c[:c.Len()])
}

// Terminated reports whether the buffer ends with a zero byte.
func (c CString) Terminated() bool {
	return len(c) > 0 && c[len(c)-1] == 0
}
