package stdiotest

import (
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/usd/cstr"
	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio"
)

// TestLifecycle tests handle release: a closed handle is rejected afterwards.
func TestLifecycle(t *testing.T, native stdio.Native) {
	t.Run("CloseTwice", func(t *testing.T) {
		h := native.Fopen(cstr.New("twice.bin"), cstr.New("wb"))
		if h.IsNull() {
			t.Fatalf("Fopen(%q, %q): got null handle, want handle", "twice.bin", "wb")
		}
		if rc := native.Fclose(h); rc != 0 {
			t.Fatalf("Fclose(): got %d, want 0", rc)
		}
		if rc := native.Fclose(h); rc != stdio.EOF {
			t.Errorf("second Fclose(): got %d, want %d", rc, stdio.EOF)
		}
	})

	t.Run("UseAfterClose", func(t *testing.T) {
		h := native.Fopen(cstr.New("after.bin"), cstr.New("wb"))
		if h.IsNull() {
			t.Fatalf("Fopen(%q, %q): got null handle, want handle", "after.bin", "wb")
		}
		_ = native.Fclose(h)

		if n := native.Fwrite(h, []byte("x"), 1, 1); n != 0 {
			t.Errorf("Fwrite() after Fclose: got %d items, want 0", n)
		}
		if rc := native.Fputs(h, cstr.New("x")); rc >= 0 {
			t.Errorf("Fputs() after Fclose: got %d, want negative", rc)
		}
	})

	t.Run("NullHandle", func(t *testing.T) {
		if rc := native.Fclose(stdio.Null); rc != stdio.EOF {
			t.Errorf("Fclose(Null): got %d, want %d", rc, stdio.EOF)
		}
	})
}

// WriteAll creates name with the given content through native.
func WriteAll(t *testing.T, native stdio.Native, name string, data []byte) {
	t.Helper()
	h := native.Fopen(cstr.New(name), cstr.New("wb"))
	if h.IsNull() {
		t.Fatalf("Fopen(%q, %q): setup failed: got null handle", name, "wb")
	}
	if len(data) > 0 {
		if n := native.Fwrite(h, data, 1, len(data)); n != len(data) {
			_ = native.Fclose(h)
			t.Fatalf("Fwrite(%q): setup failed: wrote %d of %d", name, n, len(data))
		}
	}
	if rc := native.Fclose(h); rc != 0 {
		t.Fatalf("Fclose(%q): setup failed: got %d", name, rc)
	}
}

// ReadAll returns the whole content of name through native.
func ReadAll(t *testing.T, native stdio.Native, name string) []byte {
	t.Helper()
	h := native.Fopen(cstr.New(name), cstr.New("rb"))
	if h.IsNull() {
		t.Fatalf("Fopen(%q, %q): got null handle, want handle", name, "rb")
	}
	defer native.Fclose(h)

	if rc := native.Fseek(h, 0, stdio.SeekEnd); rc != 0 {
		t.Fatalf("Fseek(%q, SeekEnd): got %d", name, rc)
	}
	size := native.Ftell(h)
	if size < 0 {
		t.Fatalf("Ftell(%q): got %d", name, size)
	}
	if rc := native.Fseek(h, 0, stdio.SeekSet); rc != 0 {
		t.Fatalf("Fseek(%q, SeekSet): got %d", name, rc)
	}

	buf := make([]byte, size)
	n := native.Fread(h, buf, 1, len(buf))
	return buf[:n]
}
