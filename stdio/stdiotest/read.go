package stdiotest

import (
	"bytes"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/usd/cstr"
	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio"
)

// TestRead tests the read primitives: Fopen("rb"), Fseek, Ftell, Fread, Feof.
func TestRead(t *testing.T, native stdio.Native) {
	testContent := []byte("0123456789abcdef")
	WriteAll(t, native, "read.bin", testContent)
	WriteAll(t, native, "empty.bin", nil)

	t.Run("SeekTell", func(t *testing.T) {
		testReadSeekTell(t, native, int64(len(testContent)))
	})
	t.Run("Fread", func(t *testing.T) {
		testReadFread(t, native, testContent)
	})
	t.Run("Empty", func(t *testing.T) {
		testReadEmpty(t, native)
	})
	t.Run("OpenNotExist", func(t *testing.T) {
		testReadOpenNotExist(t, native)
	})
}

// testReadSeekTell measures the length with the seek-end/tell idiom.
func testReadSeekTell(t *testing.T, native stdio.Native, want int64) {
	h := native.Fopen(cstr.New("read.bin"), cstr.New("rb"))
	if h.IsNull() {
		t.Fatalf("Fopen(%q, %q): got null handle, want handle", "read.bin", "rb")
	}
	defer native.Fclose(h)

	if rc := native.Fseek(h, 0, stdio.SeekEnd); rc != 0 {
		t.Fatalf("Fseek(0, SeekEnd): got %d, want 0", rc)
	}
	if got := native.Ftell(h); got != want {
		t.Errorf("Ftell(): got %d, want %d", got, want)
	}
	if rc := native.Fseek(h, 4, stdio.SeekSet); rc != 0 {
		t.Fatalf("Fseek(4, SeekSet): got %d, want 0", rc)
	}
	if got := native.Ftell(h); got != 4 {
		t.Errorf("Ftell() after Fseek(4): got %d, want 4", got)
	}
}

// testReadFread reads in two chunks and checks the EOF indicator.
func testReadFread(t *testing.T, native stdio.Native, testContent []byte) {
	h := native.Fopen(cstr.New("read.bin"), cstr.New("rb"))
	if h.IsNull() {
		t.Fatalf("Fopen(%q, %q): got null handle, want handle", "read.bin", "rb")
	}
	defer native.Fclose(h)

	head := make([]byte, 10)
	if n := native.Fread(h, head, 1, len(head)); n != len(head) {
		t.Fatalf("Fread(10): got %d items, want %d", n, len(head))
	}
	if native.Feof(h) {
		t.Errorf("Feof() after partial read: got true, want false")
	}

	tail := make([]byte, 10)
	n := native.Fread(h, tail, 1, len(tail))
	if n != len(testContent)-len(head) {
		t.Errorf("Fread(10) at offset 10: got %d items, want %d", n, len(testContent)-len(head))
	}
	if !native.Feof(h) {
		t.Errorf("Feof() after short read: got false, want true")
	}
	if native.Ferror(h) {
		t.Errorf("Ferror() after short read: got true, want false")
	}

	got := append(head, tail[:n]...)
	if !bytes.Equal(got, testContent) {
		t.Errorf("Fread(): got %q, want %q", got, testContent)
	}
}

// testReadEmpty checks an empty file reports length zero.
func testReadEmpty(t *testing.T, native stdio.Native) {
	h := native.Fopen(cstr.New("empty.bin"), cstr.New("rb"))
	if h.IsNull() {
		t.Fatalf("Fopen(%q, %q): got null handle, want handle", "empty.bin", "rb")
	}
	defer native.Fclose(h)

	if rc := native.Fseek(h, 0, stdio.SeekEnd); rc != 0 {
		t.Fatalf("Fseek(0, SeekEnd): got %d, want 0", rc)
	}
	if got := native.Ftell(h); got != 0 {
		t.Errorf("Ftell(): got %d, want 0", got)
	}
}

// testReadOpenNotExist checks that a missing file yields Null.
func testReadOpenNotExist(t *testing.T, native stdio.Native) {
	h := native.Fopen(cstr.New("nonexistent.bin"), cstr.New("rb"))
	if !h.IsNull() {
		_ = native.Fclose(h)
		t.Errorf("Fopen(%q, %q): got handle, want null", "nonexistent.bin", "rb")
	}
}
