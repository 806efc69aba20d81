package stdiotest

import (
	"bytes"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/usd/cstr"
	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio"
)

// TestWrite tests the write primitives: Fopen("wb"), Fwrite, Fputs, Fprintf.
func TestWrite(t *testing.T, native stdio.Native) {
	TestWriteWithSkip(t, native, nil)
}

// TestWriteWithSkip is TestWrite with named subtests skipped.
func TestWriteWithSkip(t *testing.T, native stdio.Native, skipTests []string) {
	run := func(name string, fn func(t *testing.T)) {
		t.Run(name, func(t *testing.T) {
			for _, skip := range skipTests {
				if skip == "Write/"+name {
					t.Skip("Skipped by provider configuration")
					return
				}
			}
			fn(t)
		})
	}

	run("CreateAndWrite", func(t *testing.T) { testWriteCreate(t, native) })
	run("Truncate", func(t *testing.T) { testWriteTruncate(t, native) })
	run("Fputs", func(t *testing.T) { testWriteFputs(t, native) })
	run("Fprintf", func(t *testing.T) { testWriteFprintf(t, native) })
	run("CreateInNonExistentDir", func(t *testing.T) { testWriteCreateError(t, native) })
}

// testWriteCreate writes binary data and verifies it round-trips.
func testWriteCreate(t *testing.T, native stdio.Native) {
	testData := []byte("test data for Fwrite\x00\x01\xff")

	h := native.Fopen(cstr.New("create.bin"), cstr.New("wb"))
	if h.IsNull() {
		t.Fatalf("Fopen(%q, %q): got null handle, want handle", "create.bin", "wb")
	}

	if n := native.Fwrite(h, testData, 1, len(testData)); n != len(testData) {
		_ = native.Fclose(h)
		t.Fatalf("Fwrite(): wrote %d items, want %d", n, len(testData))
	}
	if rc := native.Fclose(h); rc != 0 {
		t.Fatalf("Fclose(): got %d, want 0", rc)
	}

	data := ReadAll(t, native, "create.bin")
	if !bytes.Equal(data, testData) {
		t.Errorf("read back %q: got %q, want %q", "create.bin", data, testData)
	}
}

// testWriteTruncate verifies "wb" truncates an existing file.
func testWriteTruncate(t *testing.T, native stdio.Native) {
	WriteAll(t, native, "truncate.txt", []byte("a much longer original content"))
	WriteAll(t, native, "truncate.txt", []byte("short"))

	data := ReadAll(t, native, "truncate.txt")
	if string(data) != "short" {
		t.Errorf("read back %q after truncate: got %q, want %q", "truncate.txt", data, "short")
	}
}

// testWriteFputs verifies Fputs writes literal content.
func testWriteFputs(t *testing.T, native stdio.Native) {
	h := native.Fopen(cstr.New("puts.txt"), cstr.New("wb"))
	if h.IsNull() {
		t.Fatalf("Fopen(%q, %q): got null handle, want handle", "puts.txt", "wb")
	}
	if rc := native.Fputs(h, cstr.New("50%% off")); rc < 0 {
		_ = native.Fclose(h)
		t.Fatalf("Fputs(): got %d, want non-negative", rc)
	}
	if rc := native.Fclose(h); rc != 0 {
		t.Fatalf("Fclose(): got %d, want 0", rc)
	}

	data := ReadAll(t, native, "puts.txt")
	if string(data) != "50%% off" {
		t.Errorf("read back %q: got %q, want %q", "puts.txt", data, "50%% off")
	}
}

// testWriteFprintf verifies Fprintf interprets its format.
func testWriteFprintf(t *testing.T, native stdio.Native) {
	h := native.Fopen(cstr.New("printf.txt"), cstr.New("wb"))
	if h.IsNull() {
		t.Fatalf("Fopen(%q, %q): got null handle, want handle", "printf.txt", "wb")
	}
	if rc := native.Fprintf(h, cstr.New("%s=%d 100%%"), "n", 7); rc != len("n=7 100%") {
		_ = native.Fclose(h)
		t.Fatalf("Fprintf(): got %d, want %d", rc, len("n=7 100%"))
	}
	if rc := native.Fclose(h); rc != 0 {
		t.Fatalf("Fclose(): got %d, want 0", rc)
	}

	data := ReadAll(t, native, "printf.txt")
	if string(data) != "n=7 100%" {
		t.Errorf("read back %q: got %q, want %q", "printf.txt", data, "n=7 100%")
	}
}

// testWriteCreateError verifies creating under a missing directory yields Null.
func testWriteCreateError(t *testing.T, native stdio.Native) {
	h := native.Fopen(cstr.New("nonexistent/testfile.txt"), cstr.New("wb"))
	if !h.IsNull() {
		_ = native.Fclose(h)
		t.Errorf("Fopen(%q, %q): got handle, want null", "nonexistent/testfile.txt", "wb")
	}
}
