// Package usd provides safe file handles for a removable storage volume
// mounted at a fixed path prefix (by default /usd/).
//
// A File owns exactly one native stream handle and releases it exactly once:
// through Finish or ReadFile, which consume the File, through Close on scope
// exit, or, for a File dropped without either, through a GC cleanup. Using a
// File after it was released fails fast with an error wrapping fs.ErrClosed.
//
// # Basic Usage
//
//	f, err := usd.Create("log.txt")
//	if err != nil {
//	    return err // volume missing, bad path, full card or no permission
//	}
//	defer f.Close()
//
//	if rc, _ := f.WriteStr("hello"); rc < 0 {
//	    // native write failed
//	}
//	rc, err := f.Finish()
//
//	r, err := usd.Open("log.txt")
//	if err != nil {
//	    return err
//	}
//	data, err := r.ReadFile() // r is released here
//
// # Failure Model
//
// The layer is deliberately thin. Open and Create collapse every native cause
// into ErrNotOpened. WriteStr, WriteFormatted and Finish return the native
// status code unchanged. Nothing is retried.
//
// # Backends
//
// A Volume is built over any stdio.Native. The default volume uses the OS
// filesystem through stdio/billy; tests use the in-memory billy backend and
// stdio/minio stores the volume in an object bucket.
package usd
