// Package stdiotest provides a conformance test suite for stdio.Native
// implementations, and Recorder, a Native wrapper that counts primitive calls.
//
// The suite validates the contract of the primitive surface, not backend
// specific behavior. Backends with documented differences (object stores have
// no directories, for example) skip the affected tests by name.
//
// Example usage:
//
//	func TestMyBackend(t *testing.T) {
//	    stdiotest.TestSuite(t, func() stdio.Native {
//	        return mybackend.New().Native()
//	    })
//	}
package stdiotest

import (
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio"
)

// TestSuite runs all conformance tests against a native layer.
// The newNative function should return a fresh, empty volume for each test.
func TestSuite(t *testing.T, newNative func() stdio.Native) {
	TestSuiteWithSkip(t, newNative, nil)
}

// TestSuiteWithSkip runs conformance tests with optional test skipping.
// The skipTests parameter is a slice of test names to skip (e.g., "Write/CreateInNonExistentDir").
func TestSuiteWithSkip(t *testing.T, newNative func() stdio.Native, skipTests []string) {
	shouldSkip := func(testName string) bool {
		for _, skip := range skipTests {
			if skip == testName {
				return true
			}
		}
		return false
	}

	t.Run("Write", func(t *testing.T) {
		if shouldSkip("Write") {
			t.Skip("Skipped by provider configuration")
			return
		}
		TestWriteWithSkip(t, newNative(), skipTests)
	})

	t.Run("Read", func(t *testing.T) {
		if shouldSkip("Read") {
			t.Skip("Skipped by provider configuration")
			return
		}
		TestRead(t, newNative())
	})

	t.Run("Lifecycle", func(t *testing.T) {
		if shouldSkip("Lifecycle") {
			t.Skip("Skipped by provider configuration")
			return
		}
		TestLifecycle(t, newNative())
	})
}
