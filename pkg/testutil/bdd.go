package testutil

import "testing"

// step runs fn as a subtest named after a scenario keyword, so `go test -v`
// output reads as a walkthrough of the page under test.
func step(t *testing.T, keyword, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run(keyword+" "+desc, fn)
}

// Given sets up who is signed in or what data exists.
func Given(t *testing.T, desc string, fn func(t *testing.T)) { step(t, "Given", desc, fn) }

// When performs the request under test.
func When(t *testing.T, desc string, fn func(t *testing.T)) { step(t, "When", desc, fn) }

// Then asserts on the response.
func Then(t *testing.T, desc string, fn func(t *testing.T)) { step(t, "Then", desc, fn) }
