package mocker

import (
	"sync"

	"github.com/getmockd/mocktrip/pkg/calllog"
	"github.com/getmockd/mocktrip/pkg/mock"
)

// The shared scope is a process-wide singleton for patterns registered
// outside any locally scoped Mocker. It is initialized on first use and must
// be torn down explicitly: every Start needs a paired Stop, or interception
// leaks into unrelated code. The all-called verification is off here since
// the shared scope has no natural exit point to assert at.

var (
	defaultOnce sync.Once
	defaultMock *Mocker
)

// Default returns the process-wide shared Mocker.
func Default() *Mocker {
	defaultOnce.Do(func() {
		defaultMock = New(WithAssertAllCalled(false))
	})
	return defaultMock
}

// Start installs interception for the shared scope.
func Start() { Default().Start() }

// Stop tears down the shared scope's interception and optionally resets it.
func Stop(reset bool) { Default().Stop(reset) }

// Reset clears the shared scope's patterns and recorded calls.
func Reset() { Default().Reset() }

// Request starts a builder on the shared scope.
func Request(method, url string) *Builder { return Default().Request(method, url) }

// Get starts a GET builder on the shared scope.
func Get(url string) *Builder { return Default().Get(url) }

// Post starts a POST builder on the shared scope.
func Post(url string) *Builder { return Default().Post(url) }

// Put starts a PUT builder on the shared scope.
func Put(url string) *Builder { return Default().Put(url) }

// Patch starts a PATCH builder on the shared scope.
func Patch(url string) *Builder { return Default().Patch(url) }

// Delete starts a DELETE builder on the shared scope.
func Delete(url string) *Builder { return Default().Delete(url) }

// Pattern looks up an aliased pattern on the shared scope.
func Pattern(alias string) *mock.Pattern { return Default().Pattern(alias) }

// Calls returns the shared scope's recorded exchanges.
func Calls() []*calllog.Call { return Default().Calls() }

// AllCalled verifies every pattern on the shared scope was matched.
func AllCalled() error { return Default().AllCalled() }
