package offcache

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by any call after Close.
	ErrClosed = errors.New("offcache: controller closed")
	// ErrInstalled is returned by Install once the generation has installed.
	ErrInstalled = errors.New("offcache: already installed")
	// ErrNotInstalled is returned by Activate before a successful Install.
	ErrNotInstalled = errors.New("offcache: not installed")
	// ErrNotActive is returned by Handle before Activate.
	ErrNotActive = errors.New("offcache: not active")
	// ErrSuperseded is returned by Handle once another generation activated.
	ErrSuperseded = errors.New("offcache: generation superseded")
)

// InstallError names the precache path whose fetch or store failed.
// Install is all-or-nothing: a generation with a failed path is never
// promoted, and the previously active generation (if any) keeps serving.
type InstallError struct {
	Version string
	Path    string
	Err     error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("install %q failed at %q: %v", e.Version, e.Path, e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }

// PurgeError reports an incomplete deletion of a superseded generation.
// Activation treats it as best-effort: logged, hooked, never fatal.
type PurgeError struct {
	Generation string
	Err        error
}

func (e *PurgeError) Error() string {
	return fmt.Sprintf("purge generation %q: %v", e.Generation, e.Err)
}

func (e *PurgeError) Unwrap() error { return e.Err }
