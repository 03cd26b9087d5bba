// Package filesystem exposes the afero filesystem every lnget package writes through.
//
// Production code runs on the OS filesystem; tests swap in an in-memory one.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active filesystem.
func API() afero.Afero {
	return backend
}

// SetOsFs switches to the native filesystem.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to a fresh in-memory filesystem.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}
