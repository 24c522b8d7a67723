// Package extension provides the run-time registries that bind action names
// to handler factories and allow the engine to work with user-defined Go
// types (for example typed handler inputs).
//
// The registries are normally modified through the public APIs under the
// root actflow package, therefore most applications do not need to import
// this package directly.
package extension
