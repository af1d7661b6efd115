// Package blob is the export artifact store facade. Callers depend on Store
// and obtain a backend through Open or one of the constructors here.
package blob

import "gostspec/internal/blob/core"

type (
	// Driver names an artifact store backend.
	Driver = core.Driver
	// PutOptions carries optional attributes stored with an artifact.
	PutOptions = core.PutOptions
	// SignedURLOptions configures a shareable download link.
	SignedURLOptions = core.SignedURLOptions
	// Info describes a stored artifact.
	Info = core.Info
	// Store persists exported artifacts.
	Store = core.Store
)

const (
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
)

var (
	ErrUnsupported = core.ErrUnsupported
	ErrExists      = core.ErrExists
	ErrNotFound    = core.ErrNotFound
	ErrInvalidKey  = core.ErrInvalidKey
)
