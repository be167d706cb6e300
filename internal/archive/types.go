// Package archive stores exported save files in an object store selected by
// configuration. Only this package imports the infra archive drivers; the
// rest of the module depends on the Store interface.
package archive

import "sudokucore/internal/archive/core"

type (
	// Driver identifies an archive backend.
	Driver = core.Driver
	// PutOptions configures an object write.
	PutOptions = core.PutOptions
	// URLOptions configures download URL pre-signing.
	URLOptions = core.URLOptions
	// Object describes stored object metadata.
	Object = core.Object
	// Store is the interface for archive backends.
	Store = core.Store
)

const (
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
)

var (
	// ErrUnsupported indicates an operation isn't supported by a driver.
	ErrUnsupported = core.ErrUnsupported
	// ErrNotFound indicates a missing key.
	ErrNotFound = core.ErrNotFound
	// ErrExists indicates Put targeted an existing key.
	ErrExists = core.ErrExists
)
