package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Config errors
	ConfigSaveError
	GroupsConfigError

	// Local storage errors
	LocalOpenError
	LocalLoadError
	LocalSaveError
	LocalNotConnectedError

	// Remote blob errors
	RemoteConfigError
	RemoteNotInitializedError
	RemoteRequestError
	RemoteStatusError
	RemoteDecodeError
	RemoteConflictError
	RemoteMissingError

	// Session credential errors
	SessionTokenError

	// Record store errors
	StoreMissingCatalogError
	StoreDuplicateError
	StoreNotFoundError
	StorePersistError
	StoreEncodeError
	StoreModeError

	// Import/export errors
	ImportFormatError
	ImportReadError
	ImportModeError
	ExportWriteError

	// HTTP API errors
	ServeError
)
