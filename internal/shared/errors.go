package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Library load errors
	ErrLibraryNotFound = fmt.Errorf("library file not found")
	ErrFileRead        = fmt.Errorf("failed to read file")
	ErrParseFailed     = fmt.Errorf("failed to parse library XML")
	ErrUnsafeXML       = fmt.Errorf("unsafe XML construct rejected")

	// Database errors
	ErrDatabaseInit    = fmt.Errorf("database initialization failed")
	ErrDatabaseQuery   = fmt.Errorf("database query failed")
	ErrMigrationFailed = fmt.Errorf("migration failed")
	ErrNotFound        = fmt.Errorf("record not found")
	ErrDuplicateEntry  = fmt.Errorf("duplicate entry")

	// Report and export errors
	ErrReportNotFound     = fmt.Errorf("report not found")
	ErrExportFailed       = fmt.Errorf("export failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
