package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown backend or export format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidConfig indicates settings failed validation.
	// It is the only batch-fatal error of a run.
	ErrInvalidConfig = errors.New("invalid configuration")

	// Per-document errors. These are downgraded to report entries.

	// ErrExtraction indicates the PDF could not be read or parsed.
	ErrExtraction = errors.New("extraction failed")

	// ErrBackup indicates the original could not be backed up.
	// The rename is not attempted.
	ErrBackup = errors.New("backup failed")

	// ErrRename indicates the filesystem rename failed.
	ErrRename = errors.New("rename failed")

	// ErrTargetExists indicates the target path appeared after planning.
	ErrTargetExists = errors.New("target already exists")

	// ErrCancelled indicates the run was stopped before the document started.
	ErrCancelled = errors.New("cancelled")
)
