package store

import "errors"

// Sentinel errors returned by the document store and state repositories.
// Callers should use [errors.Is] to match against these values.
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrConflictNotFound = errors.New("conflict not found")

	// ErrTargetExists is returned by Rename when a file already occupies
	// the destination path.
	ErrTargetExists = errors.New("rename target already exists")

	// ErrPathOutsideVault is returned for absolute paths or paths escaping
	// the vault root with "..".
	ErrPathOutsideVault = errors.New("path is outside the vault")

	// ErrReservedPath is returned for paths inside directories owned by the
	// sync machinery, such as the state dir or the shared-folder sync/ tree.
	ErrReservedPath = errors.New("path is reserved")
)

// Low-level database operation errors. These are wrapped by repository
// methods when a SQL-level operation fails before any domain logic applies.
var (
	// ErrBuildingSQLQuery is returned when squirrel cannot build a query.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	ErrExecutingQuery = errors.New("error executing sql query")

	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing fails. The
	// transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	ErrExecutingStatement = errors.New("failed to execute statement")

	ErrScanningRow  = errors.New("failed to scan row")
	ErrScanningRows = errors.New("failed to scan rows")
)
