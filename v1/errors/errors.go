package errors

import "errors"

// Every sentinel below marks a logic error in the calling program, never an
// environmental failure. The cell and owner packages panic with these values
// wrapped in context; only the Try constructors return ErrOwnerActive as a
// plain error value.
var (
	// ErrOwnerActive reports an attempt to create a second live owner for a
	// marker that is already claimed in the current scope.
	ErrOwnerActive = errors.New("warden: owner already active for marker")
	// ErrOwnerClosed reports use of an owner after Release.
	ErrOwnerClosed = errors.New("warden: owner already released")
	// ErrCellAliased reports the same cell passed more than once to Rw2 or Rw3.
	ErrCellAliased = errors.New("warden: same cell borrowed twice")
	// ErrBorrowConflict reports overlapping views that are not all read-only,
	// including releasing an owner while views are still active.
	ErrBorrowConflict = errors.New("warden: conflicting borrow")
	// ErrWrongGoroutine reports a pinned owner used outside the goroutine
	// that created it.
	ErrWrongGoroutine = errors.New("warden: owner used outside its goroutine")
	// ErrForeignCell reports a cell whose tag the owner does not recognize.
	ErrForeignCell = errors.New("warden: cell not owned by this owner")
)
