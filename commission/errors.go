/*
errors.go - Error types for the commission engine

PURPOSE:
  All error types in one place. The calculator, codec and reconstruction
  never fail; only persistence and lookups produce errors.

ERROR CATEGORIES:
  1. Lookup errors  - The record does not exist (ErrNotFound)
  2. Storage errors - The database refused or failed (*StorageError)
  3. Input errors   - An identifier that cannot name a record (ErrInvalidID)
                      or an unusable earnings filter (ErrInvalidFilter)

NOT AN ERROR:
  A breakdown blob that will not decode. That falls through to
  Reconstruct and is reported through Resolution.Source instead.

USAGE:
  if commission.IsNotFound(err) {
      // 404
  }
  var se *commission.StorageError
  if errors.As(err, &se) {
      log.Error("storage", zap.String("op", se.Op))
  }

SEE ALSO:
  - store.go: Store contract
  - store/sqlite/sqlite.go: Produces these errors
*/
package commission

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when no commission exists for the given id or
	// search criteria.
	ErrNotFound = errors.New("commission not found")

	// ErrInvalidID is returned when an identifier is not a positive integer.
	ErrInvalidID = errors.New("invalid commission id")

	// ErrInvalidFilter is returned when an earnings filter has a malformed
	// month, an unknown role or a negative limit.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrStorage is the sentinel wrapped by every StorageError.
	ErrStorage = errors.New("storage failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// StorageError reports a failed persistence operation. Op names the store
// method ("save", "update", ...). A failed write leaves no partial state.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("commission store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

// NewStorageError wraps err, returning nil for a nil err.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing commission.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsStorage returns true if the error came from the persistence layer.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}

// IsClientError returns true if the error is due to caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidID) || errors.Is(err, ErrInvalidFilter)
}
