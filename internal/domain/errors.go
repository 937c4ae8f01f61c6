package domain

import "errors"

// Domain errors (no external dependencies). Handlers map these to HTTP
// codes; infrastructure wraps its own failures around them with %w.
var (
	ErrNotFound = errors.New("resource not found")

	// Validation: caller-fixable, never partially applied.
	ErrInvalidInput           = errors.New("invalid input")
	ErrEmptyLineSet           = errors.New("document has no lines")
	ErrInvalidQuantityOrPrice = errors.New("line quantity must be positive and unit price non-negative")

	// State: the entity's current status forbids the operation.
	ErrInvalidTransition  = errors.New("invalid document status transition")
	ErrDocumentNotPayable = errors.New("document is not in a payable status")
	ErrAlreadyAssociated  = errors.New("bank transaction is already associated with a document")
	ErrNotIssued          = errors.New("document has not been issued")

	// Infrastructure: transient, the caller may retry.
	ErrAllocatorUnavailable = errors.New("reference counter store unavailable")
	ErrFeedUnavailable      = errors.New("bank feed unavailable")
	ErrSyncInProgress       = errors.New("a bank sync is already running")

	// Integrity: a reference collision means the allocator was bypassed.
	ErrDuplicateReference = errors.New("document reference already exists")
)
