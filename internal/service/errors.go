package service

import "errors"

// Sentinel errors forming the stable outcome set surfaced to handlers.
// Handlers match with errors.Is and map each to one HTTP status; none are
// retried here (except the single status-engine retry) and none are
// downgraded to a generic failure.
var (
	// ErrInvalidCredentials covers both unknown user and wrong password so
	// a caller cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken covers missing, malformed, tampered, expired and
	// wrong-kind tokens, and replayed (already rotated) refresh tokens.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrForbidden means the token was valid but the role/ownership check
	// failed.
	ErrForbidden = errors.New("insufficient permissions")

	// ErrNotFound means a referenced user, contact, call or sale is absent.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidQuery means a malformed filter or sort parameter; it is
	// never silently ignored.
	ErrInvalidQuery = errors.New("invalid query parameter")

	// ErrContactHasCalls blocks non-cascading deletion of a contact that
	// still has ledger entries.
	ErrContactHasCalls = errors.New("contact has recorded calls; pass cascade to delete them")
)
