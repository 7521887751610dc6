package ledger

import "errors"

// Every failure crossing the ledger boundary wraps exactly one of these
// sentinels; match with errors.Is.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrRecipientNotFound  = errors.New("recipient not found")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrConflict           = errors.New("conflict")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

var reasons = []struct {
	err    error
	reason string
}{
	{ErrInvalidInput, "InvalidInput"},
	{ErrUnauthenticated, "Unauthenticated"},
	{ErrRecipientNotFound, "RecipientNotFound"},
	{ErrInsufficientFunds, "InsufficientFunds"},
	{ErrConflict, "Conflict"},
	{ErrStorageUnavailable, "StorageUnavailable"},
}

// Reason returns the stable machine-readable reason string for err. Anything
// that is not one of the ledger sentinels is reported as a storage fault.
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return "StorageUnavailable"
}
