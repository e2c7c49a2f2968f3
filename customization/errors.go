package customization

import "errors"

// ErrorKind classifies why an apply attempt failed. Every failure is local to
// the single attempt — the meal and wallet are left as they were.
type ErrorKind string

const (
	// KindNotEligible: cutoff passed or meal already customized
	KindNotEligible ErrorKind = "NOT_ELIGIBLE"
	// KindEmptyRequest: nothing selected — an empty customization is not a valid commit
	KindEmptyRequest ErrorKind = "EMPTY_REQUEST"
	// KindPaymentFailed: insufficient balance, debit failure or debit timeout
	KindPaymentFailed ErrorKind = "PAYMENT_FAILED"
	// KindPersistenceFailed: meal write failed; any debit has been refunded
	KindPersistenceFailed ErrorKind = "PERSISTENCE_FAILED"
)

// ApplyError is the typed outcome of a failed apply, so the HTTP layer can
// render a specific, actionable message instead of a generic 500.
type ApplyError struct {
	Kind   ErrorKind
	Reason string
}

func (e *ApplyError) Error() string {
	return string(e.Kind) + ": " + e.Reason
}

func notEligible(reason string) *ApplyError {
	return &ApplyError{Kind: KindNotEligible, Reason: reason}
}

func emptyRequest() *ApplyError {
	return &ApplyError{Kind: KindEmptyRequest, Reason: "no extras or alternative selected"}
}

func paymentFailed(reason string) *ApplyError {
	return &ApplyError{Kind: KindPaymentFailed, Reason: reason}
}

func persistenceFailed(reason string) *ApplyError {
	return &ApplyError{Kind: KindPersistenceFailed, Reason: reason}
}

// AsApplyError unwraps err into an *ApplyError if it is one
func AsApplyError(err error) (*ApplyError, bool) {
	var ae *ApplyError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
