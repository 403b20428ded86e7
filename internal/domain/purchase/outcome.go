package purchase

import (
	"errors"
)

// RawStatus is the platform-level result of a purchase call, before any
// domain interpretation.
type RawStatus int

const (
	RawGranted RawStatus = iota
	RawCancelled
	RawPending
	RawFailed
)

// RawResult is what the ledger reports for one purchase call.
type RawResult struct {
	Status RawStatus
	// Verified reports whether the platform could verify the granting
	// transaction. Only meaningful when Status is RawGranted.
	Verified bool
	Err      error
}

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeCancelled
	OutcomePending
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomePending:
		return "pending"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type FailureReason int

const (
	ReasonNone FailureReason = iota
	ReasonPurchasingDisabled
	ReasonLedgerError
	ReasonUnknown
)

func (r FailureReason) String() string {
	switch r {
	case ReasonPurchasingDisabled:
		return "purchasing_disabled"
	case ReasonLedgerError:
		return "ledger_error"
	case ReasonUnknown:
		return "unknown"
	default:
		return ""
	}
}

// Outcome is the closed result type every purchase attempt resolves to.
// Callers never see a raw transport error.
type Outcome struct {
	kind   OutcomeKind
	reason FailureReason
	detail error
}

func Success() Outcome {
	return Outcome{kind: OutcomeSuccess}
}

func Cancelled() Outcome {
	return Outcome{kind: OutcomeCancelled}
}

func Pending() Outcome {
	return Outcome{kind: OutcomePending}
}

func Disabled() Outcome {
	return Outcome{kind: OutcomeFailed, reason: ReasonPurchasingDisabled}
}

func LedgerFailure(err error) Outcome {
	return Outcome{kind: OutcomeFailed, reason: ReasonLedgerError, detail: err}
}

func UnknownFailure() Outcome {
	return Outcome{kind: OutcomeFailed, reason: ReasonUnknown}
}

func (o Outcome) Kind() OutcomeKind {
	return o.kind
}

func (o Outcome) Reason() FailureReason {
	return o.reason
}

func (o Outcome) Detail() error {
	return o.detail
}

func (o Outcome) Succeeded() bool {
	return o.kind == OutcomeSuccess
}

func (o Outcome) Pending() bool {
	return o.kind == OutcomePending
}

func (o Outcome) Failed() bool {
	return o.kind == OutcomeFailed
}

// MapRaw converts a platform purchase result into a domain outcome.
// An unverified grant is reported as pending, not success: reconciliation
// excludes it from granting access until the platform verifies it.
func MapRaw(raw RawResult) Outcome {
	switch raw.Status {
	case RawGranted:
		if raw.Verified {
			return Success()
		}
		return Pending()
	case RawCancelled:
		return Cancelled()
	case RawPending:
		return Pending()
	case RawFailed:
		err := raw.Err
		if err == nil {
			err = errors.New("ledger reported failure without detail")
		}
		return LedgerFailure(err)
	default:
		return UnknownFailure()
	}
}
