package remote

import (
	"fmt"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/jsonvalue"
)

// Outcome classifies how a lookup ended. Everything except OutcomeOK is a
// "no data" result for callers, but the reasons stay distinct for logs and
// run metrics.
type Outcome int

const (
	OutcomeOK Outcome = iota
	// OutcomeNotFound covers 404 and 403, which EDHREC returns for unknown
	// pages.
	OutcomeNotFound
	// OutcomeBadStatus is any other non-retryable status.
	OutcomeBadStatus
	// OutcomeExhausted means every retry hit a transient failure.
	OutcomeExhausted
	OutcomeTimeout
	OutcomeMalformed
	OutcomeCanceled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeBadStatus:
		return "bad_status"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeMalformed:
		return "malformed"
	case OutcomeCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the outcome of one lookup. Fetch methods never return errors;
// Err only explains a no-data outcome.
type Result struct {
	URL     string
	Outcome Outcome
	Status  int
	Value   jsonvalue.Value
	Err     error
}

// NoData reports whether the lookup produced nothing usable.
func (r Result) NoData() bool {
	return r.Outcome != OutcomeOK
}
