package domain

import (
	"errors"
	"fmt"
)

// ErrMalformedRemark marks a remark that cannot be positionally unpacked
// for its classified payment method.
var ErrMalformedRemark = errors.New("malformed remark")

// InputFormatError means the table itself is unusable (missing required
// columns or no data rows). It aborts the whole run.
type InputFormatError struct {
	Reason string
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("invalid input format: %s", e.Reason)
}

// RowErrorKind classifies a non-fatal per-row failure
type RowErrorKind string

const (
	MalformedDate         RowErrorKind = "MALFORMED_DATE"
	MalformedAmount       RowErrorKind = "MALFORMED_AMOUNT"
	MalformedRemark       RowErrorKind = "MALFORMED_REMARK"
	AmbiguousBalanceState RowErrorKind = "AMBIGUOUS_BALANCE_STATE"
)

// RowError records a row-level problem. Rows with malformed dates or
// amounts are dropped from the table; malformed remarks keep their row
// with decoded fields absent; ambiguous balance states are warnings from
// the reconstructed-balance pass.
type RowError struct {
	Line int          `json:"line"`
	Kind RowErrorKind `json:"kind"`
	Err  string       `json:"error"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Err)
}

func NewRowError(line int, kind RowErrorKind, err error) RowError {
	return RowError{Line: line, Kind: kind, Err: err.Error()}
}
