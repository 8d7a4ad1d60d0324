package decoder

import (
	"fmt"
	"strings"

	"statement-engine/internal/domain"
)

// UPIDetails holds the structured fields encoded in a UPI remark
type UPIDetails struct {
	ReferenceID         string
	CounterpartyAccount string
	UPIID               string
	Name                string
}

// DecodeUPI unpacks a '/'-delimited UPI remark. The first segment is the
// rail marker and is discarded; segments 2-5 are the reference id,
// counterparty account, UPI id and name. Remarks with fewer than five
// segments cannot be unpacked positionally and fail with ErrMalformedRemark.
func DecodeUPI(remark string) (*UPIDetails, error) {
	parts := strings.Split(remark, "/")
	if len(parts) < 5 {
		return nil, fmt.Errorf("%w: expected at least 5 '/'-separated segments, got %d", domain.ErrMalformedRemark, len(parts))
	}

	return &UPIDetails{
		ReferenceID:         parts[1],
		CounterpartyAccount: parts[2],
		UPIID:               parts[3],
		Name:                parts[4],
	}, nil
}

// DecodeTrailingName returns the counterparty name from a NEFT or IMPS
// remark, encoded as the last '/'-segment. A remark with no delimiter is
// returned whole: a bare name is still usable, so this degrades instead
// of erroring.
func DecodeTrailingName(remark string) string {
	parts := strings.Split(remark, "/")
	return parts[len(parts)-1]
}
