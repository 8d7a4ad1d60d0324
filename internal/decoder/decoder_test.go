package decoder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"statement-engine/internal/domain"
)

func TestDecodeUPI(t *testing.T) {
	details, err := DecodeUPI("UPI/400123456789/AC123/alice@upi/Alice")

	assert.NoError(t, err)
	assert.Equal(t, "400123456789", details.ReferenceID)
	assert.Equal(t, "AC123", details.CounterpartyAccount)
	assert.Equal(t, "alice@upi", details.UPIID)
	assert.Equal(t, "Alice", details.Name)
}

func TestDecodeUPI_ExtraSegmentsIgnored(t *testing.T) {
	details, err := DecodeUPI("UPI/123/AC1/a@upi/Alice/trailing/junk")

	assert.NoError(t, err)
	assert.Equal(t, "Alice", details.Name)
}

func TestDecodeUPI_TooFewSegments(t *testing.T) {
	details, err := DecodeUPI("UPI/onlytwo")

	assert.Nil(t, details)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedRemark))
}

func TestDecodeUPI_EmptySegmentsStillUnpack(t *testing.T) {
	// Empty but present segments are "extracted but empty", not malformed.
	details, err := DecodeUPI("UPI/123//a@upi/")

	assert.NoError(t, err)
	assert.Equal(t, "", details.CounterpartyAccount)
	assert.Equal(t, "", details.Name)
}

func TestDecodeTrailingName(t *testing.T) {
	assert.Equal(t, "ACME CORP", DecodeTrailingName("NEFT_IN:N12345/ACME CORP"))
	assert.Equal(t, "Bob", DecodeTrailingName("IMPS-IN/912345678/Bob"))
}

func TestDecodeTrailingName_NoDelimiter(t *testing.T) {
	// Degraded behavior: the whole remark is the name.
	assert.Equal(t, "NEFT_IN:N12345", DecodeTrailingName("NEFT_IN:N12345"))
}
