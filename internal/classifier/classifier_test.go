package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"statement-engine/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		remark   string
		expected domain.PaymentMethod
	}{
		{"upi payment", "UPI/400123456789/AC123/alice@upi/Alice", domain.UPIPayment},
		{"neft inbound", "NEFT_IN:N123456789/ACME CORP", domain.NEFTPayment},
		{"atm withdrawal", "ATM WDR 9001 MG ROAD", domain.ATMWithdrawal},
		{"imps inbound", "IMPS-IN/912345678/Bob", domain.IMPSPayment},
		{"unrecognized", "CHEQUE DEPOSIT 44531", domain.OtherPayment},
		{"empty", "", domain.OtherPayment},
		{"upi marker without id", "UPI/refund pending", domain.OtherPayment},
		{"neft marker without token", "NEFT_IN: ", domain.OtherPayment},
		{"marker not at start", "REV-UPI/400123/AC1/a@upi/A", domain.UPIPayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.remark))
		})
	}
}

func TestClassify_RulePrecedence(t *testing.T) {
	// Remark matching both the UPI and ATM patterns must classify as UPI,
	// since the UPI rule is evaluated first.
	remark := "UPI/123 ATM WDR 9001"
	assert.Equal(t, domain.UPIPayment, Classify(remark))
}

func TestClassify_IsDeterministic(t *testing.T) {
	remark := "IMPS-IN/555000111/Carol"
	first := Classify(remark)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(remark))
	}
}
