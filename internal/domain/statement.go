package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a statement row
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// PaymentMethod represents the settlement rail derived from the remarks text
type PaymentMethod string

const (
	UPIPayment    PaymentMethod = "UPI_PAYMENT"
	NEFTPayment   PaymentMethod = "NEFT_PAYMENT"
	ATMWithdrawal PaymentMethod = "ATM_WITHDRAWAL"
	IMPSPayment   PaymentMethod = "IMPS_PAYMENT"
	OtherPayment  PaymentMethod = "OTHER"
)

// Transaction represents one parsed statement row
type Transaction struct {
	Line    int              `json:"line"` // 1-based line in the source file
	Date    time.Time        `json:"date"`
	Amount  decimal.Decimal  `json:"amount"` // signed: debits negative, credits positive
	Type    TransactionType  `json:"type"`
	Balance *decimal.Decimal `json:"balance,omitempty"` // statement-reported, may be absent
	Remarks string           `json:"remarks"`
}

// AbsAmount returns the unsigned transaction amount.
func (t Transaction) AbsAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// EnrichedTransaction is a Transaction plus the classified payment method
// and the method-specific fields decoded from the remarks.
//
// Decoded fields are pointers so "not applicable" stays distinguishable
// from "extracted but empty". Only UPI rows carry all four; NEFT and IMPS
// rows carry Name; ATM withdrawals and Other carry none.
type EnrichedTransaction struct {
	Transaction
	Method              PaymentMethod `json:"payment_method"`
	ReferenceID         *string       `json:"reference_id,omitempty"`
	CounterpartyAccount *string       `json:"counterparty_account,omitempty"`
	UPIID               *string       `json:"upi_id,omitempty"`
	Name                *string       `json:"name,omitempty"`
}

// MonthKey identifies a calendar-month bucket. Ordering is by (Year, Month),
// never by the formatted label.
type MonthKey struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// Before reports whether k is chronologically earlier than other.
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// Label formats the bucket as MM/YY for chart axes.
func (k MonthKey) Label() string {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC).Format("01/06")
}

// BalanceMode selects how the monthly end balance is derived
type BalanceMode string

const (
	// BalanceReported takes the reported balance of the last row in each bucket.
	BalanceReported BalanceMode = "reported"
	// BalanceReconstructed threads a running balance across the whole
	// statement in ascending date order.
	BalanceReconstructed BalanceMode = "reconstructed"
)

// MonthlyAggregate is one point of the monthly series
type MonthlyAggregate struct {
	Key         MonthKey         `json:"-"`
	Month       string           `json:"month"` // MM/YY
	CreditTotal decimal.Decimal  `json:"credit_total"`
	DebitTotal  decimal.Decimal  `json:"debit_total"`
	EndBalance  *decimal.Decimal `json:"end_balance"` // nil when unknown
}

// MethodCount is one slice of the payment-method share summary
type MethodCount struct {
	Method PaymentMethod `json:"method"`
	Count  int           `json:"count"`
}
