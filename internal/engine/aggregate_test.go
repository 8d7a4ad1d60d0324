package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"statement-engine/internal/domain"
)

func TestAggregateMonthly_Totals(t *testing.T) {
	transactions := []domain.Transaction{
		tx(2, "2024-01-05", 500, domain.Credit, nil, "UPI/1/a/b/c"),
		tx(3, "2024-01-20", -200, domain.Debit, nil, "ATM WDR 1"),
		tx(4, "2024-02-03", 300, domain.Credit, nil, "NEFT_IN:N1/ACME"),
		tx(5, "2024-02-10", -100, domain.Debit, nil, "ATM WDR 2"),
		tx(6, "2024-02-14", 50, domain.Credit, nil, "other"),
	}
	enriched, _ := Enrich(transactions)

	aggregates, warnings := AggregateMonthly(enriched, domain.BalanceReported)

	assert.Empty(t, warnings)
	assert.Len(t, aggregates, 2)

	jan := aggregates[0]
	assert.Equal(t, "01/24", jan.Month)
	assert.True(t, jan.CreditTotal.Equal(decimal.NewFromInt(500)))
	assert.True(t, jan.DebitTotal.Equal(decimal.NewFromInt(200)), "debit totals sum absolute amounts")

	feb := aggregates[1]
	assert.Equal(t, "02/24", feb.Month)
	assert.True(t, feb.CreditTotal.Equal(decimal.NewFromInt(350)))
	assert.True(t, feb.DebitTotal.Equal(decimal.NewFromInt(100)))

	// Bucket totals must add up to the per-type table totals.
	creditSum := decimal.Zero
	debitSum := decimal.Zero
	for _, agg := range aggregates {
		creditSum = creditSum.Add(agg.CreditTotal)
		debitSum = debitSum.Add(agg.DebitTotal)
	}
	assert.True(t, creditSum.Equal(decimal.NewFromInt(850)))
	assert.True(t, debitSum.Equal(decimal.NewFromInt(300)))
}

func TestAggregateMonthly_ZeroDefaultForMissingType(t *testing.T) {
	transactions := []domain.Transaction{
		tx(2, "2024-03-01", 500, domain.Credit, nil, "other"),
	}
	enriched, _ := Enrich(transactions)

	aggregates, _ := AggregateMonthly(enriched, domain.BalanceReported)

	assert.Len(t, aggregates, 1)
	assert.True(t, aggregates[0].DebitTotal.Equal(decimal.Zero), "no debits means zero, not absent")
}

func TestAggregateMonthly_ChronologicalAcrossYears(t *testing.T) {
	// A 12/23 bucket must sort before 01/24 even though "12" > "01".
	transactions := []domain.Transaction{
		tx(2, "2024-01-10", 100, domain.Credit, nil, "other"),
		tx(3, "2023-12-15", 200, domain.Credit, nil, "other"),
		tx(4, "2023-11-02", 300, domain.Credit, nil, "other"),
	}
	enriched, _ := Enrich(transactions)

	aggregates, _ := AggregateMonthly(enriched, domain.BalanceReported)

	labels := make([]string, 0, len(aggregates))
	for _, agg := range aggregates {
		labels = append(labels, agg.Month)
	}
	assert.Equal(t, []string{"11/23", "12/23", "01/24"}, labels)

	for i := 1; i < len(aggregates); i++ {
		assert.True(t, aggregates[i-1].Key.Before(aggregates[i].Key))
	}
}

func TestAggregateMonthly_ReportedBalance(t *testing.T) {
	transactions := []domain.Transaction{
		tx(2, "2024-01-05", 500, domain.Credit, balancePtr(1500), "other"),
		tx(3, "2024-01-20", -200, domain.Debit, balancePtr(1300), "other"),
		tx(4, "2024-02-02", 100, domain.Credit, balancePtr(1400), "other"),
	}
	enriched, _ := Enrich(transactions)

	aggregates, _ := AggregateMonthly(enriched, domain.BalanceReported)

	assert.True(t, aggregates[0].EndBalance.Equal(decimal.NewFromInt(1300)), "last row of January wins")
	assert.True(t, aggregates[1].EndBalance.Equal(decimal.NewFromInt(1400)))
}

func TestAggregateMonthly_ReportedBalance_TieBreakByInputOrder(t *testing.T) {
	// Two rows on the same date: the later one in the file wins.
	transactions := []domain.Transaction{
		tx(2, "2024-01-20", 100, domain.Credit, balancePtr(1000), "other"),
		tx(3, "2024-01-20", -50, domain.Debit, balancePtr(950), "other"),
	}
	enriched, _ := Enrich(transactions)

	aggregates, _ := AggregateMonthly(enriched, domain.BalanceReported)

	assert.True(t, aggregates[0].EndBalance.Equal(decimal.NewFromInt(950)))
}

func TestAggregateMonthly_ReportedBalance_NullWhenLastRowHasNone(t *testing.T) {
	transactions := []domain.Transaction{
		tx(2, "2024-01-05", 500, domain.Credit, balancePtr(1500), "other"),
		tx(3, "2024-01-20", -200, domain.Debit, nil, "other"),
	}
	enriched, _ := Enrich(transactions)

	aggregates, _ := AggregateMonthly(enriched, domain.BalanceReported)

	assert.Nil(t, aggregates[0].EndBalance, "explicit absence, not zero")
}

func TestAggregateMonthly_ReconstructedBalance(t *testing.T) {
	// Reported balance wins on credits, computed balance wins on debits.
	transactions := []domain.Transaction{
		tx(2, "2024-01-05", 500, domain.Credit, balancePtr(1500), "other"),
		tx(3, "2024-01-20", -200, domain.Debit, nil, "other"),
	}
	enriched, _ := Enrich(transactions)

	aggregates, warnings := AggregateMonthly(enriched, domain.BalanceReconstructed)

	assert.Empty(t, warnings)
	assert.True(t, aggregates[0].EndBalance.Equal(decimal.NewFromInt(1300)), "1500 seeded, 200 debited")
}

func TestAggregateMonthly_ReconstructedBalance_CreditAdoptsReported(t *testing.T) {
	transactions := []domain.Transaction{
		tx(2, "2024-01-05", 500, domain.Credit, balancePtr(1500), "other"),
		// Reported balance disagrees with 1500+100; the report wins on credits.
		tx(3, "2024-01-10", 100, domain.Credit, balancePtr(1700), "other"),
		tx(4, "2024-01-15", -300, domain.Debit, balancePtr(9999), "other"), // report ignored on debits
	}
	enriched, _ := Enrich(transactions)

	aggregates, _ := AggregateMonthly(enriched, domain.BalanceReconstructed)

	assert.True(t, aggregates[0].EndBalance.Equal(decimal.NewFromInt(1400)), "1700 adopted, then 300 debited")
}

func TestAggregateMonthly_ReconstructedBalance_SpansBuckets(t *testing.T) {
	transactions := []domain.Transaction{
		tx(2, "2024-01-05", 500, domain.Credit, balancePtr(1500), "other"),
		tx(3, "2024-02-10", -200, domain.Debit, nil, "other"),
		tx(4, "2024-02-20", -100, domain.Debit, nil, "other"),
	}
	enriched, _ := Enrich(transactions)

	aggregates, _ := AggregateMonthly(enriched, domain.BalanceReconstructed)

	assert.True(t, aggregates[0].EndBalance.Equal(decimal.NewFromInt(1500)))
	assert.True(t, aggregates[1].EndBalance.Equal(decimal.NewFromInt(1200)), "running value crosses bucket boundaries")
}

func TestAggregateMonthly_ReconstructedBalance_AmbiguousBeforeSeed(t *testing.T) {
	transactions := []domain.Transaction{
		tx(2, "2024-01-05", -200, domain.Debit, nil, "other"),
		tx(3, "2024-01-10", 500, domain.Credit, balancePtr(1500), "other"),
	}
	enriched, _ := Enrich(transactions)

	aggregates, warnings := AggregateMonthly(enriched, domain.BalanceReconstructed)

	assert.Len(t, warnings, 1)
	assert.Equal(t, domain.AmbiguousBalanceState, warnings[0].Kind)
	assert.Equal(t, 2, warnings[0].Line)
	// The later seeded row still establishes the bucket's end balance.
	assert.True(t, aggregates[0].EndBalance.Equal(decimal.NewFromInt(1500)))
}

func TestAggregateMonthly_ReconstructedBalance_ZeroAmountCarriesForward(t *testing.T) {
	transactions := []domain.Transaction{
		tx(2, "2024-01-05", 500, domain.Credit, balancePtr(1500), "other"),
		// Zero amount: the running value carries forward unchanged and
		// the reported balance is not adopted.
		tx(3, "2024-02-10", 0, domain.Credit, balancePtr(9999), "other"),
	}
	enriched, _ := Enrich(transactions)

	aggregates, warnings := AggregateMonthly(enriched, domain.BalanceReconstructed)

	assert.Empty(t, warnings)
	assert.Len(t, aggregates, 2)
	assert.True(t, aggregates[0].EndBalance.Equal(decimal.NewFromInt(1500)))
	assert.True(t, aggregates[1].EndBalance.Equal(decimal.NewFromInt(1500)), "zero-amount row still stamps its bucket")
}

func TestAggregateMonthly_ReconstructedBalance_Idempotent(t *testing.T) {
	transactions := []domain.Transaction{
		tx(2, "2024-01-05", 500, domain.Credit, balancePtr(1500), "other"),
		tx(3, "2024-01-20", -200, domain.Debit, nil, "other"),
		tx(4, "2024-02-01", 300, domain.Credit, nil, "other"),
		tx(5, "2024-02-11", -50, domain.Debit, nil, "other"),
	}
	enriched, _ := Enrich(transactions)

	first, _ := AggregateMonthly(enriched, domain.BalanceReconstructed)
	second, _ := AggregateMonthly(enriched, domain.BalanceReconstructed)

	assert.Equal(t, len(first), len(second))
	for i := range first {
		assert.True(t, first[i].EndBalance.Equal(*second[i].EndBalance))
	}
}

func TestAggregateMonthly_EmptyTable(t *testing.T) {
	aggregates, warnings := AggregateMonthly(nil, domain.BalanceReconstructed)
	assert.Empty(t, aggregates)
	assert.Empty(t, warnings)
}
