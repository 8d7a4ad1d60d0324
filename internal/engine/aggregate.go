package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"statement-engine/internal/domain"
)

// AggregateMonthly buckets the enriched table by calendar month and
// computes credit/debit totals plus an end-of-month balance, returned in
// chronological order.
//
// Totals sum absolute amounts per type and default to zero when a bucket
// has no rows of that type. The end balance depends on the mode:
//
//   - BalanceReported: the reported balance of the chronologically-last
//     row in the bucket (later input order breaks date ties); nil when
//     that row carries no balance.
//   - BalanceReconstructed: a running balance threaded across the whole
//     statement in ascending date order, per reconcileBalances.
//
// The second return value carries AmbiguousBalanceState warnings from the
// reconstructed mode; it is always empty for reported mode.
func AggregateMonthly(rows []domain.EnrichedTransaction, mode domain.BalanceMode) ([]domain.MonthlyAggregate, []domain.RowError) {
	buckets := make(map[domain.MonthKey]*domain.MonthlyAggregate)
	var keys []domain.MonthKey

	for _, row := range rows {
		key := domain.MonthKeyOf(row.Date)
		agg, exists := buckets[key]
		if !exists {
			agg = &domain.MonthlyAggregate{
				Key:         key,
				Month:       key.Label(),
				CreditTotal: decimal.Zero,
				DebitTotal:  decimal.Zero,
			}
			buckets[key] = agg
			keys = append(keys, key)
		}

		switch row.Type {
		case domain.Credit:
			agg.CreditTotal = agg.CreditTotal.Add(row.AbsAmount())
		case domain.Debit:
			agg.DebitTotal = agg.DebitTotal.Add(row.AbsAmount())
		}
	}

	var warnings []domain.RowError
	switch mode {
	case domain.BalanceReconstructed:
		warnings = reconcileBalances(rows, buckets)
	default:
		reportedBalances(rows, buckets)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	aggregates := make([]domain.MonthlyAggregate, 0, len(keys))
	for _, key := range keys {
		aggregates = append(aggregates, *buckets[key])
	}
	return aggregates, warnings
}

// reportedBalances assigns each bucket the reported balance of its last
// row. "Last" means maximum date, with later input order winning ties,
// since within-day ordering is not encoded in the date alone.
func reportedBalances(rows []domain.EnrichedTransaction, buckets map[domain.MonthKey]*domain.MonthlyAggregate) {
	lastRow := make(map[domain.MonthKey]domain.EnrichedTransaction)
	for _, row := range rows {
		key := domain.MonthKeyOf(row.Date)
		current, exists := lastRow[key]
		if !exists || !row.Date.Before(current.Date) {
			lastRow[key] = row
		}
	}

	for key, row := range lastRow {
		if row.Balance != nil {
			balance := *row.Balance
			buckets[key].EndBalance = &balance
		}
	}
}

// reconcileBalances threads a running balance through the statement in
// ascending date order (stable over input order within a date), seeded
// from the first row carrying a reported balance.
//
// The reconciliation rule is asymmetric: on credits the statement's
// reported balance is authoritative and is adopted outright (falling back
// to adding the amount when none is reported); on debits the running
// value is decremented by the amount instead of trusting the report.
// Zero amounts carry the balance forward unchanged. Rows seen before any
// balance state exists are no-ops recorded as AmbiguousBalanceState
// warnings regardless of their amount's sign (wider than the sign-less
// case the state is named for: with no prior balance, even a signed
// amount leaves nothing to reconcile against), and their buckets keep a
// nil end balance unless a later row establishes one.
func reconcileBalances(rows []domain.EnrichedTransaction, buckets map[domain.MonthKey]*domain.MonthlyAggregate) []domain.RowError {
	ordered := make([]domain.EnrichedTransaction, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	var warnings []domain.RowError
	var current *decimal.Decimal

	for _, row := range ordered {
		switch {
		case current == nil:
			if row.Balance == nil {
				warnings = append(warnings, domain.RowError{
					Line: row.Line,
					Kind: domain.AmbiguousBalanceState,
					Err:  "no prior balance to reconcile against",
				})
				continue
			}
			seed := *row.Balance
			current = &seed
		case row.Amount.Sign() > 0:
			if row.Balance != nil {
				adopted := *row.Balance
				current = &adopted
			} else {
				next := current.Add(row.Amount)
				current = &next
			}
		case row.Amount.Sign() < 0:
			next := current.Sub(row.Amount.Abs())
			current = &next
		}

		balance := *current
		buckets[domain.MonthKeyOf(row.Date)].EndBalance = &balance
	}

	return warnings
}
