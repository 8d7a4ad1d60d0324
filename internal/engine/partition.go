package engine

import "statement-engine/internal/domain"

// Partitions are read-only projections of the enriched table, rebuilt on
// every call. They are never edited in place: any change to the
// underlying statement goes through re-ingestion, so a partition can
// never drift from its source.

// partitionBy groups rows by an arbitrary key. Every row lands in exactly
// one partition; an empty table yields an empty map.
func partitionBy[K comparable](rows []domain.EnrichedTransaction, keyFn func(domain.EnrichedTransaction) K) map[K][]domain.EnrichedTransaction {
	partitions := make(map[K][]domain.EnrichedTransaction)
	for _, row := range rows {
		key := keyFn(row)
		partitions[key] = append(partitions[key], row)
	}
	return partitions
}

// PartitionByType groups the enriched table by credit/debit.
func PartitionByType(rows []domain.EnrichedTransaction) map[domain.TransactionType][]domain.EnrichedTransaction {
	return partitionBy(rows, func(row domain.EnrichedTransaction) domain.TransactionType {
		return row.Type
	})
}

// PartitionByMethod groups the enriched table by payment method.
func PartitionByMethod(rows []domain.EnrichedTransaction) map[domain.PaymentMethod][]domain.EnrichedTransaction {
	return partitionBy(rows, func(row domain.EnrichedTransaction) domain.PaymentMethod {
		return row.Method
	})
}
