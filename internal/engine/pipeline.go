package engine

import (
	"statement-engine/internal/classifier"
	"statement-engine/internal/decoder"
	"statement-engine/internal/domain"
	"statement-engine/pkg/logger"
)

// Enrich classifies every transaction's payment method and decodes the
// method-specific fields from its remarks onto the returned table. The
// enriched table is the single source of truth for partitions and
// aggregates; it is built once per statement and not mutated afterwards.
//
// Decoding failures do not drop the row: it keeps its classified method
// with decoded fields absent, and the failure is collected.
func Enrich(transactions []domain.Transaction) ([]domain.EnrichedTransaction, []domain.RowError) {
	enriched := make([]domain.EnrichedTransaction, 0, len(transactions))
	var rowErrors []domain.RowError

	for _, tx := range transactions {
		row := domain.EnrichedTransaction{
			Transaction: tx,
			Method:      classifier.Classify(tx.Remarks),
		}

		switch row.Method {
		case domain.UPIPayment:
			details, err := decoder.DecodeUPI(tx.Remarks)
			if err != nil {
				rowErrors = append(rowErrors, domain.NewRowError(tx.Line, domain.MalformedRemark, err))
				break
			}
			row.ReferenceID = &details.ReferenceID
			row.CounterpartyAccount = &details.CounterpartyAccount
			row.UPIID = &details.UPIID
			row.Name = &details.Name
		case domain.NEFTPayment, domain.IMPSPayment:
			name := decoder.DecodeTrailingName(tx.Remarks)
			row.Name = &name
		}

		enriched = append(enriched, row)
	}

	if len(rowErrors) > 0 {
		logger.GetLogger().WithField("count", len(rowErrors)).Warn("Some remarks could not be decoded")
	}

	return enriched, rowErrors
}

// MethodCounts summarizes how many rows settled over each payment method.
// Only methods present in the table appear; counts are stable across
// calls because the enriched table is immutable.
func MethodCounts(rows []domain.EnrichedTransaction) []domain.MethodCount {
	counts := make(map[domain.PaymentMethod]int)
	var order []domain.PaymentMethod
	for _, row := range rows {
		if _, seen := counts[row.Method]; !seen {
			order = append(order, row.Method)
		}
		counts[row.Method]++
	}

	summary := make([]domain.MethodCount, 0, len(order))
	for _, method := range order {
		summary = append(summary, domain.MethodCount{Method: method, Count: counts[method]})
	}
	return summary
}
