package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"statement-engine/internal/domain"
	"statement-engine/pkg/logger"
)

var requiredColumns = []string{"date", "amount", "type", "balance", "remarks"}

// StatementParser reads a tabular bank-statement export (CSV or XLSX)
// into transactions. Rows with unparseable dates or amounts are dropped
// and collected as row errors; a missing required column or an empty
// table is a fatal *domain.InputFormatError.
type StatementParser struct {
	dateLayout string
}

func NewStatementParser(dateLayout string) *StatementParser {
	return &StatementParser{dateLayout: dateLayout}
}

// ParseFile reads and parses the statement at path.
func (p *StatementParser) ParseFile(path string) ([]domain.Transaction, []domain.RowError, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("file", path).Error("Failed to read statement file")
		return nil, nil, fmt.Errorf("failed to read statement file: %w", err)
	}
	return p.Parse(data)
}

// Parse detects the file type by magic bytes and parses accordingly.
func (p *StatementParser) Parse(data []byte) ([]domain.Transaction, []domain.RowError, error) {
	if isExcelFile(data) {
		return p.parseExcel(data)
	}
	return p.parseCSV(data)
}

func (p *StatementParser) parseCSV(data []byte) ([]domain.Transaction, []domain.RowError, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, &domain.InputFormatError{Reason: "missing header row"}
	}

	columnMap := mapColumns(header)
	if missing := missingColumns(columnMap); len(missing) > 0 {
		return nil, nil, &domain.InputFormatError{
			Reason: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")),
		}
	}

	var (
		transactions []domain.Transaction
		rowErrors    []domain.RowError
	)
	lineNumber := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		lineNumber++
		if err != nil {
			logger.GetLogger().WithError(err).WithField("line", lineNumber).Warn("Failed to read CSV row, skipping")
			continue
		}

		tx, rowErr := p.parseRecord(record, columnMap, lineNumber)
		if rowErr != nil {
			rowErrors = append(rowErrors, *rowErr)
			continue
		}
		transactions = append(transactions, *tx)
	}

	if len(transactions) == 0 && len(rowErrors) == 0 {
		return nil, nil, &domain.InputFormatError{Reason: "statement has no data rows"}
	}

	return transactions, rowErrors, nil
}

func (p *StatementParser) parseExcel(data []byte) ([]domain.Transaction, []domain.RowError, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, &domain.InputFormatError{Reason: "no sheets found in excel file"}
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read excel rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, &domain.InputFormatError{Reason: "missing header row"}
	}

	columnMap := mapColumns(rows[0])
	if missing := missingColumns(columnMap); len(missing) > 0 {
		return nil, nil, &domain.InputFormatError{
			Reason: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")),
		}
	}

	var (
		transactions []domain.Transaction
		rowErrors    []domain.RowError
	)

	for i, record := range rows[1:] {
		lineNumber := i + 2

		tx, rowErr := p.parseRecord(record, columnMap, lineNumber)
		if rowErr != nil {
			rowErrors = append(rowErrors, *rowErr)
			continue
		}
		transactions = append(transactions, *tx)
	}

	if len(transactions) == 0 && len(rowErrors) == 0 {
		return nil, nil, &domain.InputFormatError{Reason: "statement has no data rows"}
	}

	return transactions, rowErrors, nil
}

func (p *StatementParser) parseRecord(record []string, columnMap map[string]int, lineNumber int) (*domain.Transaction, *domain.RowError) {
	dateStr := strings.TrimSpace(fieldAt(record, columnMap["date"]))
	date, err := time.Parse(p.dateLayout, dateStr)
	if err != nil {
		rowErr := domain.NewRowError(lineNumber, domain.MalformedDate,
			fmt.Errorf("invalid date %q: expected layout %s", dateStr, p.dateLayout))
		return nil, &rowErr
	}

	amountStr := strings.TrimSpace(fieldAt(record, columnMap["amount"]))
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		rowErr := domain.NewRowError(lineNumber, domain.MalformedAmount,
			fmt.Errorf("invalid amount %q", amountStr))
		return nil, &rowErr
	}

	var balance *decimal.Decimal
	balanceStr := strings.TrimSpace(fieldAt(record, columnMap["balance"]))
	if balanceStr != "" {
		parsed, err := decimal.NewFromString(balanceStr)
		if err != nil {
			rowErr := domain.NewRowError(lineNumber, domain.MalformedAmount,
				fmt.Errorf("invalid balance %q", balanceStr))
			return nil, &rowErr
		}
		balance = &parsed
	}

	txType := normalizeType(fieldAt(record, columnMap["type"]), amount)

	return &domain.Transaction{
		Line:    lineNumber,
		Date:    date,
		Amount:  normalizeAmount(amount, txType),
		Type:    txType,
		Balance: balance,
		Remarks: strings.TrimSpace(fieldAt(record, columnMap["remarks"])),
	}, nil
}

// normalizeType reconciles the type column with the amount sign. The type
// column wins when it carries a known token (CR/DR or CREDIT/DEBIT);
// otherwise the sign of the amount decides.
func normalizeType(raw string, amount decimal.Decimal) domain.TransactionType {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "CR", "CREDIT":
		return domain.Credit
	case "DR", "DEBIT":
		return domain.Debit
	}
	if amount.IsNegative() {
		return domain.Debit
	}
	return domain.Credit
}

// normalizeAmount makes the stored amount sign agree with the type:
// debits negative, credits positive.
func normalizeAmount(amount decimal.Decimal, txType domain.TransactionType) decimal.Decimal {
	if txType == domain.Debit && amount.IsPositive() {
		return amount.Neg()
	}
	if txType == domain.Credit && amount.IsNegative() {
		return amount.Neg()
	}
	return amount
}

func fieldAt(record []string, index int) string {
	if index >= len(record) {
		return ""
	}
	return record[index]
}

func mapColumns(header []string) map[string]int {
	columnMap := make(map[string]int)
	for i, col := range header {
		normalized := strings.ToLower(strings.TrimSpace(col))
		columnMap[normalized] = i
	}
	return columnMap
}

func missingColumns(columnMap map[string]int) []string {
	var missing []string
	for _, col := range requiredColumns {
		if _, exists := columnMap[col]; !exists {
			missing = append(missing, col)
		}
	}
	return missing
}

// isExcelFile checks magic bytes for xlsx (ZIP/PK header) or xls (OLE2).
func isExcelFile(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	if data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04 {
		return true
	}
	if data[0] == 0xD0 && data[1] == 0xCF && data[2] == 0x11 && data[3] == 0xE0 {
		return true
	}
	return false
}
