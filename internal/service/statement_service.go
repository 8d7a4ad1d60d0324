package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"statement-engine/internal/domain"
	"statement-engine/internal/engine"
	"statement-engine/internal/parser"
	"statement-engine/internal/repository"
	"statement-engine/pkg/logger"
)

// ErrNoUpload means the client has not uploaded a statement yet.
var ErrNoUpload = errors.New("no statement uploaded")

// Report bundles everything derived from one statement run. RowErrors
// always travels with the data so failed rows surface instead of
// silently producing an empty chart.
type Report struct {
	Rows      []domain.EnrichedTransaction `json:"rows,omitempty"`
	Methods   []domain.MethodCount         `json:"methods,omitempty"`
	Monthly   []domain.MonthlyAggregate    `json:"monthly,omitempty"`
	RowErrors []domain.RowError            `json:"row_errors,omitempty"`
}

type StatementService interface {
	SaveUpload(clientID, fileName string, src io.Reader) (*repository.Upload, error)
	GetTable(clientID string) (*Report, error)
	GetMethodSummary(clientID string) (*Report, error)
	GetMonthlySeries(clientID string, mode domain.BalanceMode) (*Report, error)
}

type statementService struct {
	repo      repository.UploadRepository
	parser    *parser.StatementParser
	uploadDir string
}

func NewStatementService(repo repository.UploadRepository, p *parser.StatementParser, uploadDir string) StatementService {
	return &statementService{
		repo:      repo,
		parser:    p,
		uploadDir: uploadDir,
	}
}

// SaveUpload stores the statement under a fresh name and registers it as
// the client's one current file, removing the file it replaces.
func (s *statementService) SaveUpload(clientID, fileName string, src io.Reader) (*repository.Upload, error) {
	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	storedName := uuid.New().String() + filepath.Ext(fileName)
	storedPath := filepath.Join(s.uploadDir, storedName)

	dst, err := os.Create(storedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(storedPath)
		return nil, fmt.Errorf("failed to write upload file: %w", err)
	}

	upload := &repository.Upload{
		ClientID: clientID,
		FilePath: storedPath,
		FileName: fileName,
	}

	previousPath, err := s.repo.Upsert(upload)
	if err != nil {
		os.Remove(storedPath)
		return nil, err
	}

	if previousPath != "" && previousPath != storedPath {
		if err := os.Remove(previousPath); err != nil && !os.IsNotExist(err) {
			logger.GetLogger().WithError(err).WithField("file", previousPath).Warn("Failed to remove replaced upload")
		}
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"client_id": clientID,
		"file":      fileName,
	}).Info("Statement uploaded")

	return upload, nil
}

func (s *statementService) GetTable(clientID string) (*Report, error) {
	rows, rowErrors, err := s.load(clientID)
	if err != nil {
		return nil, err
	}
	return &Report{Rows: rows, RowErrors: rowErrors}, nil
}

func (s *statementService) GetMethodSummary(clientID string) (*Report, error) {
	rows, rowErrors, err := s.load(clientID)
	if err != nil {
		return nil, err
	}
	return &Report{Methods: engine.MethodCounts(rows), RowErrors: rowErrors}, nil
}

func (s *statementService) GetMonthlySeries(clientID string, mode domain.BalanceMode) (*Report, error) {
	rows, rowErrors, err := s.load(clientID)
	if err != nil {
		return nil, err
	}

	aggregates, warnings := engine.AggregateMonthly(rows, mode)
	return &Report{Monthly: aggregates, RowErrors: append(rowErrors, warnings...)}, nil
}

// load runs the parse and enrich stages over the client's current file.
// Each call owns its own table end to end; nothing is shared or cached
// across requests.
func (s *statementService) load(clientID string) ([]domain.EnrichedTransaction, []domain.RowError, error) {
	upload, err := s.repo.GetByClientID(clientID)
	if err != nil {
		return nil, nil, err
	}
	if upload == nil {
		return nil, nil, ErrNoUpload
	}

	transactions, parseErrors, err := s.parser.ParseFile(upload.FilePath)
	if err != nil {
		return nil, nil, err
	}

	enriched, decodeErrors := engine.Enrich(transactions)
	return enriched, append(parseErrors, decodeErrors...), nil
}
