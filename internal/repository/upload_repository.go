package repository

import (
	"database/sql"
	"time"

	"statement-engine/pkg/logger"
)

// Upload is the registry row for a client's current statement file.
// Each client identity holds exactly one: re-uploading replaces it.
type Upload struct {
	ID         int       `json:"id" db:"id"`
	ClientID   string    `json:"client_id" db:"client_id"`
	FilePath   string    `json:"file_path" db:"file_path"`
	FileName   string    `json:"file_name" db:"file_name"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
}

type UploadRepository interface {
	Upsert(upload *Upload) (previousPath string, err error)
	GetByClientID(clientID string) (*Upload, error)
}

type uploadRepository struct {
	db *sql.DB
}

func NewUploadRepository(db *sql.DB) UploadRepository {
	return &uploadRepository{db: db}
}

// EnsureSchema creates the uploads table if it does not exist yet.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS uploads (
			id SERIAL PRIMARY KEY,
			client_id TEXT NOT NULL UNIQUE,
			file_path TEXT NOT NULL,
			file_name TEXT NOT NULL,
			uploaded_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

// Upsert stores the client's current upload, replacing any previous one.
// The previous file path is returned so the caller can remove the stale
// file from disk.
func (r *uploadRepository) Upsert(upload *Upload) (string, error) {
	var previousPath sql.NullString
	err := r.db.QueryRow(
		`SELECT file_path FROM uploads WHERE client_id = $1`,
		upload.ClientID,
	).Scan(&previousPath)
	if err != nil && err != sql.ErrNoRows {
		logger.GetLogger().WithError(err).Error("Failed to look up existing upload")
		return "", err
	}

	query := `
		INSERT INTO uploads (client_id, file_path, file_name, uploaded_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (client_id) DO UPDATE
		SET file_path = EXCLUDED.file_path,
		    file_name = EXCLUDED.file_name,
		    uploaded_at = now()
		RETURNING id, uploaded_at
	`

	err = r.db.QueryRow(
		query,
		upload.ClientID,
		upload.FilePath,
		upload.FileName,
	).Scan(&upload.ID, &upload.UploadedAt)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to upsert upload")
		return "", err
	}

	return previousPath.String, nil
}

func (r *uploadRepository) GetByClientID(clientID string) (*Upload, error) {
	query := `
		SELECT id, client_id, file_path, file_name, uploaded_at
		FROM uploads
		WHERE client_id = $1
	`

	var upload Upload
	err := r.db.QueryRow(query, clientID).Scan(
		&upload.ID,
		&upload.ClientID,
		&upload.FilePath,
		&upload.FileName,
		&upload.UploadedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.GetLogger().WithError(err).WithField("client_id", clientID).Error("Failed to get upload")
		return nil, err
	}

	return &upload, nil
}
