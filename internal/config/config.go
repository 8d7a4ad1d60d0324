package config

import (
	"fmt"
	"os"
	"strconv"

	"statement-engine/internal/domain"
)

type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	App       AppConfig
	Statement StatementConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type ServerConfig struct {
	Port string
}

type AppConfig struct {
	LogLevel    string
	UploadDir   string
	MaxUploadMB int64
}

// StatementConfig selects between the known statement export variants.
type StatementConfig struct {
	// DateLayout is a Go time layout; real exports use either
	// DD/MM/YYYY or DD-MM-YYYY, chosen via DATE_FORMAT=slash|dash.
	DateLayout string
	// BalanceMode is the default monthly end-balance derivation,
	// overridable per request.
	BalanceMode domain.BalanceMode
}

const (
	DateLayoutSlash = "02/01/2006"
	DateLayoutDash  = "02-01-2006"
)

func Load() (*Config, error) {
	maxUploadMB, err := strconv.ParseInt(getEnv("MAX_UPLOAD_MB", "10"), 10, 64)
	if err != nil {
		maxUploadMB = 10
	}

	dateLayout, err := dateLayoutFor(getEnv("DATE_FORMAT", "slash"))
	if err != nil {
		return nil, err
	}

	balanceMode, err := balanceModeFor(getEnv("BALANCE_MODE", "reported"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "statement_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		App: AppConfig{
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
			MaxUploadMB: maxUploadMB,
		},
		Statement: StatementConfig{
			DateLayout:  dateLayout,
			BalanceMode: balanceMode,
		},
	}, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func dateLayoutFor(format string) (string, error) {
	switch format {
	case "slash":
		return DateLayoutSlash, nil
	case "dash":
		return DateLayoutDash, nil
	default:
		return "", fmt.Errorf("unknown DATE_FORMAT %q: expected slash or dash", format)
	}
}

func balanceModeFor(mode string) (domain.BalanceMode, error) {
	switch domain.BalanceMode(mode) {
	case domain.BalanceReported, domain.BalanceReconstructed:
		return domain.BalanceMode(mode), nil
	default:
		return "", fmt.Errorf("unknown BALANCE_MODE %q: expected reported or reconstructed", mode)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
