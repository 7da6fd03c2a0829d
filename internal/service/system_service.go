package service

import (
	"database/sql"
	"fmt"

	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/database"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/model"
	"github.com/perception-to/Bitcoin-Market-Sentiment-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db       *sql.DB
	upstream string
	features map[string]bool
}

// NewSystemService creates a new SystemService. upstream is the fear-greed API
// base URL and features lists the optional behaviours that are switched on.
func NewSystemService(db *sql.DB, upstream string, features map[string]bool) *SystemService {
	return &SystemService{
		db:       db,
		upstream: upstream,
		features: features,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion reports the build version and the applied schema migration.
func (s *SystemService) CheckVersion() (model.VersionInfo, error) {
	dbVersion, err := database.SchemaVersion(s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("failed to read schema version: %w", err)
	}

	features := make(map[string]bool, len(s.features))
	for k, v := range s.features {
		features[k] = v
	}

	return model.VersionInfo{
		AppVersion: version.Version,
		DbVersion:  dbVersion,
		Features:   features,
		Upstream:   s.upstream,
	}, nil
}
