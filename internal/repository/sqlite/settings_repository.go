package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/vytor/medpass/internal/logger"
	"github.com/vytor/medpass/internal/models"
	"github.com/vytor/medpass/internal/repository"
)

type settingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository implementation
func NewSettingsRepository(db *sql.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get returns the stored settings document, or nil when none has been saved.
func (r *settingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")
	log.Debug("getting settings")

	var doc string
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM settings WHERE id = 1`).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no stored settings")
			return nil, nil
		}
		log.Error("failed to get settings: %v", err)
		return nil, err
	}
	var settings models.Settings
	if err := json.Unmarshal([]byte(doc), &settings); err != nil {
		log.Error("failed to decode settings doc: %v", err)
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Put(ctx context.Context, settings models.Settings) error {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")
	log.Debug("putting settings")

	doc, err := json.Marshal(settings)
	if err != nil {
		log.Error("failed to marshal settings: %v", err)
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO settings (id, doc) VALUES (1, ?)
ON CONFLICT(id) DO UPDATE SET doc = excluded.doc
`, string(doc))
	if err != nil {
		log.Error("failed to put settings: %v", err)
	}
	return err
}
