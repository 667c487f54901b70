// Package repository persists parsed raid records in SQLite.
package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"raid-parser/internal/models"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// RaidRepository handles raid record storage.
type RaidRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRaidRepository opens (and migrates) the database at dbPath.
func NewRaidRepository(dbPath string, logger *zap.Logger) (*RaidRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &RaidRepository{db: db, logger: logger}
	if err := repo.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Raid repository initialized", zap.String("db_path", dbPath))
	return repo, nil
}

func (r *RaidRepository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS raids (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		date DATETIME NOT NULL,
		location TEXT,
		requirements TEXT,
		roles TEXT,
		max_participants INTEGER,
		notes TEXT,
		confidence REAL NOT NULL,
		content_type TEXT,
		content_type_confidence REAL,
		provider TEXT,
		model_version TEXT,
		parsed_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_raids_content_type ON raids(content_type);
	CREATE INDEX IF NOT EXISTS idx_raids_parsed_at ON raids(parsed_at);
	`
	_, err := r.db.Exec(schema)
	return err
}

// Save stores one parsed record. Role slots and requirements are kept as
// JSON columns; nothing downstream queries into them.
func (r *RaidRepository) Save(record *models.ParsedRaidRecord) error {
	rolesJSON, err := json.Marshal(record.Roles)
	if err != nil {
		return fmt.Errorf("failed to marshal roles: %w", err)
	}
	reqsJSON, err := json.Marshal(record.Requirements)
	if err != nil {
		return fmt.Errorf("failed to marshal requirements: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO raids (
			id, title, description, date, location, requirements, roles,
			max_participants, notes, confidence, content_type,
			content_type_confidence, provider, model_version, parsed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Title, record.Description, record.Date,
		record.Location, string(reqsJSON), string(rolesJSON),
		record.MaxParticipants, record.Notes, record.Confidence,
		record.ContentType, record.ContentTypeConfidence,
		record.Provider, record.ModelVersion, record.ParsedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert raid: %w", err)
	}
	return nil
}

// Recent returns the most recently parsed records, newest first.
func (r *RaidRepository) Recent(limit int) ([]*models.ParsedRaidRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(`
		SELECT id, title, description, date, location, requirements, roles,
			max_participants, notes, confidence, content_type,
			content_type_confidence, provider, model_version, parsed_at
		FROM raids ORDER BY parsed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query raids: %w", err)
	}
	defer rows.Close()

	var records []*models.ParsedRaidRecord
	for rows.Next() {
		var rec models.ParsedRaidRecord
		var rolesJSON, reqsJSON string
		if err := rows.Scan(
			&rec.ID, &rec.Title, &rec.Description, &rec.Date, &rec.Location,
			&reqsJSON, &rolesJSON, &rec.MaxParticipants, &rec.Notes,
			&rec.Confidence, &rec.ContentType, &rec.ContentTypeConfidence,
			&rec.Provider, &rec.ModelVersion, &rec.ParsedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan raid: %w", err)
		}
		if rolesJSON != "" {
			if err := json.Unmarshal([]byte(rolesJSON), &rec.Roles); err != nil {
				r.logger.Warn("Corrupt roles column", zap.String("id", rec.ID), zap.Error(err))
			}
		}
		if reqsJSON != "" {
			if err := json.Unmarshal([]byte(reqsJSON), &rec.Requirements); err != nil {
				r.logger.Warn("Corrupt requirements column", zap.String("id", rec.ID), zap.Error(err))
			}
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// Stats returns parse counts per content type plus totals.
func (r *RaidRepository) Stats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM raids`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count raids: %w", err)
	}
	stats["total"] = total

	rows, err := r.db.Query(`
		SELECT content_type, COUNT(*), AVG(confidence)
		FROM raids GROUP BY content_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	byType := make(map[string]interface{})
	for rows.Next() {
		var contentType string
		var count int
		var avgConfidence float64
		if err := rows.Scan(&contentType, &count, &avgConfidence); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		byType[contentType] = map[string]interface{}{
			"count":          count,
			"avg_confidence": avgConfidence,
		}
	}
	stats["by_content_type"] = byType
	return stats, rows.Err()
}

// Close closes the underlying database.
func (r *RaidRepository) Close() error {
	return r.db.Close()
}
