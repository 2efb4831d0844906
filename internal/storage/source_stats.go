package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/newsintel/internal/domain"
)

// SourceStatsRepository persists the per-source reliability records.
// The tracker owns the records for the duration of a run: LoadAll once at
// start, SaveAll once at end, no partial writes in between.
type SourceStatsRepository struct {
	db *sqlx.DB
}

// LoadAll reads every source record. An empty table yields an empty map,
// never an error: a missing store means "start fresh".
func (r *SourceStatsRepository) LoadAll(ctx context.Context) (map[string]*domain.SourceStats, error) {
	var rows []struct {
		SourceName string `db:"source_name"`
		Payload    string `db:"payload"`
	}
	err := r.db.SelectContext(ctx, &rows, `SELECT source_name, payload FROM source_stats`)
	if err != nil {
		return nil, fmt.Errorf("load source stats: %w", err)
	}

	stats := make(map[string]*domain.SourceStats, len(rows))
	for _, row := range rows {
		var s domain.SourceStats
		if err := json.Unmarshal([]byte(row.Payload), &s); err != nil {
			return nil, fmt.Errorf("decode stats for %s: %w", row.SourceName, err)
		}
		if s.CoverageByCategory == nil {
			s.CoverageByCategory = make(map[string]int)
		}
		if s.CoverageByTicker == nil {
			s.CoverageByTicker = make(map[string]int)
		}
		stats[row.SourceName] = &s
	}
	return stats, nil
}

// SaveAll writes every source record in one transaction.
func (r *SourceStatsRepository) SaveAll(ctx context.Context, stats map[string]*domain.SourceStats) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin stats save: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	now := time.Now().UTC()
	for name, s := range stats {
		payload, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("encode stats for %s: %w", name, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO source_stats (source_name, payload, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(source_name) DO UPDATE SET
				payload    = excluded.payload,
				updated_at = excluded.updated_at
		`, name, string(payload), now)
		if err != nil {
			return fmt.Errorf("save stats for %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit stats save: %w", err)
	}
	return nil
}
