package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/newsintel/internal/domain"
)

// recentRunLimit bounds how many run IDs are replayed into the
// reliability tracker's double-count guard.
const recentRunLimit = 128

// RunRepository persists per-run cluster summaries for audit and feeds
// the reliability tracker's replay guard.
type RunRepository struct {
	db *sqlx.DB
}

// SaveRun records one run's clustering summary.
func (r *RunRepository) SaveRun(ctx context.Context, result *domain.ClusterResult, startedAt time.Time) error {
	stats, err := json.Marshal(result.Stats)
	if err != nil {
		return fmt.Errorf("encode run stats: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO runs (
			run_id, started_at, total_articles, total_clusters,
			coordinated_clusters, stats
		) VALUES (?, ?, ?, ?, ?, ?)
	`, result.RunID, startedAt.UTC(), result.Stats.TotalArticles,
		result.Stats.TotalClusters, result.Stats.CoordinatedClusters,
		string(stats))
	if err != nil {
		return fmt.Errorf("save run %s: %w", result.RunID, err)
	}
	return nil
}

// RecentRunIDs returns the most recent run IDs, newest last.
func (r *RunRepository) RecentRunIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.SelectContext(ctx, &ids, `
		SELECT run_id FROM (
			SELECT run_id, started_at FROM runs
			ORDER BY started_at DESC
			LIMIT ?
		) ORDER BY started_at ASC
	`, recentRunLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent runs: %w", err)
	}
	return ids, nil
}
