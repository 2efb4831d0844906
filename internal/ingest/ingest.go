// Package ingest reads materialized raw-item batches from JSON drop files
// and watches a drop directory for new ones. Fetching itself happens
// upstream; this package only consumes what the fetcher writes.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonesrussell/newsintel/internal/domain"
	"github.com/jonesrussell/newsintel/internal/logger"
)

// batchFile is the on-disk drop format. Either a bare array of items or
// an object with an "items" key is accepted.
type batchFile struct {
	Items         []*domain.RawItem     `json:"items"`
	MarketContext *domain.MarketContext `json:"market_context,omitempty"`
}

// Batch is one materialized drop, ready for a pipeline run.
type Batch struct {
	Items         []*domain.RawItem
	MarketContext *domain.MarketContext
	Skipped       int
}

// ReadBatch loads a drop file and filters out items that are not
// processable. A file that parses but contains no valid items yields an
// empty batch, not an error.
func ReadBatch(path string, log logger.Logger) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read drop file %s: %w", path, err)
	}

	var file batchFile
	if err := json.Unmarshal(data, &file); err != nil {
		var bare []*domain.RawItem
		if bareErr := json.Unmarshal(data, &bare); bareErr != nil {
			return nil, fmt.Errorf("parse drop file %s: %w", path, err)
		}
		file.Items = bare
	}

	batch := &Batch{MarketContext: file.MarketContext}
	for _, item := range file.Items {
		if item == nil || !item.Valid() {
			batch.Skipped++
			continue
		}
		batch.Items = append(batch.Items, item)
	}

	if batch.Skipped > 0 {
		log.Warn("dropped invalid items from batch",
			logger.String("path", path),
			logger.Int("skipped", batch.Skipped),
			logger.Int("kept", len(batch.Items)),
		)
	}

	return batch, nil
}
