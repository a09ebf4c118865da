package app

import (
	"context"
	"fmt"
	"time"

	"fc-roster-parser/internal/checksum"
	"fc-roster-parser/internal/observability"
	"fc-roster-parser/internal/scraper"
	"fc-roster-parser/internal/storage"
)

type PersistStats struct {
	Inserted  int
	Updated   int
	Unchanged int
}

// Persist сохраняет нормализованный состав. Rank — позиция в отсортированном списке (с 1).
func Persist(ctx context.Context, repo storage.Repository, records []scraper.PlayerRecord, logger *observability.Logger) (*PersistStats, error) {
	gen := checksum.NewGenerator()
	stats := &PersistStats{}
	now := time.Now().UTC()

	for i := range records {
		rec := &records[i]
		row := &storage.PlayerRow{
			Key:         gen.RecordKey(rec),
			ContentHash: gen.ContentHash(rec),
			Record:      *rec,
			Rank:        i + 1,
			ScrapedAt:   now,
		}

		isNew, isUpdated, err := repo.UpsertPlayer(ctx, row)
		if err != nil {
			return stats, fmt.Errorf("failed to save player %q: %w", rec.Name, err)
		}
		switch {
		case isNew:
			stats.Inserted++
		case isUpdated:
			stats.Updated++
		default:
			stats.Unchanged++
		}
	}

	logger.Info("Roster saved",
		"inserted", stats.Inserted,
		"updated", stats.Updated,
		"unchanged", stats.Unchanged,
	)
	return stats, nil
}
