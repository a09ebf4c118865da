package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fc-roster-parser/internal/normalize"
	"fc-roster-parser/internal/observability"
	"fc-roster-parser/internal/scraper"
	"fc-roster-parser/internal/storage"
)

type memRepo struct {
	rows map[string]*storage.PlayerRow
}

func (m *memRepo) UpsertPlayer(_ context.Context, row *storage.PlayerRow) (bool, bool, error) {
	prev, ok := m.rows[row.Key]
	m.rows[row.Key] = row
	if !ok {
		return true, false, nil
	}
	return false, prev.ContentHash != row.ContentHash, nil
}

func (m *memRepo) CountPlayers(context.Context) (int, error) { return len(m.rows), nil }

func (m *memRepo) Close() error { return nil }

func TestPersist(t *testing.T) {
	repo := &memRepo{rows: map[string]*storage.PlayerRow{}}
	records := []scraper.PlayerRecord{
		{Name: "A", Overall: "90", Position: "ST", Club: "X"},
		{Name: "B", Overall: "80", Position: "CM", Club: "Y"},
	}
	ctx := context.Background()
	logger := observability.NewNop()

	stats, err := Persist(ctx, repo, records, logger)
	require.NoError(t, err)
	assert.Equal(t, PersistStats{Inserted: 2}, *stats)

	records[1].Club = "Z"
	stats, err = Persist(ctx, repo, records, logger)
	require.NoError(t, err)
	assert.Equal(t, PersistStats{Updated: 1, Unchanged: 1}, *stats)

	n, err := repo.CountPlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, row := range repo.rows {
		if row.Record.Name == "B" {
			assert.Equal(t, 2, row.Rank)
		}
	}
}

// Записи, различающиеся только регистром имени, переживают нормализацию
// и должны лечь в разные строки хранилища.
func TestPersistKeepsNormalizedRecordsApart(t *testing.T) {
	repo := &memRepo{rows: map[string]*storage.PlayerRow{}}
	records := normalize.Normalize([]scraper.PlayerRecord{
		{Name: "Messi", Overall: "88", Position: "RW"},
		{Name: "messi", Overall: "88", Position: "RW"},
	})
	require.Len(t, records, 2)

	stats, err := Persist(context.Background(), repo, records, observability.NewNop())
	require.NoError(t, err)
	assert.Equal(t, PersistStats{Inserted: 2}, *stats)
	assert.Len(t, repo.rows, 2)
}
