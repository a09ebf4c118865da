package storage

import (
	"context"
	"time"

	"fc-roster-parser/internal/scraper"
)

// PlayerRow — нормализованная запись для сохранения в БД
type PlayerRow struct {
	Key         string // SHA256 (name|overall|position)
	ContentHash string // SHA256 всех колонок
	Record      scraper.PlayerRecord
	Rank        int // позиция в отсортированном составе
	ScrapedAt   time.Time
}

// Repository интерфейс для работы с хранилищем состава
type Repository interface {
	// UpsertPlayer сохраняет или обновляет игрока, возвращает (isNew, isUpdated, error)
	UpsertPlayer(ctx context.Context, row *PlayerRow) (isNew bool, isUpdated bool, err error)

	// CountPlayers возвращает число сохранённых игроков
	CountPlayers(ctx context.Context) (int, error)

	Close() error
}
