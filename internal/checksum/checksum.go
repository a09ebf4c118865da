package checksum

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"fc-roster-parser/internal/scraper"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// PlayerKey генерирует SHA256 ключа идентичности игрока.
// Формула: SHA256(name|overall|position) после обрезки пробелов, с учётом регистра:
// ключ совпадает с ключом дедупликации в normalize, иначе разные записи затирали бы друг друга в БД.
func (g *Generator) PlayerKey(name, overall, position string) string {
	content := fmt.Sprintf("%s|%s|%s",
		strings.TrimSpace(name),
		strings.TrimSpace(overall),
		strings.TrimSpace(position),
	)

	hash := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x", hash)
}

// RecordKey — то же для готовой записи
func (g *Generator) RecordKey(r *scraper.PlayerRecord) string {
	return g.PlayerKey(r.Name, r.Overall, r.Position)
}

// ContentHash покрывает все колонки записи: меняется при любом изменении данных
func (g *Generator) ContentHash(r *scraper.PlayerRecord) string {
	hash := sha256.Sum256([]byte(strings.Join(r.Row(), "|")))
	return fmt.Sprintf("%x", hash)
}

// VerifyContentHash проверяет соответствие хеша
func (g *Generator) VerifyContentHash(expectedHash string, r *scraper.PlayerRecord) bool {
	return g.ContentHash(r) == expectedHash
}
