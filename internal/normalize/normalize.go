package normalize

import (
	"sort"
	"strconv"
	"strings"

	"fc-roster-parser/internal/scraper"
)

const (
	MinOverall = 1
	MaxOverall = 99
)

type key struct {
	name, overall, position string
}

// Normalize чистит собранный список:
// обрезка пробелов → дедупликация по (name, overall, position), первая запись выигрывает →
// заполнение пустых необязательных полей → фильтр рейтинга [1, 99] и кода позиции →
// устойчивая сортировка по рейтингу по убыванию.
// Входной срез не изменяется.
func Normalize(records []scraper.PlayerRecord) []scraper.PlayerRecord {
	seen := make(map[key]bool, len(records))
	out := make([]scraper.PlayerRecord, 0, len(records))
	overall := make([]int, 0, len(records))

	for _, r := range records {
		r = trim(r)

		k := key{r.Name, r.Overall, r.Position}
		if seen[k] {
			continue
		}
		seen[k] = true

		if scraper.IsMissing(r.Name) {
			continue
		}
		ovr, ok := ParseOverall(r.Overall)
		if !ok {
			continue
		}
		if !scraper.IsKnownPosition(r.Position) {
			continue
		}

		fillDefaults(&r)
		out = append(out, r)
		overall = append(overall, ovr)
	}

	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return overall[idx[a]] > overall[idx[b]]
	})

	sorted := make([]scraper.PlayerRecord, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}

// ParseOverall: целое в диапазоне [MinOverall, MaxOverall] в канонической записи.
// "+85" и "085" отвергаются, иначе в выгрузку попал бы неканонический рейтинг.
func ParseOverall(s string) (int, bool) {
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err != nil || strconv.Itoa(v) != s {
		return 0, false
	}
	return v, v >= MinOverall && v <= MaxOverall
}

func trim(r scraper.PlayerRecord) scraper.PlayerRecord {
	for _, f := range []*string{
		&r.Name, &r.Overall, &r.Position, &r.Club, &r.Nation, &r.League,
		&r.AlternatePositions, &r.Traits,
		&r.Pace, &r.Shooting, &r.Passing, &r.Dribbling, &r.Defense, &r.Physicality,
	} {
		*f = strings.TrimSpace(strings.ReplaceAll(*f, "\u00a0", " "))
	}
	r.Quality = scraper.Quality(strings.TrimSpace(string(r.Quality)))
	r.Status = scraper.Status(strings.TrimSpace(string(r.Status)))
	return r
}

// fillDefaults: пустые необязательные поля получают Missing.
// Traits и AlternatePositions остаются пустыми строками.
func fillDefaults(r *scraper.PlayerRecord) {
	for _, f := range []*string{
		&r.Club, &r.Nation, &r.League,
		&r.Pace, &r.Shooting, &r.Passing, &r.Dribbling, &r.Defense, &r.Physicality,
	} {
		if *f == "" {
			*f = scraper.Missing
		}
	}
	if r.Quality == "" {
		r.Quality = scraper.QualityBase
	}
	if r.Status == "" {
		r.Status = scraper.StatusTradeable
	}
}
