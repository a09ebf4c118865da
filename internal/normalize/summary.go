package normalize

import (
	"sort"

	"fc-roster-parser/internal/scraper"
)

// Count — значение и число его появлений
type Count struct {
	Value string
	N     int
}

// Summary — сводка по нормализованному составу
type Summary struct {
	Total       int
	OverallMean float64
	OverallMax  int
	OverallMin  int
	Positions   []Count
	Qualities   []Count
	Statuses    []Count
}

// Summarize считает статистику. Распределения отсортированы по убыванию частоты,
// при равенстве — по порядку первого появления.
func Summarize(records []scraper.PlayerRecord) Summary {
	s := Summary{Total: len(records)}
	if len(records) == 0 {
		return s
	}

	sum, n := 0, 0
	var positions, qualities, statuses []string
	for _, r := range records {
		positions = append(positions, r.Position)
		qualities = append(qualities, string(r.Quality))
		statuses = append(statuses, string(r.Status))

		v, ok := ParseOverall(r.Overall)
		if !ok {
			continue
		}
		if n == 0 || v > s.OverallMax {
			s.OverallMax = v
		}
		if n == 0 || v < s.OverallMin {
			s.OverallMin = v
		}
		sum += v
		n++
	}
	if n > 0 {
		s.OverallMean = float64(sum) / float64(n)
	}

	s.Positions = valueCounts(positions)
	s.Qualities = valueCounts(qualities)
	s.Statuses = valueCounts(statuses)
	return s
}

func valueCounts(values []string) []Count {
	index := make(map[string]int)
	var counts []Count
	for _, v := range values {
		if i, ok := index[v]; ok {
			counts[i].N++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, Count{Value: v, N: 1})
	}
	sort.SliceStable(counts, func(a, b int) bool {
		return counts[a].N > counts[b].N
	})
	return counts
}
