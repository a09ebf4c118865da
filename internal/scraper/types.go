package scraper

// Missing — значение поля, которое не удалось найти ни одним селектором
const Missing = "N/A"

// IsMissing: пустая строка тоже считается отсутствием
func IsMissing(s string) bool {
	return s == "" || s == Missing
}

type Quality string

const (
	QualityBase    Quality = "Base"
	QualitySpecial Quality = "Special"
	QualityIcon    Quality = "Icon"
	QualityHero    Quality = "Hero"
	QualityTOTS    Quality = "TOTS"
	QualityTOTY    Quality = "TOTY"
)

type Status string

const (
	StatusTradeable   Status = "Tradeable"
	StatusUntradeable Status = "Untradeable"
)

// Positions — известные коды позиций
var Positions = []string{"GK", "CB", "LB", "RB", "CDM", "CM", "CAM", "LM", "RM", "LW", "RW", "ST", "CF"}

// IsKnownPosition проверяет код позиции без учёта окружающих пробелов
func IsKnownPosition(code string) bool {
	for _, p := range Positions {
		if p == code {
			return true
		}
	}
	return false
}

// StatKeys — канонические английские коды шести атрибутов в порядке вывода
var StatKeys = []string{"PAC", "SHO", "PAS", "DRI", "DEF", "PHY"}

// PlayerRecord — нормализованные данные одной карточки
type PlayerRecord struct {
	Name               string
	Overall            string
	Position           string
	Club               string
	Nation             string
	League             string
	Quality            Quality
	Status             Status
	AlternatePositions string
	Traits             string
	Pace               string
	Shooting           string
	Passing            string
	Dribbling          string
	Defense            string
	Physicality        string
}

// Valid: имя и рейтинг обязательны
func (r *PlayerRecord) Valid() bool {
	return !IsMissing(r.Name) && !IsMissing(r.Overall)
}

// SetStat записывает атрибут по каноническому коду
func (r *PlayerRecord) SetStat(key, value string) {
	switch key {
	case "PAC":
		r.Pace = value
	case "SHO":
		r.Shooting = value
	case "PAS":
		r.Passing = value
	case "DRI":
		r.Dribbling = value
	case "DEF":
		r.Defense = value
	case "PHY":
		r.Physicality = value
	}
}

// Columns — порядок колонок на выходе
var Columns = []string{
	"name", "overall", "position", "club", "rating", "quality", "nation", "league",
	"pace", "shooting", "passing", "dribbling", "defense", "physicality",
	"traits", "status", "alternatePositions",
}

// Row возвращает значения в порядке Columns
func (r *PlayerRecord) Row() []string {
	return []string{
		r.Name, r.Overall, r.Position, r.Club, r.Overall, string(r.Quality), r.Nation, r.League,
		r.Pace, r.Shooting, r.Passing, r.Dribbling, r.Defense, r.Physicality,
		r.Traits, string(r.Status), r.AlternatePositions,
	}
}

// Map — запись как отображение колонка → значение
func (r *PlayerRecord) Map() map[string]string {
	row := r.Row()
	m := make(map[string]string, len(Columns))
	for i, col := range Columns {
		m[col] = row[i]
	}
	return m
}
