package scraper

import "strings"

// StatSelectors — цепочки селекторов для шести атрибутов
type StatSelectors struct {
	Pace        []string `yaml:"pace"`
	Shooting    []string `yaml:"shooting"`
	Passing     []string `yaml:"passing"`
	Dribbling   []string `yaml:"dribbling"`
	Defense     []string `yaml:"defense"`
	Physicality []string `yaml:"physicality"`
}

// ByKey возвращает цепочку по каноническому коду
func (s StatSelectors) ByKey(key string) []string {
	switch key {
	case "PAC":
		return s.Pace
	case "SHO":
		return s.Shooting
	case "PAS":
		return s.Passing
	case "DRI":
		return s.Dribbling
	case "DEF":
		return s.Defense
	case "PHY":
		return s.Physicality
	}
	return nil
}

// Selectors — упорядоченные списки селекторов для каждого поля.
// Порядок задаёт приоритет: самые надёжные первыми.
type Selectors struct {
	Cards         []string      `yaml:"cards"`
	HeuristicScan []string      `yaml:"heuristic_scan"`
	Name          []string      `yaml:"name"`
	Rating        []string      `yaml:"rating"`
	Position      []string      `yaml:"position"`
	Club          []string      `yaml:"club"`
	Nation        []string      `yaml:"nation"`
	League        []string      `yaml:"league"`
	Stats         StatSelectors `yaml:"stats"`
	StatRows      []string      `yaml:"stat_rows"`
	StatLabel     []string      `yaml:"stat_label"`
	StatValue     []string      `yaml:"stat_value"`
	Traits        []string      `yaml:"traits"`
	TraitsHeader  string        `yaml:"traits_header"`
	AltPositions  []string      `yaml:"alt_positions"`
	NextPage      []string      `yaml:"next_page"`

	// Навигация и авторизация
	ClubTab       []string `yaml:"club_tab"`
	PlayersTile   []string `yaml:"players_tile"`
	RosterMarkers []string `yaml:"roster_markers"`
	EmailField    []string `yaml:"email_field"`
	PasswordField []string `yaml:"password_field"`
	LoginButton   []string `yaml:"login_button"`
}

// DefaultSelectors — встроенный набор для текущей разметки веб-приложения
func DefaultSelectors() *Selectors {
	return &Selectors{
		Cards: []string{
			"li.listFUTItem",
			"div.ut-item-view",
			"div.small.player.item",
			"div.player-card",
			`li[data-testid="player-card"]`,
		},
		HeuristicScan: []string{"li", "div[class*='player']", "div[class*='item']"},
		Name:          []string{".name", ".player-name", `[data-testid="player-name"]`},
		Rating:        []string{".rating", ".overall", `[data-testid="player-rating"]`},
		Position:      []string{".position", ".player-position", `[data-testid="player-position"]`},
		Club:          []string{".club", ".team", `[data-testid="player-club"]`},
		Nation:        []string{".nation", ".country", `[data-testid="player-nation"]`},
		League:        []string{".league", `[data-testid="player-league"]`},
		Stats: StatSelectors{
			Pace:        statChain("pac"),
			Shooting:    statChain("sho"),
			Passing:     statChain("pas"),
			Dribbling:   statChain("dri"),
			Defense:     statChain("def"),
			Physicality: statChain("phy"),
		},
		StatRows:  []string{"div.player-stats-data-component ul li"},
		StatLabel: []string{"span.label"},
		StatValue: []string{"span.value"},
		Traits: []string{
			".ut-item-view--traits .ut-item-row .ut-item-row-label--left",
			".traits .trait",
			`[data-testid="player-traits"]`,
		},
		TraitsHeader: "Traits",
		AltPositions: []string{".alt-positions", ".secondary-positions", "span.otherPositions"},
		NextPage: []string{
			"button.pagination.next",
			"button.flat.pagination.next",
			`button[aria-label="Next"]`,
			"a.pagination.next",
		},
		ClubTab: []string{
			"button.ut-tab-bar-item.icon-club",
			`button[data-testid="club-tab"]`,
			`a[href*="club"]`,
		},
		PlayersTile: []string{
			"div.players-tile",
			`div[data-testid="players-tile"]`,
			`a[href*="players"]`,
		},
		RosterMarkers: []string{
			"div.players-list",
			"ul.listFUTItem",
			"li.listFUTItem",
			`div[data-testid="players-list"]`,
		},
		EmailField: []string{
			`input[type="email"]`,
			`input[name="email"]`,
			`input[id*="email"]`,
			`input[placeholder*="mail"]`,
		},
		PasswordField: []string{
			`input[type="password"]`,
			`input[name="password"]`,
			`input[id*="password"]`,
		},
		LoginButton: []string{
			`button[type="submit"]`,
			`input[type="submit"]`,
			`button[id*="login"]`,
			`button[id*="signin"]`,
		},
	}
}

func statChain(code string) []string {
	code = strings.ToLower(code)
	return []string{"." + code, `[data-testid="` + code + `"]`, ".stat-" + code}
}

// Merge накладывает непустые поля other поверх s
func (s *Selectors) Merge(other *Selectors) {
	if other == nil {
		return
	}
	pick := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	pick(&s.Cards, other.Cards)
	pick(&s.HeuristicScan, other.HeuristicScan)
	pick(&s.Name, other.Name)
	pick(&s.Rating, other.Rating)
	pick(&s.Position, other.Position)
	pick(&s.Club, other.Club)
	pick(&s.Nation, other.Nation)
	pick(&s.League, other.League)
	pick(&s.Stats.Pace, other.Stats.Pace)
	pick(&s.Stats.Shooting, other.Stats.Shooting)
	pick(&s.Stats.Passing, other.Stats.Passing)
	pick(&s.Stats.Dribbling, other.Stats.Dribbling)
	pick(&s.Stats.Defense, other.Stats.Defense)
	pick(&s.Stats.Physicality, other.Stats.Physicality)
	pick(&s.StatRows, other.StatRows)
	pick(&s.StatLabel, other.StatLabel)
	pick(&s.StatValue, other.StatValue)
	pick(&s.Traits, other.Traits)
	pick(&s.AltPositions, other.AltPositions)
	pick(&s.NextPage, other.NextPage)
	pick(&s.ClubTab, other.ClubTab)
	pick(&s.PlayersTile, other.PlayersTile)
	pick(&s.RosterMarkers, other.RosterMarkers)
	pick(&s.EmailField, other.EmailField)
	pick(&s.PasswordField, other.PasswordField)
	pick(&s.LoginButton, other.LoginButton)
	if other.TraitsHeader != "" {
		s.TraitsHeader = other.TraitsHeader
	}
}
