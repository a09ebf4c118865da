package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fc-roster-parser/internal/browser"
	"fc-roster-parser/internal/observability"
)

const fullCard = `<html><body><ul>
<li class="listFUTItem icon untradeable">
  <div class="name">  Pelé </div>
  <div class="rating">98</div>
  <div class="position">CAM</div>
  <div class="club">ICON</div>
  <div class="nation">Brazil</div>
  <div class="league">Icons</div>
  <div class="pac">95</div>
  <div class="player-stats-data-component"><ul>
    <li><span class="label">SHO</span><span class="value">96</span></li>
    <li><span class="label">PAS</span><span class="value">93</span></li>
  </ul></div>
  <div class="ut-item-view--traits">
    <div class="ut-item-row"><span class="ut-item-row-label--left">Traits</span></div>
    <div class="ut-item-row"><span class="ut-item-row-label--left">Finesse Shot</span></div>
    <div class="ut-item-row"><span class="ut-item-row-label--left">Flair</span></div>
    <div class="ut-item-row"><span class="ut-item-row-label--left">Flair</span></div>
  </div>
  <span class="otherPositions">, CF, ST</span>
</li>
</ul></body></html>`

func noSleep(context.Context, time.Duration) error { return nil }

func newDriver(t *testing.T, pages ...string) *browser.SnapshotDriver {
	t.Helper()
	d, err := browser.NewSnapshotDriverFromHTML(pages...)
	require.NoError(t, err)
	return d
}

func firstNode(t *testing.T, d browser.Driver, sel string) browser.Node {
	t.Helper()
	n, ok, err := d.FindFirst(context.Background(), sel, nil)
	require.NoError(t, err)
	require.True(t, ok, "no node for %s", sel)
	return n
}

func TestExtractFallbackChain(t *testing.T) {
	d := newDriver(t, `<div class="card"><span class="a">   </span><span class="b">Text B</span></div><span class="c">outside</span>`)
	card := firstNode(t, d, ".card")
	ex := NewFieldExtractor(d)
	ctx := context.Background()

	tests := []struct {
		name      string
		selectors []string
		want      string
	}{
		{"second selector hits", []string{".a", ".b"}, "Text B"},
		{"empty text falls through", []string{".a", ".b"}, "Text B"},
		{"nothing matches", []string{".x", ".y"}, Missing},
		{"scope is the card only", []string{".c"}, Missing},
		{"first success wins", []string{".b", ".a"}, "Text B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ex.Extract(ctx, card, tt.selectors)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		class   string
		quality Quality
		status  Status
	}{
		{"", QualityBase, StatusTradeable},
		{"listFUTItem ICON", QualityIcon, StatusTradeable},
		{"player hero untradeable", QualityHero, StatusUntradeable},
		{"item tots_gold", QualityTOTS, StatusTradeable},
		{"item toty", QualityTOTY, StatusTradeable},
		{"small player item specials", QualitySpecial, StatusTradeable},
		{"icon special", QualityIcon, StatusTradeable},
		{"rare gold", QualityBase, StatusTradeable},
	}

	for _, tt := range tests {
		q, s := Classify(tt.class)
		if q != tt.quality || s != tt.status {
			t.Errorf("Classify(%q) = %s/%s, want %s/%s", tt.class, q, s, tt.quality, tt.status)
		}
	}
}

func TestClassifierMissingAttribute(t *testing.T) {
	d := newDriver(t, `<li><div class="name">X</div></li>`)
	q, s, err := NewClassifier(d).Classify(context.Background(), firstNode(t, d, "li"))
	require.NoError(t, err)
	assert.Equal(t, QualityBase, q)
	assert.Equal(t, StatusTradeable, s)
}

func TestBuildRecord(t *testing.T) {
	d := newDriver(t, fullCard)
	b := NewRecordBuilder(d, DefaultSelectors())

	rec, err := b.Build(context.Background(), firstNode(t, d, "li.listFUTItem"))
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "Pelé", rec.Name)
	assert.Equal(t, "98", rec.Overall)
	assert.Equal(t, "CAM", rec.Position)
	assert.Equal(t, "ICON", rec.Club)
	assert.Equal(t, "Brazil", rec.Nation)
	assert.Equal(t, "Icons", rec.League)
	assert.Equal(t, QualityIcon, rec.Quality)
	assert.Equal(t, StatusUntradeable, rec.Status)
	assert.Equal(t, "95", rec.Pace)
	assert.Equal(t, "96", rec.Shooting)
	assert.Equal(t, "93", rec.Passing)
	assert.Equal(t, Missing, rec.Dribbling)
	assert.Equal(t, Missing, rec.Defense)
	assert.Equal(t, Missing, rec.Physicality)
	assert.Equal(t, "Finesse Shot, Flair", rec.Traits)
	assert.Equal(t, "CF, ST", rec.AlternatePositions)
}

func TestBuildRecordInvalid(t *testing.T) {
	d := newDriver(t, `<ul>
		<li class="listFUTItem"><div class="name">No Rating</div><div class="position">ST</div></li>
		<li class="listFUTItem"><div class="rating">80</div></li>
		<li class="listFUTItem"><div class="name">Odd</div><div class="rating">abc</div></li>
	</ul>`)
	b := NewRecordBuilder(d, DefaultSelectors())
	ctx := context.Background()

	cards, err := d.FindAll(ctx, "li.listFUTItem", nil)
	require.NoError(t, err)
	require.Len(t, cards, 3)

	rec, err := b.Build(ctx, cards[0])
	require.NoError(t, err)
	assert.Nil(t, rec)

	rec, err = b.Build(ctx, cards[1])
	require.NoError(t, err)
	assert.Nil(t, rec)

	// Нечисловой рейтинг отсеивается позже, при нормализации
	rec, err = b.Build(ctx, cards[2])
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "abc", rec.Overall)
	assert.Equal(t, "", rec.Traits)
	assert.Equal(t, "", rec.AlternatePositions)
	assert.Equal(t, Missing, rec.Club)
}

func TestLocateFiltersNamelessCards(t *testing.T) {
	d := newDriver(t, `<ul>
		<li class="listFUTItem"><div class="name">A</div></li>
		<li class="listFUTItem"><div class="decor"></div></li>
		<li class="listFUTItem"><div class="player-name">B</div></li>
	</ul>`)
	l := NewCardLocator(d, DefaultSelectors(), observability.NewNop())

	cards, err := l.Locate(context.Background())
	require.NoError(t, err)
	assert.Len(t, cards, 2)
}

func TestLocateFallsBackToSecondSelector(t *testing.T) {
	d := newDriver(t, `<div class="player-card"><span class="name">A</span></div>`)
	l := NewCardLocator(d, DefaultSelectors(), observability.NewNop())

	cards, err := l.Locate(context.Background())
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestLocateHeuristicScan(t *testing.T) {
	d := newDriver(t, `<div class="roster">
		<article class="tile"><span class="name">Kane</span> <b>90</b> <i>ST</i></article>
		<article class="tile"><span class="name">Rice</span> 87 CDM</article>
		<article>Promo banner</article>
	</div>`)
	sel := DefaultSelectors()
	sel.HeuristicScan = []string{"section", "article"}
	l := NewCardLocator(d, sel, observability.NewNop())

	cards, err := l.Locate(context.Background())
	require.NoError(t, err)
	assert.Len(t, cards, 2)
}

func TestLocateEmptyPage(t *testing.T) {
	d := newDriver(t, `<p>Nothing here</p>`)
	l := NewCardLocator(d, DefaultSelectors(), observability.NewNop())

	cards, err := l.Locate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestLooksLikeCard(t *testing.T) {
	assert.True(t, looksLikeCard("Kane 90 ST"))
	assert.True(t, looksLikeCard("Rice\n87\nCDM, CM"))
	assert.False(t, looksLikeCard("Kane ST"))
	assert.False(t, looksLikeCard("Page 12 of 40"))
	assert.False(t, looksLikeCard(""))
}

func TestPagerAdvance(t *testing.T) {
	d := newDriver(t,
		`<button class="pagination next">Next</button>`,
		`<button class="pagination next" disabled>Next</button>`,
	)
	var sleeps []time.Duration
	sleep := func(_ context.Context, dur time.Duration) error {
		sleeps = append(sleeps, dur)
		return nil
	}
	p := NewPager(d, DefaultSelectors().NextPage, time.Second, 3*time.Second, sleep, observability.NewNop())
	ctx := context.Background()

	ok, err := p.Advance(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "page-002.html", d.Page())
	assert.Equal(t, []time.Duration{time.Second, 3 * time.Second}, sleeps)

	ok, err = p.Advance(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPagerSkipsHiddenControl(t *testing.T) {
	d := newDriver(t,
		`<button class="pagination next" style="display: none">Next</button>
		 <a class="pagination next" href="page-003.html">Next</a>`,
		`<p>two</p>`,
		`<p>three</p>`,
	)
	p := NewPager(d, DefaultSelectors().NextPage, 0, 0, noSleep, observability.NewNop())

	ok, err := p.Advance(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "page-003.html", d.Page())
}

func TestSelectorsMerge(t *testing.T) {
	s := DefaultSelectors()
	s.Merge(&Selectors{Name: []string{".n"}, TraitsHeader: "Skills"})

	assert.Equal(t, []string{".n"}, s.Name)
	assert.Equal(t, "Skills", s.TraitsHeader)
	assert.Equal(t, DefaultSelectors().Rating, s.Rating)
}

func TestRecordRowOrder(t *testing.T) {
	r := PlayerRecord{Name: "A", Overall: "90", Position: "ST", Quality: QualityBase, Status: StatusTradeable}
	row := r.Row()
	require.Len(t, row, len(Columns))
	assert.Equal(t, "90", row[4])
	assert.Equal(t, "A", r.Map()["name"])
	assert.Equal(t, "Tradeable", r.Map()["status"])
}
