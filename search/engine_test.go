package search

import (
	"log/slog"
	"testing"

	"github.com/poiesic/pokesearch/core"
	"github.com/poiesic/pokesearch/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	translator, err := i18n.NewTranslator(i18n.DefaultDictionary())
	require.NoError(t, err)
	e, err := NewEngine(testCatalog(), translator, opts...)
	require.NoError(t, err)
	return e
}

func TestNewEngine(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		e := newEngine(t)
		assert.Equal(t, 5, e.Size())
		assert.Equal(t, DefaultPageSize, e.PageSize())
		assert.Equal(t, 0.2, e.Threshold())
	})

	t.Run("with custom logger", func(t *testing.T) {
		e := newEngine(t, WithLogger(slog.Default()))
		assert.NotNil(t, e)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		e := newEngine(t, WithLogger(nil))
		assert.NotNil(t, e.logger)
	})

	t.Run("nil translator", func(t *testing.T) {
		_, err := NewEngine(testCatalog(), nil)
		assert.Equal(t, ErrTranslatorRequired, err)
	})

	t.Run("invalid page size", func(t *testing.T) {
		_, err := NewEngine(testCatalog(), identityTranslator{}, WithPageSize(0))
		assert.ErrorIs(t, err, ErrInvalidPageSize)
	})

	t.Run("invalid threshold", func(t *testing.T) {
		_, err := NewEngine(testCatalog(), identityTranslator{}, WithThreshold(-0.1))
		assert.ErrorIs(t, err, core.ErrInvalidThreshold)
	})

	t.Run("no fields", func(t *testing.T) {
		_, err := NewEngine(testCatalog(), identityTranslator{}, WithFields())
		assert.Error(t, err)
	})
}

func TestSearch_Scenarios(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		name     string
		criteria []core.Criterion
		mode     core.Mode
		want     []string
	}{
		{
			name:     "name typo",
			criteria: []core.Criterion{{Field: core.FieldName, Term: "picachu"}},
			want:     []string{"pikachu"},
		},
		{
			name:     "nothing close",
			criteria: []core.Criterion{{Field: core.FieldName, Term: "xyz"}},
			want:     []string{},
		},
		{
			name:     "portuguese type",
			criteria: []core.Criterion{{Field: core.FieldType, Term: "fogo"}},
			want:     []string{"charmander"},
		},
		{
			name:     "portuguese habitat with accent and case",
			criteria: []core.Criterion{{Field: core.FieldHabitat, Term: "Floresta"}},
			want:     []string{"pikachu"},
		},
		{
			name:     "misspelt habitat",
			criteria: []core.Criterion{{Field: core.FieldHabitat, Term: "glassland"}},
			want:     []string{"bulbasaur", "scyther"},
		},
		{
			name: "and across fields",
			criteria: []core.Criterion{
				{Field: core.FieldHabitat, Term: "caverna"},
				{Field: core.FieldType, Term: "voador"},
			},
			mode: core.ModeAND,
			want: []string{"zubat"},
		},
		{
			name: "either of two types",
			criteria: []core.Criterion{
				{Field: core.FieldType, Term: "bug"},
				{Field: core.FieldType, Term: "fire"},
			},
			want: []string{"scyther", "charmander"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := e.Search(tt.criteria, tt.mode, 1, 10)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(page.Data))
			assert.Equal(t, len(tt.want), page.Meta.TotalCount)
		})
	}
}

func TestSearch_Idempotent(t *testing.T) {
	e := newEngine(t)
	criteria := []core.Criterion{
		{Field: core.FieldType, Term: "poison"},
		{Field: core.FieldName, Term: "scyther"},
	}

	first, err := e.Search(criteria, core.ModeOR, 1, 10)
	require.NoError(t, err)
	second, err := e.Search(criteria, core.ModeOR, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSearch_Pagination(t *testing.T) {
	e := newEngine(t)

	page, err := e.Search(nil, core.ModeAND, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"scyther"}, names(page.Data))
	assert.Equal(t, core.PageMeta{CurrentPage: 3, TotalPages: 3, TotalCount: 5, ItemsInCurrentPage: 1}, page.Meta)

	page, err = e.Search(nil, core.ModeAND, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, 5, page.Meta.TotalCount)
}

func TestSearch_DefaultPageSize(t *testing.T) {
	e := newEngine(t, WithPageSize(4))

	page, err := e.Search(nil, core.ModeAND, 1, 0)
	require.NoError(t, err)
	assert.Len(t, page.Data, 4)
	assert.Equal(t, 2, page.Meta.TotalPages)
}

func TestSearch_EmptyCatalog(t *testing.T) {
	e, err := NewEngine(nil, identityTranslator{})
	require.NoError(t, err)

	page, err := e.Search([]core.Criterion{{Field: core.FieldName, Term: "pikachu"}}, core.ModeOR, 1, 10)
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, core.PageMeta{CurrentPage: 1, TotalPages: 1}, page.Meta)
}

func TestSearch_SnapshotIsolation(t *testing.T) {
	catalog := testCatalog()
	e, err := NewEngine(catalog, identityTranslator{})
	require.NoError(t, err)

	catalog[0].Name = "raichu"
	catalog[3].Types[1] = "water"

	page, err := e.Search([]core.Criterion{{Field: core.FieldName, Term: "pikachu"}}, core.ModeOR, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"pikachu"}, names(page.Data))

	page, err = e.Search([]core.Criterion{{Field: core.FieldType, Term: "flying"}}, core.ModeOR, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"zubat", "scyther"}, names(page.Data))
}

func TestSearchWithMonitor_Overrides(t *testing.T) {
	e := newEngine(t)
	criteria := []core.Criterion{{Field: core.FieldName, Term: "picachu"}}

	t.Run("strict threshold", func(t *testing.T) {
		strict := 0.0
		page, err := e.SearchWithMonitor(Request{Criteria: criteria, Page: 1, Threshold: &strict}, nil)
		require.NoError(t, err)
		assert.Empty(t, page.Data)
	})

	t.Run("invalid threshold", func(t *testing.T) {
		bad := 3.0
		_, err := e.SearchWithMonitor(Request{Criteria: criteria, Threshold: &bad}, nil)
		assert.ErrorIs(t, err, core.ErrInvalidThreshold)
	})

	t.Run("translator", func(t *testing.T) {
		page, err := e.SearchWithMonitor(Request{
			Criteria: []core.Criterion{{Field: core.FieldType, Term: "fogo"}},
			Translator: identityTranslator{},
		}, nil)
		require.NoError(t, err)
		assert.Empty(t, page.Data)
	})
}

func TestSearch_UnknownField(t *testing.T) {
	e := newEngine(t, WithFields(core.FieldName))

	_, err := e.Search([]core.Criterion{{Field: core.FieldHabitat, Term: "cave"}}, core.ModeOR, 1, 10)
	assert.ErrorIs(t, err, core.ErrUnknownField)
}

// testMonitor tracks monitor callbacks for testing
type testMonitor struct {
	started      bool
	criteria     []core.Criterion
	translations map[string]string
	matched      map[core.Field]int
	combined     int
	finished     bool
}

func (m *testMonitor) Start(criteria []core.Criterion, _ core.Mode) {
	m.started = true
	m.criteria = criteria
	m.translations = make(map[string]string)
	m.matched = make(map[core.Field]int)
}

func (m *testMonitor) AfterTranslation(_ core.Field, term, translated string) {
	m.translations[term] = translated
}

func (m *testMonitor) AfterFieldMatch(field core.Field, _ string, matched int) {
	m.matched[field] = matched
}

func (m *testMonitor) AfterCombine(results []core.CatalogEntry) {
	m.combined = len(results)
}

func (m *testMonitor) Finish(_ core.Page) {
	m.finished = true
}

func TestSearchWithMonitor(t *testing.T) {
	e := newEngine(t)
	monitor := &testMonitor{}

	_, err := e.SearchWithMonitor(Request{
		Criteria: []core.Criterion{
			{Field: core.FieldHabitat, Term: "pradaria"},
			{Field: core.FieldType, Term: "venenoso"},
			{Field: core.FieldName, Term: ""},
		},
		Mode: core.ModeAND,
	}, monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.True(t, monitor.finished)
	assert.Len(t, monitor.criteria, 2)
	assert.Equal(t, "grassland", monitor.translations["pradaria"])
	assert.Equal(t, "poison", monitor.translations["venenoso"])
	assert.Equal(t, 2, monitor.matched[core.FieldHabitat])
	assert.Equal(t, 2, monitor.matched[core.FieldType])
	assert.Equal(t, 1, monitor.combined)
}

func TestSearch_UnknownAttributes(t *testing.T) {
	catalog := append(testCatalog(), core.CatalogEntry{
		Name:    "missingno",
		Habitat: core.UnknownValue,
		Types:   []string{core.UnknownValue},
	})
	translator, err := i18n.NewTranslator(i18n.DefaultDictionary())
	require.NoError(t, err)
	e, err := NewEngine(catalog, translator)
	require.NoError(t, err)

	for _, criterion := range []core.Criterion{
		{Field: core.FieldHabitat, Term: "desconhecido"},
		{Field: core.FieldType, Term: "desconhecido"},
		{Field: core.FieldType, Term: "unknown"},
	} {
		t.Run(string(criterion.Field)+"="+criterion.Term, func(t *testing.T) {
			page, err := e.Search([]core.Criterion{criterion}, core.ModeOR, 1, 10)
			require.NoError(t, err)
			assert.Equal(t, []string{"missingno"}, names(page.Data))
		})
	}
}
