package i18n

import (
	"errors"
	"log/slog"

	"github.com/poiesic/pokesearch/core"
	"github.com/poiesic/pokesearch/fuzzy"
)

// ErrDictionaryRequired is returned when a translator is built without a dictionary.
var ErrDictionaryRequired = errors.New("dictionary required")

// DefaultThreshold bounds how far a misspelt term may be from a dictionary
// term before the typo correction gives up.
const DefaultThreshold = fuzzy.DefaultThreshold

// Translator maps query terms onto canonical (English) dictionary terms.
type Translator struct {
	dict      *Dictionary
	threshold float64
	logger    *slog.Logger
}

// Option configures a Translator.
type Option func(*Translator) error

// WithThreshold sets the typo-correction threshold, in [0,1].
// 0 disables correction of anything but exact matches.
func WithThreshold(threshold float64) Option {
	return func(t *Translator) error {
		if err := core.ValidateThreshold(threshold); err != nil {
			return err
		}
		t.threshold = threshold
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(t *Translator) error {
		if logger == nil {
			logger = slog.Default()
		}
		t.logger = logger
		return nil
	}
}

// NewTranslator creates a translator over dict.
func NewTranslator(dict *Dictionary, opts ...Option) (*Translator, error) {
	if dict == nil {
		return nil, ErrDictionaryRequired
	}

	t := &Translator{
		dict:      dict,
		threshold: DefaultThreshold,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Threshold returns the typo-correction threshold.
func (t *Translator) Threshold() float64 {
	return t.threshold
}

// Translate returns the canonical term for an exact dictionary match on
// either language, or term unchanged when there is none.
func (t *Translator) Translate(term string) string {
	if target, ok := t.dict.Lookup(term); ok {
		return target
	}
	return term
}

// TranslateField translates a term bound for field. For every field except
// the entry name, a misspelt term is first corrected to the closest known
// dictionary term, so "glassland" becomes "grassland" before lookup.
// Names are never corrected against the dictionary.
func (t *Translator) TranslateField(field core.Field, term string) string {
	if field == core.FieldName {
		return t.Translate(term)
	}
	if corrected, ok := t.correct(term); ok {
		if corrected != Normalize(term) {
			t.logger.Debug("corrected query term", "field", field, "term", term, "corrected", corrected)
		}
		return t.Translate(corrected)
	}
	return t.Translate(term)
}

// correct finds the dictionary term closest to term. Candidates must be
// within the threshold both as a substring match (the search primitive) and
// as a whole word, so short fragments are not inflated into full terms.
func (t *Translator) correct(term string) (string, bool) {
	normalized := Normalize(term)
	if normalized == "" {
		return "", false
	}

	var (
		best      string
		bestWhole = -1
		bestScore float64
	)
	for _, known := range t.dict.terms {
		score := fuzzy.Score(normalized, known)
		if score > t.threshold {
			continue
		}
		if fuzzy.WholeScore(normalized, known) > t.threshold {
			continue
		}
		whole := fuzzy.WholeDistance(normalized, known)
		if bestWhole < 0 || whole < bestWhole || (whole == bestWhole && score < bestScore) {
			best, bestWhole, bestScore = known, whole, score
		}
	}
	return best, bestWhole >= 0
}
