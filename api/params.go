package api

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/poiesic/pokesearch"
	"github.com/poiesic/pokesearch/core"
)

// Query parameter names accepted by the search endpoint.
const (
	ParamName                = "name"
	ParamNameAlias           = "nome"
	ParamHabitat             = "habitat"
	ParamType                = "type"
	ParamTypeAlias           = "tipo"
	ParamPage                = "page"
	ParamLimit               = "limit"
	ParamUseAND              = "usarClausulaANDParaBusca"
	ParamPrecision           = "precisaoDaBusca"
	ParamTranslatorPrecision = "precisaoDaBuscaTraduzidaFloat"
)

var allowedParams = []string{
	ParamName, ParamNameAlias, ParamHabitat, ParamType, ParamTypeAlias,
	ParamPage, ParamLimit, ParamUseAND, ParamPrecision, ParamTranslatorPrecision,
}

var (
	// ErrNoParameters is returned when a search request carries no query parameters.
	ErrNoParameters = errors.New("search criteria must not be empty")

	// ErrParameterNotAllowed is returned for a query parameter outside the accepted set.
	ErrParameterNotAllowed = errors.New("parameter not allowed")

	// ErrInvalidParameter is returned when a parameter value cannot be parsed.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ParseQuery turns request parameters into a search query.
//
// Field criteria are emitted in name, habitat, type order. When both a field
// and its alias are present the canonical name wins. Blank values are
// treated as absent.
func ParseQuery(values url.Values) (pokesearch.Query, error) {
	var q pokesearch.Query
	if len(values) == 0 {
		return q, ErrNoParameters
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if !slices.Contains(allowedParams, key) {
			return q, fmt.Errorf("%w: '%s'", ErrParameterNotAllowed, key)
		}
	}

	// Field parameters in priority order: canonical names before aliases.
	seen := make(map[core.Field]bool)
	for _, key := range []string{ParamName, ParamNameAlias, ParamHabitat, ParamType, ParamTypeAlias} {
		term := strings.TrimSpace(values.Get(key))
		if term == "" {
			continue
		}
		field, err := core.ParseField(key)
		if err != nil {
			return q, err
		}
		if !seen[field] {
			seen[field] = true
			q.Criteria = append(q.Criteria, core.Criterion{Field: field, Term: term})
		}
	}

	var err error
	if q.Page, err = parseInt(values, ParamPage); err != nil {
		return q, err
	}
	if q.PageSize, err = parseInt(values, ParamLimit); err != nil {
		return q, err
	}
	if values.Get(ParamUseAND) == "true" {
		q.Mode = core.ModeAND
	}
	if q.Threshold, err = parseThreshold(values, ParamPrecision); err != nil {
		return q, err
	}
	if q.TranslatorThreshold, err = parseThreshold(values, ParamTranslatorPrecision); err != nil {
		return q, err
	}
	return q, nil
}

func parseInt(values url.Values, name string) (int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: '%s' must be an integer", ErrInvalidParameter, name)
	}
	return n, nil
}

func parseThreshold(values url.Values, name string) (*float64, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || core.ValidateThreshold(v) != nil {
		return nil, fmt.Errorf("%w: '%s' must be a number between 0 and 1", ErrInvalidParameter, name)
	}
	return &v, nil
}
