package core

import (
	"encoding/binary"
	"encoding/json"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// UnknownValue is the placeholder used when a Pokémon has no known habitat or type.
const UnknownValue = "unknown"

// ID is a content-derived identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Field names a searchable attribute of a CatalogEntry.
type Field string

const (
	// FieldName is the entry name, the primary key of the catalog.
	FieldName Field = "name"
	// FieldHabitat is the single-token habitat.
	FieldHabitat Field = "habitat"
	// FieldType holds one or more type tokens.
	FieldType Field = "type"
)

// DefaultFields lists the searchable fields in their canonical order.
var DefaultFields = []Field{FieldName, FieldHabitat, FieldType}

// Mode selects how per-field match sets are combined.
type Mode int

const (
	// ModeOR unions the per-field matches, de-duplicated by name.
	ModeOR Mode = iota
	// ModeAND keeps only entries matched by every field.
	ModeAND
)

func (m Mode) String() string {
	if m == ModeAND {
		return "AND"
	}
	return "OR"
}

// CatalogEntry is a single Pokémon record enriched with habitat and types.
// Entries are treated as immutable once loaded into a catalog snapshot.
type CatalogEntry struct {
	Name    string
	URL     string
	Habitat string
	Types   []string
}

// Values returns the tokens held by the given field.
// Single-valued fields return a one element slice; unknown fields return nil.
func (e CatalogEntry) Values(field Field) []string {
	switch field {
	case FieldName:
		return []string{e.Name}
	case FieldHabitat:
		return []string{e.Habitat}
	case FieldType:
		return e.Types
	}
	return nil
}

type catalogEntryJSON struct {
	Name    string          `json:"name"`
	URL     string          `json:"url,omitempty"`
	Habitat string          `json:"habitat"`
	Type    json.RawMessage `json:"type"`
}

// MarshalJSON renders types as a comma separated string, the shape served by the search API.
func (e CatalogEntry) MarshalJSON() ([]byte, error) {
	types := UnknownValue
	if len(e.Types) > 0 {
		types = strings.Join(e.Types, ", ")
	}
	raw, err := json.Marshal(types)
	if err != nil {
		return nil, err
	}
	return json.Marshal(catalogEntryJSON{
		Name:    e.Name,
		URL:     e.URL,
		Habitat: e.Habitat,
		Type:    raw,
	})
}

// UnmarshalJSON accepts the type field either as a comma separated string or as an array.
func (e *CatalogEntry) UnmarshalJSON(data []byte) error {
	var aux catalogEntryJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.Name = aux.Name
	e.URL = aux.URL
	e.Habitat = aux.Habitat
	e.Types = nil

	if len(aux.Type) == 0 || string(aux.Type) == "null" {
		return nil
	}

	var list []string
	if err := json.Unmarshal(aux.Type, &list); err == nil {
		e.Types = cleanTokens(list)
		return nil
	}

	var joined string
	if err := json.Unmarshal(aux.Type, &joined); err != nil {
		return err
	}
	e.Types = SplitTypes(joined)
	return nil
}

// SplitTypes splits a comma separated type list into trimmed tokens.
func SplitTypes(joined string) []string {
	return cleanTokens(strings.Split(joined, ","))
}

func cleanTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Resource is a named link as returned by PokeAPI list endpoints.
type Resource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Criterion is one field/term pair of a search.
type Criterion struct {
	Field Field
	Term  string
}

// PageMeta describes where a Page sits within the full result set.
type PageMeta struct {
	CurrentPage        int `json:"current_page"`
	TotalPages         int `json:"total_pages"`
	TotalCount         int `json:"total_count"`
	ItemsInCurrentPage int `json:"items_in_current_page"`
}

// Page is one slice of a search result, serialized directly as the API response body.
type Page struct {
	Data []CatalogEntry `json:"data"`
	Meta PageMeta       `json:"meta"`
}
