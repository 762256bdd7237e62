package core

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestIDFromContent(t *testing.T) {
	keys := []string{"", "pokemonListCache", "pokemonTypeListCache", "https://pokeapi.co/api/v2/type/"}

	seen := make(map[ID]string)
	for _, key := range keys {
		id := IDFromContent(key)
		if again := IDFromContent(key); again != id {
			t.Errorf("IDFromContent(%q) is not stable: %d then %d", key, id, again)
		}
		if other, ok := seen[id]; ok {
			t.Errorf("IDFromContent(%q) collides with %q", key, other)
		}
		seen[id] = key
	}
}

func TestCatalogEntry_Values(t *testing.T) {
	entry := CatalogEntry{Name: "scyther", Habitat: "grassland", Types: []string{"bug", "flying"}}

	tests := []struct {
		field Field
		want  []string
	}{
		{FieldName, []string{"scyther"}},
		{FieldHabitat, []string{"grassland"}},
		{FieldType, []string{"bug", "flying"}},
		{Field("color"), nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			got := entry.Values(tt.field)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Values(%q) = %v, want %v", tt.field, got, tt.want)
			}
		})
	}
}

func TestCatalogEntry_MarshalJSON(t *testing.T) {
	entry := CatalogEntry{Name: "scyther", Habitat: "grassland", Types: []string{"bug", "flying"}}

	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	got := string(data)
	if !strings.Contains(got, `"type":"bug, flying"`) {
		t.Errorf("Marshal() = %s, want joined type list", got)
	}
	if strings.Contains(got, `"url"`) {
		t.Errorf("Marshal() = %s, empty url should be omitted", got)
	}
}

func TestCatalogEntry_MarshalJSON_NoTypes(t *testing.T) {
	data, err := json.Marshal(CatalogEntry{Name: "missingno", Habitat: UnknownValue})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"type":"unknown"`) {
		t.Errorf("Marshal() = %s, want unknown type", data)
	}
}

func TestCatalogEntry_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  CatalogEntry
	}{
		{
			name:  "joined string",
			input: `{"name":"scyther","habitat":"grassland","type":"bug, flying"}`,
			want:  CatalogEntry{Name: "scyther", Habitat: "grassland", Types: []string{"bug", "flying"}},
		},
		{
			name:  "array",
			input: `{"name":"zubat","habitat":"cave","type":["poison","flying"]}`,
			want:  CatalogEntry{Name: "zubat", Habitat: "cave", Types: []string{"poison", "flying"}},
		},
		{
			name:  "missing type",
			input: `{"name":"ditto","url":"https://pokeapi.co/api/v2/pokemon/132/","habitat":"urban"}`,
			want:  CatalogEntry{Name: "ditto", URL: "https://pokeapi.co/api/v2/pokemon/132/", Habitat: "urban"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got CatalogEntry
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Unmarshal() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCatalogEntry_UnmarshalJSON_InvalidType(t *testing.T) {
	var got CatalogEntry
	if err := json.Unmarshal([]byte(`{"name":"x","type":42}`), &got); err == nil {
		t.Error("Unmarshal() expected error for numeric type")
	}
}

func TestSplitTypes(t *testing.T) {
	got := SplitTypes(" bug ,flying,, ")
	want := []string{"bug", "flying"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitTypes() = %v, want %v", got, want)
	}
}

func TestMode_String(t *testing.T) {
	if ModeAND.String() != "AND" {
		t.Errorf("ModeAND.String() = %q", ModeAND.String())
	}
	if ModeOR.String() != "OR" {
		t.Errorf("ModeOR.String() = %q", ModeOR.String())
	}
}
