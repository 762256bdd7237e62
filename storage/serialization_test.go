package storage

import (
	"testing"

	"github.com/poiesic/pokesearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalCatalog(t *testing.T) {
	tests := []struct {
		name    string
		catalog []core.CatalogEntry
	}{
		{"empty catalog", []core.CatalogEntry{}},
		{
			name: "single entry",
			catalog: []core.CatalogEntry{
				{Name: "pikachu", URL: "https://pokeapi.co/api/v2/pokemon/25/", Habitat: "forest", Types: []string{"electric"}},
			},
		},
		{
			name: "multi-typed and unknown habitat",
			catalog: []core.CatalogEntry{
				{Name: "bulbasaur", Habitat: "grassland", Types: []string{"grass", "poison"}},
				{Name: "missingno", Habitat: core.UnknownValue, Types: []string{}},
			},
		},
		{
			name: "unicode names",
			catalog: []core.CatalogEntry{
				{Name: "flabébé", Habitat: "grassland", Types: []string{"fairy"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalCatalog(tt.catalog)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalCatalog(data)
			require.NoError(t, err)
			assert.Equal(t, tt.catalog, decoded)
		})
	}
}

func TestUnmarshalCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated entry", MarshalCatalog([]core.CatalogEntry{{Name: "pikachu", Habitat: "forest"}})[:4]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalCatalog(tt.data)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestMarshalUnmarshalResources(t *testing.T) {
	resources := []core.Resource{
		{Name: "cave", URL: "https://pokeapi.co/api/v2/pokemon-habitat/1/"},
		{Name: "forest", URL: "https://pokeapi.co/api/v2/pokemon-habitat/2/"},
	}

	decoded, err := UnmarshalResources(MarshalResources(resources))
	require.NoError(t, err)
	assert.Equal(t, resources, decoded)

	_, err = UnmarshalResources(nil)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
