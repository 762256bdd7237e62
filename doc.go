// Package pokesearch is a fuzzy, multi-field search service over the Pokémon
// catalog published by PokeAPI.
//
// A Service fetches the catalog once, caches every upstream list in BadgerDB
// and answers queries through a search.Engine:
//
//	svc, err := pokesearch.NewService(pokesearch.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer svc.Close()
//
//	page, err := svc.Search(ctx, pokesearch.Query{
//		Criteria: []core.Criterion{
//			{Field: core.FieldHabitat, Term: "caverna"},
//			{Field: core.FieldType, Term: "voador"},
//		},
//		Mode: core.ModeAND,
//	})
//
// Query terms may be Portuguese or English and tolerate small typos.
package pokesearch
