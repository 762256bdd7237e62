// Package fuzzy provides approximate string matching over a catalog snapshot.
//
// Matching is purely edit-distance based: a term is compared against every
// substring of a field value and the fewest edits needed, divided by the term
// length, is the Score. There is no bonus for matching near the start of a
// value, so multi-token fields (such as a Pokémon with several types) rank the
// same regardless of token order.
//
// Ties are broken by the whole-value Levenshtein distance, so "grass" ranks an
// entry typed grass ahead of one living in a grassland.
package fuzzy
