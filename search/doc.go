// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package search provides multi-field fuzzy search over a Pokémon catalog snapshot.
//
// The Engine runs a search in stages:
//   - Each criterion term is translated to its canonical dictionary term
//   - Each (field, term) pair is matched with a fuzzy index scoped to that field
//   - Per-field matches are combined with AND (intersection) or OR (union)
//   - The combined result is sliced into a Page
//
// AND with no criteria returns the whole catalog; OR with no criteria returns
// nothing. An Engine never mutates its snapshot, so one Engine can serve
// concurrent searches and a refreshed catalog means building a new Engine.
package search
