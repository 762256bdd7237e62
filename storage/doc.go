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


// Package storage provides the cache abstraction used by the catalog fetcher.
//
// The search engine itself never persists anything. Remote catalog data is
// expensive to assemble (hundreds of requests against the upstream API), so
// the fetcher keeps each intermediate list and the final enriched catalog in
// a Cache keyed by a well-known name.
//
// # Architecture
//
//   - Cache: byte-oriented get/set/delete with optional expiry
//   - MarshalCatalog / UnmarshalCatalog: binary catalog snapshots (mus-go)
//   - MarshalResources / UnmarshalResources: upstream name/url lists
//
// The BadgerDB implementation lives in the badger subpackage:
//
//	backend, err := badger.OpenBackend("/path/to/cache", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	cache := badger.NewCache(backend, badger.WithTTL(24*time.Hour))
//
// Use in tests with in-memory storage:
//
//	cache, backend, err := badger.NewMemoryCache()
//
// # Thread Safety
//
// All cache implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Errors
//
// A miss is always reported as ErrNotFound so callers can tell it apart
// from a failing backend with errors.Is.
package storage
