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


package storage

import (
	"fmt"

	"github.com/poiesic/pokesearch/core"
)

// MarshalCatalog serializes a catalog snapshot to bytes.
func MarshalCatalog(catalog []core.CatalogEntry) []byte {
	buf := make([]byte, core.CatalogMUS.Size(catalog))
	core.CatalogMUS.Marshal(catalog, buf)
	return buf
}

// UnmarshalCatalog deserializes a catalog snapshot from bytes.
func UnmarshalCatalog(data []byte) ([]core.CatalogEntry, error) {
	catalog, _, err := core.CatalogMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: catalog: %w", ErrSerializationFailed, err)
	}
	return catalog, nil
}

// MarshalResources serializes a named resource list to bytes.
func MarshalResources(resources []core.Resource) []byte {
	buf := make([]byte, core.ResourcesMUS.Size(resources))
	core.ResourcesMUS.Marshal(resources, buf)
	return buf
}

// UnmarshalResources deserializes a named resource list from bytes.
func UnmarshalResources(data []byte) ([]core.Resource, error) {
	resources, _, err := core.ResourcesMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: resources: %w", ErrSerializationFailed, err)
	}
	return resources, nil
}
