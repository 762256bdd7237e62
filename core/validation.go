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


package core

import (
	"fmt"
	"math"
	"strings"
)

// ValidateEntry validates a CatalogEntry according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//
// NOT validated (filled with UnknownValue by the fetcher when missing):
//   - Habitat
//   - Types
func ValidateEntry(entry *CatalogEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidEntry)
	}

	if strings.TrimSpace(entry.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrEmptyName)
	}

	return nil
}

// fieldAliases maps the Portuguese query names onto fields.
var fieldAliases = map[string]Field{
	"nome": FieldName,
	"tipo": FieldType,
}

// ParseField resolves a field name or its Portuguese alias, case-insensitively,
// to one of DefaultFields.
func ParseField(name string) (Field, error) {
	candidate := strings.ToLower(strings.TrimSpace(name))
	for _, f := range DefaultFields {
		if string(f) == candidate {
			return f, nil
		}
	}
	if f, ok := fieldAliases[candidate]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// ValidateThreshold checks that a similarity threshold lies in [0,1].
func ValidateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) || threshold < 0 || threshold > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
	}
	return nil
}

// ActiveCriteria drops criteria whose term is empty or only whitespace.
// The relative order of the remaining criteria is preserved.
func ActiveCriteria(criteria []Criterion) []Criterion {
	active := make([]Criterion, 0, len(criteria))
	for _, c := range criteria {
		if strings.TrimSpace(c.Term) == "" {
			continue
		}
		active = append(active, c)
	}
	return active
}
