package search

import "github.com/poiesic/pokesearch/core"

// DefaultPageSize is the number of entries per page when none is requested.
const DefaultPageSize = 10

// Paginate returns the 1-indexed page of results.
// page < 1 is treated as 1 and pageSize < 1 as DefaultPageSize.
// A page past the end has no data but still reports the true totals.
// An empty result set reports a single page.
func Paginate(results []core.CatalogEntry, page, pageSize int) core.Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	total := len(results)
	totalPages := total / pageSize
	if total%pageSize != 0 || totalPages == 0 {
		totalPages = 1
	}

	data := make([]core.CatalogEntry, 0)
	// Compare in pages first so huge page numbers cannot overflow the offset.
	if page <= totalPages {
		start := (page - 1) * pageSize
		end := start + min(pageSize, total-start)
		data = append(data, results[start:end]...)
	}

	return core.Page{
		Data: data,
		Meta: core.PageMeta{
			CurrentPage:        page,
			TotalPages:         totalPages,
			TotalCount:         total,
			ItemsInCurrentPage: len(data),
		},
	}
}
