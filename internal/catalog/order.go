package catalog

import (
	"fmt"
	"sort"

	"canvas-portal/internal/models"
)

// Sortable columns, keyed like the compact package JSON.
var orderKeys = map[string]func(models.CatalogEntry) string{
	"n": func(e models.CatalogEntry) string { return e.Name },
	"e": func(e models.CatalogEntry) string { return string(e.Epoch) },
	"v": func(e models.CatalogEntry) string { return e.Version },
	"r": func(e models.CatalogEntry) string { return e.Release },
	"a": func(e models.CatalogEntry) string { return e.Arch },
}

// ValidOrder reports whether field names a sortable column; "" means input order.
func ValidOrder(field string) bool {
	if field == "" || field == "template" {
		return true
	}
	_, ok := orderKeys[field]
	return ok
}

/**
 * Sort entries by a column
 * @param {[]models.CatalogEntry} entries - Entries to sort, never modified
 * @param {string} field - n, e, v, r, a or template; "" keeps input order
 * @param {bool} reverse - Descending order
 * @returns {[]models.CatalogEntry} Sorted copy, or entries itself when field is ""
 * @description
 * - Stable, so equal keys keep flatten order
 */
func SortEntries(entries []models.CatalogEntry, field string, reverse bool) []models.CatalogEntry {
	if field == "" {
		return entries
	}
	sorted := make([]models.CatalogEntry, len(entries))
	copy(sorted, entries)

	var less func(a, b models.CatalogEntry) bool
	if field == "template" {
		less = func(a, b models.CatalogEntry) bool { return a.Template < b.Template }
	} else {
		key := orderKeys[field]
		if key == nil {
			return sorted
		}
		less = func(a, b models.CatalogEntry) bool { return key(a) < key(b) }
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if reverse {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted
}

func orderError(field string) error {
	return fmt.Errorf("unknown order field %q", field)
}
