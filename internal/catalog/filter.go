package catalog

import (
	"strings"

	"canvas-portal/internal/models"
)

// Haystack builds the search string for an entry: name||epoch:version-release||arch.
func Haystack(e models.CatalogEntry) string {
	return e.Name + "||" + e.EVR() + "||" + e.Arch
}

/**
 * Filter catalog entries by a literal needle
 * @param {[]models.CatalogEntry} entries - Entries to filter
 * @param {string} needle - Case sensitive substring, empty matches everything
 * @returns {[]models.CatalogEntry} Matching entries in input order
 * @description
 * - Matches against Haystack(entry), no tokenization
 * - Input slice is never modified
 */
func Filter(entries []models.CatalogEntry, needle string) []models.CatalogEntry {
	if needle == "" {
		return entries
	}
	filtered := make([]models.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(Haystack(e), needle) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
