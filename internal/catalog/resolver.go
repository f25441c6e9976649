package catalog

import (
	"fmt"
	"strings"

	"canvas-portal/internal/models"
)

/**
 * Flatten a template and its transitive includes into one package list
 * @param {*models.Template} root - Template whose includes have been loaded
 * @returns {[]models.CatalogEntry} Packages unique by name
 * @description
 * - Pre-order depth first: a template's own packages, then each include in order
 * - The first occurrence of a package name wins, later ones are dropped
 * - Each kept entry is tagged with the id of the template that contributed it
 * - A template id reached a second time is skipped, so include cycles terminate
 */
func Flatten(root *models.Template) []models.CatalogEntry {
	packages := []models.CatalogEntry{}
	if root == nil {
		return packages
	}
	seen := make(map[string]struct{})
	visited := make(map[int64]struct{})

	var walk func(t *models.Template)
	walk = func(t *models.Template) {
		if t == nil {
			return
		}
		if _, ok := visited[t.ID]; ok {
			return
		}
		visited[t.ID] = struct{}{}

		for _, p := range t.Packages {
			if _, ok := seen[p.Name]; ok {
				continue
			}
			seen[p.Name] = struct{}{}
			p.Template = t.ID
			packages = append(packages, p)
		}
		for _, inc := range t.Includes {
			walk(inc)
		}
	}
	walk(root)
	return packages
}

// IsInherited reports whether entry came from one of root's includes.
func IsInherited(entry models.CatalogEntry, root *models.Template) bool {
	return entry.Template != root.ID
}

/**
 * Template reference in "user:name" form
 */
type TemplateRef struct {
	User string
	Name string
}

func (r TemplateRef) String() string {
	return r.User + ":" + r.Name
}

/**
 * Parse a template reference
 * @param {string} ref - "name" or "user:name"
 * @param {string} defaultUser - Owner used for bare names
 * @returns {TemplateRef} Parsed reference
 * @returns {error} Error for empty parts or more than one separator
 */
func ParseTemplateRef(ref, defaultUser string) (TemplateRef, error) {
	parts := strings.Split(ref, ":")
	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return TemplateRef{}, fmt.Errorf("empty template reference")
		}
		return TemplateRef{User: defaultUser, Name: parts[0]}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return TemplateRef{}, fmt.Errorf("invalid template reference %q", ref)
		}
		return TemplateRef{User: parts[0], Name: parts[1]}, nil
	default:
		return TemplateRef{}, fmt.Errorf("invalid template reference %q", ref)
	}
}
