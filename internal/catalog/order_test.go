package catalog

import (
	"testing"

	"canvas-portal/internal/models"

	"github.com/google/go-cmp/cmp"
)

func names(entries []models.CatalogEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func TestSortEntries(t *testing.T) {
	in := []models.CatalogEntry{
		{Name: "zsh", Arch: "x86_64", Template: 2},
		{Name: "bash", Arch: "noarch", Template: 1},
		{Name: "mc", Arch: "x86_64", Template: 1},
	}
	cases := []struct {
		field   string
		reverse bool
		want    []string
	}{
		{"", false, []string{"zsh", "bash", "mc"}},
		{"n", false, []string{"bash", "mc", "zsh"}},
		{"n", true, []string{"zsh", "mc", "bash"}},
		{"a", false, []string{"bash", "zsh", "mc"}},
		{"template", false, []string{"bash", "mc", "zsh"}},
	}
	for _, tc := range cases {
		got := names(SortEntries(in, tc.field, tc.reverse))
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("SortEntries(%q, %v) mismatch (-want +got):\n%s", tc.field, tc.reverse, diff)
		}
	}
	if in[0].Name != "zsh" {
		t.Error("SortEntries modified its input")
	}
	if ValidOrder("x") || !ValidOrder("n") || !ValidOrder("") {
		t.Error("ValidOrder")
	}
}
