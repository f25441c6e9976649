package catalog

import (
	"testing"

	"canvas-portal/internal/models"

	"github.com/google/go-cmp/cmp"
)

func pkg(name string) models.CatalogEntry {
	return models.CatalogEntry{Name: name, Epoch: "0", Version: "1.0", Release: "1", Arch: "noarch"}
}

/**
 * Test flattening order, de-duplication and attribution
 * @description
 * - T1 {a, b} includes T2 {b, c} and T3 {c, d}
 * - Result is a(1) b(1) c(2) d(3)
 */
func TestFlatten(t *testing.T) {
	t2 := &models.Template{ID: 2, Packages: []models.CatalogEntry{pkg("b"), pkg("c")}}
	t3 := &models.Template{ID: 3, Packages: []models.CatalogEntry{pkg("c"), pkg("d")}}
	t1 := &models.Template{ID: 1, Packages: []models.CatalogEntry{pkg("a"), pkg("b")}, Includes: []*models.Template{t2, t3}}

	type attributed struct {
		Name     string
		Template int64
	}
	got := []attributed{}
	for _, e := range Flatten(t1) {
		got = append(got, attributed{e.Name, e.Template})
	}
	want := []attributed{{"a", 1}, {"b", 1}, {"c", 2}, {"d", 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Flatten mismatch (-want +got):\n%s", diff)
	}

	// own packages are left untouched
	if t2.Packages[0].Template != 0 {
		t.Errorf("Flatten modified include packages: %+v", t2.Packages[0])
	}
}

func TestFlattenNestedPreOrder(t *testing.T) {
	leaf := &models.Template{ID: 4, Packages: []models.CatalogEntry{pkg("x"), pkg("e")}}
	mid := &models.Template{ID: 2, Packages: []models.CatalogEntry{pkg("b")}, Includes: []*models.Template{leaf}}
	side := &models.Template{ID: 3, Packages: []models.CatalogEntry{pkg("x"), pkg("y")}}
	root := &models.Template{ID: 1, Packages: []models.CatalogEntry{pkg("a")}, Includes: []*models.Template{mid, side}}

	names := []string{}
	for _, e := range Flatten(root) {
		names = append(names, e.Name)
	}
	if diff := cmp.Diff([]string{"a", "b", "x", "e", "y"}, names); diff != "" {
		t.Errorf("Flatten order mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenTerminatesOnCycle(t *testing.T) {
	a := &models.Template{ID: 1, Packages: []models.CatalogEntry{pkg("a")}}
	b := &models.Template{ID: 2, Packages: []models.CatalogEntry{pkg("b")}}
	a.Includes = []*models.Template{b}
	b.Includes = []*models.Template{a}

	got := Flatten(a)
	if len(got) != 2 {
		t.Fatalf("Flatten returned %d packages, want 2", len(got))
	}
}

func TestFlattenEmpty(t *testing.T) {
	if got := Flatten(nil); len(got) != 0 {
		t.Errorf("Flatten(nil) = %v", got)
	}
	if got := Flatten(&models.Template{ID: 9}); got == nil || len(got) != 0 {
		t.Errorf("Flatten(empty) = %#v, want empty non-nil slice", got)
	}
}

func TestIsInherited(t *testing.T) {
	t2 := &models.Template{ID: 2, Packages: []models.CatalogEntry{pkg("b")}}
	t1 := &models.Template{ID: 1, Packages: []models.CatalogEntry{pkg("a")}, Includes: []*models.Template{t2}}
	flat := Flatten(t1)
	if IsInherited(flat[0], t1) {
		t.Error("own package reported as inherited")
	}
	if !IsInherited(flat[1], t1) {
		t.Error("included package not reported as inherited")
	}
}

func TestParseTemplateRef(t *testing.T) {
	cases := []struct {
		in      string
		want    TemplateRef
		wantErr bool
	}{
		{"korora-base", TemplateRef{"firnsy", "korora-base"}, false},
		{"alice:desktop", TemplateRef{"alice", "desktop"}, false},
		{"", TemplateRef{}, true},
		{":desktop", TemplateRef{}, true},
		{"alice:", TemplateRef{}, true},
		{"a:b:c", TemplateRef{}, true},
	}
	for _, tc := range cases {
		got, err := ParseTemplateRef(tc.in, "firnsy")
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseTemplateRef(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTemplateRef(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
	if s := (TemplateRef{"alice", "desktop"}).String(); s != "alice:desktop" {
		t.Errorf("String() = %q", s)
	}
}
