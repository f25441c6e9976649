package catalog

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"canvas-portal/internal/config"
	"canvas-portal/internal/models"

	"github.com/google/go-cmp/cmp"
)

/**
 * Test remote paging with a filter applied on the last page
 * @description
 * - 250 items, 100 per page, navigate to page 2
 * - Filtering the page down to 10 matches yields a single page 0
 * - Clearing the filter restores the server page
 */
func TestBrowserRemoteFilterOnLastPage(t *testing.T) {
	c, fake := newTestClient(t, 250, 100)
	ctx := context.Background()
	b := NewBrowser(c, Options{PageSize: 100, Paging: config.PagingRemote})

	if err := b.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := b.Last(ctx); err != nil {
		t.Fatalf("Last failed: %v", err)
	}
	v := b.View()
	if v.State.Page != 2 || v.State.LastPage != 2 || v.State.FirstVisible != 201 || len(v.Entries) != 50 {
		t.Fatalf("unexpected view after Last: %+v", v.State)
	}

	b.SetFilter("pkg-20")
	v = b.View()
	want := PageState{Page: 0, PageSize: 100, ItemCount: 10, LastPage: 0, FirstVisible: 1, LastVisible: 10}
	if diff := cmp.Diff(want, v.State); diff != "" {
		t.Errorf("filtered state mismatch (-want +got):\n%s", diff)
	}
	if v.Pages != 1 || len(v.Entries) != 10 || v.Entries[0].Name != "pkg-200" {
		t.Errorf("filtered view: pages=%d entries=%d", v.Pages, len(v.Entries))
	}

	requests := fake.pageRequests.Load()
	if err := b.Next(ctx, 1); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if fake.pageRequests.Load() != requests {
		t.Error("navigation with a filter should not fetch")
	}

	b.SetFilter("")
	v = b.View()
	if v.State.Page != 2 || v.State.ItemCount != 250 || len(v.Entries) != 50 {
		t.Errorf("view after clearing filter: %+v", v.State)
	}
}

func TestBrowserRemoteNavigation(t *testing.T) {
	c, fake := newTestClient(t, 950, 100)
	ctx := context.Background()
	b := NewBrowser(c, Options{PageSize: 100, WindowSize: 5, Step: 5, Paging: config.PagingRemote})

	if v := b.View(); len(v.PageList) != 0 || len(v.Entries) != 0 {
		t.Fatalf("view before Load: %+v", v)
	}
	if err := b.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	steps := []struct {
		name string
		do   func() error
		page int
	}{
		{"next", func() error { return b.Next(ctx, 0) }, 5},
		{"next clamps", func() error { return b.Next(ctx, 0) }, 9},
		{"previous", func() error { return b.Previous(ctx, 3) }, 6},
		{"goto", func() error { return b.GoTo(ctx, 4) }, 4},
		{"first", func() error { return b.First(ctx) }, 0},
	}
	for _, s := range steps {
		if err := s.do(); err != nil {
			t.Fatalf("%s failed: %v", s.name, err)
		}
		if got := b.View().State.Page; got != s.page {
			t.Errorf("%s: page = %d, want %d", s.name, got, s.page)
		}
	}
	if q := fake.lastQuery.Load().(string); q != "_cp=0" {
		t.Errorf("last query = %q", q)
	}

	requests := fake.pageRequests.Load()
	b.First(ctx)
	b.Previous(ctx, 1)
	b.GoTo(ctx, 0)
	if fake.pageRequests.Load() != requests {
		t.Error("no-op navigation sent requests")
	}

	if diff := cmp.Diff([]int{0, 1, 2, 3, 4}, b.View().PageList); diff != "" {
		t.Errorf("page list mismatch (-want +got):\n%s", diff)
	}
}

func TestBrowserRemoteFailureKeepsView(t *testing.T) {
	c, fake := newTestClient(t, 250, 100)
	ctx := context.Background()
	b := NewBrowser(c, Options{PageSize: 100})
	if err := b.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	before := b.View()

	fake.failPages.Store(true)
	if err := b.Next(ctx, 1); err == nil {
		t.Fatal("expected Next to fail")
	}
	after := b.View()
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("view changed after failure (-before +after):\n%s", diff)
	}
}

func TestBrowserLocalPagingOverRemoteList(t *testing.T) {
	c, fake := newTestClient(t, 30, 30)
	ctx := context.Background()
	b := NewBrowser(c, Options{PageSize: 10, WindowSize: 2, Paging: config.PagingLocal})
	if err := b.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := b.Next(ctx, 1); err != nil {
		t.Fatal(err)
	}
	v := b.View()
	if v.State.Page != 1 || v.Entries[0].Name != "pkg-010" || len(v.Entries) != 10 {
		t.Errorf("view = %+v", v.State)
	}
	if diff := cmp.Diff([]int{0, 1}, v.PageList); diff != "" {
		t.Errorf("page list mismatch (-want +got):\n%s", diff)
	}
	if fake.pageRequests.Load() != 1 {
		t.Errorf("local navigation fetched: %d requests", fake.pageRequests.Load())
	}
}

func TestLocalBrowser(t *testing.T) {
	entries := make([]models.CatalogEntry, 25)
	for i := range entries {
		entries[i] = models.CatalogEntry{Name: fmt.Sprintf("pkg-%02d", i)}
	}
	b := NewLocalBrowser(entries, Options{PageSize: 10})
	ctx := context.Background()

	if err := b.Load(ctx); err != nil {
		t.Fatalf("Load on a local browser: %v", err)
	}
	v := b.View()
	if v.Paging != config.PagingLocal || v.Pages != 3 || len(v.Entries) != 10 || v.Loading {
		t.Fatalf("view = %+v", v)
	}

	b.Last(ctx)
	v = b.View()
	if v.State.Page != 2 || len(v.Entries) != 5 || v.Entries[0].Name != "pkg-20" {
		t.Errorf("last page view = %+v", v.State)
	}

	b.SetFilter("pkg-1")
	v = b.View()
	if v.State.Page != 0 || v.State.ItemCount != 10 || v.Filter != "pkg-1" {
		t.Errorf("filtered view = %+v", v.State)
	}

	b.SetFilter("nothing")
	v = b.View()
	if v.Entries == nil || len(v.Entries) != 0 || v.State.FirstVisible != 0 {
		t.Errorf("empty view = %+v", v)
	}
}

func TestBrowserConcurrentLoadFetchesOnce(t *testing.T) {
	c, fake := newTestClient(t, 250, 100)
	b := NewBrowser(c, Options{PageSize: 100})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := b.Load(context.Background()); err != nil {
				t.Errorf("Load failed: %v", err)
			}
		}()
	}
	wg.Wait()
	if n := fake.pageRequests.Load(); n != 1 {
		t.Errorf("concurrent Load fetched %d pages, want 1", n)
	}
}

func TestBrowserOrder(t *testing.T) {
	entries := make([]models.CatalogEntry, 25)
	for i := range entries {
		entries[i] = models.CatalogEntry{Name: fmt.Sprintf("pkg-%02d", i)}
	}
	b := NewLocalBrowser(entries, Options{PageSize: 10})
	ctx := context.Background()

	if err := b.SetOrder("n", true); err != nil {
		t.Fatal(err)
	}
	if err := b.Last(ctx); err != nil {
		t.Fatal(err)
	}
	v := b.View()
	if v.Order != "n" || !v.Reverse || len(v.Entries) != 5 || v.Entries[0].Name != "pkg-04" {
		t.Errorf("reversed last page = %+v, first %q", v.State, v.Entries[0].Name)
	}

	if err := b.SetOrder("size", false); err == nil {
		t.Error("unknown order field accepted")
	}
	if err := b.SetOrder("", false); err != nil {
		t.Fatal(err)
	}
	if v := b.View(); v.Entries[0].Name != "pkg-20" {
		t.Errorf("input order not restored: %q", v.Entries[0].Name)
	}
}
