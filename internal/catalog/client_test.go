package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"canvas-portal/internal/models"
	"canvas-portal/internal/rpc"
)

// fakeCatalog serves a numbered package listing plus a small template tree.
type fakeCatalog struct {
	total    int
	pageSize int

	failPages    atomic.Bool
	pageRequests atomic.Int32
	detailHits   sync.Map // id -> *atomic.Int32
	lastQuery    atomic.Value
}

func (f *fakeCatalog) detailCount(id int64) int32 {
	v, ok := f.detailHits.Load(id)
	if !ok {
		return 0
	}
	return v.(*atomic.Int32).Load()
}

func (f *fakeCatalog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	path := r.URL.Path
	switch {
	case path == "/api/packages":
		f.pageRequests.Add(1)
		f.lastQuery.Store(r.URL.RawQuery)
		if f.failPages.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"code":"catalog.unavailable","message":"backend down"}`))
			return
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("_cp"))
		data := models.PageData{
			Page:       page,
			LastPage:   f.total / f.pageSize,
			TotalItems: f.total,
			PageSize:   f.pageSize,
			Packages:   []models.CatalogEntry{},
		}
		for i := page * f.pageSize; i < min((page+1)*f.pageSize, f.total); i++ {
			data.Packages = append(data.Packages, models.CatalogEntry{
				ID: int64(i + 1), Name: fmt.Sprintf("pkg-%03d", i), Epoch: "0", Version: "1.0", Release: "1", Arch: "x86_64",
			})
		}
		json.NewEncoder(w).Encode(data)
	case strings.HasPrefix(path, "/api/package/"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(path, "/api/package/"), 10, 64)
		v, _ := f.detailHits.LoadOrStore(id, new(atomic.Int32))
		v.(*atomic.Int32).Add(1)
		if id == 404 {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"code":"package.missing","message":"no such package"}`))
			return
		}
		time.Sleep(10 * time.Millisecond)
		fmt.Fprintf(w, `{"name":"pkg-%d","url":"https://example.org/?a=1&b=2","description":"<b>ok</b><script>alert(1)</script>"}`, id)
	case path == "/api/template/1":
		w.Write([]byte(`{"id":"1","name":"desktop","owner":"firnsy","packages":[{"n":"a","e":0,"v":"1","r":"1","a":"noarch"},{"n":"b","e":"0","v":"1","r":"1","a":"noarch"}]}`))
	case path == "/api/template/1/includes":
		w.Write([]byte(`[{"id":2,"packages":[{"n":"b"},{"n":"c"}],"includes":[{"id":3,"packages":[{"n":"d"}]}]}]`))
	case path == "/api/templates":
		if r.URL.Query().Get("name") == "desktop" {
			w.Write([]byte(`[{"id":"1","name":"desktop","user":"firnsy"}]`))
			return
		}
		w.Write([]byte(`[]`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, total, pageSize int) (*Client, *fakeCatalog) {
	t.Helper()
	fake := &fakeCatalog{total: total, pageSize: pageSize}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	client := rpc.NewHTTPClient(&rpc.HTTPConfig{BaseURL: server.URL, Timeout: 5 * time.Second})
	t.Cleanup(func() { client.Close() })
	return NewClient(client), fake
}

func TestLoadPage(t *testing.T) {
	c, fake := newTestClient(t, 250, 100)
	ctx := context.Background()

	data, err := c.LoadPage(ctx, map[string]interface{}{"_cp": 2})
	if err != nil {
		t.Fatalf("LoadPage failed: %v", err)
	}
	if data.Page != 2 || data.LastPage != 2 || len(data.Packages) != 50 {
		t.Errorf("unexpected page %+v", data)
	}
	if data.PageItemFirst != 201 || data.PageItemLast != 250 {
		t.Errorf("page items = %d..%d, want 201..250", data.PageItemFirst, data.PageItemLast)
	}
	if q := fake.lastQuery.Load().(string); q != "_cp=2" {
		t.Errorf("query = %q", q)
	}
	if c.IsPageLoading() {
		t.Error("page loading flag still set")
	}
}

/**
 * Test a failed page load keeps the previously loaded data
 */
func TestLoadPageFailureKeepsPreviousPage(t *testing.T) {
	c, fake := newTestClient(t, 250, 100)
	ctx := context.Background()

	if _, err := c.LoadPage(ctx, nil); err != nil {
		t.Fatalf("LoadPage failed: %v", err)
	}
	fake.failPages.Store(true)

	_, err := c.LoadPage(ctx, map[string]interface{}{"_cp": 1})
	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Kind != ErrStatus || cerr.Status != http.StatusInternalServerError {
		t.Fatalf("LoadPage error = %v, want status error", err)
	}
	if !strings.Contains(err.Error(), "backend down") {
		t.Errorf("error does not carry server message: %v", err)
	}

	page, ok := c.Page()
	if !ok || page.Page != 0 || len(page.Packages) != 100 {
		t.Errorf("previous page lost: ok=%v page=%d len=%d", ok, page.Page, len(page.Packages))
	}
	if c.IsPageLoading() {
		t.Error("page loading flag still set after failure")
	}
}

func TestLoadDetail(t *testing.T) {
	c, fake := newTestClient(t, 10, 10)
	ctx := context.Background()

	if err := c.LoadDetail(ctx, 5); err != nil {
		t.Fatalf("LoadDetail failed: %v", err)
	}
	d, ok := c.Detail(5)
	if !ok || d.Loading {
		t.Fatalf("detail = %+v, ok=%v", d, ok)
	}
	if d.Fields["name"] != "pkg-5" {
		t.Errorf("name = %v", d.Fields["name"])
	}
	desc, _ := d.Fields["description"].(string)
	if !strings.Contains(desc, "<b>ok</b>") || strings.Contains(desc, "script") {
		t.Errorf("description not sanitized: %q", desc)
	}
	if d.Fields["url"] != "https://example.org/?a=1&b=2" {
		t.Errorf("url was altered: %v", d.Fields["url"])
	}

	if err := c.LoadDetail(ctx, 5); err != nil {
		t.Fatalf("second LoadDetail failed: %v", err)
	}
	if n := fake.detailCount(5); n != 1 {
		t.Errorf("detail requests = %d, want 1", n)
	}
}

func TestLoadDetailIgnoresInvalidID(t *testing.T) {
	c, fake := newTestClient(t, 10, 10)
	for _, id := range []int64{0, -3} {
		if err := c.LoadDetail(context.Background(), id); err != nil {
			t.Errorf("LoadDetail(%d) = %v", id, err)
		}
		if _, ok := c.Detail(id); ok {
			t.Errorf("LoadDetail(%d) created a cache entry", id)
		}
	}
	if fake.pageRequests.Load() != 0 {
		t.Error("unexpected requests")
	}
}

/**
 * Test concurrent detail loads for one id send a single request
 */
func TestLoadDetailConcurrent(t *testing.T) {
	c, fake := newTestClient(t, 10, 10)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.LoadDetail(context.Background(), 7)
		}()
	}
	wg.Wait()

	// wait for the single in-flight request to land
	deadline := time.Now().Add(2 * time.Second)
	for {
		if d, _ := c.Detail(7); !d.Loading {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("detail still loading")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if n := fake.detailCount(7); n != 1 {
		t.Errorf("detail requests = %d, want 1", n)
	}
}

func TestLoadDetailFailureKeepsPlaceholder(t *testing.T) {
	c, fake := newTestClient(t, 10, 10)
	ctx := context.Background()

	if err := c.LoadDetail(ctx, 404); err == nil {
		t.Fatal("expected error")
	}
	d, ok := c.Detail(404)
	if !ok || d.Loading || d.Fields != nil {
		t.Errorf("placeholder = %+v, ok=%v", d, ok)
	}
	c.LoadDetail(ctx, 404)
	if n := fake.detailCount(404); n != 1 {
		t.Errorf("detail requests = %d, want 1", n)
	}
}

func TestToggle(t *testing.T) {
	c, _ := newTestClient(t, 10, 10)
	ctx := context.Background()

	if c.IsDetailSelected(3) {
		t.Fatal("unknown id reported selected")
	}
	selected, err := c.ToggleSelected(ctx, 3)
	if err != nil || !selected || !c.IsDetailSelected(3) {
		t.Fatalf("ToggleSelected = %v, %v", selected, err)
	}
	selected, _ = c.ToggleSelected(ctx, 3)
	if selected || c.IsDetailSelected(3) {
		t.Error("second toggle did not clear the flag")
	}

	visible, err := c.ToggleVisible(ctx, 3)
	if err != nil || !visible || !c.IsDetailVisible(3) {
		t.Errorf("ToggleVisible = %v, %v", visible, err)
	}

	if v, _ := c.ToggleSelected(ctx, 0); v {
		t.Error("toggle on id 0 should report false")
	}
}

func TestTemplateCalls(t *testing.T) {
	c, _ := newTestClient(t, 10, 10)
	ctx := context.Background()

	id, err := c.FindTemplate(ctx, TemplateRef{User: "firnsy", Name: "desktop"})
	if err != nil || id != 1 {
		t.Fatalf("FindTemplate = %d, %v", id, err)
	}
	if _, err := c.FindTemplate(ctx, TemplateRef{User: "firnsy", Name: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindTemplate(missing) = %v, want ErrNotFound", err)
	}

	tpl, err := c.LoadTemplate(ctx, id)
	if err != nil {
		t.Fatalf("LoadTemplate failed: %v", err)
	}
	if tpl.ID != 1 || tpl.User != "firnsy" || len(tpl.Packages) != 2 {
		t.Fatalf("template = %+v", tpl)
	}

	if err := c.ResolveIncludes(ctx, tpl); err != nil {
		t.Fatalf("ResolveIncludes failed: %v", err)
	}
	got := []string{}
	for _, p := range tpl.Packages {
		got = append(got, fmt.Sprintf("%s@%d", p.Name, p.Template))
	}
	if strings.Join(got, ",") != "a@1,b@1,c@2,d@3" {
		t.Errorf("flattened = %v", got)
	}
}

func TestTemplateID(t *testing.T) {
	c, _ := newTestClient(t, 10, 10)
	ctx := context.Background()

	for _, ref := range []string{"1", "desktop", "firnsy:desktop"} {
		if id, err := c.TemplateID(ctx, ref, "firnsy"); err != nil || id != 1 {
			t.Errorf("TemplateID(%q) = %d, %v", ref, id, err)
		}
	}
	for _, ref := range []string{"nobody:", "0", "-3"} {
		if _, err := c.TemplateID(ctx, ref, "firnsy"); err == nil {
			t.Errorf("TemplateID(%q) accepted an invalid reference", ref)
		}
	}

	tpl, err := c.LoadFlattened(ctx, 1)
	if err != nil {
		t.Fatalf("LoadFlattened failed: %v", err)
	}
	if len(tpl.Packages) != 4 || len(tpl.Includes) != 1 {
		t.Errorf("flattened template = %+v", tpl)
	}
}
