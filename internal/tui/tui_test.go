package tui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"canvas-portal/internal/catalog"
	"canvas-portal/internal/config"
	"canvas-portal/internal/models"
	"canvas-portal/internal/rpc"

	tea "github.com/charmbracelet/bubbletea"
)

func entries(n int) []models.CatalogEntry {
	out := make([]models.CatalogEntry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.CatalogEntry{Name: fmt.Sprintf("pkg-%02d", i), Version: "1", Release: "1", Arch: "noarch"})
	}
	return out
}

func newTestModel(n int) Model {
	b := catalog.NewLocalBrowser(entries(n), catalog.Options{PageSize: 10, WindowSize: 5, Step: 1})
	m := NewModel(b, "test")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func TestPaging(t *testing.T) {
	m := newTestModel(35)
	if m.Init() != nil {
		t.Error("local browser should not load on Init")
	}

	m = press(m, "n", "n")
	if page := m.browser.View().State.Page; page != 2 {
		t.Errorf("page after two steps = %d", page)
	}
	m = press(m, "G")
	view := m.browser.View()
	if view.State.Page != 3 || len(view.Entries) != 5 {
		t.Errorf("last page = %d with %d entries", view.State.Page, len(view.Entries))
	}
	m = press(m, "g")
	if page := m.browser.View().State.Page; page != 0 {
		t.Errorf("first page = %d", page)
	}
}

func TestFilterInput(t *testing.T) {
	m := newTestModel(35)

	m = press(m, "/", "3")
	if !m.filtering || m.filter != "3" {
		t.Fatalf("filter state = %v %q", m.filtering, m.filter)
	}
	// pkg-03, pkg-13, pkg-23, pkg-30..pkg-34
	if n := len(m.browser.View().Entries); n != 8 {
		t.Errorf("filtered entries = %d", n)
	}

	m = press(m, "0", "backspace", "enter")
	if m.filtering || m.filter != "3" {
		t.Errorf("after enter: %v %q", m.filtering, m.filter)
	}
	m = press(m, "/", "esc")
	if m.filter != "" || len(m.browser.View().Entries) != 10 {
		t.Errorf("esc did not clear the filter: %q", m.filter)
	}
}

func TestCursorAndView(t *testing.T) {
	m := newTestModel(3)
	m = press(m, "down", "down", "down")
	if m.cursor != 2 {
		t.Errorf("cursor = %d", m.cursor)
	}
	m = press(m, "enter")
	if !m.statusIsErr || !strings.Contains(m.statusLine, "pkg-02") {
		t.Errorf("status = %q", m.statusLine)
	}

	out := m.View()
	for _, want := range []string{"Canvas", "pkg-00", "pkg-02", "1-3 of 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("view is missing %q", want)
		}
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q did not quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not return tea.Quit")
	}
}

func TestRemoteFailureIsQuiet(t *testing.T) {
	var down atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if down.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(models.PageData{
			LastPage: 2, TotalItems: 25, PageSize: 10, Packages: entries(10),
		})
	}))
	defer srv.Close()
	transport := rpc.NewHTTPClient(&rpc.HTTPConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	defer transport.Close()

	b := catalog.NewBrowser(catalog.NewClient(transport), catalog.Options{PageSize: 10, Step: 1, Paging: config.PagingRemote})
	m := NewModel(b, "remote")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(Model)

	updated, _ = m.Update(m.Init()())
	m = updated.(Model)
	if m.loading || len(b.View().Entries) != 10 {
		t.Fatalf("initial load: loading %v, %d entries", m.loading, len(b.View().Entries))
	}

	down.Store(true)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m = updated.(Model)
	if cmd == nil || !m.loading {
		t.Fatal("remote navigation did not start a load")
	}
	updated, _ = m.Update(cmd())
	m = updated.(Model)
	if m.loading || m.statusLine != "" || b.View().State.Page != 0 {
		t.Errorf("after failure: loading %v status %q page %d", m.loading, m.statusLine, b.View().State.Page)
	}
}
