package navigation

import (
	"errors"
	"testing"
)

type recordingChrome struct {
	loaded []string
}

func (c *recordingChrome) RouteLoaded(route Route) {
	c.loaded = append(c.loaded, route.Slug)
}

func TestFind(t *testing.T) {
	cases := map[string]string{
		"/":                    "home",
		"/about":               "about",
		"/canvas/packages/":    "packages",
		"/canvas/repositories": "repositories",
		"/password/reset":      "password-reset",
	}
	for path, slug := range cases {
		r, ok := Find(path)
		if !ok || r.Slug != slug {
			t.Errorf("Find(%q) = %+v, %v; want slug %s", path, r, ok, slug)
		}
	}
	if _, ok := Find("/nowhere"); ok {
		t.Error("Find(/nowhere) succeeded")
	}
}

func TestNavigatorLoad(t *testing.T) {
	chrome := &recordingChrome{}
	n := NewNavigator(chrome)

	if n.PageActive("home") != "" || n.IsMode(ModePage) {
		t.Fatal("navigator reports a page before Load")
	}

	if _, err := n.Load("/canvas/packages"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if n.PageActive("packages") != "active" || n.PageActive("home") != "" {
		t.Error("PageActive mismatch")
	}
	if !n.IsMode(ModeCanvas) || n.IsMode(ModePage) || n.Mode() != ModeCanvas {
		t.Error("IsMode mismatch")
	}

	if _, err := n.Load("/bogus"); !errors.Is(err, ErrUnknownRoute) {
		t.Errorf("Load(/bogus) = %v", err)
	}
	if r, _ := n.Current(); r.Slug != "packages" {
		t.Errorf("route changed to %s after failed load", r.Slug)
	}

	n.Load("/")
	if len(chrome.loaded) != 2 || chrome.loaded[1] != "home" {
		t.Errorf("chrome notifications = %v", chrome.loaded)
	}

	active := 0
	for _, item := range n.Menu() {
		if item.Active == "active" {
			active++
		}
	}
	if active != 1 {
		t.Errorf("menu has %d active items", active)
	}
}

func TestSliderChrome(t *testing.T) {
	slider := &SliderChrome{}
	n := NewNavigator(slider)

	n.Load("/")
	if !slider.Running() {
		t.Error("slider stopped on home")
	}
	n.Load("/about")
	if slider.Running() {
		t.Error("slider running off home")
	}
}
