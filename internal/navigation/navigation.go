package navigation

import (
	"errors"
	"strings"
	"sync"
)

var ErrUnknownRoute = errors.New("unknown route")

// Page modes; the mode groups routes that share a layout.
const (
	ModePage    = "page"
	ModeCanvas  = "canvas"
	ModeAccount = "account"
	ModeSupport = "support"
)

/**
 * Site route
 * @property {string} path - URL path
 * @property {string} slug - Page identifier used for menu highlighting
 * @property {string} mode - Layout mode
 * @property {string} template - Page template name
 */
type Route struct {
	Path     string `json:"path"`
	Slug     string `json:"slug"`
	Mode     string `json:"mode"`
	Template string `json:"template"`
}

// Routes is the site route table.
var Routes = []Route{
	{Path: "/", Slug: "home", Mode: ModePage, Template: "home.html"},
	{Path: "/about", Slug: "about", Mode: ModePage, Template: "about.html"},
	{Path: "/discover", Slug: "discover", Mode: ModePage, Template: "discover.html"},
	{Path: "/canvas", Slug: "canvas", Mode: ModeCanvas, Template: "canvas/index.html"},
	{Path: "/canvas/packages", Slug: "packages", Mode: ModeCanvas, Template: "canvas/packages.html"},
	{Path: "/canvas/repositories", Slug: "repositories", Mode: ModeCanvas, Template: "canvas/repositories.html"},
	{Path: "/download", Slug: "download", Mode: ModePage, Template: "download.html"},
	{Path: "/donate", Slug: "donate", Mode: ModeSupport, Template: "donate.html"},
	{Path: "/sponsor", Slug: "sponsor", Mode: ModeSupport, Template: "sponsor.html"},
	{Path: "/register", Slug: "register", Mode: ModeAccount, Template: "register.html"},
	{Path: "/activate", Slug: "activate", Mode: ModeAccount, Template: "activate.html"},
	{Path: "/password/reset", Slug: "password-reset", Mode: ModeAccount, Template: "password_reset.html"},
}

// Find returns the route for path; a trailing slash is ignored.
func Find(path string) (Route, bool) {
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	for _, r := range Routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// Chrome receives page chrome notifications (slider, menu pinning); it is never queried.
type Chrome interface {
	RouteLoaded(route Route)
}

// SliderChrome runs the home page slider only while the home route is shown.
type SliderChrome struct {
	mu      sync.Mutex
	running bool
}

func (c *SliderChrome) RouteLoaded(route Route) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = route.Slug == "home"
}

func (c *SliderChrome) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

/**
 * Current page of a visitor
 * @description
 * - Load switches the route and notifies the chrome
 * - PageActive and IsMode answer menu highlighting queries
 */
type Navigator struct {
	mu     sync.RWMutex
	chrome Chrome
	route  Route
	loaded bool
}

// NewNavigator creates a navigator; chrome may be nil.
func NewNavigator(chrome Chrome) *Navigator {
	return &Navigator{chrome: chrome}
}

/**
 * Load a route by path
 * @param {string} path - URL path
 * @returns {Route} The loaded route
 * @returns {error} ErrUnknownRoute; the current route is kept
 */
func (n *Navigator) Load(path string) (Route, error) {
	route, ok := Find(path)
	if !ok {
		return Route{}, ErrUnknownRoute
	}
	n.mu.Lock()
	n.route = route
	n.loaded = true
	chrome := n.chrome
	n.mu.Unlock()

	if chrome != nil {
		chrome.RouteLoaded(route)
	}
	return route, nil
}

func (n *Navigator) Current() (Route, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.route, n.loaded
}

// PageActive returns "active" for the current slug, "" otherwise.
func (n *Navigator) PageActive(slug string) string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.loaded && n.route.Slug == slug {
		return "active"
	}
	return ""
}

func (n *Navigator) Mode() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.route.Mode
}

func (n *Navigator) IsMode(mode string) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.loaded && n.route.Mode == mode
}

// MenuItem is one entry of the rendered navigation menu.
type MenuItem struct {
	Path   string `json:"path"`
	Slug   string `json:"slug"`
	Active string `json:"active"`
}

// Menu lists every route with its highlighting class.
func (n *Navigator) Menu() []MenuItem {
	items := make([]MenuItem, 0, len(Routes))
	for _, r := range Routes {
		items = append(items, MenuItem{Path: r.Path, Slug: r.Slug, Active: n.PageActive(r.Slug)})
	}
	return items
}
