package services

import (
	"context"
	"sync"
	"time"

	"canvas-portal/internal/catalog"
	"canvas-portal/internal/config"
	"canvas-portal/internal/forms"
	"canvas-portal/internal/logger"
	"canvas-portal/internal/models"
	"canvas-portal/internal/navigation"
	"canvas-portal/internal/rpc"
)

/**
 * Template view held by a session
 * @property {*models.Template} template - Resolved template, packages flattened
 * @property {*catalog.Browser} browser - Local pager over the flattened packages
 */
type TemplateBrowser struct {
	Template *models.Template
	Browser  *catalog.Browser
}

/**
 * Visitor session: all per-visitor client state of the portal
 * @description
 * - Cache and Lookup back the account forms
 * - Navigator tracks the visitor's current page
 * - The package browser and template views are created on first use
 */
type Session struct {
	ID        string
	Cache     *forms.AvailabilityCache
	Lookup    *forms.Lookup
	Navigator *navigation.Navigator
	Chrome    *navigation.SliderChrome

	owner   *SessionManager
	created time.Time

	mu           sync.Mutex
	lastSeen     time.Time
	packages     *catalog.Browser
	templates    map[int64]*TemplateBrowser
	templateRefs map[string]int64
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) browser() *catalog.Browser {
	// 先读取管理器设置，Sweep 持有管理器锁时会获取会话锁
	opts := s.owner.settings().opts
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.packages == nil {
		s.packages = catalog.NewBrowser(catalog.NewClient(s.owner.rpc), opts)
	}
	return s.packages
}

// Details returns the catalog client holding the session's package details; no listing is loaded.
func (s *Session) Details() *catalog.Client {
	return s.browser().Client()
}

/**
 * Get the package browser, loading the first listing page on first use
 * @param {context.Context} ctx - Request context
 * @returns {*catalog.Browser} Session package browser
 * @returns {error} Error of the initial load; the browser is kept and the load retried on the next call
 */
func (s *Session) Packages(ctx context.Context) (*catalog.Browser, error) {
	b := s.browser()
	if err := b.Load(ctx); err != nil {
		return b, err
	}
	return b, nil
}

/**
 * Get a template view by reference
 * @param {context.Context} ctx - Request context
 * @param {string} ref - Numeric template id, "name" or "user:name"
 * @returns {*TemplateBrowser} Resolved template with a local pager
 * @returns {error} Reference, lookup or request error
 * @description
 * - Template and includes are fetched once per session
 * - Resolved references are remembered, so "user:name" is looked up once
 * - A failed include fetch is not cached so the next call retries
 */
func (s *Session) Template(ctx context.Context, ref string) (*TemplateBrowser, error) {
	client := catalog.NewClient(s.owner.rpc)
	settings := s.owner.settings()

	s.mu.Lock()
	id, known := s.templateRefs[ref]
	tb, ok := s.templates[id]
	s.mu.Unlock()
	if known && ok {
		return tb, nil
	}

	if !known {
		var err error
		if id, err = client.TemplateID(ctx, ref, settings.defaultUser); err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.templateRefs[ref] = id
		tb, ok = s.templates[id]
		s.mu.Unlock()
		if ok {
			return tb, nil
		}
	}

	tpl, err := client.LoadFlattened(ctx, id)
	if err != nil {
		return nil, err
	}
	tb = &TemplateBrowser{
		Template: tpl,
		Browser:  catalog.NewLocalBrowser(tpl.Packages, settings.opts),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// 并发请求时保留先写入的视图
	if existing, ok := s.templates[id]; ok {
		return existing, nil
	}
	s.templates[id] = tb
	return tb, nil
}

/**
 * In-memory session store
 * @description
 * - Sessions are keyed by the id carried in the visitor's session token
 * - Sessions idle longer than the TTL are dropped by Sweep
 * - One HTTP client is shared by every session
 * - Reconfigure applies to sessions and browsers created afterwards
 */
type SessionManager struct {
	rpc rpc.HTTPClient
	now func() time.Time

	mu       sync.Mutex
	conf     sessionSettings
	sessions map[string]*Session
}

type sessionSettings struct {
	opts         catalog.Options
	lookupMethod string
	defaultUser  string
	ttl          time.Duration
}

func settingsFromConfig(cfg config.AppConfig) sessionSettings {
	return sessionSettings{
		opts:         catalog.OptionsFromConfig(cfg.Catalog),
		lookupMethod: cfg.Profile.LookupMethod,
		defaultUser:  cfg.Template.DefaultUser,
		ttl:          cfg.Session.TTL,
	}
}

var (
	sessionManager *SessionManager
	sessionOnce    sync.Once
)

/**
 * Create session manager
 * @param {rpc.HTTPClient} client - Transport to the catalog and profile APIs
 * @param {config.AppConfig} cfg - Application configuration
 * @returns {*SessionManager} Empty session store
 */
func NewSessionManager(client rpc.HTTPClient, cfg config.AppConfig) *SessionManager {
	return &SessionManager{
		rpc:      client,
		now:      time.Now,
		conf:     settingsFromConfig(cfg),
		sessions: make(map[string]*Session),
	}
}

/**
 * Apply reloaded settings
 * @param {config.AppConfig} cfg - New configuration
 * @description
 * - catalog paging options, profile.lookup_method and template.default_user apply to new sessions,
 *   existing sessions keep the browsers they already built
 * - session.ttl applies to the next sweep
 */
func (m *SessionManager) Reconfigure(cfg config.AppConfig) {
	m.mu.Lock()
	m.conf = settingsFromConfig(cfg)
	m.mu.Unlock()
	logger.Infof("Session settings reloaded")
}

func (m *SessionManager) settings() sessionSettings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conf
}

// GetSessionManager returns the process wide session manager built from the global config.
func GetSessionManager() *SessionManager {
	sessionOnce.Do(func() {
		sessionManager = NewSessionManager(rpc.NewHTTPClient(nil), config.App())
	})
	return sessionManager
}

/**
 * Get or create the session with id
 * @param {string} id - Session id
 * @returns {*Session} The session, its last-seen time refreshed
 */
func (m *SessionManager) Get(id string) *Session {
	now := m.now()

	m.mu.Lock()
	sess, ok := m.sessions[id]
	if !ok {
		cache := forms.NewAvailabilityCache()
		chrome := &navigation.SliderChrome{}
		sess = &Session{
			ID:           id,
			Cache:        cache,
			Lookup:       forms.NewLookup(m.rpc, m.conf.lookupMethod, cache),
			Navigator:    navigation.NewNavigator(chrome),
			Chrome:       chrome,
			owner:        m,
			created:      now,
			templates:    make(map[int64]*TemplateBrowser),
			templateRefs: make(map[string]int64),
		}
		m.sessions[id] = sess
		logger.Debugf("Session %s created", id)
	}
	count := len(m.sessions)
	m.mu.Unlock()

	sess.touch(now)
	setActiveSessions(count)
	return sess
}

func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

/**
 * Drop sessions idle longer than the TTL
 * @returns {int} Number of sessions removed
 */
func (m *SessionManager) Sweep() int {
	now := m.now()

	m.mu.Lock()
	deadline := now.Add(-m.conf.ttl)
	removed := 0
	for id, sess := range m.sessions {
		if sess.LastSeen().Before(deadline) {
			delete(m.sessions, id)
			removed++
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	setActiveSessions(count)
	if removed > 0 {
		logger.Infof("Swept %d idle sessions, %d remaining", removed, count)
	}
	return removed
}

/**
 * Periodically sweep idle sessions until ctx is done
 * @param {context.Context} ctx - Stops the sweeper when cancelled
 * @param {time.Duration} interval - Sweep interval
 * @example
 * go services.GetSessionManager().StartSweeper(ctx, time.Minute)
 */
func (m *SessionManager) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-ctx.Done():
			return
		}
	}
}
