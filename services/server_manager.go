package services

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"canvas-portal/internal/config"
	"canvas-portal/internal/downloads"
	"canvas-portal/internal/env"
	"canvas-portal/internal/logger"
	"canvas-portal/internal/models"
)

type Server struct {
	conf      func() config.AppConfig
	sessions  *SessionManager
	startTime time.Time

	mu        sync.RWMutex
	downloads *downloads.Map
}

/**
 * Create new server instance
 * @param {func() config.AppConfig} conf - Configuration source, read on every use (config.App in production)
 * @param {*SessionManager} sessions - Session store, nil uses GetSessionManager
 * @returns {Server} Returns new server instance
 * @description
 * - The download map is loaded by Init
 */
func NewServer(conf func() config.AppConfig, sessions *SessionManager) *Server {
	if sessions == nil {
		sessions = GetSessionManager()
	}
	return &Server{
		conf:      conf,
		sessions:  sessions,
		startTime: time.Now(),
	}
}

func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

/**
 * Load server side data
 * @returns {error} Returns error when a configured download map cannot be read
 * @description
 * - Reads downloads.map_path, or the default map under the canvas directory
 * - A missing default map only disables the download page
 */
func (s *Server) Init() error {
	return s.LoadDownloads()
}

// ApplyConfig hands the current configuration to the session store after a reload.
func (s *Server) ApplyConfig() {
	s.sessions.Reconfigure(s.conf())
}

// LoadDownloads (re)reads the download map.
func (s *Server) LoadDownloads() error {
	path := s.conf().Downloads.MapPath
	explicit := path != ""
	if !explicit {
		path = env.DefaultDownloadMap()
	}

	m, err := downloads.Load(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			logger.Infof("No download map at %s, download page disabled", path)
			return nil
		}
		return fmt.Errorf("load download map %s: %w", path, err)
	}
	s.SetDownloads(m)
	logger.Infof("Loaded download map %s with %d releases", path, len(m.Releases))
	return nil
}

func (s *Server) SetDownloads(m *downloads.Map) {
	s.mu.Lock()
	s.downloads = m
	s.mu.Unlock()
}

/**
 * Create a download selector over the loaded map
 * @returns {*downloads.Selector} Fresh selector on the newest release
 * @returns {error} ErrNoReleases when no map is loaded or nothing is available
 */
func (s *Server) Downloads() (*downloads.Selector, error) {
	s.mu.RLock()
	m := s.downloads
	s.mu.RUnlock()
	if m == nil {
		return nil, downloads.ErrNoReleases
	}
	return downloads.NewSelector(m, nil)
}

/**
* Get health check response for the server
* @returns {models.HealthResponse} Returns health check response with server status and metrics
* @description
* - Calculates server uptime from start time
* - Reports request counters and the number of live sessions
 */
func (s *Server) GetHealthz() models.HealthResponse {
	uptime := time.Since(s.startTime)

	return models.HealthResponse{
		Version:   env.Version,
		StartTime: s.startTime.Format(time.RFC3339),
		Status:    "UP",
		Uptime:    uptime.String(),
		Metrics: models.Metrics{
			TotalRequests:  GetTotalRequestCount(),
			ErrorRequests:  GetTotalErrorCount(),
			ActiveSessions: s.sessions.Count(),
			CatalogBase:    s.conf().Catalog.BaseUrl,
		},
	}
}
