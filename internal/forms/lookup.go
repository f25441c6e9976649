package forms

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"canvas-portal/internal/logger"
	"canvas-portal/internal/models"
	"canvas-portal/internal/rpc"
)

const (
	LookupPost = "post"
	LookupGet  = "get"
)

/**
 * Availability lookup against the profile status API
 * @description
 * - Answers are stored in the session AvailabilityCache under the key the server echoes
 * - A cached value short-circuits the request
 * - The loading flag is cleared whether the request succeeds or fails
 */
type Lookup struct {
	rpc    rpc.HTTPClient
	method string
	cache  *AvailabilityCache

	mu      sync.Mutex
	loading bool
}

/**
 * Create availability lookup
 * @param {rpc.HTTPClient} client - Transport to the profile API
 * @param {string} method - LookupPost (POST /profile/status) or LookupGet (GET /profile/{username}/status)
 * @param {*AvailabilityCache} cache - Session cache receiving the answers
 * @returns {*Lookup} Lookup instance
 */
func NewLookup(client rpc.HTTPClient, method string, cache *AvailabilityCache) *Lookup {
	if method != LookupGet {
		method = LookupPost
	}
	return &Lookup{rpc: client, method: method, cache: cache}
}

func (l *Lookup) Cache() *AvailabilityCache {
	return l.cache
}

func (l *Lookup) IsLoading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// LookupUsername checks a username for activation; no request when it is already cached.
func (l *Lookup) LookupUsername(ctx context.Context, username string) error {
	if username == "" || l.cache.HasUsername(username) {
		return nil
	}
	return l.query(ctx, username, "")
}

/**
 * Check a username and email pair for registration
 * @param {context.Context} ctx - Request context
 * @param {string} username - Requested username
 * @param {string} email - Requested email address
 * @returns {error} Request error; the cache is left unchanged
 * @description
 * - Skipped only when both values are already cached
 */
func (l *Lookup) LookupAccount(ctx context.Context, username, email string) error {
	if l.cache.HasUsername(username) && l.cache.HasEmail(email) {
		return nil
	}
	if username == "" && email == "" {
		return nil
	}
	return l.query(ctx, username, email)
}

func (l *Lookup) query(ctx context.Context, username, email string) error {
	l.mu.Lock()
	l.loading = true
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		l.loading = false
		l.mu.Unlock()
	}()

	status, err := l.fetch(ctx, username, email)
	if err != nil {
		logger.Warnf("Profile status lookup failed: %v", err)
		return err
	}
	if status.Username != nil {
		l.cache.SetUsername(status.Username.Key, status.Username.Available())
	}
	if status.Email != nil {
		l.cache.SetEmail(status.Email.Key, status.Email.Available())
	}
	return nil
}

func (l *Lookup) fetch(ctx context.Context, username, email string) (*models.ProfileStatus, error) {
	params := map[string]interface{}{}
	if email != "" {
		params["email"] = email
	}

	var (
		resp *rpc.HTTPResponse
		err  error
	)
	if l.method == LookupGet {
		if username == "" {
			return nil, fmt.Errorf("profile lookup by GET requires a username")
		}
		resp, err = l.rpc.Get(ctx, "/profile/"+url.PathEscape(username)+"/status", params)
	} else {
		if username != "" {
			params["name"] = username
		}
		resp, err = l.rpc.Post(ctx, "/profile/status", params, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("profile status request: %w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("profile status (HTTP %d): %w", resp.StatusCode, errors.New(resp.Error))
	}
	var status models.ProfileStatus
	if err := resp.Decode(&status); err != nil {
		return nil, err
	}
	return &status, nil
}
