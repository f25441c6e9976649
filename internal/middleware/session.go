package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"canvas-portal/internal/config"
	"canvas-portal/internal/logger"
	"canvas-portal/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionKey = "canvas.session"

const sessionIssuer = "canvas-portal"

/**
 * Visitor session middleware
 * @param {*services.SessionManager} sessions - Session store
 * @param {config.SessionConfig} cfg - Cookie name, signing secret and lifetime
 * @returns {gin.HandlerFunc} Middleware binding a *services.Session to the request
 * @description
 * - The session id travels as the "jti" claim of an HS256 token in a cookie
 * - Missing, expired or forged tokens start a new session
 * - Without a configured secret a random one is generated, sessions then end with the process
 */
func SessionMiddleware(sessions *services.SessionManager, cfg config.SessionConfig) gin.HandlerFunc {
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		logger.Warn("session.secret is not set, using a random secret")
		secret = []byte(uuid.NewString())
	}

	return func(c *gin.Context) {
		id, err := parseSessionToken(c, cfg.Cookie, secret)
		if err != nil {
			if !errors.Is(err, http.ErrNoCookie) {
				logger.Debugf("Discarding session token: %v", err)
			}
			id = uuid.NewString()
			token, err := signSessionToken(id, secret, cfg.TTL)
			if err != nil {
				logger.Errorf("Sign session token failed: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    "session.sign_failed",
					"message": err.Error(),
				})
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.Cookie, token, int(cfg.TTL.Seconds()), "/", "", false, true)
		}
		c.Set(sessionKey, sessions.Get(id))
		c.Next()
	}
}

func parseSessionToken(c *gin.Context, cookie string, secret []byte) (string, error) {
	raw, err := c.Cookie(cookie)
	if err != nil {
		return "", err
	}
	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(sessionIssuer))
	if err != nil {
		return "", err
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return "", fmt.Errorf("session id: %w", err)
	}
	return claims.ID, nil
}

func signSessionToken(id string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        id,
		Issuer:    sessionIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// CurrentSession returns the session bound by SessionMiddleware, nil when absent.
func CurrentSession(c *gin.Context) *services.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*services.Session)
	return sess
}
