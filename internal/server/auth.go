package server

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	sessionCookie = "booklog_session"
	stateCookie   = "booklog_oauth_state"
	userKey       = "userId"
)

// AuthConfig wires the external identity provider. Exchange and token
// handling are delegated entirely to the oauth2 package; this layer only
// keeps the session.
type AuthConfig struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	RedirectURL  string
}

// Enabled reports whether a provider is configured. Without one, the
// reverse-proxy header fallback is the only way in.
func (c AuthConfig) Enabled() bool {
	return c.ClientID != ""
}

// Authenticator handles login against the identity provider and tracks
// sessions in process. A session maps an opaque cookie value to the
// provider's subject identifier.
type Authenticator struct {
	config      *oauth2.Config
	userInfoURL string
	logger      *zap.Logger

	mu       sync.RWMutex
	sessions map[string]string
}

// NewAuthenticator creates the session/auth layer. cfg may be zero-valued
// for deployments that authenticate at the proxy.
func NewAuthenticator(cfg AuthConfig, logger *zap.Logger) *Authenticator {
	a := &Authenticator{
		userInfoURL: cfg.UserInfoURL,
		logger:      logger,
		sessions:    make(map[string]string),
	}
	if cfg.Enabled() {
		a.config = &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		}
	}
	return a
}

// RequireUser resolves the current user and aborts unauthenticated
// requests. Resolution order: session cookie, then proxy auth headers
// (the dev/behind-proxy fallback).
func (a *Authenticator) RequireUser(c *gin.Context) {
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		a.mu.RLock()
		userID, ok := a.sessions[cookie]
		a.mu.RUnlock()
		if ok {
			c.Set(userKey, userID)
			c.Next()
			return
		}
	}

	// Traefik BasicAuth and friends set one of these
	for _, header := range []string{"X-Auth-User", "X-Forwarded-User", "Remote-User"} {
		if userID := c.GetHeader(header); userID != "" {
			c.Set(userKey, userID)
			c.Next()
			return
		}
	}

	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.Redirect(http.StatusFound, "/login")
	c.Abort()
}

// UserID returns the authenticated user for the request. RequireUser has
// always run first on protected routes.
func UserID(c *gin.Context) string {
	return c.GetString(userKey)
}

// HandleLogin redirects to the identity provider's authorization page.
func (a *Authenticator) HandleLogin(c *gin.Context) {
	if a.config == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "no identity provider configured"})
		return
	}

	state, err := randomToken()
	if err != nil {
		a.logger.Error("Failed to generate state token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.SetCookie(stateCookie, state, 300, "/", "", false, true)
	c.Redirect(http.StatusFound, a.config.AuthCodeURL(state))
}

// HandleCallback exchanges the authorization code, resolves the user via
// the provider's userinfo endpoint and opens a session.
func (a *Authenticator) HandleCallback(c *gin.Context) {
	if a.config == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "no identity provider configured"})
		return
	}

	expected, err := c.Cookie(stateCookie)
	if err != nil || expected == "" || c.Query("state") != expected {
		a.logger.Warn("OAuth state mismatch")
		c.JSON(http.StatusBadRequest, gin.H{"error": "state mismatch"})
		return
	}

	token, err := a.config.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		a.logger.Error("Code exchange failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "token exchange failed"})
		return
	}

	userID, err := a.fetchSubject(c, token)
	if err != nil {
		a.logger.Error("Userinfo request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to resolve user"})
		return
	}

	session, err := randomToken()
	if err != nil {
		a.logger.Error("Failed to generate session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	a.mu.Lock()
	a.sessions[session] = userID
	a.mu.Unlock()

	a.logger.Info("User logged in", zap.String("user_id", userID))
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)
	c.SetCookie(sessionCookie, session, 30*24*3600, "/", "", false, true)
	c.Redirect(http.StatusFound, "/dashboard")
}

// HandleLogout drops the session.
func (a *Authenticator) HandleLogout(c *gin.Context) {
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		a.mu.Lock()
		delete(a.sessions, cookie)
		a.mu.Unlock()
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

type userInfo struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
}

func (a *Authenticator) fetchSubject(c *gin.Context, token *oauth2.Token) (string, error) {
	client := a.config.Client(c.Request.Context(), token)
	resp, err := client.Get(a.userInfoURL)
	if err != nil {
		return "", fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if info.Sub == "" {
		return "", fmt.Errorf("userinfo response has no subject")
	}
	return info.Sub, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
