// Package session keeps the storefront's per-visitor state in a signed cookie:
// an opaque session id that keys the cart, and the signed-in customer id.
package session

import (
	"context"
	"fmt"
	"net/http"

	"fg-storefront/internal/config"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"
)

const (
	CookieName = "fg-session"

	keySessionID  = "sid"
	keyCustomerID = "customer_id"
)

// State is what the storefront knows about the current visitor.
type State struct {
	SessionID  string
	CustomerID *uuid.UUID
}

type contextKey struct{}

// FromContext returns the visitor state stored by Manager.Middleware.
func FromContext(ctx context.Context) (State, bool) {
	s, ok := ctx.Value(contextKey{}).(State)
	return s, ok
}

// WithState attaches s to ctx.
func WithState(ctx context.Context, s State) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// Manager wraps a gorilla cookie store.
type Manager struct {
	store  *sessions.CookieStore
	logger zerolog.Logger
}

// NewManager creates a cookie-backed session manager.
func NewManager(cfg config.SessionConfig, logger zerolog.Logger) *Manager {
	store := sessions.NewCookieStore([]byte(cfg.Key))
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.CookieSecure
	store.Options.SameSite = http.SameSiteLaxMode
	store.MaxAge(cfg.MaxAgeDays * 24 * 60 * 60)

	return &Manager{
		store:  store,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

// Middleware makes sure every request carries a session id, minting one and
// setting the cookie on first visit, and exposes the State via FromContext.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A cookie signed with a rotated key fails to decode; start afresh.
		sess, err := m.store.Get(r, CookieName)
		if err != nil {
			m.logger.Debug().Err(err).Msg("discarding unreadable session cookie")
		}

		sid, _ := sess.Values[keySessionID].(string)
		if sid == "" {
			sid = uuid.NewString()
			sess.Values[keySessionID] = sid
			if err := sess.Save(r, w); err != nil {
				m.logger.Error().Err(err).Msg("failed to save session")
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}
		}

		state := State{SessionID: sid, CustomerID: customerID(sess)}
		next.ServeHTTP(w, r.WithContext(WithState(r.Context(), state)))
	})
}

func customerID(sess *sessions.Session) *uuid.UUID {
	raw, ok := sess.Values[keyCustomerID].(string)
	if !ok || raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// Login records customerID in the session and issues a fresh session id, so
// an id planted before sign-in never carries the signed-in state. It returns
// the new id; moving anything keyed by the old one is up to the caller.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, id uuid.UUID) (string, error) {
	sess, _ := m.store.Get(r, CookieName)
	sid := uuid.NewString()
	sess.Values[keySessionID] = sid
	sess.Values[keyCustomerID] = id.String()
	if err := sess.Save(r, w); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return sid, nil
}

// Logout forgets the signed-in customer but keeps the cart.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, CookieName)
	delete(sess.Values, keyCustomerID)
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
