// Package auth implements session-backed authentication: who the shopper
// is lives in the scs session, and each request's claims are projected
// into the context for the handlers downstream.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/JABSONA85/gamevault-hub/api/web"
	"github.com/JABSONA85/gamevault-hub/api/weberr"
	"github.com/JABSONA85/gamevault-hub/core/claims"
	"github.com/JABSONA85/gamevault-hub/core/user"
	"github.com/alexedwards/scs/v2"
)

const (
	sessionUserID = "user_id"
	sessionRole   = "role"
)

// Login binds the session to u. The token is rotated to prevent session
// fixation across the privilege change.
func Login(ctx context.Context, session *scs.SessionManager, u user.User) error {
	if err := session.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}

	session.Put(ctx, sessionUserID, u.ID)
	session.Put(ctx, sessionRole, u.Role)
	return nil
}

func Logout(ctx context.Context, session *scs.SessionManager) error {
	return session.Destroy(ctx)
}

// LoadClaims projects the session's identity, when present, into the
// request context as claims. Anonymous requests pass through untouched.
func LoadClaims(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if id := session.GetString(ctx, sessionUserID); id != "" {
				ctx = claims.Set(ctx, claims.Claims{
					UserID: id,
					Role:   session.GetString(ctx, sessionRole),
				})
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// Authenticate rejects requests that carry no claims.
func Authenticate(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if _, err := claims.Get(ctx); err != nil {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// Admin rejects requests whose claims do not carry the admin role.
func Admin(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if !claims.IsAdmin(ctx) {
				return weberr.NotAuthorized(errors.New("admin role required"))
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
