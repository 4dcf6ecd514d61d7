package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/JABSONA85/gamevault-hub/api/web"
	"github.com/JABSONA85/gamevault-hub/api/weberr"
	"github.com/JABSONA85/gamevault-hub/core/claims"
	"github.com/JABSONA85/gamevault-hub/core/user"
	"github.com/JABSONA85/gamevault-hub/random"
	"github.com/JABSONA85/gamevault-hub/validate"
	"github.com/alexedwards/scs/v2"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

const sessionOauthState = "oauth_state"

type ProviderConfig struct {
	Name        string
	Client      string
	Secret      string
	URL         string
	RedirectURL string
}

type Provider struct {
	conf     oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// MakeProviders runs OIDC discovery for each configured provider.
// Providers with no client id are skipped so a deployment can enable only
// the ones it has credentials for.
func MakeProviders(ctx context.Context, configs []ProviderConfig) (map[string]Provider, error) {
	providers := make(map[string]Provider, len(configs))

	for _, c := range configs {
		if c.Client == "" {
			continue
		}

		p, err := oidc.NewProvider(ctx, c.URL)
		if err != nil {
			return nil, fmt.Errorf("discovering provider[%s]: %w", c.Name, err)
		}

		providers[c.Name] = Provider{
			conf: oauth2.Config{
				ClientID:     c.Client,
				ClientSecret: c.Secret,
				Endpoint:     p.Endpoint(),
				RedirectURL:  c.RedirectURL,
				Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			},
			verifier: p.Verifier(&oidc.Config{ClientID: c.Client}),
		}
	}

	return providers, nil
}

func HandleOauthLogin(session *scs.SessionManager, providers map[string]Provider) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		name := web.Param(r, "provider")
		p, ok := providers[name]
		if !ok {
			return weberr.NotFound(fmt.Errorf("unknown oauth provider %q", name))
		}

		state, err := random.StringSecure(32)
		if err != nil {
			return fmt.Errorf("generating oauth state: %w", err)
		}
		session.Put(ctx, sessionOauthState, state)

		http.Redirect(w, r, p.conf.AuthCodeURL(state), http.StatusTemporaryRedirect)
		return nil
	}
}

func HandleOauthCallback(db *sqlx.DB, session *scs.SessionManager, providers map[string]Provider, redirectURL string) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		name := web.Param(r, "provider")
		p, ok := providers[name]
		if !ok {
			return weberr.NotFound(fmt.Errorf("unknown oauth provider %q", name))
		}

		state := session.PopString(ctx, sessionOauthState)
		if state == "" || state != r.URL.Query().Get("state") {
			return weberr.BadRequest(errors.New("oauth state mismatch"))
		}

		tok, err := p.conf.Exchange(ctx, r.URL.Query().Get("code"))
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("exchanging oauth code: %w", err))
		}

		rawID, ok := tok.Extra("id_token").(string)
		if !ok {
			return weberr.BadRequest(errors.New("oauth token carries no id_token"))
		}

		idt, err := p.verifier.Verify(ctx, rawID)
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("verifying id token: %w", err))
		}

		var profile struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		}
		if err := idt.Claims(&profile); err != nil {
			return fmt.Errorf("extracting id token claims: %w", err)
		}

		u, err := user.FetchByEmail(ctx, db, profile.Email)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("fetching user by email: %w", err)
			}

			u, err = provision(ctx, db, profile.Name, profile.Email)
			if err != nil {
				return fmt.Errorf("provisioning user for %s login: %w", name, err)
			}
		}

		if err := Login(ctx, session, u); err != nil {
			return fmt.Errorf("logging in user[%s]: %w", u.ID, err)
		}

		http.Redirect(w, r, redirectURL, http.StatusFound)
		return nil
	}
}

// provision creates a user row for a first-time OIDC login. The password
// is random and unknown; such accounts sign in through their provider.
func provision(ctx context.Context, db *sqlx.DB, name string, email string) (user.User, error) {
	pass, err := random.StringSecure(32)
	if err != nil {
		return user.User{}, fmt.Errorf("generating password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	u := user.User{
		ID:           validate.GenerateID(),
		Name:         name,
		Email:        email,
		Role:         claims.RoleUser,
		PasswordHash: string(hash),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
	}

	if err := user.Create(ctx, db, u); err != nil {
		return user.User{}, fmt.Errorf("creating user: %w", err)
	}

	return u, nil
}
