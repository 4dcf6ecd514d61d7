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
	"github.com/JABSONA85/gamevault-hub/validate"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

const uniqueViolation = "23505"

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func HandleSignup(db *sqlx.DB, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var un user.UserNew
		if err := web.Decode(w, r, &un); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(un); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(un.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}

		now := time.Now().UTC()
		u := user.User{
			ID:           validate.GenerateID(),
			Name:         un.Name,
			Email:        un.Email,
			Role:         claims.RoleUser,
			PasswordHash: string(hash),
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
			Version:      1,
		}

		if err := user.Create(ctx, db, u); err != nil {
			var pqe *pq.Error
			if errors.As(err, &pqe) && pqe.Code == uniqueViolation {
				err := errors.New("a user with this email already exists")
				return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
			}
			return fmt.Errorf("creating user: %w", err)
		}

		if err := Login(ctx, session, u); err != nil {
			return fmt.Errorf("logging in user[%s]: %w", u.ID, err)
		}

		return web.Respond(ctx, w, u, http.StatusCreated)
	}
}

func HandleLogin(db *sqlx.DB, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var creds credentials
		if err := web.Decode(w, r, &creds); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(creds); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		u, err := user.FetchByEmail(ctx, db, creds.Email)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotAuthorized(errors.New("invalid credentials"))
			}
			return fmt.Errorf("fetching user by email: %w", err)
		}

		if !u.Active {
			return weberr.NotAuthorized(errors.New("account is not active"))
		}

		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(creds.Password)); err != nil {
			return weberr.NotAuthorized(errors.New("invalid credentials"))
		}

		if err := Login(ctx, session, u); err != nil {
			return fmt.Errorf("logging in user[%s]: %w", u.ID, err)
		}

		return web.Respond(ctx, w, u, http.StatusOK)
	}
}

func HandleLogout(session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := Logout(ctx, session); err != nil {
			return fmt.Errorf("destroying session: %w", err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
