package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/JABSONA85/gamevault-hub/api/web"
	"github.com/JABSONA85/gamevault-hub/api/weberr"
	"github.com/JABSONA85/gamevault-hub/core/game"
	"github.com/JABSONA85/gamevault-hub/validate"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
)

type ItemNew struct {
	GameID string `json:"gameId" validate:"required"`
}

type QuantityUp struct {
	Quantity int `json:"quantity"`
}

func HandleShow(session *scs.SessionManager, m *Manager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c := m.Get(ctx, ID(ctx, session))
		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleAddItem(db *sqlx.DB, session *scs.SessionManager, m *Manager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in ItemNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		if err := validate.CheckID(in.GameID); err != nil {
			return weberr.BadRequest(err)
		}

		g, err := game.Fetch(ctx, db, in.GameID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching game[%s]: %w", in.GameID, err)
		}

		c := m.Apply(ctx, ID(ctx, session), func(c Cart) Cart { return c.Add(g) })
		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleUpdateItem(session *scs.SessionManager, m *Manager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		gameID := web.Param(r, "game_id")
		if err := validate.CheckID(gameID); err != nil {
			return weberr.BadRequest(err)
		}

		var in QuantityUp
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		c := m.Apply(ctx, ID(ctx, session), func(c Cart) Cart { return c.SetQuantity(gameID, in.Quantity) })
		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleDeleteItem(session *scs.SessionManager, m *Manager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		gameID := web.Param(r, "game_id")
		if err := validate.CheckID(gameID); err != nil {
			return weberr.BadRequest(err)
		}

		c := m.Apply(ctx, ID(ctx, session), func(c Cart) Cart { return c.Remove(gameID) })
		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleDelete(session *scs.SessionManager, m *Manager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c := m.Clear(ctx, ID(ctx, session))
		return web.Respond(ctx, w, c, http.StatusOK)
	}
}
