package wishlist

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/JABSONA85/gamevault-hub/api/web"
	"github.com/JABSONA85/gamevault-hub/api/weberr"
	"github.com/JABSONA85/gamevault-hub/core/claims"
	"github.com/JABSONA85/gamevault-hub/validate"
	"github.com/jmoiron/sqlx"
)

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		views, err := ListByUser(ctx, db, clm.UserID)
		if err != nil {
			return fmt.Errorf("listing wishlist of user[%s]: %w", clm.UserID, err)
		}

		return web.Respond(ctx, w, views, http.StatusOK)
	}
}

func HandleToggle(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		gameID := web.Param(r, "game_id")
		if err := validate.CheckID(gameID); err != nil {
			return weberr.BadRequest(err)
		}

		wished, err := Toggle(ctx, db, clm.UserID, gameID)
		if err != nil {
			return fmt.Errorf("toggling wishlist entry[%s] of user[%s]: %w", gameID, clm.UserID, err)
		}

		res := ToggleResult{GameID: gameID, Wished: wished}
		return web.Respond(ctx, w, res, http.StatusOK)
	}
}
