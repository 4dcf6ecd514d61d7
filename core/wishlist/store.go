package wishlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/JABSONA85/gamevault-hub/core/game"
	"github.com/JABSONA85/gamevault-hub/database"
	"github.com/jmoiron/sqlx"
)

func IsMember(ctx context.Context, db sqlx.ExtContext, userID string, gameID string) (bool, error) {
	const q = `SELECT created_at FROM wishlists WHERE user_id = $1 AND game_id = $2`

	var createdAt time.Time
	err := sqlx.GetContext(ctx, db, &createdAt, q, userID, gameID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("checking wishlist membership: %w", err)
	}

	return true, nil
}

// Toggle strictly inverts the membership of (userID, gameID) and returns
// the new state. Two consecutive toggles always land back where they
// started, so a double click nets out to no change.
func Toggle(ctx context.Context, db *sqlx.DB, userID string, gameID string) (bool, error) {
	var wished bool

	err := database.Transaction(db, func(tx sqlx.ExtContext) error {
		member, err := IsMember(ctx, tx, userID, gameID)
		if err != nil {
			return err
		}

		if member {
			const q = `DELETE FROM wishlists WHERE user_id = $1 AND game_id = $2`
			if _, err := tx.ExecContext(ctx, q, userID, gameID); err != nil {
				return fmt.Errorf("removing wishlist entry: %w", err)
			}
			wished = false
			return nil
		}

		const q = `INSERT INTO wishlists (user_id, game_id, created_at) VALUES ($1, $2, $3)`
		if _, err := tx.ExecContext(ctx, q, userID, gameID, time.Now().UTC()); err != nil {
			return fmt.Errorf("adding wishlist entry: %w", err)
		}
		wished = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("toggling wishlist entry[%s] of user[%s]: %w", gameID, userID, err)
	}

	return wished, nil
}

// ListByUser returns the user's wishlist, most recent first, with each
// entry's live game attached when it still exists. The games come back in
// one batch; a dangling reference to a deleted game is not an error, its
// view simply carries no game.
func ListByUser(ctx context.Context, db *sqlx.DB, userID string) ([]View, error) {
	const q = `SELECT user_id, game_id, created_at FROM wishlists WHERE user_id = $1 ORDER BY created_at DESC`

	entries := []Entry{}
	if err := db.SelectContext(ctx, &entries, q, userID); err != nil {
		return nil, fmt.Errorf("selecting wishlist of user[%s]: %w", userID, err)
	}

	if len(entries) == 0 {
		return []View{}, nil
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.GameID)
	}

	gq, args, err := sqlx.In(`SELECT * FROM games WHERE game_id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("building wishlist games query: %w", err)
	}

	games := []game.Game{}
	if err := db.SelectContext(ctx, &games, db.Rebind(gq), args...); err != nil {
		return nil, fmt.Errorf("selecting wishlist games: %w", err)
	}

	byID := make(map[string]game.Game, len(games))
	for _, g := range games {
		byID[g.ID] = g
	}

	views := make([]View, 0, len(entries))
	for _, e := range entries {
		v := View{Entry: e}
		if g, ok := byID[e.GameID]; ok {
			v.Game = &g
		}
		views = append(views, v)
	}

	return views, nil
}
