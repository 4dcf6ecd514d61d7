package game

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// List returns the whole catalog in its native order, newest entry first.
func List(ctx context.Context, db sqlx.ExtContext) ([]Game, error) {
	const q = `SELECT * FROM games ORDER BY created_at DESC`

	games := []Game{}
	if err := sqlx.SelectContext(ctx, db, &games, q); err != nil {
		return nil, fmt.Errorf("selecting games: %w", err)
	}

	return games, nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Game, error) {
	const q = `SELECT * FROM games WHERE game_id = $1`

	var g Game
	if err := sqlx.GetContext(ctx, db, &g, q, id); err != nil {
		return Game{}, fmt.Errorf("fetching game[%s]: %w", id, err)
	}

	return g, nil
}

func Create(ctx context.Context, db sqlx.ExtContext, g Game) error {
	const q = `
	INSERT INTO games
	(game_id, title, description, short_description, price, original_price,
	cover_image, platform, genre, release_date, publisher, developer, rating,
	featured, bestseller, new_release, created_at, updated_at)
	VALUES
	(:game_id, :title, :description, :short_description, :price, :original_price,
	:cover_image, :platform, :genre, :release_date, :publisher, :developer, :rating,
	:featured, :bestseller, :new_release, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, g); err != nil {
		return fmt.Errorf("inserting game: %w", err)
	}

	return nil
}

func Update(ctx context.Context, db sqlx.ExtContext, g Game) error {
	const q = `
	UPDATE games SET
	title = :title,
	description = :description,
	short_description = :short_description,
	price = :price,
	original_price = :original_price,
	cover_image = :cover_image,
	platform = :platform,
	genre = :genre,
	release_date = :release_date,
	publisher = :publisher,
	developer = :developer,
	rating = :rating,
	featured = :featured,
	bestseller = :bestseller,
	new_release = :new_release,
	updated_at = :updated_at,
	version = version + 1
	WHERE game_id = :game_id AND version = :version`

	res, err := sqlx.NamedExecContext(ctx, db, q, g)
	if err != nil {
		return fmt.Errorf("updating game[%s]: %w", g.ID, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("updating game[%s]: stale version[%d]", g.ID, g.Version)
	}

	return nil
}

// Delete removes the game from the catalog. Cart and wishlist references
// are left dangling on purpose: readers treat a missing game as
// unavailable rather than rewriting history.
func Delete(ctx context.Context, db sqlx.ExtContext, id string) error {
	const q = `DELETE FROM games WHERE game_id = $1`

	if _, err := db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("deleting game[%s]: %w", id, err)
	}

	return nil
}
