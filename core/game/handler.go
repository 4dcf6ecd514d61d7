package game

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/JABSONA85/gamevault-hub/api/web"
	"github.com/JABSONA85/gamevault-hub/api/weberr"
	"github.com/JABSONA85/gamevault-hub/validate"
	"github.com/jmoiron/sqlx"
)

// HandleList serves the catalog, filtered by the query string. The filter
// runs in-process over the full catalog snapshot so its semantics stay
// identical for every caller.
func HandleList(db *sqlx.DB, maxPrice float64) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		f, err := parseFilter(r, maxPrice)
		if err != nil {
			return weberr.BadRequest(err)
		}

		games, err := List(ctx, db)
		if err != nil {
			return fmt.Errorf("listing games: %w", err)
		}

		return web.Respond(ctx, w, f.Apply(games), http.StatusOK)
	}
}

// HandleListView serves one of the storefront's shelf views (featured,
// bestsellers, new releases, on sale).
func HandleListView(db *sqlx.DB, view func([]Game) []Game) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		games, err := List(ctx, db)
		if err != nil {
			return fmt.Errorf("listing games: %w", err)
		}

		return web.Respond(ctx, w, view(games), http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		g, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching game[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, g, http.StatusOK)
	}
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var gn GameNew
		if err := web.Decode(w, r, &gn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(gn); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		if !gn.Platform.Valid() {
			err := fmt.Errorf("unknown platform %q", gn.Platform)
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		if !gn.Genre.Valid() {
			err := fmt.Errorf("unknown genre %q", gn.Genre)
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		now := time.Now().UTC()
		g := Game{
			ID:               validate.GenerateID(),
			Title:            gn.Title,
			Description:      gn.Description,
			ShortDescription: gn.ShortDescription,
			Price:            gn.Price,
			OriginalPrice:    gn.OriginalPrice,
			CoverImage:       gn.CoverImage,
			Platform:         gn.Platform,
			Genre:            gn.Genre,
			ReleaseDate:      gn.ReleaseDate,
			Publisher:        gn.Publisher,
			Developer:        gn.Developer,
			Rating:           gn.Rating,
			Featured:         gn.Featured,
			Bestseller:       gn.Bestseller,
			NewRelease:       gn.NewRelease,
			CreatedAt:        now,
			UpdatedAt:        now,
			Version:          1,
		}

		if err := Create(ctx, db, g); err != nil {
			return fmt.Errorf("creating game: %w", err)
		}

		return web.Respond(ctx, w, g, http.StatusCreated)
	}
}

func HandleUpdate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		var gu GameUp
		if err := web.Decode(w, r, &gu); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(gu); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		g, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching game[%s]: %w", id, err)
		}

		if gu.Title != nil {
			g.Title = *gu.Title
		}
		if gu.Description != nil {
			g.Description = *gu.Description
		}
		if gu.ShortDescription != nil {
			g.ShortDescription = *gu.ShortDescription
		}
		if gu.Price != nil {
			g.Price = *gu.Price
		}
		if gu.OriginalPrice != nil {
			g.OriginalPrice = gu.OriginalPrice
		}
		if gu.ClearOriginalPrice {
			g.OriginalPrice = nil
		}
		if gu.CoverImage != nil {
			g.CoverImage = *gu.CoverImage
		}
		if gu.Platform != nil {
			if !gu.Platform.Valid() {
				err := fmt.Errorf("unknown platform %q", *gu.Platform)
				return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
			}
			g.Platform = *gu.Platform
		}
		if gu.Genre != nil {
			if !gu.Genre.Valid() {
				err := fmt.Errorf("unknown genre %q", *gu.Genre)
				return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
			}
			g.Genre = *gu.Genre
		}
		if gu.ReleaseDate != nil {
			g.ReleaseDate = gu.ReleaseDate
		}
		if gu.Publisher != nil {
			g.Publisher = *gu.Publisher
		}
		if gu.Developer != nil {
			g.Developer = *gu.Developer
		}
		if gu.Rating != nil {
			g.Rating = *gu.Rating
		}
		if gu.Featured != nil {
			g.Featured = *gu.Featured
		}
		if gu.Bestseller != nil {
			g.Bestseller = *gu.Bestseller
		}
		if gu.NewRelease != nil {
			g.NewRelease = *gu.NewRelease
		}

		if g.OriginalPrice != nil && *g.OriginalPrice < g.Price {
			err := errors.New("original price must not be below the current price")
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		g.UpdatedAt = time.Now().UTC()

		if err := Update(ctx, db, g); err != nil {
			return fmt.Errorf("updating game[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, g, http.StatusOK)
	}
}

func HandleDelete(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		if err := Delete(ctx, db, id); err != nil {
			return fmt.Errorf("deleting game[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func parseFilter(r *http.Request, maxPrice float64) (Filter, error) {
	q := r.URL.Query()

	f := Filter{
		Text:     q.Get("search"),
		MinPrice: 0,
		MaxPrice: maxPrice,
	}

	for _, p := range q["platform"] {
		pl := Platform(p)
		if !pl.Valid() {
			return Filter{}, fmt.Errorf("unknown platform %q", p)
		}
		f.Platforms = append(f.Platforms, pl)
	}

	for _, g := range q["genre"] {
		gn := Genre(g)
		if !gn.Valid() {
			return Filter{}, fmt.Errorf("unknown genre %q", g)
		}
		f.Genres = append(f.Genres, gn)
	}

	if v := q.Get("min_price"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Filter{}, fmt.Errorf("min_price %q is not a number", v)
		}
		f.MinPrice = min
	}

	if v := q.Get("max_price"); v != "" {
		max, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Filter{}, fmt.Errorf("max_price %q is not a number", v)
		}
		f.MaxPrice = max
	}

	return f, nil
}
