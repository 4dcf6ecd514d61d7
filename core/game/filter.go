package game

import (
	"sort"
	"strings"
)

// Filter is the shop's predicate set. Every field that is set must match
// for a game to pass; zero-value fields don't constrain the result.
type Filter struct {
	Text      string
	Platforms []Platform
	Genres    []Genre
	MinPrice  float64
	MaxPrice  float64
}

func (f Filter) Match(g Game) bool {
	if f.Text != "" && !strings.Contains(strings.ToLower(g.Title), strings.ToLower(f.Text)) {
		return false
	}

	if len(f.Platforms) > 0 && !containsPlatform(f.Platforms, g.Platform) {
		return false
	}

	if len(f.Genres) > 0 && !containsGenre(f.Genres, g.Genre) {
		return false
	}

	if g.Price < f.MinPrice || g.Price > f.MaxPrice {
		return false
	}

	return true
}

// Apply returns the games satisfying the filter, preserving the input
// order. It never mutates its input and is safe to call per request.
func (f Filter) Apply(games []Game) []Game {
	return filterBy(games, f.Match)
}

// FeaturedOf returns the featured games, best rated first.
func FeaturedOf(games []Game) []Game {
	out := filterBy(games, func(g Game) bool { return g.Featured })
	byRating(out)
	return out
}

// BestsellersOf returns the bestselling games, best rated first.
func BestsellersOf(games []Game) []Game {
	out := filterBy(games, func(g Game) bool { return g.Bestseller })
	byRating(out)
	return out
}

// NewReleasesOf returns the new releases, most recent first.
func NewReleasesOf(games []Game) []Game {
	out := filterBy(games, func(g Game) bool { return g.NewRelease })
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].ReleaseDate, out[j].ReleaseDate
		switch {
		case ri == nil:
			return false
		case rj == nil:
			return true
		default:
			return ri.After(*rj)
		}
	})
	return out
}

// OnSaleOf returns the discounted games, best rated first.
func OnSaleOf(games []Game) []Game {
	out := filterBy(games, Game.OnSale)
	byRating(out)
	return out
}

func filterBy(games []Game, keep func(Game) bool) []Game {
	out := make([]Game, 0, len(games))
	for _, g := range games {
		if keep(g) {
			out = append(out, g)
		}
	}
	return out
}

func byRating(games []Game) {
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].Rating > games[j].Rating
	})
}

func containsPlatform(ps []Platform, p Platform) bool {
	for _, c := range ps {
		if c == p {
			return true
		}
	}
	return false
}

func containsGenre(gs []Genre, g Genre) bool {
	for _, c := range gs {
		if c == g {
			return true
		}
	}
	return false
}
