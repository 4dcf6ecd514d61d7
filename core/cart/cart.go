// Package cart implements the shopper's in-progress selection as a value
// type: every transition returns a new Cart derived from the old one, and
// the total is always recomputed from the lines it is derived from.
package cart

import (
	"github.com/JABSONA85/gamevault-hub/core/game"
)

// Line is one game in the cart. Title and Price are captured when the game
// is added so the cart stays renderable even if the catalog entry is later
// edited or removed.
type Line struct {
	GameID   string  `json:"gameId"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type Cart struct {
	Lines []Line  `json:"items"`
	Total float64 `json:"total"`
}

func New() Cart {
	return Cart{Lines: []Line{}}
}

// Load rebuilds a cart from a persisted snapshot of lines. It is meant for
// the rehydration path only; lines with non-positive quantities are
// dropped rather than trusted.
func Load(lines []Line) Cart {
	kept := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.Quantity > 0 {
			kept = append(kept, l)
		}
	}
	return Cart{Lines: kept, Total: total(kept)}
}

// Add puts one copy of g in the cart, merging into the existing line when
// the game is already present.
func (c Cart) Add(g game.Game) Cart {
	lines := c.copyLines()

	for i, l := range lines {
		if l.GameID == g.ID {
			lines[i].Quantity++
			return Cart{Lines: lines, Total: total(lines)}
		}
	}

	lines = append(lines, Line{
		GameID:   g.ID,
		Title:    g.Title,
		Price:    g.Price,
		Quantity: 1,
	})
	return Cart{Lines: lines, Total: total(lines)}
}

// Remove drops the line for gameID. Removing an absent line is a no-op.
func (c Cart) Remove(gameID string) Cart {
	lines := make([]Line, 0, len(c.Lines))
	for _, l := range c.Lines {
		if l.GameID != gameID {
			lines = append(lines, l)
		}
	}
	return Cart{Lines: lines, Total: total(lines)}
}

// SetQuantity pins the line for gameID to quantity. A quantity of zero or
// less removes the line; a cart never holds an empty line.
func (c Cart) SetQuantity(gameID string, quantity int) Cart {
	if quantity <= 0 {
		return c.Remove(gameID)
	}

	lines := c.copyLines()
	for i, l := range lines {
		if l.GameID == gameID {
			lines[i].Quantity = quantity
		}
	}
	return Cart{Lines: lines, Total: total(lines)}
}

func (c Cart) Clear() Cart {
	return New()
}

// Count is the number of copies in the cart, the figure shown on the
// header badge.
func (c Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c Cart) Empty() bool {
	return len(c.Lines) == 0
}

func (c Cart) copyLines() []Line {
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	return lines
}

func total(lines []Line) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Price * float64(l.Quantity)
	}
	return sum
}
