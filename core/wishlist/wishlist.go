package wishlist

import (
	"time"

	"github.com/JABSONA85/gamevault-hub/core/game"
)

// Entry marks one game as wished for by one user. The pair is unique.
type Entry struct {
	UserID    string    `json:"-" db:"user_id"`
	GameID    string    `json:"gameId" db:"game_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// View is an entry joined with its live catalog game for display. Game is
// nil when the game has been removed from the catalog since the entry was
// made; the UI shows it as unavailable.
type View struct {
	Entry
	Game *game.Game `json:"game,omitempty"`
}

// ToggleResult reports the membership state after a toggle.
type ToggleResult struct {
	GameID string `json:"gameId"`
	Wished bool   `json:"wished"`
}
