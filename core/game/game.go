package game

import (
	"math"
	"time"
)

type Platform string

const (
	PS4        Platform = "PS4"
	PS5        Platform = "PS5"
	XboxOne    Platform = "Xbox One"
	XboxSeries Platform = "Xbox Series X/S"
)

func Platforms() []Platform {
	return []Platform{PS4, PS5, XboxOne, XboxSeries}
}

func (p Platform) Valid() bool {
	switch p {
	case PS4, PS5, XboxOne, XboxSeries:
		return true
	}
	return false
}

type Genre string

const (
	Action     Genre = "Action"
	RPG        Genre = "RPG"
	Shooter    Genre = "Shooter"
	Sports     Genre = "Sports"
	Adventure  Genre = "Adventure"
	Racing     Genre = "Racing"
	Fighting   Genre = "Fighting"
	Horror     Genre = "Horror"
	Simulation Genre = "Simulation"
)

func Genres() []Genre {
	return []Genre{Action, RPG, Shooter, Sports, Adventure, Racing, Fighting, Horror, Simulation}
}

func (g Genre) Valid() bool {
	switch g {
	case Action, RPG, Shooter, Sports, Adventure, Racing, Fighting, Horror, Simulation:
		return true
	}
	return false
}

type Game struct {
	ID               string     `json:"id" db:"game_id"`
	Title            string     `json:"title" db:"title"`
	Description      string     `json:"description" db:"description"`
	ShortDescription string     `json:"shortDescription" db:"short_description"`
	Price            float64    `json:"price" db:"price"`
	OriginalPrice    *float64   `json:"originalPrice,omitempty" db:"original_price"`
	CoverImage       string     `json:"coverImage" db:"cover_image"`
	Platform         Platform   `json:"platform" db:"platform"`
	Genre            Genre      `json:"genre" db:"genre"`
	ReleaseDate      *time.Time `json:"releaseDate,omitempty" db:"release_date"`
	Publisher        string     `json:"publisher" db:"publisher"`
	Developer        string     `json:"developer" db:"developer"`
	Rating           float64    `json:"rating" db:"rating"`
	Featured         bool       `json:"featured" db:"featured"`
	Bestseller       bool       `json:"bestseller" db:"bestseller"`
	NewRelease       bool       `json:"newRelease" db:"new_release"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" db:"updated_at"`
	Version          int        `json:"-" db:"version"`
}

// OnSale reports whether the game carries a strike-through price.
func (g Game) OnSale() bool {
	return g.OriginalPrice != nil && *g.OriginalPrice > g.Price
}

// Discount is the percentage knocked off the original price, rounded to the
// nearest whole percent. Zero when the game is not on sale.
func (g Game) Discount() int {
	if !g.OnSale() {
		return 0
	}
	return int(math.Round((*g.OriginalPrice - g.Price) / *g.OriginalPrice * 100))
}

type GameNew struct {
	Title            string     `json:"title" validate:"required"`
	Description      string     `json:"description" validate:"required"`
	ShortDescription string     `json:"shortDescription"`
	Price            float64    `json:"price" validate:"gte=0,lte=10000"`
	OriginalPrice    *float64   `json:"originalPrice" validate:"omitempty,gtefield=Price"`
	CoverImage       string     `json:"coverImage" validate:"omitempty,url"`
	Platform         Platform   `json:"platform" validate:"required"`
	Genre            Genre      `json:"genre" validate:"required"`
	ReleaseDate      *time.Time `json:"releaseDate"`
	Publisher        string     `json:"publisher"`
	Developer        string     `json:"developer"`
	Rating           float64    `json:"rating" validate:"gte=0,lte=5"`
	Featured         bool       `json:"featured"`
	Bestseller       bool       `json:"bestseller"`
	NewRelease       bool       `json:"newRelease"`
}

// GameUp is a partial update: nil fields are left unchanged. Because nil
// means "unchanged", ending a sale takes the explicit ClearOriginalPrice
// flag rather than a null originalPrice.
type GameUp struct {
	Title              *string    `json:"title"`
	Description        *string    `json:"description"`
	ShortDescription   *string    `json:"shortDescription"`
	Price              *float64   `json:"price" validate:"omitempty,gte=0,lte=10000"`
	OriginalPrice      *float64   `json:"originalPrice"`
	ClearOriginalPrice bool       `json:"clearOriginalPrice"`
	CoverImage         *string    `json:"coverImage" validate:"omitempty,url"`
	Platform           *Platform  `json:"platform"`
	Genre              *Genre     `json:"genre"`
	ReleaseDate        *time.Time `json:"releaseDate"`
	Publisher          *string    `json:"publisher"`
	Developer          *string    `json:"developer"`
	Rating             *float64   `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Featured           *bool      `json:"featured"`
	Bestseller         *bool      `json:"bestseller"`
	NewRelease         *bool      `json:"newRelease"`
}
