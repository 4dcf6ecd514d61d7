package order

import (
	"errors"
	"math"
	"time"

	"github.com/JABSONA85/gamevault-hub/core/cart"
	"github.com/JABSONA85/gamevault-hub/validate"
)

type Status string

const (
	Pending   Status = "pending"
	Completed Status = "completed"
	Cancelled Status = "cancelled"
	Refunded  Status = "refunded"
)

func (s Status) Valid() bool {
	switch s {
	case Pending, Completed, Cancelled, Refunded:
		return true
	}
	return false
}

// Assignable reports whether an admin may move an order to s. Cancelled is
// a valid stored status but is not offered as a transition target.
func (s Status) Assignable() bool {
	switch s {
	case Pending, Completed, Refunded:
		return true
	}
	return false
}

// Item is a checkout-time snapshot of a cart line. It deliberately copies
// title and price so later catalog edits never rewrite order history.
type Item struct {
	OrderID   string    `json:"-" db:"order_id"`
	GameID    string    `json:"gameId" db:"game_id"`
	Position  int       `json:"-" db:"position"`
	Title     string    `json:"title" db:"title"`
	Price     float64   `json:"price" db:"price"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

type Order struct {
	ID            string    `json:"id" db:"order_id"`
	UserID        string    `json:"userId" db:"user_id"`
	CustomerName  string    `json:"customerName" db:"customer_name"`
	CustomerEmail string    `json:"customerEmail" db:"customer_email"`
	Subtotal      float64   `json:"subtotal" db:"subtotal"`
	Tax           float64   `json:"tax" db:"tax"`
	Total         float64   `json:"total" db:"total"`
	Status        Status    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
	Items         []Item    `json:"items" db:"-"`
}

type StatusUp struct {
	ID        string    `db:"order_id"`
	Status    Status    `db:"status"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ErrEmptyCart rejects checkout of a cart with no lines; an order with
// zero items is meaningless.
var ErrEmptyCart = errors.New("no items to checkout")

// Build turns the cart into a pending order. Each cart line becomes an
// item snapshot; the total is fixed here, as subtotal plus tax, and is
// never recomputed from catalog prices afterwards.
func Build(c cart.Cart, userID string, name string, email string, taxRate float64, now time.Time) (Order, error) {
	if c.Empty() {
		return Order{}, ErrEmptyCart
	}

	subtotal := round2(c.Total)
	tax := round2(subtotal * taxRate)

	ord := Order{
		ID:            validate.GenerateID(),
		UserID:        userID,
		CustomerName:  name,
		CustomerEmail: email,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         round2(subtotal + tax),
		Status:        Pending,
		CreatedAt:     now,
		UpdatedAt:     now,
		Items:         make([]Item, 0, len(c.Lines)),
	}

	for i, l := range c.Lines {
		ord.Items = append(ord.Items, Item{
			OrderID:   ord.ID,
			GameID:    l.GameID,
			Position:  i,
			Title:     l.Title,
			Price:     l.Price,
			Quantity:  l.Quantity,
			CreatedAt: now,
		})
	}

	return ord, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
