package order

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, ord Order) error {
	const q = `
	INSERT INTO orders
	(order_id, user_id, customer_name, customer_email, subtotal, tax, total, status, created_at, updated_at)
	VALUES
	(:order_id, :user_id, :customer_name, :customer_email, :subtotal, :tax, :total, :status, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, ord); err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	return nil
}

func CreateItem(ctx context.Context, db sqlx.ExtContext, it Item) error {
	const q = `
	INSERT INTO order_items (order_id, game_id, position, title, price, quantity, created_at)
	VALUES (:order_id, :game_id, :position, :title, :price, :quantity, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, it); err != nil {
		return fmt.Errorf("inserting order item: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db *sqlx.DB, id string) (Order, error) {
	const q = `SELECT * FROM orders WHERE order_id = $1`

	var ord Order
	if err := db.GetContext(ctx, &ord, q, id); err != nil {
		return Order{}, fmt.Errorf("fetching order[%s]: %w", id, err)
	}

	items, err := fetchItems(ctx, db, []string{ord.ID})
	if err != nil {
		return Order{}, err
	}
	ord.Items = items[ord.ID]

	return ord, nil
}

// List returns every order, most recent first. Admin view.
func List(ctx context.Context, db *sqlx.DB) ([]Order, error) {
	const q = `SELECT * FROM orders ORDER BY created_at DESC`

	orders := []Order{}
	if err := db.SelectContext(ctx, &orders, q); err != nil {
		return nil, fmt.Errorf("selecting orders: %w", err)
	}

	return attachItems(ctx, db, orders)
}

// ListByUser returns one customer's orders, most recent first.
func ListByUser(ctx context.Context, db *sqlx.DB, userID string) ([]Order, error) {
	const q = `SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	orders := []Order{}
	if err := db.SelectContext(ctx, &orders, q, userID); err != nil {
		return nil, fmt.Errorf("selecting orders of user[%s]: %w", userID, err)
	}

	return attachItems(ctx, db, orders)
}

// UpdateStatus moves exactly one order to a new status. The order's items
// and totals are untouched.
func UpdateStatus(ctx context.Context, db sqlx.ExtContext, up StatusUp) error {
	const q = `UPDATE orders SET status = :status, updated_at = :updated_at WHERE order_id = :order_id`

	res, err := sqlx.NamedExecContext(ctx, db, q, up)
	if err != nil {
		return fmt.Errorf("updating status of order[%s]: %w", up.ID, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("updating status of order[%s]: %w", up.ID, errNoOrder)
	}

	return nil
}

var errNoOrder = fmt.Errorf("order does not exist")

func attachItems(ctx context.Context, db *sqlx.DB, orders []Order) ([]Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, 0, len(orders))
	for _, ord := range orders {
		ids = append(ids, ord.ID)
	}

	grouped, err := fetchItems(ctx, db, ids)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].Items = grouped[orders[i].ID]
	}

	return orders, nil
}

func fetchItems(ctx context.Context, db *sqlx.DB, orderIDs []string) (map[string][]Item, error) {
	q, args, err := sqlx.In(`SELECT * FROM order_items WHERE order_id IN (?) ORDER BY position`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("building order items query: %w", err)
	}

	items := []Item{}
	if err := db.SelectContext(ctx, &items, db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("selecting order items: %w", err)
	}

	grouped := make(map[string][]Item, len(orderIDs))
	for _, it := range items {
		grouped[it.OrderID] = append(grouped[it.OrderID], it)
	}

	return grouped, nil
}
