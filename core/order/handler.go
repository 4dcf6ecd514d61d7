package order

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JABSONA85/gamevault-hub/api/web"
	"github.com/JABSONA85/gamevault-hub/api/weberr"
	"github.com/JABSONA85/gamevault-hub/core/cart"
	"github.com/JABSONA85/gamevault-hub/core/claims"
	"github.com/JABSONA85/gamevault-hub/database"
	"github.com/JABSONA85/gamevault-hub/validate"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
)

// CheckoutNew is the simulated payment form. The card fields are checked
// for shape only; no payment processor is ever contacted.
type CheckoutNew struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	CardNumber string `json:"cardNumber" validate:"required,credit_card"`
	Expiry     string `json:"expiry" validate:"required,len=5"`
	CVV        string `json:"cvv" validate:"required,numeric,min=3,max=4"`
}

type statusNew struct {
	Status Status `json:"status" validate:"required"`
}

// HandleCheckout snapshots the session's cart into a pending order and
// clears the cart. The simulated payment always succeeds once the form
// validates.
func HandleCheckout(db *sqlx.DB, session *scs.SessionManager, carts *cart.Manager, taxRate float64) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var form CheckoutNew
		if err := web.Decode(w, r, &form); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(form); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		cartID := cart.ID(ctx, session)
		c := carts.Get(ctx, cartID)

		ord, err := Build(c, clm.UserID, form.Name, form.Email, taxRate, time.Now().UTC())
		if err != nil {
			if errors.Is(err, ErrEmptyCart) {
				return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
			}
			return fmt.Errorf("building order: %w", err)
		}

		err = database.Transaction(db, func(tx sqlx.ExtContext) error {
			if err := Create(ctx, tx, ord); err != nil {
				return fmt.Errorf("creating order: %w", err)
			}

			for _, it := range ord.Items {
				if err := CreateItem(ctx, tx, it); err != nil {
					return fmt.Errorf("creating item: %w", err)
				}
			}

			return nil
		})
		if err != nil {
			return fmt.Errorf("persisting order for user[%s]: %w", clm.UserID, err)
		}

		// The purchase went through: flush the cart.
		carts.Clear(ctx, cartID)

		return web.Respond(ctx, w, ord, http.StatusCreated)
	}
}

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		orders, err := List(ctx, db)
		if err != nil {
			return fmt.Errorf("listing orders: %w", err)
		}

		return web.Respond(ctx, w, orders, http.StatusOK)
	}
}

func HandleListOwned(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		orders, err := ListByUser(ctx, db, clm.UserID)
		if err != nil {
			return fmt.Errorf("listing orders of user[%s]: %w", clm.UserID, err)
		}

		return web.Respond(ctx, w, orders, http.StatusOK)
	}
}

func HandleUpdateStatus(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		var in statusNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if !in.Status.Assignable() {
			err := fmt.Errorf("status %q cannot be assigned", in.Status)
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		up := StatusUp{
			ID:        id,
			Status:    in.Status,
			UpdatedAt: time.Now().UTC(),
		}

		if err := UpdateStatus(ctx, db, up); err != nil {
			if errors.Is(err, errNoOrder) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("updating status of order[%s]: %w", id, err)
		}

		ord, err := Fetch(ctx, db, id)
		if err != nil {
			return fmt.Errorf("fetching order[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, ord, http.StatusOK)
	}
}

// HandleExport streams every order as a CSV download, the same columns the
// back office table shows.
func HandleExport(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		orders, err := List(ctx, db)
		if err != nil {
			return fmt.Errorf("listing orders: %w", err)
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="orders.csv"`)

		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"Order ID", "Customer", "Email", "Items", "Total", "Status", "Date"}); err != nil {
			return fmt.Errorf("writing csv header: %w", err)
		}

		for _, ord := range orders {
			titles := make([]string, 0, len(ord.Items))
			for _, it := range ord.Items {
				titles = append(titles, it.Title)
			}

			row := []string{
				ord.ID,
				ord.CustomerName,
				ord.CustomerEmail,
				strings.Join(titles, "; "),
				strconv.FormatFloat(ord.Total, 'f', 2, 64),
				string(ord.Status),
				ord.CreatedAt.Format("2006-01-02"),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing csv row: %w", err)
			}
		}

		cw.Flush()
		return cw.Error()
	}
}

// Stats is the back office dashboard summary. Revenue counts completed
// orders only.
type Stats struct {
	TotalRevenue float64        `json:"totalRevenue"`
	TotalOrders  int            `json:"totalOrders"`
	ByStatus     map[Status]int `json:"byStatus"`
}

func HandleStats(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		orders, err := List(ctx, db)
		if err != nil {
			return fmt.Errorf("listing orders: %w", err)
		}

		stats := Stats{ByStatus: make(map[Status]int)}
		for _, ord := range orders {
			stats.TotalOrders++
			stats.ByStatus[ord.Status]++
			if ord.Status == Completed {
				stats.TotalRevenue += ord.Total
			}
		}
		stats.TotalRevenue = round2(stats.TotalRevenue)

		return web.Respond(ctx, w, stats, http.StatusOK)
	}
}
