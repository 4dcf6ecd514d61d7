package test

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/JABSONA85/gamevault-hub/core/game"
	"github.com/JABSONA85/gamevault-hub/core/order"
)

type orderTest struct {
	*TestEnv
}

func TestOrder(t *testing.T) {
	env, err := NewTestEnv(t, "order_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	ot := &orderTest{env}
	gt := &gameTest{env}
	rt := &cartTest{env}

	g1 := gt.createGameOK(t, game.GameNew{
		Title: "Elden Ring", Description: "Open world", Price: 49.99,
		Platform: game.PS5, Genre: game.RPG, Rating: 4.8,
	})
	g2 := gt.createGameOK(t, game.GameNew{
		Title: "Halo Infinite", Description: "Master Chief returns", Price: 39.99,
		Platform: game.XboxSeries, Genre: game.Shooter, Rating: 4.2,
	})

	if err := ot.Login(ot.UserEmail, ot.UserPass); err != nil {
		t.Fatal(err)
	}

	// Checkout with nothing in the cart must be refused.
	ot.checkoutFails(t, validForm(), http.StatusUnprocessableEntity)

	rt.addItemOK(t, g1.ID)
	rt.addItemOK(t, g2.ID)

	// A broken card number never reaches order creation.
	bad := validForm()
	bad.CardNumber = "1234"
	ot.checkoutFails(t, bad, http.StatusUnprocessableEntity)

	ord := ot.checkoutOK(t)

	if ord.Status != order.Pending {
		t.Fatalf("expected a pending order, got %s", ord.Status)
	}
	if len(ord.Items) != 2 {
		t.Fatalf("expected 2 items, got %+v", ord.Items)
	}
	if ord.Items[0].GameID != g1.ID || ord.Items[1].GameID != g2.ID {
		t.Fatalf("items must keep cart order, got %+v", ord.Items)
	}
	if ord.Subtotal != 89.98 || ord.Tax != 9.00 || ord.Total != 98.98 {
		t.Fatalf("unexpected totals: subtotal=%v tax=%v total=%v", ord.Subtotal, ord.Tax, ord.Total)
	}

	// The purchase must have flushed the cart.
	if c := rt.showCartOK(t); !c.Empty() {
		t.Fatalf("expected an empty cart after checkout, got %+v", c)
	}

	owned := ot.listOwnedOK(t)
	if len(owned) != 1 || owned[0].ID != ord.ID {
		t.Fatalf("expected the new order in the owned list, got %+v", owned)
	}

	// A second order, so status updates can be checked for isolation.
	rt.addItemOK(t, g1.ID)
	ord2 := ot.checkoutOK(t)
	if ord2.Subtotal != 49.99 || ord2.Tax != 5.00 || ord2.Total != 54.99 {
		t.Fatalf("unexpected totals: subtotal=%v tax=%v total=%v", ord2.Subtotal, ord2.Tax, ord2.Total)
	}

	if err := ot.Logout(); err != nil {
		t.Fatal(err)
	}

	// Back office status management.
	ot.updateStatusFails(t, ord.ID, order.Cancelled, http.StatusUnprocessableEntity)
	updated := ot.updateStatusOK(t, ord.ID, order.Completed)
	if updated.Status != order.Completed {
		t.Fatalf("expected a completed order, got %s", updated.Status)
	}

	// The transition touches only the status: totals and the item
	// snapshot of the updated order survive untouched, and the other
	// order is not moved along with it.
	if updated.Subtotal != ord.Subtotal || updated.Tax != ord.Tax || updated.Total != ord.Total {
		t.Fatalf("status update changed the totals: before %+v, after %+v", ord, updated)
	}
	if len(updated.Items) != len(ord.Items) {
		t.Fatalf("status update changed the items: before %+v, after %+v", ord.Items, updated.Items)
	}
	for i, it := range updated.Items {
		want := ord.Items[i]
		if it.GameID != want.GameID || it.Title != want.Title || it.Price != want.Price || it.Quantity != want.Quantity {
			t.Fatalf("status update changed item %d: before %+v, after %+v", i, want, it)
		}
	}

	all := ot.listAllOK(t)
	if len(all) != 2 {
		t.Fatalf("expected 2 orders, got %+v", all)
	}
	for _, o := range all {
		if o.ID == ord2.ID && o.Status != order.Pending {
			t.Fatalf("the untargeted order moved to %s", o.Status)
		}
	}

	stats := ot.statsOK(t)
	if stats.TotalOrders != 2 || stats.TotalRevenue != 98.98 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.ByStatus[order.Completed] != 1 || stats.ByStatus[order.Pending] != 1 {
		t.Fatalf("expected one completed and one pending order in stats, got %+v", stats.ByStatus)
	}

	ot.exportOK(t, ord)
}

func validForm() order.CheckoutNew {
	return order.CheckoutNew{
		Name:       "Ada Lovelace",
		Email:      "ada@example.com",
		CardNumber: "4242424242424242",
		Expiry:     "12/30",
		CVV:        "123",
	}
}

func (ot *orderTest) checkoutOK(t *testing.T) order.Order {
	w, err := ot.do(http.MethodPost, "/orders/checkout", validForm())
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusCreated {
		t.Fatalf("can't checkout: status code %s", w.Status)
	}

	var ord order.Order
	if err := json.NewDecoder(w.Body).Decode(&ord); err != nil {
		t.Fatalf("cannot unmarshal order: %v", err)
	}
	return ord
}

func (ot *orderTest) checkoutFails(t *testing.T, form order.CheckoutNew, want int) {
	w, err := ot.do(http.MethodPost, "/orders/checkout", form)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	if w.StatusCode != want {
		t.Fatalf("expected checkout to fail with %d, got %s", want, w.Status)
	}
}

func (ot *orderTest) listOwnedOK(t *testing.T) []order.Order {
	w, err := ot.do(http.MethodGet, "/orders/owned", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusOK {
		t.Fatalf("can't list owned orders: status code %s", w.Status)
	}

	var orders []order.Order
	if err := json.NewDecoder(w.Body).Decode(&orders); err != nil {
		t.Fatalf("cannot unmarshal orders: %v", err)
	}
	return orders
}

func (ot *orderTest) listAllOK(t *testing.T) []order.Order {
	if err := ot.Login(ot.AdminEmail, ot.AdminPass); err != nil {
		t.Fatal(err)
	}
	defer ot.Logout()

	w, err := ot.do(http.MethodGet, "/orders", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusOK {
		t.Fatalf("can't list orders: status code %s", w.Status)
	}

	var orders []order.Order
	if err := json.NewDecoder(w.Body).Decode(&orders); err != nil {
		t.Fatalf("cannot unmarshal orders: %v", err)
	}
	return orders
}

func (ot *orderTest) updateStatusOK(t *testing.T, id string, s order.Status) order.Order {
	if err := ot.Login(ot.AdminEmail, ot.AdminPass); err != nil {
		t.Fatal(err)
	}
	defer ot.Logout()

	w, err := ot.do(http.MethodPut, "/orders/"+id+"/status", map[string]string{"status": string(s)})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusOK {
		t.Fatalf("can't update order status: status code %s", w.Status)
	}

	var ord order.Order
	if err := json.NewDecoder(w.Body).Decode(&ord); err != nil {
		t.Fatalf("cannot unmarshal order: %v", err)
	}
	return ord
}

func (ot *orderTest) updateStatusFails(t *testing.T, id string, s order.Status, want int) {
	if err := ot.Login(ot.AdminEmail, ot.AdminPass); err != nil {
		t.Fatal(err)
	}
	defer ot.Logout()

	w, err := ot.do(http.MethodPut, "/orders/"+id+"/status", map[string]string{"status": string(s)})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	if w.StatusCode != want {
		t.Fatalf("expected status update to fail with %d, got %s", want, w.Status)
	}
}

func (ot *orderTest) statsOK(t *testing.T) order.Stats {
	if err := ot.Login(ot.AdminEmail, ot.AdminPass); err != nil {
		t.Fatal(err)
	}
	defer ot.Logout()

	w, err := ot.do(http.MethodGet, "/orders/stats", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusOK {
		t.Fatalf("can't fetch order stats: status code %s", w.Status)
	}

	var stats order.Stats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("cannot unmarshal stats: %v", err)
	}
	return stats
}

func (ot *orderTest) exportOK(t *testing.T, ord order.Order) {
	if err := ot.Login(ot.AdminEmail, ot.AdminPass); err != nil {
		t.Fatal(err)
	}
	defer ot.Logout()

	w, err := ot.do(http.MethodGet, "/orders/export", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusOK {
		t.Fatalf("can't export orders: status code %s", w.Status)
	}

	if ct := w.Header.Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("expected a csv response, got %s", ct)
	}

	rows, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatalf("cannot parse exported csv: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected a header and two order rows, got %d rows", len(rows))
	}
	if rows[0][0] != "Order ID" {
		t.Fatalf("unexpected csv header: %v", rows[0])
	}

	found := false
	for _, row := range rows[1:] {
		if row[0] == ord.ID {
			found = true
			if row[1] != ord.CustomerName {
				t.Fatalf("unexpected csv row: %v", row)
			}
		}
	}
	if !found {
		t.Fatalf("order %s missing from the export", ord.ID)
	}
}
