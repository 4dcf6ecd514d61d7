package test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/JABSONA85/gamevault-hub/core/cart"
	"github.com/JABSONA85/gamevault-hub/core/game"
	"github.com/JABSONA85/gamevault-hub/validate"
)

type cartTest struct {
	*TestEnv
}

func TestCart(t *testing.T) {
	env, err := NewTestEnv(t, "cart_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	rt := &cartTest{env}
	gt := &gameTest{env}

	g1 := gt.createGameOK(t, game.GameNew{
		Title: "Elden Ring", Description: "Open world", Price: 49.99,
		Platform: game.PS5, Genre: game.RPG, Rating: 4.8,
	})
	g2 := gt.createGameOK(t, game.GameNew{
		Title: "Halo Infinite", Description: "Master Chief returns", Price: 39.99,
		Platform: game.XboxSeries, Genre: game.Shooter, Rating: 4.2,
	})

	// The cart is tied to the session, no login needed.
	c := rt.showCartOK(t)
	if !c.Empty() {
		t.Fatalf("expected an empty cart to start, got %+v", c)
	}

	c = rt.addItemOK(t, g1.ID)
	c = rt.addItemOK(t, g1.ID)
	c = rt.addItemOK(t, g2.ID)

	if len(c.Lines) != 2 || c.Count() != 3 {
		t.Fatalf("expected 2 lines and 3 copies, got %+v", c)
	}
	if want := 49.99*2 + 39.99; c.Total != want {
		t.Fatalf("expected total %v, got %v", want, c.Total)
	}

	// The next request must see the same cart.
	c = rt.showCartOK(t)
	if c.Count() != 3 {
		t.Fatalf("cart did not survive across requests: %+v", c)
	}

	c = rt.setQuantityOK(t, g1.ID, 5)
	if c.Count() != 6 {
		t.Fatalf("expected 6 copies after raising quantity, got %+v", c)
	}

	c = rt.setQuantityOK(t, g1.ID, 0)
	if len(c.Lines) != 1 || c.Lines[0].GameID != g2.ID {
		t.Fatalf("setting quantity to 0 must drop the line, got %+v", c)
	}

	rt.addItemNotFound(t, validate.GenerateID())

	c = rt.removeItemOK(t, g2.ID)
	if !c.Empty() {
		t.Fatalf("expected an empty cart after removing last line, got %+v", c)
	}

	rt.addItemOK(t, g1.ID)
	c = rt.clearCartOK(t)
	if !c.Empty() || c.Total != 0 {
		t.Fatalf("expected an empty cart after clearing, got %+v", c)
	}
}

func (rt *cartTest) showCartOK(t *testing.T) cart.Cart {
	w, err := rt.do(http.MethodGet, "/cart", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusOK {
		t.Fatalf("can't fetch cart: status code %s", w.Status)
	}

	return decodeCart(t, w)
}

func (rt *cartTest) addItemOK(t *testing.T, gameID string) cart.Cart {
	w, err := rt.do(http.MethodPut, "/cart/items", cart.ItemNew{GameID: gameID})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusOK {
		t.Fatalf("can't add item to cart: status code %s", w.Status)
	}

	return decodeCart(t, w)
}

func (rt *cartTest) addItemNotFound(t *testing.T, gameID string) {
	w, err := rt.do(http.MethodPut, "/cart/items", cart.ItemNew{GameID: gameID})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusNotFound {
		t.Fatalf("adding an unknown game must 404: status code %s", w.Status)
	}
}

func (rt *cartTest) setQuantityOK(t *testing.T, gameID string, quantity int) cart.Cart {
	w, err := rt.do(http.MethodPut, "/cart/items/"+gameID, cart.QuantityUp{Quantity: quantity})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusOK {
		t.Fatalf("can't update cart item: status code %s", w.Status)
	}

	return decodeCart(t, w)
}

func (rt *cartTest) removeItemOK(t *testing.T, gameID string) cart.Cart {
	w, err := rt.do(http.MethodDelete, "/cart/items/"+gameID, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusOK {
		t.Fatalf("can't remove cart item: status code %s", w.Status)
	}

	return decodeCart(t, w)
}

func (rt *cartTest) clearCartOK(t *testing.T) cart.Cart {
	w, err := rt.do(http.MethodDelete, "/cart", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusOK {
		t.Fatalf("can't clear cart: status code %s", w.Status)
	}

	return decodeCart(t, w)
}

func decodeCart(t *testing.T, w *http.Response) cart.Cart {
	var c cart.Cart
	if err := json.NewDecoder(w.Body).Decode(&c); err != nil {
		t.Fatalf("cannot unmarshal cart: %v", err)
	}
	return c
}
