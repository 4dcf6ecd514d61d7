package api

import (
	"context"
	"net/http"

	"github.com/JABSONA85/gamevault-hub/api/middleware"
	"github.com/JABSONA85/gamevault-hub/api/web"
	"github.com/JABSONA85/gamevault-hub/core/auth"
	"github.com/JABSONA85/gamevault-hub/core/cart"
	"github.com/JABSONA85/gamevault-hub/core/game"
	"github.com/JABSONA85/gamevault-hub/core/order"
	"github.com/JABSONA85/gamevault-hub/core/user"
	"github.com/JABSONA85/gamevault-hub/core/wishlist"
	"github.com/JABSONA85/gamevault-hub/rate"
	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin       string
	Log              logrus.FieldLogger
	DB               *sqlx.DB
	Session          *scs.SessionManager
	Carts            *cart.Manager
	Limiter          *rate.Limiter
	Providers        map[string]auth.Provider
	LoginRedirectURL string
	TaxRate          float64
	MaxFilterPrice   float64
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, auth.LoadClaims(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	authen := auth.Authenticate(cfg.Session)
	admin := auth.Admin(cfg.Session)
	limited := middleware.RateLimit(cfg.Limiter)

	a.Handle(http.MethodPost, "/auth/signup", auth.HandleSignup(cfg.DB, cfg.Session), limited)
	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(cfg.DB, cfg.Session), limited)
	a.Handle(http.MethodPost, "/auth/logout", auth.HandleLogout(cfg.Session))
	a.Handle(http.MethodGet, "/auth/oauth-login/{provider}", auth.HandleOauthLogin(cfg.Session, cfg.Providers))
	a.Handle(http.MethodGet, "/auth/oauth-callback/{provider}", auth.HandleOauthCallback(cfg.DB, cfg.Session, cfg.Providers, cfg.LoginRedirectURL))

	a.Handle(http.MethodGet, "/users/current", user.HandleShowCurrent(cfg.DB), authen)
	a.Handle(http.MethodGet, "/users/{id}", user.HandleShow(cfg.DB), authen)

	a.Handle(http.MethodGet, "/games/featured", game.HandleListView(cfg.DB, game.FeaturedOf))
	a.Handle(http.MethodGet, "/games/bestsellers", game.HandleListView(cfg.DB, game.BestsellersOf))
	a.Handle(http.MethodGet, "/games/new", game.HandleListView(cfg.DB, game.NewReleasesOf))
	a.Handle(http.MethodGet, "/games/sale", game.HandleListView(cfg.DB, game.OnSaleOf))
	a.Handle(http.MethodGet, "/games/{id}", game.HandleShow(cfg.DB))
	a.Handle(http.MethodGet, "/games", game.HandleList(cfg.DB, cfg.MaxFilterPrice))
	a.Handle(http.MethodPost, "/games", game.HandleCreate(cfg.DB), admin)
	a.Handle(http.MethodPut, "/games/{id}", game.HandleUpdate(cfg.DB), admin)
	a.Handle(http.MethodDelete, "/games/{id}", game.HandleDelete(cfg.DB), admin)

	a.Handle(http.MethodGet, "/cart", cart.HandleShow(cfg.Session, cfg.Carts))
	a.Handle(http.MethodDelete, "/cart", cart.HandleDelete(cfg.Session, cfg.Carts))
	a.Handle(http.MethodPut, "/cart/items", cart.HandleAddItem(cfg.DB, cfg.Session, cfg.Carts))
	a.Handle(http.MethodPut, "/cart/items/{game_id}", cart.HandleUpdateItem(cfg.Session, cfg.Carts))
	a.Handle(http.MethodDelete, "/cart/items/{game_id}", cart.HandleDeleteItem(cfg.Session, cfg.Carts))

	a.Handle(http.MethodPost, "/orders/checkout", order.HandleCheckout(cfg.DB, cfg.Session, cfg.Carts, cfg.TaxRate), authen, limited)
	a.Handle(http.MethodGet, "/orders/owned", order.HandleListOwned(cfg.DB), authen)
	a.Handle(http.MethodGet, "/orders/export", order.HandleExport(cfg.DB), admin)
	a.Handle(http.MethodGet, "/orders/stats", order.HandleStats(cfg.DB), admin)
	a.Handle(http.MethodGet, "/orders", order.HandleList(cfg.DB), admin)
	a.Handle(http.MethodPut, "/orders/{id}/status", order.HandleUpdateStatus(cfg.DB), admin)

	a.Handle(http.MethodGet, "/wishlist", wishlist.HandleList(cfg.DB), authen)
	a.Handle(http.MethodPut, "/wishlist/{game_id}", wishlist.HandleToggle(cfg.DB), authen)

	return cfg.Session.LoadAndSave(a.Router)
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
