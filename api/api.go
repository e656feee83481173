package api

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/lehackerdu95/collector-market/api/middleware"
	"github.com/lehackerdu95/collector-market/api/web"
	"github.com/lehackerdu95/collector-market/core/auction"
	"github.com/lehackerdu95/collector-market/core/auth"
	"github.com/lehackerdu95/collector-market/core/cart"
	"github.com/lehackerdu95/collector-market/core/collection"
	"github.com/lehackerdu95/collector-market/core/item"
	"github.com/lehackerdu95/collector-market/core/offer"
	"github.com/lehackerdu95/collector-market/core/purchase"
	"github.com/lehackerdu95/collector-market/core/trade"
	"github.com/lehackerdu95/collector-market/rate"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin       string
	Log              logrus.FieldLogger
	DB               *sqlx.DB
	Session          *scs.SessionManager
	Providers        map[string]auth.Provider
	LoginProvider    string
	LoginRedirectURL string
	Limiter          *rate.Limiter
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

	a.mw = append(a.mw, auth.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.Limiter != nil {
		a.mw = append(a.mw, middleware.RateLimit(cfg.Limiter))
	}

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	authen := auth.Authenticate(cfg.Session)

	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(cfg.Session, cfg.Providers[cfg.LoginProvider]))
	a.Handle(http.MethodPost, "/auth/logout", auth.HandleLogout(cfg.Session))
	a.Handle(http.MethodGet, "/auth/oauth-login/{provider}", auth.HandleOauthLogin(cfg.Session, cfg.Providers))
	a.Handle(http.MethodGet, "/auth/oauth-callback/{provider}", auth.HandleOauthCallback(cfg.Session, cfg.Providers, cfg.LoginRedirectURL))
	a.Handle(http.MethodGet, "/users/current", auth.HandleShowCurrent(cfg.Session))

	a.Handle(http.MethodGet, "/dashboard", collection.HandleSummary(cfg.DB), authen)

	a.Handle(http.MethodGet, "/collections", collection.HandleList(cfg.DB), authen)
	a.Handle(http.MethodPost, "/collections", collection.HandleCreate(cfg.DB), authen)
	a.Handle(http.MethodGet, "/collections/{id}", collection.HandleShow(cfg.DB), authen)
	a.Handle(http.MethodPut, "/collections/{id}", collection.HandleUpdate(cfg.DB), authen)
	a.Handle(http.MethodDelete, "/collections/{id}", collection.HandleDelete(cfg.DB), authen)

	a.Handle(http.MethodGet, "/collections/{collection_id}/items", item.HandleListByCollection(cfg.DB), authen)
	a.Handle(http.MethodPost, "/collections/{collection_id}/items", item.HandleCreate(cfg.DB), authen)
	a.Handle(http.MethodPut, "/items/{id}", item.HandleUpdate(cfg.DB), authen)
	a.Handle(http.MethodPut, "/items/{id}/image", item.HandleUpdateImage(cfg.DB), authen)
	a.Handle(http.MethodDelete, "/items/{id}", item.HandleDelete(cfg.DB), authen)
	a.Handle(http.MethodPost, "/items/{id}/auctions", auction.HandleCreate(cfg.DB), authen)

	a.Handle(http.MethodGet, "/market/items", item.HandleMarketList(cfg.DB), authen)
	a.Handle(http.MethodGet, "/market/items/{id}", item.HandleMarketShow(cfg.DB), authen)
	a.Handle(http.MethodPost, "/market/items/{id}/buy", trade.HandleBuyNow(cfg.DB), authen)
	a.Handle(http.MethodGet, "/market/items/{id}/offers", offer.HandleListByItem(cfg.DB), authen)
	a.Handle(http.MethodPost, "/market/items/{id}/offers", offer.HandleSubmit(cfg.DB), authen)

	a.Handle(http.MethodPost, "/offers/{id}/accept", trade.HandleAcceptOffer(cfg.DB), authen)
	a.Handle(http.MethodPost, "/offers/{id}/reject", offer.HandleReject(cfg.DB), authen)

	a.Handle(http.MethodGet, "/cart", cart.HandleShow(cfg.DB), authen)
	a.Handle(http.MethodPut, "/cart/items", cart.HandleAddItem(cfg.DB), authen)
	a.Handle(http.MethodDelete, "/cart/items/{item_id}", cart.HandleRemoveItem(cfg.DB), authen)
	a.Handle(http.MethodPost, "/cart/checkout", trade.HandleCheckout(cfg.DB), authen)

	a.Handle(http.MethodGet, "/auctions", auction.HandleList(cfg.DB), authen)
	a.Handle(http.MethodGet, "/auctions/mine", auction.HandleMine(cfg.DB), authen)
	a.Handle(http.MethodGet, "/auctions/{id}", auction.HandleShow(cfg.DB), authen)
	a.Handle(http.MethodPost, "/auctions/{id}/bids", auction.HandlePlaceBid(cfg.DB), authen)
	a.Handle(http.MethodPost, "/auctions/{id}/close", trade.HandleCloseAuction(cfg.DB), authen)

	a.Handle(http.MethodGet, "/purchases", purchase.HandleHistory(cfg.DB), authen)
	a.Handle(http.MethodGet, "/purchases/recent", purchase.HandleRecent(cfg.DB), authen)

	return a.Router
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
