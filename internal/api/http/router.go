package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"earnshare-backend/internal/auth"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Cart      *CartHandler
	Order     *OrderHandler
	Product   *ProductHandler
	Community *CommunityHandler
	Webhook   *WebhookHandler
	Jobs      *JobsHandler
}

// NewRouter wires all routes. The webhook and health endpoints stay
// outside the auth middleware: the processor signs its own requests and
// health checks carry no identity.
func NewRouter(h Handlers, authn *auth.Middleware) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeSuccess(w, map[string]any{"status": "ok"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/webhook/stripe", h.Webhook.Handle).Methods(http.MethodPost)

	internal := r.PathPrefix("/internal").Subrouter()
	internal.HandleFunc("/jobs/renew-deposit-holds", h.Jobs.RenewDepositHolds).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()

	// Public catalog reads.
	api.HandleFunc("/products", h.Product.List).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}", h.Product.Get).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}/reviews", h.Community.ListReviews).Methods(http.MethodGet)
	api.HandleFunc("/banners", h.Community.ListBanners).Methods(http.MethodGet)
	api.HandleFunc("/requests", h.Community.ListRequests).Methods(http.MethodGet)

	// Authenticated storefront.
	user := api.NewRoute().Subrouter()
	user.Use(authn.RequireUser)
	user.HandleFunc("/cart", h.Cart.Get).Methods(http.MethodGet)
	user.HandleFunc("/cart/add", h.Cart.Add).Methods(http.MethodPost)
	user.HandleFunc("/cart/update", h.Cart.Update).Methods(http.MethodPost)

	user.HandleFunc("/orders", h.Order.ListMine).Methods(http.MethodGet)
	user.HandleFunc("/orders", h.Order.Place).Methods(http.MethodPost)
	user.HandleFunc("/orders/{id:[0-9]+}/status", h.Order.Status).Methods(http.MethodGet)
	user.HandleFunc("/orders/{id:[0-9]+}/verify", h.Order.Verify).Methods(http.MethodPost)
	user.HandleFunc("/orders/{id:[0-9]+}/reorder", h.Order.Reorder).Methods(http.MethodPost)

	user.HandleFunc("/products", h.Product.Create).Methods(http.MethodPost)
	user.HandleFunc("/products/mine", h.Product.ListMine).Methods(http.MethodGet)
	user.HandleFunc("/products/{id:[0-9]+}", h.Product.Update).Methods(http.MethodPut)
	user.HandleFunc("/products/{id:[0-9]+}", h.Product.Delete).Methods(http.MethodDelete)
	user.HandleFunc("/products/{id:[0-9]+}/reviews", h.Community.CreateReview).Methods(http.MethodPost)

	user.HandleFunc("/requests", h.Community.CreateRequest).Methods(http.MethodPost)
	user.HandleFunc("/requests/{id:[0-9]+}/like", h.Community.ToggleRequestLike).Methods(http.MethodPost)
	user.HandleFunc("/requests/{id:[0-9]+}", h.Community.DeleteRequest).Methods(http.MethodDelete)

	// Seller panel. Only accounts carrying the seller claim may list
	// all orders, advance order status, or manage banners.
	seller := api.PathPrefix("/seller").Subrouter()
	seller.Use(authn.RequireUser, authn.RequireSeller)
	seller.HandleFunc("/orders", h.Order.ListAll).Methods(http.MethodGet)
	seller.HandleFunc("/orders/{id:[0-9]+}/status", h.Order.UpdateStatus).Methods(http.MethodPost)
	seller.HandleFunc("/banners", h.Community.CreateBanner).Methods(http.MethodPost)
	seller.HandleFunc("/banners/{id:[0-9]+}", h.Community.UpdateBanner).Methods(http.MethodPut)
	seller.HandleFunc("/banners/{id:[0-9]+}", h.Community.DeleteBanner).Methods(http.MethodDelete)

	return r
}
