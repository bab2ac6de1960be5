package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ChiRouter implements the [Router] interface on top of [chi.Mux].
type ChiRouter struct {
	mux *chi.Mux
}

var _ Router = (*ChiRouter)(nil)

// NewChiRouter creates a new [ChiRouter] instance.
func NewChiRouter() *ChiRouter {
	return &ChiRouter{mux: chi.NewRouter()}
}

// Use adds [Middleware] to the stack, applied in the order it's added.
//
// chi requires all middleware to be registered before the first route.
func (r *ChiRouter) Use(middleware ...Middleware) {
	for _, m := range middleware {
		r.mux.Use(m)
	}
}

// Handle registers a handler for the specified HTTP method and path. Other methods get 405.
func (r *ChiRouter) Handle(method, path string, handler http.Handler) {
	r.mux.Method(method, path, handler)
}

// Handler registers a custom Handler implementation.
func (r *ChiRouter) Handler(handler Handler) {
	handler.Register(r.mux)
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *ChiRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}
