package router

import (
	"context"
	"net/http"

	"github.com/pepelotto/backend/pkg/xcontext"
	"github.com/rs/cors"
)

// HandlerFunc is a typed endpoint. The request is already bound from the
// query string (GET) or the JSON body (POST) when the handler runs.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It may enrich the context or stop
// the request by returning an error.
type MiddlewareFunc func(ctx context.Context, r *http.Request) (context.Context, error)

type Router struct {
	mux     *http.ServeMux
	baseCtx context.Context
	befores []MiddlewareFunc
}

// New creates a Router whose handlers run on top of baseCtx. The context is
// expected to carry configs, logger, and database via xcontext.
func New(baseCtx context.Context) *Router {
	return &Router{
		mux:     http.NewServeMux(),
		baseCtx: baseCtx,
	}
}

// Branch derives a Router sharing the same mux but owning its own
// middleware chain.
func (r *Router) Branch() *Router {
	befores := make([]MiddlewareFunc, len(r.befores))
	copy(befores, r.befores)

	return &Router{mux: r.mux, baseCtx: r.baseCtx, befores: befores}
}

func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.Handle(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.Handle(pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: xcontext.Configs(r.baseCtx).ApiServer.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	return c.Handler(r.mux)
}
