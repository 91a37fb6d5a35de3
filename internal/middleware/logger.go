package middleware

import (
	"context"
	"net/http"

	"github.com/pepelotto/backend/pkg/router"
	"github.com/pepelotto/backend/pkg/xcontext"
)

func Logger() router.MiddlewareFunc {
	return func(ctx context.Context, r *http.Request) (context.Context, error) {
		xcontext.Logger(ctx).Infof("%s %s", r.Method, r.URL.Path)
		return ctx, nil
	}
}
