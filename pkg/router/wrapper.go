package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/mitchellh/mapstructure"
	"github.com/pepelotto/backend/pkg/errorx"
	"github.com/pepelotto/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			writeResponse(router.baseCtx, w,
				newErrorResponse(errorx.New(errorx.BadRequest, "Not supported method %s", r.Method)))
			return
		}

		var req Request
		var err error
		switch method {
		case http.MethodGet:
			err = bindQuery(r, &req)
		case http.MethodPost:
			err = bindBody(r, &req)
		}

		if err != nil {
			writeResponse(router.baseCtx, w,
				newErrorResponse(errorx.New(errorx.BadRequest, "Cannot bind the request")))
			return
		}

		ctx := router.baseCtx
		for _, before := range router.befores {
			ctx, err = before(ctx, r)
			if err != nil {
				writeResponse(router.baseCtx, w, newErrorResponse(err))
				return
			}
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			writeResponse(router.baseCtx, w, newErrorResponse(err))
			return
		}

		writeResponse(router.baseCtx, w, newResponse(resp))
	})
}

// bindQuery decodes the first value of every query parameter into the
// request struct using its mapstructure tags with weak typing, so numeric
// fields accept their string form.
func bindQuery(r *http.Request, req any) error {
	values := map[string]string{}
	for key, value := range r.URL.Query() {
		if len(value) > 0 {
			values[key] = value[0]
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           req,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(values)
}

func bindBody(r *http.Request, req any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}

	if len(body) == 0 {
		return nil
	}

	return json.Unmarshal(body, req)
}

func writeResponse(ctx context.Context, w http.ResponseWriter, resp response) {
	w.Header().Set("Content-Type", "application/json")

	b, err := json.Marshal(resp)
	if err != nil {
		xcontext.Logger(ctx).Errorf("cannot marshal the response: %v", err)
		return
	}

	if _, err := w.Write(b); err != nil {
		xcontext.Logger(ctx).Errorf("cannot write the response: %v", err)
	}
}
