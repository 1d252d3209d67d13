// This file is maintained by hand. It follows the layout oapi-codegen emits
// for a chi server (ServerInterface, ServerInterfaceWrapper, HandlerWithOptions)
// and uses its runtime for parameter binding, but it is not generated; edit
// it directly and keep ServerInterface in step with the routes below.

package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ErrorResponseCode is the machine-readable error code of an API error.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest            ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized          ErrorResponseCode = "unauthorized"
	ErrorResponseCodeInvalidSortField      ErrorResponseCode = "invalid_sort_field"
	ErrorResponseCodeInvalidSortDirection  ErrorResponseCode = "invalid_sort_direction"
	ErrorResponseCodeInvalidLimit          ErrorResponseCode = "invalid_limit"
	ErrorResponseCodeMalformedCursor       ErrorResponseCode = "malformed_cursor"
	ErrorResponseCodeInvalidFilter         ErrorResponseCode = "invalid_filter"
	ErrorResponseCodeIndexUnavailable      ErrorResponseCode = "index_unavailable"
	ErrorResponseCodeStoreUnavailable      ErrorResponseCode = "store_unavailable"
	ErrorResponseCodeReconciliationRunning ErrorResponseCode = "reconciliation_running"
	ErrorResponseCodeReconciliationFailed  ErrorResponseCode = "reconciliation_failed"
	ErrorResponseCodeInternalError         ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// ListFeedsParams are the query parameters of GET /v1/feeds.
type ListFeedsParams struct {
	Limit                  *int      `form:"limit,omitempty"`
	SortBy                 *string   `form:"sortBy,omitempty"`
	SortDirection          *string   `form:"sortDirection,omitempty"`
	Cursor                 *string   `form:"cursor,omitempty"`
	IDAfter                *string   `form:"idAfter,omitempty"`
	KeywordLike            *string   `form:"keywordLike,omitempty"`
	SkyStatusEqual         *[]string `form:"skyStatusEqual,omitempty"`
	PrecipitationTypeEqual *[]string `form:"precipitationTypeEqual,omitempty"`
	AuthorIDEqual          *int64    `form:"authorIdEqual,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
}

// TriggerResponse is the body of POST /v1/admin/reconcile.
type TriggerResponse struct {
	RunID string `json:"runId"`
	State string `json:"state"`
}

// InvalidParamFormatError reports a query parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// ServerInterface is implemented by the HTTP server.
type ServerInterface interface {
	// GET /v1/feeds
	ListFeeds(w http.ResponseWriter, r *http.Request, params ListFeedsParams)
	// POST /v1/admin/reconcile
	TriggerReconcile(w http.ResponseWriter, r *http.Request)
	// GET /v1/admin/reconcile
	GetReconcileStatus(w http.ResponseWriter, r *http.Request)
	// GET /health
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// GET /metrics
	Metrics(w http.ResponseWriter, r *http.Request)
}

// ServerInterfaceWrapper binds request parameters before calling the handler.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// ListFeeds binds the listing query parameters.
func (siw *ServerInterfaceWrapper) ListFeeds(w http.ResponseWriter, r *http.Request) {
	var params ListFeedsParams
	q := r.URL.Query()

	binds := []struct {
		name    string
		explode bool
		dest    any
	}{
		{"limit", true, &params.Limit},
		{"sortBy", true, &params.SortBy},
		{"sortDirection", true, &params.SortDirection},
		{"cursor", true, &params.Cursor},
		{"idAfter", true, &params.IDAfter},
		{"keywordLike", true, &params.KeywordLike},
		{"skyStatusEqual", false, &params.SkyStatusEqual},
		{"precipitationTypeEqual", false, &params.PrecipitationTypeEqual},
		{"authorIdEqual", true, &params.AuthorIDEqual},
	}
	for _, b := range binds {
		if err := runtime.BindQueryParameter("form", b.explode, false, b.name, q, b.dest); err != nil {
			siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: b.name, Err: err})
			return
		}
	}

	siw.Handler.ListFeeds(w, r, params)
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseRouter       chi.Router
	AdminMiddlewares []func(http.Handler) http.Handler
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerWithOptions mounts every route of si on the base router.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:          si,
		ErrorHandlerFunc: options.ErrorHandlerFunc,
	}

	r.Get("/v1/feeds", wrapper.ListFeeds)
	r.Group(func(r chi.Router) {
		r.Use(options.AdminMiddlewares...)
		r.Post("/v1/admin/reconcile", si.TriggerReconcile)
		r.Get("/v1/admin/reconcile", si.GetReconcileStatus)
	})
	r.Get("/health", si.HealthCheck)
	r.Get("/metrics", si.Metrics)
	return r
}
