package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/feedex/internal/domain"
	"github.com/kailas-cloud/feedex/internal/domain/feed/page"
	"github.com/kailas-cloud/feedex/internal/domain/feed/request"
	domrun "github.com/kailas-cloud/feedex/internal/domain/reconcile"
	"github.com/kailas-cloud/feedex/internal/logger"
	healthuc "github.com/kailas-cloud/feedex/internal/usecase/health"
	"github.com/kailas-cloud/feedex/internal/version"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// FeedLister serves feed pages.
type FeedLister interface {
	GetPage(ctx context.Context, req request.Request) (page.Page, error)
}

// Reconciler starts reconciliation runs and reports their status.
type Reconciler interface {
	Trigger(ctx context.Context) (string, error)
	Status() domrun.Status
}

// Server implements ServerInterface.
type Server struct {
	feeds         FeedLister
	reconcile     Reconciler
	health        *healthuc.Service
	logger        *zap.Logger
	runCtx        context.Context
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server. reconcile can be nil, then the
// admin endpoints answer 404.
func NewServer(
	feeds FeedLister,
	reconcile Reconciler,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		feeds:     feeds,
		reconcile: reconcile,
		health:    health,
		logger:    logger,
		runCtx:    context.Background(),
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidSortField, http.StatusBadRequest, ErrorResponseCodeInvalidSortField),
		sentinelHandler(domain.ErrInvalidSortDirection, http.StatusBadRequest, ErrorResponseCodeInvalidSortDirection),
		sentinelHandler(domain.ErrInvalidLimit, http.StatusBadRequest, ErrorResponseCodeInvalidLimit),
		sentinelHandler(domain.ErrMalformedCursor, http.StatusBadRequest, ErrorResponseCodeMalformedCursor),
		sentinelHandler(domain.ErrInvalidFilter, http.StatusBadRequest, ErrorResponseCodeInvalidFilter),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, ErrorResponseCodeIndexUnavailable),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, ErrorResponseCodeStoreUnavailable),
		sentinelHandler(domain.ErrReconciliationRunning, http.StatusConflict, ErrorResponseCodeReconciliationRunning),
		sentinelHandler(domain.ErrReconciliationFailed,
			http.StatusInternalServerError, ErrorResponseCodeReconciliationFailed),
	}
	return s
}

// WithRunContext sets the parent context of background reconciliation runs.
// Cancelling it stops runs started over HTTP.
func (s *Server) WithRunContext(ctx context.Context) *Server {
	if ctx != nil {
		s.runCtx = ctx
	}
	return s
}

// ListFeeds handles GET /v1/feeds.
func (s *Server) ListFeeds(w http.ResponseWriter, r *http.Request, params ListFeedsParams) {
	req, err := request.New(request.Params{
		Limit:              deref(params.Limit),
		SortBy:             deref(params.SortBy),
		SortDirection:      deref(params.SortDirection),
		Cursor:             deref(params.Cursor),
		IDAfter:            deref(params.IDAfter),
		Keyword:            deref(params.KeywordLike),
		SkyStatuses:        deref(params.SkyStatusEqual),
		PrecipitationTypes: deref(params.PrecipitationTypeEqual),
		AuthorID:           params.AuthorIDEqual,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	pg, err := s.feeds.GetPage(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pg)
}

// TriggerReconcile handles POST /v1/admin/reconcile.
func (s *Server) TriggerReconcile(w http.ResponseWriter, r *http.Request) {
	if s.reconcile == nil {
		http.NotFound(w, r)
		return
	}

	ctx := logger.ContextWithLogger(s.runCtx, logger.FromContext(r.Context()))
	runID, err := s.reconcile.Trigger(ctx)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("reconcile triggered", zap.String("run_id", runID))
	writeJSON(w, http.StatusAccepted, TriggerResponse{RunID: runID, State: domrun.StateRunning.String()})
}

// GetReconcileStatus handles GET /v1/admin/reconcile.
func (s *Server) GetReconcileStatus(w http.ResponseWriter, r *http.Request) {
	if s.reconcile == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, s.reconcile.Status())
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Checks:  checks,
		Version: version.Get().String(),
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ParamErrorHandler maps query binding failures to API errors.
func (s *Server) ParamErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	var pe *InvalidParamFormatError
	if errors.As(err, &pe) {
		switch pe.ParamName {
		case "limit":
			s.handleDomainError(w, r, errors.Join(domain.ErrInvalidLimit, err))
			return
		case "authorIdEqual":
			s.handleDomainError(w, r, errors.Join(domain.ErrInvalidFilter, err))
			return
		}
	}
	writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "invalid request")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// Only the sentinel text reaches the client.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	if domain.IsClientError(err) {
		log.Debug("client error", zap.Error(err))
	} else {
		log.Warn("domain error", zap.Error(err))
	}
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
