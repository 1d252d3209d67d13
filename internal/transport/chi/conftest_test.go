package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/feedex/internal/domain/feed/page"
	"github.com/kailas-cloud/feedex/internal/domain/feed/request"
	domrun "github.com/kailas-cloud/feedex/internal/domain/reconcile"
	healthuc "github.com/kailas-cloud/feedex/internal/usecase/health"
)

type mockFeeds struct {
	getPageFn func(ctx context.Context, req request.Request) (page.Page, error)
	lastReq   *request.Request
}

func (m *mockFeeds) GetPage(ctx context.Context, req request.Request) (page.Page, error) {
	m.lastReq = &req
	if m.getPageFn != nil {
		return m.getPageFn(ctx, req)
	}
	return page.Page{Data: []page.Item{}, SortBy: req.SortBy(), SortDirection: req.Direction()}, nil
}

type mockReconciler struct {
	triggerFn func(ctx context.Context) (string, error)
	status    domrun.Status
}

func (m *mockReconciler) Trigger(ctx context.Context) (string, error) {
	if m.triggerFn != nil {
		return m.triggerFn(ctx)
	}
	return "run-1", nil
}

func (m *mockReconciler) Status() domrun.Status { return m.status }

type mockPinger struct{ err error }

func (m *mockPinger) Ping(context.Context) error { return m.err }

type testEnv struct {
	feeds     *mockFeeds
	reconcile *mockReconciler
	index     *mockPinger
	records   *mockPinger
	handler   http.Handler
}

func newTestEnv(t *testing.T, adminKeys ...string) *testEnv {
	t.Helper()
	env := &testEnv{
		feeds:     &mockFeeds{},
		reconcile: &mockReconciler{status: domrun.Status{State: "IDLE"}},
		index:     &mockPinger{},
		records:   &mockPinger{},
	}
	health := healthuc.New().
		With(healthuc.ComponentIndex, env.index).
		With(healthuc.ComponentRecords, env.records)
	srv := NewServer(env.feeds, env.reconcile, health, zap.NewNop())

	r := chi.NewRouter()
	r.Use(JSONRecoverer(zap.NewNop()))
	env.handler = HandlerWithOptions(srv, ChiServerOptions{
		BaseRouter:       r,
		AdminMiddlewares: []func(http.Handler) http.Handler{BearerAuthMiddleware(adminKeys)},
		ErrorHandlerFunc: srv.ParamErrorHandler,
	})
	return env
}

func (e *testEnv) do(method, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}
