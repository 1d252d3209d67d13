package feedex

import (
	"context"

	"github.com/kailas-cloud/feedex/internal/domain/feed/page"
	"github.com/kailas-cloud/feedex/internal/domain/feed/request"
	domrun "github.com/kailas-cloud/feedex/internal/domain/reconcile"
	healthuc "github.com/kailas-cloud/feedex/internal/usecase/health"
)

type mockFeedUC struct {
	calls     []request.Request
	getPageFn func(ctx context.Context, req request.Request) (page.Page, error)
}

func (m *mockFeedUC) GetPage(ctx context.Context, req request.Request) (page.Page, error) {
	m.calls = append(m.calls, req)
	return m.getPageFn(ctx, req)
}

type mockReconcileUC struct {
	runFn    func(ctx context.Context) (domrun.RunResult, error)
	statusFn func() domrun.Status
}

func (m *mockReconcileUC) Run(ctx context.Context) (domrun.RunResult, error) {
	return m.runFn(ctx)
}

func (m *mockReconcileUC) Status() domrun.Status {
	return m.statusFn()
}

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}
