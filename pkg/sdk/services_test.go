package feedex

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/kailas-cloud/feedex/internal/domain"
	"github.com/kailas-cloud/feedex/internal/domain/feed/order"
	"github.com/kailas-cloud/feedex/internal/domain/feed/page"
	"github.com/kailas-cloud/feedex/internal/domain/feed/request"
	domrun "github.com/kailas-cloud/feedex/internal/domain/reconcile"
	healthuc "github.com/kailas-cloud/feedex/internal/usecase/health"
)

func ptr[T any](v T) *T { return &v }

// pagedFeed serves items 1..total sorted by likeCount descending
// (likes == id), size items per page.
func pagedFeed(total, size int64) func(context.Context, request.Request) (page.Page, error) {
	return func(_ context.Context, req request.Request) (page.Page, error) {
		next := total
		if c := req.After(); c != nil {
			next = c.ID() - 1
		}
		var data []page.Item
		for id := next; id >= 1 && int64(len(data)) < size; id-- {
			data = append(data, page.Item{ID: id, LikeCount: id})
		}
		pg := page.Page{
			Data:          data,
			TotalCount:    total,
			SortBy:        order.LikeCount,
			SortDirection: order.Descending,
		}
		if last := data[len(data)-1].ID; last > 1 {
			s := strconv.FormatInt(last, 10)
			pg.HasNext, pg.NextCursor, pg.NextIDAfter = true, ptr(s), ptr(s)
		}
		return pg, nil
	}
}

func TestListFeeds_ConvertsPage(t *testing.T) {
	created := time.Date(2025, 6, 1, 8, 30, 0, 250_000, time.UTC)
	feeds := &mockFeedUC{getPageFn: func(_ context.Context, req request.Request) (page.Page, error) {
		if req.SortBy() != order.LikeCount || req.Direction() != order.Ascending {
			t.Errorf("request = (%s, %s)", req.SortBy(), req.Direction())
		}
		return page.Page{
			Data: []page.Item{{
				ID: 7, AuthorID: 3, Content: "clear skies", SkyStatus: "CLEAR",
				PrecipitationType: "NONE", LikeCount: 5, CreatedAt: created,
			}},
			NextCursor:    ptr("5"),
			NextIDAfter:   ptr("7"),
			HasNext:       true,
			TotalCount:    12,
			SortBy:        order.LikeCount,
			SortDirection: order.Ascending,
		}, nil
	}}
	c := &Client{feedSvc: feeds}

	pg, err := c.ListFeeds(context.Background(), ListParams{
		SortBy: SortByLikeCount, SortDirection: Ascending, Limit: 1,
	})
	if err != nil {
		t.Fatalf("ListFeeds: %v", err)
	}
	if len(pg.Items) != 1 || pg.Items[0].ID != 7 || !pg.Items[0].CreatedAt.Equal(created) {
		t.Errorf("items = %+v", pg.Items)
	}
	if !pg.HasNext || pg.NextCursor != "5" || pg.NextIDAfter != "7" {
		t.Errorf("next = (%v, %q, %q)", pg.HasNext, pg.NextCursor, pg.NextIDAfter)
	}
	if pg.TotalCount != 12 || pg.SortBy != SortByLikeCount || pg.SortDirection != Ascending {
		t.Errorf("page meta = %+v", pg)
	}
}

func TestListFeeds_LastPageHasEmptyCursor(t *testing.T) {
	c := &Client{feedSvc: &mockFeedUC{getPageFn: func(context.Context, request.Request) (page.Page, error) {
		return page.Page{Data: []page.Item{}, SortBy: order.CreatedAt, SortDirection: order.Descending}, nil
	}}}

	pg, err := c.ListFeeds(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("ListFeeds: %v", err)
	}
	if pg.HasNext || pg.NextCursor != "" || pg.NextIDAfter != "" {
		t.Errorf("last page = %+v", pg)
	}
	if pg.Items == nil {
		t.Error("items should be empty, not nil")
	}
}

func TestListFeeds_ClientErrorsSkipService(t *testing.T) {
	tests := []struct {
		name   string
		params ListParams
		want   error
	}{
		{"sort field", ListParams{SortBy: "updatedAt"}, ErrInvalidSortField},
		{"direction", ListParams{SortDirection: "UP"}, ErrInvalidSortDirection},
		{"half cursor", ListParams{Cursor: "5"}, ErrMalformedCursor},
		{"bad cursor", ListParams{SortBy: SortByLikeCount, Cursor: "x", IDAfter: "1"}, ErrMalformedCursor},
		{"sky status", ListParams{SkyStatuses: []string{"FOGGY"}}, ErrInvalidFilter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feeds := &mockFeedUC{getPageFn: func(context.Context, request.Request) (page.Page, error) {
				t.Fatal("service must not be called")
				return page.Page{}, nil
			}}
			c := &Client{feedSvc: feeds}
			if _, err := c.ListFeeds(context.Background(), tt.params); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestListFeeds_PassesFilters(t *testing.T) {
	feeds := &mockFeedUC{getPageFn: func(_ context.Context, req request.Request) (page.Page, error) {
		f := req.Filter()
		if f.Keyword() != "sunny" {
			t.Errorf("keyword = %q", f.Keyword())
		}
		if id := f.AuthorID(); id == nil || *id != 42 {
			t.Errorf("authorID = %v", id)
		}
		return page.Page{}, nil
	}}
	c := &Client{feedSvc: feeds}

	_, err := c.ListFeeds(context.Background(), ListParams{Keyword: "sunny", AuthorID: ptr(int64(42))})
	if err != nil {
		t.Fatalf("ListFeeds: %v", err)
	}
}

func TestAllFeeds_FollowsCursors(t *testing.T) {
	feeds := &mockFeedUC{getPageFn: pagedFeed(7, 3)}
	c := &Client{feedSvc: feeds}

	var got []int64
	for it, err := range c.AllFeeds(context.Background(), ListParams{SortBy: SortByLikeCount, Limit: 3}) {
		if err != nil {
			t.Fatalf("AllFeeds: %v", err)
		}
		got = append(got, it.ID)
	}

	want := []int64{7, 6, 5, 4, 3, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if len(feeds.calls) != 3 {
		t.Errorf("pages fetched = %d, want 3", len(feeds.calls))
	}
}

func TestAllFeeds_EarlyBreak(t *testing.T) {
	feeds := &mockFeedUC{getPageFn: pagedFeed(10, 3)}
	c := &Client{feedSvc: feeds}

	n := 0
	for _, err := range c.AllFeeds(context.Background(), ListParams{SortBy: SortByLikeCount}) {
		if err != nil {
			t.Fatalf("AllFeeds: %v", err)
		}
		n++
		if n == 4 {
			break
		}
	}
	if len(feeds.calls) != 2 {
		t.Errorf("pages fetched = %d, want 2", len(feeds.calls))
	}
}

func TestAllFeeds_YieldsErrorOnce(t *testing.T) {
	boom := domain.IndexUnavailable("aggregate", errors.New("connection refused"))
	first := pagedFeed(10, 3)
	feeds := &mockFeedUC{}
	feeds.getPageFn = func(ctx context.Context, req request.Request) (page.Page, error) {
		if len(feeds.calls) > 1 {
			return page.Page{}, boom
		}
		return first(ctx, req)
	}
	c := &Client{feedSvc: feeds}

	var items, errs int
	for _, err := range c.AllFeeds(context.Background(), ListParams{SortBy: SortByLikeCount}) {
		if err != nil {
			errs++
			if !errors.Is(err, ErrIndexUnavailable) {
				t.Errorf("err = %v", err)
			}
			continue
		}
		items++
	}
	if items != 3 || errs != 1 {
		t.Errorf("items = %d, errs = %d", items, errs)
	}
}

func TestReconcile(t *testing.T) {
	started := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	last := domrun.RunResult{
		RunID: "run-1", Outcome: domrun.OutcomeCompleted,
		StartedAt: started, FinishedAt: started.Add(time.Second),
		Batches: 2, Upserted: 900, Removed: 4,
	}
	recon := &mockReconcileUC{
		runFn:    func(context.Context) (domrun.RunResult, error) { return last, nil },
		statusFn: func() domrun.Status { return domrun.Status{State: "IDLE", LastRun: &last} },
	}
	c := &Client{reconSvc: recon}

	res, err := c.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if res.RunID != "run-1" || res.Outcome != "COMPLETED" || res.Upserted != 900 || res.Removed != 4 {
		t.Errorf("result = %+v", res)
	}

	st := c.ReconcileStatus()
	if st.State != "IDLE" || st.LastRun == nil || st.LastRun.Batches != 2 {
		t.Errorf("status = %+v", st)
	}
}

func TestReconcile_Failures(t *testing.T) {
	failed := domrun.RunResult{RunID: "run-2", Outcome: domrun.OutcomeFailed, Error: "boom"}
	tests := []struct {
		name    string
		res     domrun.RunResult
		err     error
		outcome string
	}{
		{"failed run", failed, errors.Join(domain.ErrReconciliationFailed, errors.New("boom")), "FAILED"},
		{"already running", domrun.RunResult{}, domain.ErrReconciliationRunning, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{reconSvc: &mockReconcileUC{
				runFn: func(context.Context) (domrun.RunResult, error) { return tt.res, tt.err },
			}}
			res, err := c.Reconcile(context.Background())
			if !errors.Is(err, tt.err) {
				t.Errorf("err = %v, want %v", err, tt.err)
			}
			if res.Outcome != tt.outcome {
				t.Errorf("outcome = %q, want %q", res.Outcome, tt.outcome)
			}
		})
	}
}

func TestReconcileStatus_NoRunYet(t *testing.T) {
	c := &Client{reconSvc: &mockReconcileUC{
		statusFn: func() domrun.Status { return domrun.Status{State: "RUNNING"} },
	}}
	st := c.ReconcileStatus()
	if st.State != "RUNNING" || st.LastRun != nil {
		t.Errorf("status = %+v", st)
	}
}

func TestHealth(t *testing.T) {
	c := &Client{healthSvc: &mockHealthUC{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{
			healthuc.ComponentIndex:   healthuc.CheckError,
			healthuc.ComponentRecords: healthuc.CheckOK,
		},
	}}}

	h := c.Health(context.Background())
	if h.Status != "degraded" {
		t.Errorf("status = %q", h.Status)
	}
	if h.Checks["index"] != "error" || h.Checks["records"] != "ok" {
		t.Errorf("checks = %v", h.Checks)
	}
}
