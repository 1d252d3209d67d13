package feedex

import (
	"time"

	"github.com/kailas-cloud/feedex/internal/domain/feed/page"
	"github.com/kailas-cloud/feedex/internal/domain/feed/request"
	domrun "github.com/kailas-cloud/feedex/internal/domain/reconcile"
)

// Sort fields accepted by ListParams.SortBy.
const (
	SortByCreatedAt = "createdAt"
	SortByLikeCount = "likeCount"
)

// Sort directions accepted by ListParams.SortDirection.
const (
	Ascending  = "ASCENDING"
	Descending = "DESCENDING"
)

// ListParams selects one page of the feed. Zero values mean defaults:
// newest first, default page size, no filters.
type ListParams struct {
	Limit              int
	SortBy             string
	SortDirection      string
	Cursor             string
	IDAfter            string
	Keyword            string
	SkyStatuses        []string
	PrecipitationTypes []string
	AuthorID           *int64
}

// Item is one feed post.
type Item struct {
	ID                int64
	AuthorID          int64
	Content           string
	SkyStatus         string
	PrecipitationType string
	LikeCount         int64
	CommentCount      int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Page is one page of the feed. NextCursor and NextIDAfter are empty
// when HasNext is false.
type Page struct {
	Items         []Item
	NextCursor    string
	NextIDAfter   string
	HasNext       bool
	TotalCount    int64
	SortBy        string
	SortDirection string
}

// RunResult summarizes one reconciliation run.
type RunResult struct {
	RunID      string
	Outcome    string // "COMPLETED" or "FAILED"
	StartedAt  time.Time
	FinishedAt time.Time
	Batches    int
	Upserted   int
	Removed    int
	Error      string
}

// ReconcileStatus is a snapshot of the reconciliation job.
type ReconcileStatus struct {
	State   string // "IDLE" or "RUNNING"
	LastRun *RunResult
}

func toRequestParams(p ListParams) request.Params {
	return request.Params{
		Limit:              p.Limit,
		SortBy:             p.SortBy,
		SortDirection:      p.SortDirection,
		Cursor:             p.Cursor,
		IDAfter:            p.IDAfter,
		Keyword:            p.Keyword,
		SkyStatuses:        p.SkyStatuses,
		PrecipitationTypes: p.PrecipitationTypes,
		AuthorID:           p.AuthorID,
	}
}

func fromPage(p page.Page) Page {
	items := make([]Item, len(p.Data))
	for i, it := range p.Data {
		items[i] = Item(it)
	}
	out := Page{
		Items:         items,
		HasNext:       p.HasNext,
		TotalCount:    p.TotalCount,
		SortBy:        p.SortBy.String(),
		SortDirection: string(p.SortDirection),
	}
	if p.NextCursor != nil {
		out.NextCursor = *p.NextCursor
	}
	if p.NextIDAfter != nil {
		out.NextIDAfter = *p.NextIDAfter
	}
	return out
}

func fromRunResult(r domrun.RunResult) RunResult {
	return RunResult{
		RunID:      r.RunID,
		Outcome:    string(r.Outcome),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Batches:    r.Batches,
		Upserted:   r.Upserted,
		Removed:    r.Removed,
		Error:      r.Error,
	}
}

func fromStatus(s domrun.Status) ReconcileStatus {
	out := ReconcileStatus{State: s.State}
	if s.LastRun != nil {
		r := fromRunResult(*s.LastRun)
		out.LastRun = &r
	}
	return out
}
