package request

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/feedex/internal/domain"
	"github.com/kailas-cloud/feedex/internal/domain/feed/order"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New(Params{Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.SortBy() != order.CreatedAt {
		t.Errorf("sortBy: got %q", r.SortBy())
	}
	if r.Direction() != order.Descending {
		t.Errorf("direction: got %q", r.Direction())
	}
	if r.After() != nil {
		t.Error("expected no cursor on first page")
	}
	if r.Limit() != 10 {
		t.Errorf("limit: got %d", r.Limit())
	}
}

func TestNew_WithCursor(t *testing.T) {
	r, err := New(Params{
		Limit: 2, SortBy: "likeCount", SortDirection: "DESCENDING",
		Cursor: "5", IDAfter: "12",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.After() == nil {
		t.Fatal("expected cursor")
	}
	if r.After().LikeCount() != 5 || r.After().ID() != 12 {
		t.Errorf("unexpected cursor: %+v", *r.After())
	}
}

func TestNew_ClientErrors(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		want error
	}{
		{"bad sort field", Params{SortBy: "hot"}, domain.ErrInvalidSortField},
		{"bad direction", Params{SortDirection: "UP"}, domain.ErrInvalidSortDirection},
		{"cursor without idAfter", Params{Cursor: "5"}, domain.ErrMalformedCursor},
		{"idAfter without cursor", Params{IDAfter: "5"}, domain.ErrMalformedCursor},
		{"cursor type mismatch", Params{SortBy: "createdAt", Cursor: "5", IDAfter: "1"}, domain.ErrMalformedCursor},
		{"bad filter", Params{SkyStatuses: []string{"FOGGY"}}, domain.ErrInvalidFilter},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.p)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !domain.IsClientError(err) {
				t.Errorf("expected client error classification for %v", err)
			}
		})
	}
}
