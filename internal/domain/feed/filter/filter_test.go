package filter

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/feedex/internal/domain"
	"github.com/kailas-cloud/feedex/internal/domain/record"
)

func TestNew_BlankKeywordIsNoFilter(t *testing.T) {
	f, err := New("   \t ", nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Keyword() != "" {
		t.Errorf("expected empty keyword, got %q", f.Keyword())
	}
	if !f.IsEmpty() {
		t.Error("expected empty filter")
	}
}

func TestNew_TrimsKeyword(t *testing.T) {
	f, err := New("  umbrella ", nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Keyword() != "umbrella" {
		t.Errorf("got %q", f.Keyword())
	}
	if f.IsEmpty() {
		t.Error("filter with keyword must not be empty")
	}
}

func TestNew_Enums(t *testing.T) {
	f, err := New("", []string{"CLEAR", "CLOUDY", "CLEAR", ""}, []string{"RAIN"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.SkyStatuses()) != 2 {
		t.Errorf("expected 2 distinct sky statuses, got %v", f.SkyStatuses())
	}
	if len(f.PrecipitationTypes()) != 1 || f.PrecipitationTypes()[0] != record.PrecipitationRain {
		t.Errorf("unexpected precipitation types: %v", f.PrecipitationTypes())
	}
}

func TestNew_Invalid(t *testing.T) {
	neg := int64(-1)
	tests := []struct {
		name string
		fn   func() error
	}{
		{"unknown sky", func() error { _, err := New("", []string{"SUNNY"}, nil, nil); return err }},
		{"unknown precipitation", func() error { _, err := New("", nil, []string{"HAIL"}, nil); return err }},
		{"negative author", func() error { _, err := New("", nil, nil, &neg); return err }},
		{"keyword too long", func() error { _, err := New(strings.Repeat("a", MaxKeywordLength+1), nil, nil, nil); return err }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.fn(); !errors.Is(err, domain.ErrInvalidFilter) {
				t.Fatalf("expected ErrInvalidFilter, got %v", err)
			}
		})
	}
}

func TestNew_AuthorID(t *testing.T) {
	id := int64(9)
	f, err := New("", nil, nil, &id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.AuthorID() == nil || *f.AuthorID() != 9 {
		t.Errorf("unexpected author id: %v", f.AuthorID())
	}
}
