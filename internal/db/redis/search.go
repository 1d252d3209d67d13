package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/feedex/internal/db"
)

// Aggregate runs a sorted retrieval via FT.AGGREGATE:
//
//	FT.AGGREGATE idx query LOAD n @f... SORTBY 2k @k1 DIR ... MAX limit LIMIT 0 limit DIALECT 2
func (s *Store) Aggregate(ctx context.Context, q *db.AggregateQuery) (*db.AggregateResult, error) {
	args, err := buildAggregateArgs(q)
	if err != nil {
		return nil, err
	}

	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isUnknownIndex(err) {
			return nil, db.ErrIndexNotFound
		}
		return nil, &db.Error{Op: db.OpAggregate, Key: q.IndexName, Err: err}
	}

	return parseAggregateResult(raw), nil
}

// SearchCount returns the number of documents matching query via FT.SEARCH with LIMIT 0 0.
func (s *Store) SearchCount(ctx context.Context, index, query string) (int64, error) {
	cmd := s.b().Arbitrary("FT.SEARCH").Args(index, query, "LIMIT", "0", "0", "DIALECT", "2").Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isUnknownIndex(err) {
			return 0, db.ErrIndexNotFound
		}
		return 0, &db.Error{Op: db.OpSearch, Key: index, Err: err}
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return total, nil
}

func buildAggregateArgs(q *db.AggregateQuery) ([]string, error) {
	if q.IndexName == "" {
		return nil, errors.New("index name is required")
	}
	if q.Limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	if len(q.SortBy) == 0 {
		return nil, errors.New("at least one sort key is required")
	}

	query := q.Query
	if query == "" {
		query = db.MatchAll
	}
	limit := strconv.Itoa(q.Limit)

	args := []string{q.IndexName, query}

	if len(q.Load) > 0 {
		args = append(args, "LOAD", strconv.Itoa(len(q.Load)))
		for _, f := range q.Load {
			args = append(args, "@"+f)
		}
	}

	args = append(args, "SORTBY", strconv.Itoa(len(q.SortBy)*2))
	for _, k := range q.SortBy {
		dir := "ASC"
		if k.Desc {
			dir = "DESC"
		}
		args = append(args, "@"+k.Field, dir)
	}
	args = append(args, "MAX", limit, "LIMIT", "0", limit, "DIALECT", "2")

	return args, nil
}

// parseAggregateResult reads the RESP2 reply: [total, [f1, v1, ...], [f1, v1, ...], ...].
// The leading total is not reliable under SORTBY MAX and is skipped.
func parseAggregateResult(raw []rueidis.RedisMessage) *db.AggregateResult {
	if len(raw) <= 1 {
		return &db.AggregateResult{}
	}

	rows := make([]map[string]string, 0, len(raw)-1)
	for _, msg := range raw[1:] {
		pairs, err := msg.ToArray()
		if err != nil {
			continue
		}
		rows = append(rows, parseFieldPairs(pairs))
	}
	return &db.AggregateResult{Rows: rows}
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}
