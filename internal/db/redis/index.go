package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/feedex/internal/db"
)

// CreateIndex creates an FT index from the given definition.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := def.CreateArgs()
	if err != nil {
		return fmt.Errorf("invalid index definition: %w", err)
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Key: def.Name, Err: err}
	}
	return nil
}

// DropIndex removes an FT index by name. Indexed hashes are kept.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	cmd := s.b().Arbitrary("FT.DROPINDEX").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isUnknownIndex(err) {
			return db.ErrIndexNotFound
		}
		return &db.Error{Op: db.OpDropIndex, Key: name, Err: err}
	}
	return nil
}

// IndexExists checks index existence via FT.INFO; "unknown index name" means absent.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	_, err := s.IndexInfo(ctx, name)
	if errors.Is(err, db.ErrIndexNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IndexInfo reads document count and background indexing progress via FT.INFO.
func (s *Store) IndexInfo(ctx context.Context, name string) (db.IndexInfo, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isUnknownIndex(err) {
			return db.IndexInfo{}, db.ErrIndexNotFound
		}
		return db.IndexInfo{}, &db.Error{Op: db.OpIndexInfo, Key: name, Err: err}
	}
	return parseIndexInfo(raw)
}

// parseIndexInfo reads the flat RESP2 FT.INFO reply: [name1, value1, name2, value2, ...].
func parseIndexInfo(raw []rueidis.RedisMessage) (db.IndexInfo, error) {
	var info db.IndexInfo
	info.PercentIndexed = 1
	for i := 0; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		switch key {
		case "num_docs":
			n, err := messageFloat(raw[i+1])
			if err != nil {
				return db.IndexInfo{}, fmt.Errorf("parse num_docs: %w", err)
			}
			info.NumDocs = int64(n)
		case "indexing":
			n, err := messageFloat(raw[i+1])
			if err != nil {
				return db.IndexInfo{}, fmt.Errorf("parse indexing: %w", err)
			}
			info.Indexing = n != 0
		case "percent_indexed":
			if n, err := messageFloat(raw[i+1]); err == nil {
				info.PercentIndexed = n
			}
		}
	}
	return info, nil
}

// messageFloat reads a numeric reply that servers send as integer, double or string.
func messageFloat(m rueidis.RedisMessage) (float64, error) {
	if n, err := m.ToInt64(); err == nil {
		return float64(n), nil
	}
	if f, err := m.ToFloat64(); err == nil {
		return f, nil
	}
	s, err := m.ToString()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(s, 64)
}
