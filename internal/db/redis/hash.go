package redis

import (
	"context"
	"errors"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/feedex/internal/db"
)

// HSetMulti writes every hash in one DoMulti round-trip. Callers pass the
// full field set so HSET replaces every indexed value. Failures of
// individual keys are joined; the other writes still land.
func (s *Store) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if len(items) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, len(items))
	for i, item := range items {
		kv := s.b().Hset().Key(item.Key).FieldValue()
		for field, value := range item.Fields {
			kv = kv.FieldValue(field, value)
		}
		cmds[i] = kv.Build()
	}

	var errs []error
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			errs = append(errs, &db.Error{Op: db.OpHSet, Key: items[i].Key, Err: err})
		}
	}
	return errors.Join(errs...)
}

// DelMulti deletes keys with a single DEL. Missing keys are ignored.
func (s *Store) DelMulti(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.do(ctx, s.b().Del().Key(keys...).Build()).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}
