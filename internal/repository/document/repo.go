package document

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/feedex/internal/db"
	"github.com/kailas-cloud/feedex/internal/domain"
	domdoc "github.com/kailas-cloud/feedex/internal/domain/document"
	"github.com/kailas-cloud/feedex/internal/metrics"
)

const defaultPollInterval = 50 * time.Millisecond

// store is the consumer interface for index writes (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	DelMulti(ctx context.Context, keys []string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	IndexInfo(ctx context.Context, name string) (db.IndexInfo, error)
}

// Repo writes feed documents into the search index.
type Repo struct {
	store        store
	index        string
	prefix       string
	timeout      time.Duration
	pollInterval time.Duration
}

// Option configures Repo.
type Option func(*Repo)

// WithTimeout bounds every write call. Refresh is bounded by the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(r *Repo) { r.timeout = d }
}

// WithPollInterval sets how often Refresh samples indexing progress.
func WithPollInterval(d time.Duration) Option {
	return func(r *Repo) {
		if d > 0 {
			r.pollInterval = d
		}
	}
}

// New creates a document repository. Documents live under "<keyPrefix>feed:<id>".
func New(s store, indexName, keyPrefix string, opts ...Option) *Repo {
	r := &Repo{store: s, index: indexName, prefix: keyPrefix, pollInterval: defaultPollInterval}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Key returns the hash key of the document for a record id.
func (r *Repo) Key(id int64) string {
	return r.prefix + "feed:" + strconv.FormatInt(id, 10)
}

// Definition returns the FT index schema over feed documents.
func (r *Repo) Definition() *db.IndexDefinition {
	return db.NewIndex(r.index).
		Prefix(r.prefix+"feed:").
		KeepStopWords().
		NumericSortable(domdoc.FieldID).
		NumericSortable(domdoc.FieldCreatedAt).
		NumericSortable(domdoc.FieldLikeCount).
		Text(domdoc.FieldContent).
		Tag(domdoc.FieldSkyStatus).
		Tag(domdoc.FieldPrecipitationType).
		Numeric(domdoc.FieldAuthorID).
		Numeric(domdoc.FieldUpdatedAt).
		MustBuild()
}

// EnsureIndex creates the index if it does not exist. Returns true if created.
func (r *Repo) EnsureIndex(ctx context.Context) (bool, error) {
	exists, err := r.store.IndexExists(ctx, r.index)
	if err != nil {
		return false, domain.IndexUnavailable("check index", err)
	}
	if exists {
		return false, nil
	}
	if err := r.store.CreateIndex(ctx, r.Definition()); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return false, nil // another replica won the race
		}
		return false, domain.IndexUnavailable("create index", err)
	}
	return true, nil
}

// Recreate drops the index and creates it again from Definition. Document
// hashes are kept and re-indexed in the background; a missing index is created.
func (r *Repo) Recreate(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.index); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return domain.IndexUnavailable("drop index", err)
	}
	if err := r.store.CreateIndex(ctx, r.Definition()); err != nil {
		return domain.IndexUnavailable("create index", err)
	}
	return nil
}

// BulkUpsert creates or fully replaces the given documents in one pipeline.
func (r *Repo) BulkUpsert(ctx context.Context, docs []domdoc.Document) error {
	if len(docs) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(docs))
	for i, d := range docs {
		items[i] = db.HashSetItem{Key: r.Key(d.ID()), Fields: d.Fields()}
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return domain.IndexUnavailable(fmt.Sprintf("bulk upsert %d documents", len(docs)), err)
	}
	return nil
}

// Delete removes documents by record id. Missing documents are ignored.
func (r *Repo) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.Key(id)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.store.DelMulti(ctx, keys); err != nil {
		return domain.IndexUnavailable(fmt.Sprintf("delete %d documents", len(ids)), err)
	}
	return nil
}

// Refresh blocks until the index has caught up with all prior writes and
// publishes the resulting document count.
func (r *Repo) Refresh(ctx context.Context) error {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		info, err := r.store.IndexInfo(ctx, r.index)
		if err != nil {
			return domain.IndexUnavailable("refresh", err)
		}
		if info.CaughtUp() {
			metrics.IndexDocuments.Set(float64(info.NumDocs))
			return nil
		}
		select {
		case <-ctx.Done():
			return domain.IndexUnavailable("refresh", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (r *Repo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}
