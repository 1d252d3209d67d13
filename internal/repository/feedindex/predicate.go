package feedindex

import (
	"github.com/kailas-cloud/feedex/internal/db"
	domdoc "github.com/kailas-cloud/feedex/internal/domain/document"
	"github.com/kailas-cloud/feedex/internal/domain/feed/cursor"
	"github.com/kailas-cloud/feedex/internal/domain/feed/filter"
	"github.com/kailas-cloud/feedex/internal/domain/feed/order"
)

// sortField maps the public sort field to its index attribute.
func sortField(f order.Field) string {
	if f == order.LikeCount {
		return domdoc.FieldLikeCount
	}
	return domdoc.FieldCreatedAt
}

// filterPredicate renders the filter as an FT query. Count and page share it.
func filterPredicate(f filter.Filter) string {
	if f.IsEmpty() {
		return db.MatchAll
	}
	clauses := make([]string, 0, 4)
	if kw := f.Keyword(); kw != "" {
		clauses = append(clauses, db.Text(domdoc.FieldContent, kw))
	}
	if sky := f.SkyStatuses(); len(sky) > 0 {
		vals := make([]string, len(sky))
		for i, s := range sky {
			vals[i] = string(s)
		}
		clauses = append(clauses, db.TagIn(domdoc.FieldSkyStatus, vals...))
	}
	if precip := f.PrecipitationTypes(); len(precip) > 0 {
		vals := make([]string, len(precip))
		for i, p := range precip {
			vals[i] = string(p)
		}
		clauses = append(clauses, db.TagIn(domdoc.FieldPrecipitationType, vals...))
	}
	if id := f.AuthorID(); id != nil {
		clauses = append(clauses, db.Eq(domdoc.FieldAuthorID, *id))
	}
	return db.And(clauses...)
}

// afterPredicate matches positions strictly past c in the iteration direction.
func afterPredicate(field string, dir order.Direction, c cursor.Cursor) string {
	v, id := c.SortKey(), c.ID()
	if dir.IsDescending() {
		return db.Or(db.Lt(field, v), db.And(db.Eq(field, v), db.Lt(domdoc.FieldID, id)))
	}
	return db.Or(db.Gt(field, v), db.And(db.Eq(field, v), db.Gt(domdoc.FieldID, id)))
}

// untilPredicate matches positions at or before c in the iteration direction.
func untilPredicate(field string, dir order.Direction, c cursor.Cursor) string {
	v, id := c.SortKey(), c.ID()
	if dir.IsDescending() {
		return db.Or(db.Gt(field, v), db.And(db.Eq(field, v), db.Gte(domdoc.FieldID, id)))
	}
	return db.Or(db.Lt(field, v), db.And(db.Eq(field, v), db.Lte(domdoc.FieldID, id)))
}
