package record

import (
	"database/sql"
	"fmt"

	domrec "github.com/kailas-cloud/feedex/internal/domain/record"
)

// rowScanner is satisfied by *sql.Rows and *sql.Row.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAll(rows *sql.Rows, capHint int) ([]domrec.Record, error) {
	defer rows.Close()

	out := make([]domrec.Record, 0, capHint)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func scanRecord(s rowScanner) (domrec.Record, error) {
	var (
		f         domrec.Fields
		sky       string
		precip    string
		deletedAt sql.NullTime
	)
	if err := s.Scan(
		&f.ID, &f.AuthorID, &f.Content, &sky, &precip,
		&f.LikeCount, &f.CommentCount, &f.CreatedAt, &f.UpdatedAt, &deletedAt,
	); err != nil {
		return domrec.Record{}, fmt.Errorf("scan feed row: %w", err)
	}

	f.SkyStatus = domrec.SkyStatus(sky)
	f.PrecipitationType = domrec.PrecipitationType(precip)
	f.CreatedAt = f.CreatedAt.UTC()
	f.UpdatedAt = f.UpdatedAt.UTC()
	if deletedAt.Valid {
		t := deletedAt.Time.UTC()
		f.DeletedAt = &t
	}
	return domrec.Reconstruct(f), nil
}
