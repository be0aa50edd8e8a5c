package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"
	"github.com/google/uuid"

	"photodrop/internal/model"
	"photodrop/internal/pkg/dbutil"
	"photodrop/internal/pkg/timeutil"
)

// UploadRepo is the upload ledger. Rows are append-only; the only reads are
// bounded counts over (email, upload_ts).
type UploadRepo struct {
	db *sql.DB
}

func NewUploadRepo(db *sql.DB) *UploadRepo {
	return &UploadRepo{db: db}
}

func (r *UploadRepo) Create(ctx context.Context, upload *model.Upload) error {
	if upload.ID == "" {
		upload.ID = uuid.NewString()
	}
	if upload.UploadTS == 0 {
		upload.UploadTS = timeutil.NowMillis()
	}
	data := map[string]interface{}{
		"id":        upload.ID,
		"email":     upload.Email,
		"file_name": upload.FileName,
		"upload_ts": upload.UploadTS,
	}
	sqlStr, args, err := builder.BuildInsert("uploads", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// CountSince reports how many uploads email has made with
// upload_ts >= sinceMillis.
func (r *UploadRepo) CountSince(ctx context.Context, email string, sinceMillis int64) (int, error) {
	where := map[string]interface{}{
		"email":        email,
		"upload_ts >=": sinceMillis,
	}
	sqlStr, args, err := builder.BuildSelect("uploads", where, []string{"count(1)"})
	if err != nil {
		return 0, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountByEmailBetween groups upload counts per email over
// [fromMillis, toMillis). Used by the daily report job.
func (r *UploadRepo) CountByEmailBetween(ctx context.Context, fromMillis, toMillis int64) (map[string]int, error) {
	where := map[string]interface{}{
		"upload_ts >=": fromMillis,
		"upload_ts <":  toMillis,
		"_groupby":     "email",
	}
	sqlStr, args, err := builder.BuildSelect("uploads", where, []string{"email", "count(1)"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	counts := make(map[string]int)
	for rows.Next() {
		var email string
		var count int
		if err := rows.Scan(&email, &count); err != nil {
			return nil, err
		}
		counts[email] = count
	}
	return counts, rows.Err()
}
