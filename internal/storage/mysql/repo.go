package mysql

import (
	"context"
	"database/sql"
	"strings"

	"service_review/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- services ----

func (r *Repo) ListServices(ctx context.Context, q domain.ServicesQuery) ([]domain.Service, error) {
	var (
		where []string
		args  []any
	)
	if q.Email != nil {
		where = append(where, "email = ?")
		args = append(args, *q.Email)
	}
	// LIKE against a lowered column keeps the match case-insensitive even on
	// case-sensitive collations.
	if q.Category != nil {
		where = append(where, "LOWER(category) LIKE ?")
		args = append(args, "%"+strings.ToLower(*q.Category)+"%")
	}
	if q.Title != nil {
		where = append(where, "LOWER(title) LIKE ?")
		args = append(args, "%"+strings.ToLower(*q.Title)+"%")
	}

	sqlStr := listServicesPrefix
	if len(where) > 0 {
		sqlStr += "\nWHERE " + strings.Join(where, " AND ")
	}
	sqlStr += "\nORDER BY id"
	if q.Limit > 0 {
		sqlStr += "\nLIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) GetService(ctx context.Context, id int64) (domain.Service, error) {
	row := r.db.QueryRowContext(ctx, getServiceSQL, id)
	s, err := scanService(row)
	if err == sql.ErrNoRows {
		return domain.Service{}, domain.ErrNotFound
	}
	return s, err
}

func (r *Repo) CreateService(ctx context.Context, s domain.Service) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertServiceSQL,
		s.Email,
		s.Category,
		s.Title,
		s.Description,
		valF64(s.Price),
		valStr(s.ImageURL),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) UpdateService(ctx context.Context, id int64, p domain.ServicePatch) error {
	var (
		set  []string
		args []any
	)
	if p.Email != nil {
		set = append(set, "email = ?")
		args = append(args, *p.Email)
	}
	if p.Category != nil {
		set = append(set, "category = ?")
		args = append(args, *p.Category)
	}
	if p.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *p.Description)
	}
	if p.Price != nil {
		set = append(set, "price = ?")
		args = append(args, *p.Price)
	}
	if p.ImageURL != nil {
		set = append(set, "image_url = ?")
		args = append(args, *p.ImageURL)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	// Matching zero rows is fine: update of an absent id is a no-op success.
	_, err := r.db.ExecContext(ctx,
		"UPDATE services SET "+strings.Join(set, ", ")+" WHERE id = ?", args...)
	return err
}

func (r *Repo) DeleteService(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, deleteServiceSQL, id)
	return err
}

func (r *Repo) BumpReviewCount(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, bumpReviewCountSQL, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *Repo) DropReviewCount(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, dropReviewCountSQL, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ---- reviews ----

func (r *Repo) ListReviews(ctx context.Context, q domain.ReviewsQuery) ([]domain.Review, error) {
	var (
		where []string
		args  []any
	)
	if q.Email != nil {
		where = append(where, "email = ?")
		args = append(args, *q.Email)
	}
	if q.ServiceID != nil {
		where = append(where, "service_id = ?")
		args = append(args, *q.ServiceID)
	}
	sqlStr := listReviewsPrefix
	if len(where) > 0 {
		sqlStr += "\nWHERE " + strings.Join(where, " AND ")
	}
	sqlStr += "\nORDER BY id"

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) GetReview(ctx context.Context, id int64) (domain.Review, error) {
	row := r.db.QueryRowContext(ctx, getReviewSQL, id)
	rv, err := scanReview(row)
	if err == sql.ErrNoRows {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv, err
}

func (r *Repo) CreateReview(ctx context.Context, rv domain.Review) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertReviewSQL,
		rv.ReviewID,
		rv.Email,
		valF64(rv.Rating),
		valStr(rv.Title),
		valStr(rv.Text),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) UpdateReview(ctx context.Context, id int64, p domain.ReviewPatch) error {
	var (
		set  []string
		args []any
	)
	if p.Rating != nil {
		set = append(set, "rating = ?")
		args = append(args, *p.Rating)
	}
	if p.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Text != nil {
		set = append(set, "`text` = ?")
		args = append(args, *p.Text)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := r.db.ExecContext(ctx,
		"UPDATE reviews SET "+strings.Join(set, ", ")+" WHERE id = ?", args...)
	return err
}

func (r *Repo) DeleteReview(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteReviewSQL, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ---- scanning ----

type rowScanner interface{ Scan(dst ...any) error }

func scanService(row rowScanner) (domain.Service, error) {
	var (
		s           domain.Service
		description sql.NullString
		price       sql.NullFloat64
		imageURL    sql.NullString
		reviewCount sql.NullInt64
		createdAt   sql.NullTime
	)
	if err := row.Scan(
		&s.ID,
		&s.Email,
		&s.Category,
		&s.Title,
		&description,
		&price,
		&imageURL,
		&reviewCount,
		&createdAt,
	); err != nil {
		return domain.Service{}, err
	}
	if description.Valid {
		s.Description = description.String
	}
	if price.Valid {
		f := price.Float64
		s.Price = &f
	}
	if imageURL.Valid {
		u := imageURL.String
		s.ImageURL = &u
	}
	if reviewCount.Valid {
		n := reviewCount.Int64
		s.ReviewCount = &n
	}
	if createdAt.Valid {
		s.CreatedAt = createdAt.Time
	}
	return s, nil
}

func scanReview(row rowScanner) (domain.Review, error) {
	var (
		rv        domain.Review
		rating    sql.NullFloat64
		title     sql.NullString
		text      sql.NullString
		createdAt sql.NullTime
	)
	if err := row.Scan(
		&rv.ID,
		&rv.ReviewID,
		&rv.Email,
		&rating,
		&title,
		&text,
		&createdAt,
	); err != nil {
		return domain.Review{}, err
	}
	if rating.Valid {
		f := rating.Float64
		rv.Rating = &f
	}
	if title.Valid {
		t := title.String
		rv.Title = &t
	}
	if text.Valid {
		t := text.String
		rv.Text = &t
	}
	if createdAt.Valid {
		rv.CreatedAt = createdAt.Time
	}
	return rv, nil
}

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
