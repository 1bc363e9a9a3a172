package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wanderbot/internal/domain"
)

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func (r *Repo) CreatePromotion(ctx context.Context, p domain.Promotion) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertPromotionSQL,
		p.BusinessName,
		p.Kind,
		p.Title,
		arg(p.Description),
		arg(p.City),
		arg(p.Country),
		arg(p.URL),
		arg(p.ContactEmail),
		jsonList(p.Images),
		p.Status,
		nullTime(p.StartsAt),
		nullTime(p.EndsAt),
		p.CreatedAt.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func scanPromotion(s rowScanner) (domain.Promotion, error) {
	var p domain.Promotion
	var desc, city, country, url, email sql.NullString
	var images []byte
	var starts, ends sql.NullTime
	if err := s.Scan(
		&p.ID, &p.BusinessName, &p.Kind, &p.Title, &desc, &city, &country, &url, &email,
		&images, &p.Status, &starts, &ends, &p.CreatedAt,
	); err != nil {
		return domain.Promotion{}, err
	}
	p.Description = strPtr(desc)
	p.City = strPtr(city)
	p.Country = strPtr(country)
	p.URL = strPtr(url)
	p.ContactEmail = strPtr(email)
	p.Images = decodeList(images)
	if starts.Valid {
		t := starts.Time
		p.StartsAt = &t
	}
	if ends.Valid {
		t := ends.Time
		p.EndsAt = &t
	}
	return p, nil
}

func (r *Repo) GetPromotion(ctx context.Context, id int64) (domain.Promotion, error) {
	row := r.db.QueryRowContext(ctx, "SELECT"+promotionColumns+" FROM promotions WHERE id = ?", id)
	p, err := scanPromotion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Promotion{}, domain.ErrNotFound
	}
	return p, err
}

// ListLivePromotions returns active promotions whose window contains now, newest first.
func (r *Repo) ListLivePromotions(ctx context.Context, q domain.PromotionQuery, now time.Time) (domain.PromotionsPage, error) {
	limit, before, err := page(q.PageQuery)
	if err != nil {
		return domain.PromotionsPage{}, err
	}
	now = now.UTC()
	var f filter
	f.add("status = ?", domain.StatusActive)
	f.add("(starts_at IS NULL OR starts_at <= ?)", now)
	f.add("(ends_at IS NULL OR ends_at > ?)", now)
	if before > 0 {
		f.add("id < ?", before)
	}
	if q.City != nil {
		f.add("city = ?", *q.City)
	}
	if q.Kind != nil {
		f.add("kind = ?", *q.Kind)
	}
	query := "SELECT" + promotionColumns + " FROM promotions" + f.sql() + " ORDER BY id DESC LIMIT ?"
	rows, err := r.db.QueryContext(ctx, query, append(f.args, limit+1)...)
	if err != nil {
		return domain.PromotionsPage{}, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()

	out := []domain.Promotion{}
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return domain.PromotionsPage{}, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return domain.PromotionsPage{}, err
	}
	n, next := nextCursor(len(out), limit, func(i int) int64 { return out[i].ID })
	return domain.PromotionsPage{Items: out[:n], NextCursor: next}, nil
}

// UpdatePromotionStatus moves id from one status to another; a lost race or a
// stale from-status reports ErrConflict.
func (r *Repo) UpdatePromotionStatus(ctx context.Context, id int64, from, to string) error {
	res, err := r.db.ExecContext(ctx, updatePromotionStatusSQL, to, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetPromotion(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("promotion %d is no longer %s: %w", id, from, domain.ErrConflict)
	}
	return nil
}
