package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wanderbot/internal/domain"
)

func (r *Repo) CreateExperience(ctx context.Context, e domain.Experience) (int64, error) {
	var lat, lon *float64
	if e.Coords != nil {
		lat, lon = &e.Coords.Lat, &e.Coords.Lon
	}
	res, err := r.db.ExecContext(ctx, insertExperienceSQL,
		e.AuthorID,
		arg(e.AuthorName),
		arg(e.Title),
		e.Description,
		e.Location,
		arg(e.City),
		arg(e.Country),
		arg(lat),
		arg(lon),
		jsonList(e.Images),
		e.Season,
		e.CreatedAt.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func scanExperience(s rowScanner) (domain.Experience, error) {
	var e domain.Experience
	var authorName, title, city, country sql.NullString
	var lat, lon sql.NullFloat64
	var images []byte
	if err := s.Scan(
		&e.ID, &e.AuthorID, &authorName, &title, &e.Description, &e.Location,
		&city, &country, &lat, &lon, &images, &e.Season, &e.CreatedAt,
	); err != nil {
		return domain.Experience{}, err
	}
	e.AuthorName = strPtr(authorName)
	e.Title = strPtr(title)
	e.City = strPtr(city)
	e.Country = strPtr(country)
	e.Coords = coords(lat, lon)
	e.Images = decodeList(images)
	return e, nil
}

func (r *Repo) GetExperience(ctx context.Context, id int64) (domain.Experience, error) {
	row := r.db.QueryRowContext(ctx, "SELECT"+experienceColumns+" FROM experiences WHERE id = ?", id)
	e, err := scanExperience(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Experience{}, domain.ErrNotFound
	}
	return e, err
}

// ListExperiences returns newest first; the cursor walks ids downwards.
func (r *Repo) ListExperiences(ctx context.Context, q domain.ExperienceQuery) (domain.ExperiencesPage, error) {
	limit, before, err := page(q.PageQuery)
	if err != nil {
		return domain.ExperiencesPage{}, err
	}
	var f filter
	if before > 0 {
		f.add("id < ?", before)
	}
	if q.AuthorID != nil {
		f.add("author_id = ?", *q.AuthorID)
	}
	if q.City != nil {
		f.add("city = ?", *q.City)
	}
	query := "SELECT" + experienceColumns + " FROM experiences" + f.sql() + " ORDER BY id DESC LIMIT ?"
	rows, err := r.db.QueryContext(ctx, query, append(f.args, limit+1)...)
	if err != nil {
		return domain.ExperiencesPage{}, fmt.Errorf("list experiences: %w", err)
	}
	defer rows.Close()

	out := []domain.Experience{}
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return domain.ExperiencesPage{}, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return domain.ExperiencesPage{}, err
	}
	n, next := nextCursor(len(out), limit, func(i int) int64 { return out[i].ID })
	return domain.ExperiencesPage{Items: out[:n], NextCursor: next}, nil
}

func (r *Repo) AppendExperienceImage(ctx context.Context, id int64, url string, limit int) error {
	res, err := r.db.ExecContext(ctx, appendExperienceImageSQL, url, id, limit)
	if err != nil {
		return fmt.Errorf("append experience image: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	// Appending always changes the row, so no match means missing or full.
	if _, err := r.GetExperience(ctx, id); err != nil {
		return err
	}
	return domain.ImageLimitError()
}
