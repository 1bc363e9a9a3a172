package mysql

import (
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"

	"wanderbot/internal/domain"
)

// arg unwraps optional fields for ExecContext; nil pointers bind as NULL.
func arg[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// rawJSON binds an empty document as NULL.
func rawJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

// jsonList never stores NULL for list columns.
func jsonList(v []string) string {
	if len(v) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func coords(lat, lon sql.NullFloat64) *domain.Coords {
	if !lat.Valid || !lon.Valid {
		return nil
	}
	return &domain.Coords{Lat: lat.Float64, Lon: lon.Float64}
}

func decodeList(b []byte) []string {
	out := []string{}
	if len(b) > 0 {
		_ = json.Unmarshal(b, &out)
	}
	return out
}

// page clamps the limit and decodes the cursor (the last id of the previous page).
func page(pg domain.PageQuery) (limit int, after int64, err error) {
	limit = pg.Limit
	if limit <= 0 {
		limit = domain.DefaultPageLimit
	}
	if limit > domain.MaxPageLimit {
		limit = domain.MaxPageLimit
	}
	if pg.Cursor != nil && *pg.Cursor != "" {
		after, err = strconv.ParseInt(*pg.Cursor, 10, 64)
		if err != nil || after <= 0 {
			return 0, 0, &domain.ValidationError{Fields: map[string]string{"cursor": "malformed"}}
		}
	}
	return limit, after, nil
}

// nextCursor trims the extra row fetched past the limit.
func nextCursor(n, limit int, lastID func(i int) int64) (int, *string) {
	if n <= limit {
		return n, nil
	}
	c := strconv.FormatInt(lastID(limit-1), 10)
	return limit, &c
}

type filter struct {
	where []string
	args  []any
}

func (f *filter) add(cond string, args ...any) {
	f.where = append(f.where, cond)
	f.args = append(f.args, args...)
}

func (f *filter) sql() string {
	if len(f.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.where, " AND ")
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }
