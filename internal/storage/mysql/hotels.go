package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wanderbot/internal/domain"
)

func (r *Repo) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.db.ExecContext(ctx, upsertHotelSQL,
		h.ID,
		h.Source,
		arg(h.Name),
		arg(h.Description),
		arg(h.Stars),
		arg(h.Lat),
		arg(h.Lon),
		arg(h.Country),
		arg(h.City),
		arg(h.AddressRaw),
		jsonList(h.Amenities),
		jsonList(h.Images),
		arg(h.PricePerNight),
		arg(h.Currency),
		rawJSON(h.RawJSON),
	)
	return err
}

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertHotelSQL,
		h.Source,
		arg(h.Name),
		arg(h.Description),
		arg(h.Stars),
		arg(h.Lat),
		arg(h.Lon),
		arg(h.Country),
		arg(h.City),
		arg(h.AddressRaw),
		jsonList(h.Amenities),
		jsonList(h.Images),
		arg(h.PricePerNight),
		arg(h.Currency),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) LogMiss(ctx context.Context, id int64, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, id, status, reason)
	return err
}

type rowScanner interface{ Scan(dest ...any) error }

func scanHotel(s rowScanner) (domain.HotelView, error) {
	var hv domain.HotelView
	var stars sql.NullInt64
	var lat, lon, price sql.NullFloat64
	var name, desc, country, city, addr, currency sql.NullString
	var amenitiesJSON, imagesJSON []byte
	if err := s.Scan(
		&hv.ID, &hv.Source,
		&name, &desc,
		&stars,
		&lat, &lon,
		&country, &city, &addr,
		&amenitiesJSON, &imagesJSON,
		&price, &currency,
	); err != nil {
		return domain.HotelView{}, err
	}
	if stars.Valid {
		s := int(stars.Int64)
		hv.Stars = &s
	}
	if price.Valid {
		p := price.Float64
		hv.PricePerNight = &p
	}
	hv.Coords = coords(lat, lon)
	hv.Name = strPtr(name)
	hv.Description = strPtr(desc)
	hv.Country = strPtr(country)
	hv.City = strPtr(city)
	hv.Address = strPtr(addr)
	hv.Currency = strPtr(currency)
	hv.Amenities = decodeList(amenitiesJSON)
	hv.Images = decodeList(imagesJSON)
	return hv, nil
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.HotelView, error) {
	hv, err := scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.HotelView{}, domain.ErrNotFound
	}
	return hv, err
}

func (r *Repo) ListHotels(ctx context.Context, q domain.HotelsQuery) (domain.HotelsPage, error) {
	limit, after, err := page(q.PageQuery)
	if err != nil {
		return domain.HotelsPage{}, err
	}
	var f filter
	if after > 0 {
		f.add("id > ?", after)
	}
	if q.City != nil {
		f.add("city = ?", *q.City)
	}
	if q.Country != nil {
		f.add("country = ?", *q.Country)
	}
	if q.MinStars != nil {
		f.add("stars >= ?", *q.MinStars)
	}
	if q.MaxPrice != nil {
		f.add("price_per_night <= ?", *q.MaxPrice)
	}
	if q.Amenity != nil {
		f.add("JSON_CONTAINS(amenities, JSON_QUOTE(?))", *q.Amenity)
	}
	query := "SELECT" + hotelColumns + " FROM hotels" + f.sql() + " ORDER BY id LIMIT ?"
	rows, err := r.db.QueryContext(ctx, query, append(f.args, limit+1)...)
	if err != nil {
		return domain.HotelsPage{}, fmt.Errorf("list hotels: %w", err)
	}
	defer rows.Close()

	out := []domain.HotelView{}
	for rows.Next() {
		hv, err := scanHotel(rows)
		if err != nil {
			return domain.HotelsPage{}, err
		}
		out = append(out, hv)
	}
	if err := rows.Err(); err != nil {
		return domain.HotelsPage{}, err
	}
	n, next := nextCursor(len(out), limit, func(i int) int64 { return out[i].ID })
	return domain.HotelsPage{Items: out[:n], NextCursor: next}, nil
}
