package mysql

import (
	"context"

	"wanderbot/internal/domain"
)

func (r *Repo) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	rows, err := r.db.QueryContext(ctx, listDestinationsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Destination
	for rows.Next() {
		var d domain.Destination
		var tags, seasons []byte
		if err := rows.Scan(&d.ID, &d.Name, &d.City, &d.Country, &d.Coords.Lat, &d.Coords.Lon, &tags, &seasons); err != nil {
			return nil, err
		}
		d.Tags = decodeList(tags)
		d.BestSeasons = decodeList(seasons)
		out = append(out, d)
	}
	return out, rows.Err()
}
