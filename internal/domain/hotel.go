package domain

// Hotel sources.
const (
	SourceImported = "imported"
	SourceBusiness = "business"
)

type Hotel struct {
	ID            int64
	Source        string // imported|business
	Name          *string
	Description   *string
	Stars         *int
	Lat, Lon      *float64
	Country       *string
	City          *string
	AddressRaw    *string
	Amenities     []string
	Images        []string
	PricePerNight *float64
	Currency      *string
	RawJSON       []byte // full feed payload for imported listings
}

// NewHotel is a business-submitted listing.
type NewHotel struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Stars         *int     `json:"stars"`
	Lat           *float64 `json:"lat"`
	Lon           *float64 `json:"lon"`
	Country       string   `json:"country"`
	City          string   `json:"city"`
	Address       string   `json:"address"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
	PricePerNight *float64 `json:"price_per_night"`
	Currency      string   `json:"currency"`
}

// HotelView is the read model served by the API.
type HotelView struct {
	ID            int64    `json:"id"`
	Source        string   `json:"source"`
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Stars         *int     `json:"stars,omitempty"`
	Coords        *Coords  `json:"coords,omitempty"`
	Country       *string  `json:"country,omitempty"`
	City          *string  `json:"city,omitempty"`
	Address       *string  `json:"address,omitempty"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
	PricePerNight *float64 `json:"price_per_night,omitempty"`
	Currency      *string  `json:"currency,omitempty"`
}

type HotelsQuery struct {
	City     *string
	Country  *string
	MinStars *int
	MaxPrice *float64
	Amenity  *string
	PageQuery
}

type HotelsPage struct {
	Items      []HotelView `json:"items"`
	NextCursor *string     `json:"next_cursor,omitempty"`
}
