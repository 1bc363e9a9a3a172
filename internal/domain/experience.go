package domain

import "time"

const (
	MaxExperienceImages      = 10
	MaxExperienceDescription = 5000
)

// ImageLimitError reports an experience that already holds MaxExperienceImages.
func ImageLimitError() error {
	return &ValidationError{Fields: map[string]string{"images": "too many images"}}
}

// Experience is a travel story shared by one user.
type Experience struct {
	ID          int64     `json:"id"`
	AuthorID    string    `json:"author_id"`
	AuthorName  *string   `json:"author_name,omitempty"`
	Title       *string   `json:"title,omitempty"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	City        *string   `json:"city,omitempty"`
	Country     *string   `json:"country,omitempty"`
	Coords      *Coords   `json:"coords,omitempty"`
	Images      []string  `json:"images"`
	Season      string    `json:"season"`
	CreatedAt   time.Time `json:"created_at"`
}

type NewExperience struct {
	AuthorID    string   `json:"author_id"`
	AuthorName  string   `json:"author_name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	Images      []string `json:"images"`
	Season      string   `json:"season"`
}

type ExperienceQuery struct {
	AuthorID *string
	City     *string
	PageQuery
}

type ExperiencesPage struct {
	Items      []Experience `json:"items"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

// ExperienceDraft is the structured form of a free-text travel submission.
type ExperienceDraft struct {
	Name                string `json:"name"`
	Location            string `json:"location"`
	Description         string `json:"description"`
	Season              string `json:"season"`
	RecommendedActivity string `json:"recommended_activity"`
}
