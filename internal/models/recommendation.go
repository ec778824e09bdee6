package models

import (
	"bytes"
	"strings"

	"github.com/goccy/go-json"
)

// NotAvailable is the backend's placeholder for a lookup that found nothing.
const NotAvailable = "N/A"

// Recommendation is one title returned by the backend.
type Recommendation struct {
	Title            string `json:"title"`
	Year             Year   `json:"year"`
	IMDb             Rating `json:"imdb"`
	Summary          string `json:"summary"`
	Poster           string `json:"poster,omitempty"`
	IMDbID           string `json:"imdb_id,omitempty"`
	OriginalLanguage string `json:"original_language,omitempty"`
	IsDubbed         bool   `json:"is_dubbed,omitempty"`
	MainGenre        string `json:"main_genre,omitempty"`
	SubGenre         string `json:"sub_genre,omitempty"`
	Director         string `json:"director,omitempty"`
	Actors           string `json:"actors,omitempty"`
	Runtime          string `json:"runtime,omitempty"`
}

// PosterURL returns the poster URL, or "" when the backend had none.
func (r Recommendation) PosterURL() string {
	return present(r.Poster)
}

// ExternalID returns the IMDb id used for deep links, or "" when absent.
func (r Recommendation) ExternalID() string {
	return present(r.IMDbID)
}

func present(s string) string {
	s = strings.TrimSpace(s)
	if s == NotAvailable {
		return ""
	}
	return s
}

// RecommendationResponse is the backend's reply envelope.
type RecommendationResponse struct {
	Success         bool             `json:"success"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Error           string           `json:"error,omitempty"`
	ErrorType       string           `json:"error_type,omitempty"`
}

// Backend error_type values.
const (
	ErrorTypeAPILimit = "api_limit"
	ErrorTypeParse    = "parse_error"
	ErrorTypeGeneral  = "general_error"
)

// Year keeps the release year as display text. The backend sends a number, a numeric
// string, a series range like "2008–2013" or a placeholder such as "N/A".
type Year string

func (y *Year) UnmarshalJSON(data []byte) error {
	v, err := displayText(data)
	if err != nil {
		return err
	}
	*y = Year(v)
	return nil
}

// Rating keeps the IMDb score as display text; the backend sends either a number or a string.
type Rating string

func (r *Rating) UnmarshalJSON(data []byte) error {
	v, err := displayText(data)
	if err != nil {
		return err
	}
	*r = Rating(v)
	return nil
}

// displayText reads a JSON string or number as text. null reads as "".
func displayText(data []byte) (string, error) {
	if bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	return string(data), nil
}
