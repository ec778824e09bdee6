package models

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// AnyValue is the "no filter" value shared by every dropdown, including the genre sentinel.
const AnyValue = "any"

// FormInput is the raw form as submitted by the browser.
type FormInput struct {
	ContentType string `json:"contentType" form:"contentType"`
	Language    string `json:"language" form:"language"`
	Location    string `json:"location" form:"location"`
	Format      string `json:"format" form:"format"`
	FromYear    string `json:"fromYear" form:"fromYear"`
}

// FilterCriteria is the immutable payload of a single submission.
type FilterCriteria struct {
	ContentType   string
	Genre         string
	Language      string
	Location      string
	LocationField string
	Format        string
	FromYear      string
}

// NewFilterCriteria snapshots the form together with the selected genres.
// Blank dropdowns fall back to "any"; a blank year falls back to defaultFromYear.
func NewFilterCriteria(in FormInput, genres []string, locationField string, defaultFromYear int) FilterCriteria {
	fromYear := strings.TrimSpace(in.FromYear)
	if fromYear == "" {
		fromYear = strconv.Itoa(defaultFromYear)
	}
	return FilterCriteria{
		ContentType:   orAny(in.ContentType),
		Genre:         GenreString(genres),
		Language:      orAny(in.Language),
		Location:      orAny(in.Location),
		LocationField: locationField,
		Format:        strings.TrimSpace(in.Format),
		FromYear:      fromYear,
	}
}

// GenreString is "any" for an empty selection, else the ids joined by ", ".
func GenreString(genres []string) string {
	if len(genres) == 0 {
		return AnyValue
	}
	return strings.Join(genres, ", ")
}

// YearValue parses FromYear. ok is false when the field is not an integer.
func (f FilterCriteria) YearValue() (year int, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(f.FromYear))
	if err != nil {
		return 0, false
	}
	return n, true
}

// MarshalJSON writes the backend wire shape; the location key depends on LocationField.
func (f FilterCriteria) MarshalJSON() ([]byte, error) {
	body := map[string]string{
		"contentType": f.ContentType,
		"genre":       f.Genre,
		"language":    f.Language,
		"fromYear":    f.FromYear,
	}
	field := f.LocationField
	if field == "" {
		field = "ottPlatform"
	}
	body[field] = f.Location
	if f.Format != "" {
		body["format"] = f.Format
	}
	return json.Marshal(body)
}

func orAny(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return AnyValue
	}
	return s
}
