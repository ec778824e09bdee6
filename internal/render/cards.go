// Package render turns controller state into the HTML fragments the page swaps in.
// The transforms (Cards, NewErrorPanel, NewOutcome) are pure; the template execution
// lives in html.go.
package render

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"movie-discovery-web/internal/models"
)

// revealStep is the extra animation delay per card position.
const revealStep = 100 * time.Millisecond

const imdbTitleURL = "https://www.imdb.com/title/%s/"

// Card is one recommendation ready for the template.
type Card struct {
	Number  int
	Title   string
	Year    string
	Rating  string
	Summary string
	// PosterURL is empty when the backend had no poster.
	PosterURL string
	// PlaceholderURI is an SVG data URI showing the title, used when the poster is
	// missing or fails to load.
	PlaceholderURI string
	// Link is the IMDb page, empty when no id was supplied.
	Link          string
	LanguageBadge string
	GenreBadge    string
	Director      string
	Actors        string
	Runtime       string
	Delay         string
}

// HasPoster reports whether a real poster image is shown.
func (c Card) HasPoster() bool { return c.PosterURL != "" }

// Cards builds the card list in backend order.
func Cards(recs []models.Recommendation) []Card {
	cards := make([]Card, 0, len(recs))
	for i, r := range recs {
		card := Card{
			Number:         i + 1,
			Title:          r.Title,
			Year:           presentField(string(r.Year)),
			Rating:         string(r.IMDb),
			Summary:        r.Summary,
			PosterURL:      r.PosterURL(),
			PlaceholderURI: PlaceholderPoster(r.Title),
			LanguageBadge:  languageBadge(r.OriginalLanguage, r.IsDubbed),
			GenreBadge:     genreBadge(r.MainGenre, r.SubGenre),
			Director:       presentField(r.Director),
			Actors:         presentField(r.Actors),
			Runtime:        presentField(r.Runtime),
			Delay:          fmt.Sprintf("%.1fs", (time.Duration(i) * revealStep).Seconds()),
		}
		if id := r.ExternalID(); id != "" {
			card.Link = fmt.Sprintf(imdbTitleURL, url.PathEscape(id))
		}
		if card.Rating == "" {
			card.Rating = models.NotAvailable
		}
		cards = append(cards, card)
	}
	return cards
}

// PlaceholderPoster returns a 300x450 SVG poster with the title centred on it.
func PlaceholderPoster(title string) string {
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="300" height="450">` +
		`<rect width="300" height="450" fill="#222"/>` +
		`<text x="50%" y="50%" dominant-baseline="middle" text-anchor="middle" ` +
		`font-family="Arial" font-size="24" fill="#ffd700">` + xmlEscape(title) + `</text></svg>`
	return "data:image/svg+xml," + url.PathEscape(svg)
}

func languageBadge(lang string, dubbed bool) string {
	lang = strings.ToUpper(presentField(lang))
	switch {
	case lang != "" && dubbed:
		return lang + " · Dubbed"
	case dubbed:
		return "Dubbed"
	default:
		return lang
	}
}

func genreBadge(main, sub string) string {
	main, sub = presentField(main), presentField(sub)
	switch {
	case main != "" && sub != "":
		return main + " / " + sub
	case main != "":
		return main
	default:
		return sub
	}
}

func presentField(s string) string {
	s = strings.TrimSpace(s)
	if s == models.NotAvailable {
		return ""
	}
	return s
}

var xmlReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")

func xmlEscape(s string) string {
	return xmlReplacer.Replace(s)
}
