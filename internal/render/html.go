package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"

	"movie-discovery-web/internal/genre"
	"movie-discovery-web/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData feeds the full form page.
type PageData struct {
	ContentTypes    models.Options
	Genres          models.Options
	Languages       models.Options
	Locations       models.Options
	LocationLabel   string
	Formats         models.Options
	Tags            genre.View
	DefaultFromYear int
	CurrentYear     int
}

// tagsData feeds the tags fragment, optionally with an out-of-band dropdown reset.
type tagsData struct {
	View          genre.View
	Genres        models.Options
	ResetDropdown bool
}

// HTML executes the page templates.
type HTML struct {
	tpl *template.Template
}

// NewHTML parses the embedded templates.
func NewHTML() (*HTML, error) {
	tpl, err := template.New("").Funcs(template.FuncMap{
		"pathEscape": url.PathEscape,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &HTML{tpl: tpl}, nil
}

// Page renders the whole form page.
func (h *HTML) Page(data PageData) ([]byte, error) {
	return h.execute("page", data)
}

// Tags renders the genre tag list. With resetDropdown the genre dropdown is re-sent
// out of band so it shows its blank option again.
func (h *HTML) Tags(view genre.View, resetDropdown bool) ([]byte, error) {
	return h.execute("tags-update", tagsData{View: view, Genres: models.GenreOptions, ResetDropdown: resetDropdown})
}

// Outcome renders the results or error panel.
func (h *HTML) Outcome(view OutcomeView) ([]byte, error) {
	return h.execute("outcome", view)
}

// Results renders only the card list.
func (h *HTML) Results(cards []Card) ([]byte, error) {
	return h.execute("results", cards)
}

func (h *HTML) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := h.tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
