package genre

import (
	"movie-discovery-web/internal/models"
)

// PlaceholderLabel is shown instead of tags while nothing is selected.
const PlaceholderLabel = "Select one or more genres"

// Tag is one rendered genre chip.
type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// View is the rendered state of the tag list.
type View struct {
	Tags        []Tag  `json:"tags"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Empty reports whether the placeholder is shown.
func (v View) Empty() bool {
	return len(v.Tags) == 0
}

// Update is what the page needs after a dropdown event.
type Update struct {
	View View `json:"view"`
	// ResetDropdown asks the page to put the dropdown back on its blank option.
	ResetDropdown bool `json:"reset_dropdown"`
	// Ignored is set for the blank placeholder option.
	Ignored bool `json:"ignored"`
}

// Controller keeps the tag list in step with a Selection, using a single-choice dropdown
// as the only input.
type Controller struct {
	sel     *Selection
	options models.Options
}

// NewController wires sel to the dropdown's option list. onRender, when non-nil, receives
// a fresh View after every change to the selection.
func NewController(sel *Selection, options models.Options, onRender func(View)) *Controller {
	c := &Controller{sel: sel, options: options}
	if onRender != nil {
		sel.Subscribe(func([]string) { onRender(c.Render()) })
	}
	return c
}

// Selection exposes the underlying set.
func (c *Controller) Selection() *Selection {
	return c.sel
}

// OnDropdownChange handles a new dropdown value.
func (c *Controller) OnDropdownChange(value string) Update {
	if value == "" {
		return Update{View: c.Render(), Ignored: true}
	}
	c.sel.Add(value)
	return Update{View: c.Render(), ResetDropdown: true}
}

// RemoveGenre drops id from the selection. Unknown ids are a no-op.
func (c *Controller) RemoveGenre(id string) View {
	c.sel.Remove(id)
	return c.Render()
}

// Render builds the tag list in selection order.
func (c *Controller) Render() View {
	items := c.sel.Current()
	if len(items) == 0 {
		return View{Tags: []Tag{}, Placeholder: PlaceholderLabel}
	}

	tags := make([]Tag, 0, len(items))
	for _, id := range items {
		tags = append(tags, Tag{ID: id, Label: c.label(id)})
	}
	return View{Tags: tags}
}

func (c *Controller) label(id string) string {
	if l, ok := c.options.Label(id); ok {
		return l
	}
	return id
}
