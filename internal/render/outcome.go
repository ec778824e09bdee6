package render

import (
	"strings"

	"movie-discovery-web/internal/models"
	"movie-discovery-web/internal/recommend"
)

const (
	RateLimitTitle = "😔 API Limit Reached"
	GenericTitle   = "⚠️ Oops!"
)

// ErrorPanel is the error section of the page.
type ErrorPanel struct {
	Title       string
	Message     string
	RateLimited bool
}

// NewErrorPanel picks the heading. A structured errorType decides when present; the
// message text is only inspected for backends that do not send one.
func NewErrorPanel(message, errorType string) ErrorPanel {
	var limited bool
	if errorType != "" {
		limited = errorType == models.ErrorTypeAPILimit
	} else {
		limited = strings.Contains(message, "API limit") || strings.Contains(message, "😔")
	}

	title := GenericTitle
	if limited {
		title = RateLimitTitle
	}
	return ErrorPanel{Title: title, Message: message, RateLimited: limited}
}

// OutcomeView is what replaces the outcome container after a submission. Exactly one of
// Results or Error is set.
type OutcomeView struct {
	Results []Card
	Error   *ErrorPanel
}

// ShowsResults reports whether the results panel is the visible one.
func (v OutcomeView) ShowsResults() bool { return v.Error == nil }

// NewOutcome converts a controller outcome into the panel to display.
func NewOutcome(o recommend.Outcome) OutcomeView {
	if o.State == recommend.ResultsShown {
		return OutcomeView{Results: Cards(o.Recommendations)}
	}

	errorType := o.ErrorType
	if o.ErrorKind == recommend.ErrorKindRateLimit {
		errorType = models.ErrorTypeAPILimit
	}
	message := o.ErrorMessage
	if message == "" {
		message = recommend.GenericErrorMessage
	}
	panel := NewErrorPanel(message, errorType)
	return OutcomeView{Error: &panel}
}
