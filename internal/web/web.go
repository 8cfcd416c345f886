package web

import (
	"embed"
	"html/template"

	"tiktok-login/internal/auth"
	"tiktok-login/internal/auth/flow"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var files embed.FS

const (
	IndexTemplate = "index.html"

	tokenPreviewLen = 50
)

var printer = message.NewPrinter(language.English)

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(
		template.New("").Funcs(template.FuncMap{
			"count": FormatCount,
		}).ParseFS(files, "templates/*.html"),
	)
}

// FormatCount renders 12345 as "12,345".
func FormatCount(n int64) string {
	return printer.Sprintf("%d", n)
}

// Page is the view model of the single application page.
type Page struct {
	Phase        flow.Phase
	Error        string
	Profile      *auth.Profile
	TokenPreview string

	// ResetURL asks the browser to drop the callback query from the
	// address bar so a reload does not replay a consumed code.
	ResetURL bool
}

func NewPage(out flow.Outcome) Page {
	p := Page{
		Phase: out.Phase,
		Error: flow.Message(out.Err),
	}

	if out.Phase == flow.PhaseAuthenticated {
		p.Profile = out.Profile
		p.TokenPreview = preview(out.AccessToken)
	}
	if out.Phase == flow.PhaseAuthenticated || out.Phase == flow.PhaseError {
		p.ResetURL = true
	}

	return p
}

func preview(token string) string {
	if len(token) <= tokenPreviewLen {
		return token
	}
	return token[:tokenPreviewLen] + "..."
}
