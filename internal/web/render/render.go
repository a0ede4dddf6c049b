// Package render executes the embedded HTML page templates inside the shared
// layout and carries flash messages across redirects.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
	"hotelchain/pkg/platform/httputil"
	authmw "hotelchain/pkg/platform/middleware/auth"
	request "hotelchain/pkg/platform/middleware/request"
	"hotelchain/pkg/requestcontext"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	layoutFile = "templates/layout.html"
	flashName  = "hotel_flash"
)

// Page is the view model every template receives.
type Page struct {
	Title     string
	Principal *requestcontext.Principal
	CSRFToken string
	Error     string
	Success   string
	Data      any
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

var funcs = template.FuncMap{
	"money": func(m id.Money) string { return m.String() },
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(time.DateOnly)
	},
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	},
	"label": func(s fmt.Stringer) string {
		return strings.ReplaceAll(s.String(), "_", " ")
	},
	"csrfField": func() string { return authmw.CSRFField },
}

// New parses every page under templates/ against the layout.
func New(logger *slog.Logger) (*Renderer, error) {
	entries, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	r := &Renderer{pages: make(map[string]*template.Template), logger: logger}
	for _, entry := range entries {
		if entry == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(entry), ".html")
		tmpl, err := template.New(path.Base(layoutFile)).Funcs(funcs).ParseFS(templateFS, layoutFile, entry)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// HTML renders page name with status. The principal, CSRF token and any
// pending flash message are filled in from the request.
func (rd *Renderer) HTML(w http.ResponseWriter, r *http.Request, status int, name string, page Page) {
	ctx := r.Context()
	tmpl, ok := rd.pages[name]
	if !ok {
		rd.logger.ErrorContext(ctx, "unknown template", "template", name)
		http.Error(w, "page not found", http.StatusInternalServerError)
		return
	}
	if p, ok := requestcontext.CurrentPrincipal(ctx); ok {
		page.Principal = &p
	}
	page.CSRFToken = authmw.CSRFToken(ctx)
	if kind, msg, ok := takeFlash(w, r); ok && page.Error == "" && page.Success == "" {
		if kind == flashError {
			page.Error = msg
		} else {
			page.Success = msg
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page); err != nil {
		rd.logger.ErrorContext(ctx, "template execution failed",
			"template", name,
			"error", err,
			"request_id", request.GetRequestID(ctx),
		)
		http.Error(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Fail re-renders page name with the error banner for err.
func (rd *Renderer) Fail(w http.ResponseWriter, r *http.Request, name string, page Page, err error) {
	rd.logFailure(r, err)
	page.Error = httputil.PublicMessage(err)
	rd.HTML(w, r, httputil.StatusFor(err), name, page)
}

// RedirectError sends the user to target with err as the flash banner. Used
// by form posts so a refresh does not resubmit.
func (rd *Renderer) RedirectError(w http.ResponseWriter, r *http.Request, target string, err error) {
	rd.logFailure(r, err)
	setFlash(w, flashError, httputil.PublicMessage(err))
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// RedirectSuccess sends the user to target with a success banner.
func (rd *Renderer) RedirectSuccess(w http.ResponseWriter, r *http.Request, target, msg string) {
	setFlash(w, flashSuccess, msg)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (rd *Renderer) logFailure(r *http.Request, err error) {
	ctx := r.Context()
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		rd.logger.ErrorContext(ctx, "request failed",
			"path", r.URL.Path,
			"error", err,
			"request_id", request.GetRequestID(ctx),
		)
		return
	}
	rd.logger.InfoContext(ctx, "request rejected",
		"path", r.URL.Path,
		"error", err,
		"request_id", request.GetRequestID(ctx),
	)
}

const (
	flashError   = "error"
	flashSuccess = "success"
)

func setFlash(w http.ResponseWriter, kind, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashName,
		Value:    url.QueryEscape(kind + "|" + msg),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func takeFlash(w http.ResponseWriter, r *http.Request) (kind, msg string, ok bool) {
	cookie, err := r.Cookie(flashName)
	if err != nil || cookie.Value == "" {
		return "", "", false
	}
	http.SetCookie(w, &http.Cookie{Name: flashName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return "", "", false
	}
	kind, msg, ok = strings.Cut(raw, "|")
	return kind, msg, ok
}
