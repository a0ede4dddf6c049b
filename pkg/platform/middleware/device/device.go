// Package device labels the browser a session was opened from so staff can
// recognise their own sessions.
package device

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"hotelchain/pkg/requestcontext"
)

// Label renders a short "Browser on OS" description of a User-Agent string.
func Label(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return "Unknown device"
	}
	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	os := ua.OSInfo().Name
	switch {
	case ua.Bot():
		return "Bot"
	case browser == "" && os == "":
		return "Unknown device"
	case os == "":
		return browser
	case browser == "":
		return os
	}
	if ua.Mobile() {
		return browser + " on " + os + " (mobile)"
	}
	return browser + " on " + os
}

// Middleware stores the device label in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithDeviceLabel(r.Context(), Label(r.Header.Get("User-Agent")))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
