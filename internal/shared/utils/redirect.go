package utils

import (
	"net/url"
	"strings"
)

// SafeRedirectPath returns s if it is a local, absolute-path redirect
// target, and "" otherwise. Anything carrying a scheme or host is
// rejected, as are protocol-relative ("//host") and backslash variants
// that browsers normalize into cross-origin navigations.
func SafeRedirectPath(s string) string {
	if s == "" || !strings.HasPrefix(s, "/") {
		return ""
	}
	if strings.HasPrefix(s, "//") || strings.HasPrefix(s, "/\\") {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return s
}
