package core

import (
	"net/http"
	"net/url"
)

type redirectResponse struct {
	url  string
	code int
}

func (r redirectResponse) Render(w http.ResponseWriter, req *http.Request) error {
	http.Redirect(w, req, r.url, r.code)
	return nil
}

// Redirect creates a 303 See Other redirect response.
func Redirect(url string) Response {
	return redirectResponse{url: url, code: http.StatusSeeOther}
}

// RedirectWithCode creates a redirect response with a specific status
// code. Valid codes are 301, 302, 303, 307, and 308.
func RedirectWithCode(url string, code int) Response {
	return redirectResponse{url: url, code: code}
}

type redirectBackResponse struct {
	fallback string
	code     int
}

func (r redirectBackResponse) Render(w http.ResponseWriter, req *http.Request) error {
	target := r.fallback
	if referer := req.Header.Get("Referer"); referer != "" && sameHost(referer, req) {
		target = referer
	}
	http.Redirect(w, req, target, r.code)
	return nil
}

// RedirectBack redirects to the referrer when it belongs to the same
// host, otherwise to the fallback URL.
func RedirectBack(fallback string) Response {
	return redirectBackResponse{fallback: fallback, code: http.StatusSeeOther}
}

func sameHost(urlStr string, r *http.Request) bool {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return false
	}
	// Empty host means a relative URL, which is always same-host.
	return parsed.Host == "" || parsed.Host == r.Host
}
