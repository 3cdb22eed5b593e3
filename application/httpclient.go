package application

import "context"

// HTTPClient is the narrow transport seam the Acquirer issues its four
// request kinds through (spec.md §6 "HTTP endpoints"). Grounded on
// NLipatov-TunGo's application.ConnectionFactory/Connector pattern of
// hiding a concrete net/http.Client behind a one-method interface.
type HTTPClient interface {
	// Get issues a GET to url and returns the response body. headers may
	// be nil.
	Get(ctx context.Context, url string, headers map[string]string) (body []byte, err error)

	// PostForm issues a POST with an application/x-www-form-urlencoded
	// body and returns the response body plus any Set-Cookie header
	// values verbatim (no URL-decoding), per spec.md §6's AUTH contract.
	PostForm(ctx context.Context, url string, form map[string]string) (body []byte, setCookie []string, err error)
}
