package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/rs/zerolog/log"
)

// newAPIProxy forwards /api traffic to the upstream backend. The /api
// prefix is already stripped by the mount, so the proxy only rewrites the
// host and logs enough to debug auth problems: method, target, and whether
// an Authorization header made it through.
func newAPIProxy(baseURL string) (http.Handler, error) {
	target, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			log.Debug().
				Str("method", pr.Out.Method).
				Str("target", pr.Out.URL.String()).
				Bool("authorization", pr.Out.Header.Get("Authorization") != "").
				Msg("proxying api request")
		},
		ModifyResponse: func(resp *http.Response) error {
			log.Debug().
				Int("status", resp.StatusCode).
				Str("path", resp.Request.URL.Path).
				Msg("api response")
			return nil
		},
	}
	return proxy, nil
}
