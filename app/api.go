package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// All backend traffic goes through the /api mount on the serving shell,
// which proxies to the real API (or the local dev stub).
const apiBase = "/api"

type requestOptions struct {
	Method  string
	Headers map[string]string
	Body    io.Reader
}

// buildRequest joins the endpoint onto the base path, stripping a leading
// slash so the two never double up, and merges headers with caller entries
// winning over the default Content-Type.
func buildRequest(endpoint string, opts requestOptions) (*http.Request, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	url := apiBase + "/" + strings.TrimPrefix(endpoint, "/")
	req, err := http.NewRequest(method, url, opts.Body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// apiRequest issues a request and hands back the raw response. Interpreting
// the status is the caller's job.
func apiRequest(endpoint string, opts requestOptions) (*http.Response, error) {
	req, err := buildRequest(endpoint, opts)
	if err != nil {
		return nil, err
	}
	app.Log("api request:", req.Method, req.URL.String())
	return http.DefaultClient.Do(req)
}

// fetchJSON issues an authenticated GET and decodes the body into out.
// forbidden is the page-specific 403 wording; action names the operation
// for the generic failure message.
func fetchJSON(endpoint, token, forbidden, action string, out any) error {
	resp, err := apiRequest(endpoint, requestOptions{
		Headers: map[string]string{"Authorization": authHeader(token)},
	})
	if err != nil {
		return fmt.Errorf("Failed to %s: network error", action)
	}
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		return responseError(resp.StatusCode, forbidden, action)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("Failed to %s: invalid response", action)
	}
	return nil
}
