package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const fetchTimeout = 15 * time.Second

// fetchURL retrieves a page body and applies the router's context-window
// reduction hook (if configured) before formatting the reply.
func fetchURL(ctx context.Context, tc *Context, url string) Result {
	client := tc.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}

	reqCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return Result{Text: fmt.Sprintf("FETCH_URL failed: invalid URL (%v). Answer without this result.", err)}
	}

	resp, err := client.Do(req)
	if err != nil {
		return Result{Text: fmt.Sprintf("FETCH_URL failed: %v. Answer without this result.", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return Result{Text: "FETCH_URL failed: 401 Unauthorized. Do not try another URL for this page."}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return Result{Text: fmt.Sprintf("FETCH_URL failed reading body: %v. Answer without this result.", err)}
	}

	text := string(body)
	if tc.ReduceForContext != nil {
		text = tc.ReduceForContext(text)
	}

	return Result{Text: fmt.Sprintf("Here is the page content:\n\n%s\n\nPlease answer the user's question using this content.", text)}
}
