package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const braveSearchTimeout = 15 * time.Second
const braveSearchEndpoint = "https://api.search.brave.com/res/v1/web/search"

// braveSearch calls the Brave Search API and renders a short text summary of
// the top results.
func braveSearch(ctx context.Context, tc *Context, query string) Result {
	if tc.BraveSearchAPIKey == "" {
		return Result{Text: "BRAVE_SEARCH is not configured (no API key). Answer without this result."}
	}

	client := tc.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: braveSearchTimeout}
	}

	reqCtx, cancel := context.WithTimeout(ctx, braveSearchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, braveSearchEndpoint+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return Result{Text: fmt.Sprintf("BRAVE_SEARCH failed: %v. Answer without this result.", err)}
	}
	req.Header.Set("X-Subscription-Token", tc.BraveSearchAPIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return Result{Text: fmt.Sprintf("BRAVE_SEARCH failed: %v. Answer without this result.", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return Result{Text: "BRAVE_SEARCH failed: rate limited. Answer without this result."}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{Text: fmt.Sprintf("BRAVE_SEARCH failed reading body: %v. Answer without this result.", err)}
	}

	summary := summarizeBraveResults(body)
	return Result{Text: fmt.Sprintf("Brave Search results:\n\n%s\n\nUse these to answer the user's question.", summary)}
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

func summarizeBraveResults(body []byte) string {
	var parsed braveResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return string(body)
	}
	var sb strings.Builder
	for i, r := range parsed.Web.Results {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&sb, "%d. %s — %s\n   %s\n", i+1, r.Title, r.URL, r.Description)
	}
	if sb.Len() == 0 {
		return "(no results)"
	}
	return sb.String()
}
