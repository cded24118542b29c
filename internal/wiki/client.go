package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://en.wikipedia.org"
	callTimeout    = 10 * time.Second
	userAgent      = "podmatch/1.0 (guest research)"
)

// ErrNoBio is returned when neither the summary API nor the profile page
// yields usable biography text.
var ErrNoBio = errors.New("wiki: no biography found")

// Bio is the scraped guest biography.
type Bio struct {
	Name        string
	Description string
	Extract     string
	Source      string // "wikipedia" or "profile"
}

// Client fetches guest biography text: first the Wikipedia REST summary,
// then the og: meta tags of the guest's own profile URL as a fallback.
// Outbound calls are throttled to one per second to stay polite.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: callTimeout},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Summary fetches the Wikipedia page summary for a person. Disambiguation
// pages and missing pages both come back as ErrNoBio.
func (c *Client) Summary(ctx context.Context, name string) (*Bio, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	title := strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	u := c.baseURL + "/api/rest_v1/page/summary/" + url.PathEscape(title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build summary request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia summary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoBio
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia summary: status %d", resp.StatusCode)
	}

	var out struct {
		Type        string `json:"type"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Extract     string `json:"extract"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	if out.Type == "disambiguation" || out.Extract == "" {
		return nil, ErrNoBio
	}

	return &Bio{
		Name:        out.Title,
		Description: out.Description,
		Extract:     out.Extract,
		Source:      "wikipedia",
	}, nil
}

// ScrapeProfile pulls og:title and og:description from an arbitrary
// profile page (Twitter, LinkedIn, a personal site). Thin on purpose:
// one GET, meta tags only, no link following.
func (c *Client) ScrapeProfile(ctx context.Context, profileURL string) (*Bio, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile fetch: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse profile html: %w", err)
	}

	bio := &Bio{Source: "profile"}
	if v, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		bio.Name = strings.TrimSpace(v)
	}
	if v, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		bio.Extract = strings.TrimSpace(v)
	}
	if bio.Extract == "" {
		if v, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
			bio.Extract = strings.TrimSpace(v)
		}
	}
	if bio.Name == "" {
		bio.Name = strings.TrimSpace(doc.Find("title").First().Text())
	}

	if bio.Name == "" && bio.Extract == "" {
		return nil, ErrNoBio
	}
	return bio, nil
}

// Lookup tries the Wikipedia summary first and falls back to scraping
// the profile URL when one is given. Returns ErrNoBio when both miss.
func (c *Client) Lookup(ctx context.Context, name, profileURL string) (*Bio, error) {
	bio, err := c.Summary(ctx, name)
	if err == nil {
		return bio, nil
	}
	if profileURL == "" {
		return nil, err
	}
	return c.ScrapeProfile(ctx, profileURL)
}
