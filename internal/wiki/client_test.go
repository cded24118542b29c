package wiki

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

func newTestClient(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

func TestSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rest_v1/page/summary/Jane_Doe" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"type": "standard",
			"title": "Jane Doe",
			"description": "Roboticist",
			"extract": "Jane Doe is a roboticist known for humanoid platforms."
		}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	bio, err := c.Summary(context.Background(), "Jane Doe")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if bio.Name != "Jane Doe" || bio.Description != "Roboticist" {
		t.Errorf("unexpected bio: %+v", bio)
	}
	if bio.Source != "wikipedia" {
		t.Errorf("source = %q, want wikipedia", bio.Source)
	}
}

func TestSummary_MissingPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.Summary(context.Background(), "Nobody Nowhere")
	if !errors.Is(err, ErrNoBio) {
		t.Errorf("err = %v, want ErrNoBio", err)
	}
}

func TestSummary_DisambiguationTreatedAsMiss(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"type": "disambiguation", "title": "Smith", "extract": "Smith may refer to:"}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.Summary(context.Background(), "Smith")
	if !errors.Is(err, ErrNoBio) {
		t.Errorf("err = %v, want ErrNoBio", err)
	}
}

func TestScrapeProfile_OGMeta(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html><html><head>
			<title>fallback title</title>
			<meta property="og:title" content="Jane Doe (@janedoe)">
			<meta property="og:description" content="Building robots. Opinions mine.">
		</head><body></body></html>`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	bio, err := c.ScrapeProfile(context.Background(), server.URL+"/janedoe")
	if err != nil {
		t.Fatalf("ScrapeProfile returned error: %v", err)
	}
	if bio.Name != "Jane Doe (@janedoe)" {
		t.Errorf("name = %q", bio.Name)
	}
	if bio.Extract != "Building robots. Opinions mine." {
		t.Errorf("extract = %q", bio.Extract)
	}
	if bio.Source != "profile" {
		t.Errorf("source = %q, want profile", bio.Source)
	}
}

func TestScrapeProfile_NoUsableMeta(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head></head><body>nothing here</body></html>`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.ScrapeProfile(context.Background(), server.URL)
	if !errors.Is(err, ErrNoBio) {
		t.Errorf("err = %v, want ErrNoBio", err)
	}
}

func TestLookup_FallsBackToProfile(t *testing.T) {
	var summaryHits, profileHits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/profile" {
			profileHits++
			_, _ = w.Write([]byte(`<html><head><meta property="og:description" content="From the profile page."></head></html>`))
			return
		}
		summaryHits++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	bio, err := c.Lookup(context.Background(), "Unknown Person", server.URL+"/profile")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if summaryHits != 1 || profileHits != 1 {
		t.Errorf("hits = %d summary / %d profile, want 1/1", summaryHits, profileHits)
	}
	if bio.Extract != "From the profile page." {
		t.Errorf("extract = %q", bio.Extract)
	}
}
