package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// SearchIndexSink mirrors public listings into an external search index.
// Public entities are upserted with PUT; everything else is removed.
type SearchIndexSink struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewSearchIndexSink(baseURL, apiKey string) *SearchIndexSink {
	return &SearchIndexSink{BaseURL: baseURL, APIKey: apiKey, Client: http.DefaultClient}
}

func (s *SearchIndexSink) Name() string { return "search-index" }

func (s *SearchIndexSink) Deliver(ctx context.Context, event Event) error {
	endpoint := fmt.Sprintf("%s/indexes/%s/documents/%s", s.BaseURL, Collection(event.EntityType), url.PathEscape(event.ID))

	method := http.MethodDelete
	var body io.Reader
	if event.Kind == PublishingChanged && event.Public {
		method = http.MethodPut
		payload, err := json.Marshal(event.Document)
		if err != nil {
			return fmt.Errorf("encode search document: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer drain(resp)

	// Removing a document the index never had is not a failure
	if method == http.MethodDelete && resp.StatusCode == http.StatusNotFound {
		return nil
	}
	return checkStatus(resp)
}

// RevalidationSink asks the public site to rebuild the pages an event touched
type RevalidationSink struct {
	SiteURL string
	Secret  string
	Client  *http.Client
}

func NewRevalidationSink(siteURL, secret string) *RevalidationSink {
	return &RevalidationSink{SiteURL: siteURL, Secret: secret, Client: http.DefaultClient}
}

func (s *RevalidationSink) Name() string { return "site-revalidation" }

// Paths returns the site paths that render the event's entity.
func Paths(event Event) []string {
	list := "/" + Collection(event.EntityType)
	if event.Slug == "" {
		return []string{list}
	}
	return []string{list, list + "/" + event.Slug}
}

func (s *RevalidationSink) Deliver(ctx context.Context, event Event) error {
	query := url.Values{}
	query.Set("secret", s.Secret)
	endpoint := s.SiteURL + "/api/revalidate?" + query.Encode()

	payload, err := json.Marshal(map[string]interface{}{"paths": Paths(event)})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer drain(resp)
	return checkStatus(resp)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}
