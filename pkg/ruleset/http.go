package ruleset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// HTTPProvider fetches profile definitions from a rules service:
//
//	GET {base}/profiles/{name}/{version} -> Definition (JSON)
//
// A bearer token is taken from INTELLEX_RULES_TOKEN when present.
type HTTPProvider struct {
	BaseURL string
	Client  *http.Client
	Token   string
}

func NewHTTPProvider(baseURL string) *HTTPProvider {
	return &HTTPProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  http.DefaultClient,
		Token:   os.Getenv("INTELLEX_RULES_TOKEN"),
	}
}

func (p *HTTPProvider) Fetch(ctx context.Context, name, version string) (*Definition, error) {
	endpoint := fmt.Sprintf("%s/profiles/%s/%s",
		p.BaseURL, url.PathEscape(name), url.PathEscape(normalizeVersion(version)))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if p.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.Token)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Errorf("fetching profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Errorf("reading response body: %w", err)
	}

	var def Definition
	if err := json.Unmarshal(body, &def); err != nil {
		return nil, errors.Errorf("decoding profile: %w", err)
	}
	if def.Name == "" {
		def.Name = name
	}
	if def.Version == "" {
		def.Version = normalizeVersion(version)
	}

	return &def, nil
}
