package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fieldlens/fieldlens/internal/schema"
)

// HTTPCatalog fetches tool schemas from a remote catalog service:
// GET {base}/tools/{slug} returning a ToolSchema JSON document.
type HTTPCatalog struct {
	base       string
	httpClient *http.Client
}

// NewHTTPCatalog creates an HTTPCatalog for the given base URL.
func NewHTTPCatalog(base string) *HTTPCatalog {
	return &HTTPCatalog{
		base:       strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// GetToolSchema implements Provider.
func (h *HTTPCatalog) GetToolSchema(ctx context.Context, slug string) (*schema.ToolSchema, error) {
	u := h.base + "/tools/" + url.PathEscape(strings.ToUpper(slug))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return nil, fmt.Errorf("catalog HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var ts schema.ToolSchema
	if err := json.NewDecoder(resp.Body).Decode(&ts); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	if ts.Slug == "" {
		ts.Slug = strings.ToUpper(slug)
	}
	return &ts, nil
}
