package story

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// CorpusClient fetches the public short-story collection.
type CorpusClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewCorpusClient returns a client for the corpus served at baseURL.
func NewCorpusClient(baseURL string) *CorpusClient {
	return &CorpusClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Stories returns every story in the corpus.
func (c *CorpusClient) Stories(ctx context.Context) ([]Story, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stories", nil)
	if err != nil {
		return nil, errors.Wrap(err, "build corpus request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch stories")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch stories: status %d", resp.StatusCode)
	}
	var stories []Story
	if err := json.NewDecoder(resp.Body).Decode(&stories); err != nil {
		return nil, errors.Wrap(err, "decode stories")
	}
	return stories, nil
}
