package references

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/mediguard-triage-server/internal/domain"
)

// remoteCacheSize bounds the per-category response cache.
const remoteCacheSize = 128

// RemoteConfig configures the remote retrieval client.
type RemoteConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RemoteProvider retrieves references from an external retrieval service
// over HTTP. Calls go through a circuit breaker so a failing upstream
// degrades predictions to reference-free output instead of stalling them,
// and successful responses are cached per category.
type RemoteProvider struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	cache      *lru.Cache[string, []domain.Reference]
	logger     *logrus.Logger
}

var _ domain.ReferenceProvider = (*RemoteProvider)(nil)

// NewRemoteProvider creates a remote reference client.
func NewRemoteProvider(config RemoteConfig, logger *logrus.Logger) (*RemoteProvider, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("remote reference provider requires a base URL")
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	cache, err := lru.New[string, []domain.Reference](remoteCacheSize)
	if err != nil {
		return nil, err
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "references",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Reference service circuit breaker state changed")
		},
	})

	return &RemoteProvider{
		baseURL:    config.BaseURL,
		httpClient: &http.Client{Timeout: config.Timeout},
		breaker:    breaker,
		cache:      cache,
		logger:     logger,
	}, nil
}

type referencesResponse struct {
	References []domain.Reference `json:"references"`
}

// RetrieveReferences fetches references for a category from the upstream
// service, consulting the cache first.
func (p *RemoteProvider) RetrieveReferences(ctx context.Context, categoryID string, maxResults int) ([]domain.Reference, error) {
	cacheKey := categoryID + ":" + strconv.Itoa(maxResults)
	if cached, ok := p.cache.Get(cacheKey); ok {
		return cached, nil
	}

	endpoint := fmt.Sprintf("%s/references/%s?max_results=%d",
		p.baseURL, url.PathEscape(categoryID), maxResults)

	refs, err := p.fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	p.cache.Add(cacheKey, refs)
	return refs, nil
}

// Query runs a free-text search against the upstream service. Query results
// are not cached; repeated free-text queries are rare.
func (p *RemoteProvider) Query(ctx context.Context, text string) ([]domain.Reference, error) {
	endpoint := fmt.Sprintf("%s/references/search?q=%s", p.baseURL, url.QueryEscape(text))
	return p.fetch(ctx, endpoint)
}

func (p *RemoteProvider) fetch(ctx context.Context, endpoint string) ([]domain.Reference, error) {
	result, err := p.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := p.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("reference service returned status %d", resp.StatusCode)
		}

		var body referencesResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("failed to decode reference response: %w", err)
		}
		if body.References == nil {
			body.References = []domain.Reference{}
		}
		return body.References, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]domain.Reference), nil
}
