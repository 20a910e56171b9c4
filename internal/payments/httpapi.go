package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/abhinav07-codes/budget-blitz-buddy/internal/budget"
)

// HTTPSource fetches candidate transactions from a remote JSON endpoint.
// The endpoint must answer GET with a JSON array of payment objects.
type HTTPSource struct {
	url    string
	token  string
	client *http.Client
}

func NewHTTPSource(url, token string) *HTTPSource {
	return &HTTPSource{
		url:   url,
		token: token,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]budget.Payment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build payments request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch payments from %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payments endpoint returned status %d", resp.StatusCode)
	}

	var out []budget.Payment
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode payments response: %w", err)
	}

	return out, nil
}
