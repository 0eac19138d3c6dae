// internal/pricing/providers.go
package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"aucta-logistics/internal/common/config"
	"aucta-logistics/internal/common/errors"
	chttp "aucta-logistics/internal/common/http"
	"aucta-logistics/internal/models"
)

// PricingProvider is one live source of transport quotes. Providers are
// walked in a fixed order; any error or nil quote means "try the next
// one" and is never propagated raw.
type PricingProvider interface {
	Name() string
	Quote(ctx context.Context, service models.ServiceType, params QuoteParams) (*Quote, error)
}

// HTTPProvider calls a JSON quote endpoint.
type HTTPProvider struct {
	name    string
	baseURL string
	apiKey  string
	client  *chttp.Client
}

// NewHTTPProvider builds a provider from its config spec.
func NewHTTPProvider(spec config.ProviderSpec, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		name:    spec.Name,
		baseURL: spec.BaseURL,
		apiKey:  spec.APIKey,
		client:  chttp.NewClient(timeout),
	}
}

func (p *HTTPProvider) Name() string {
	return p.name
}

type quoteRequest struct {
	Service     string    `json:"service"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	DepartAt    time.Time `json:"departAt"`
	WeightKG    float64   `json:"weightKg,omitempty"`
	Product     string    `json:"product,omitempty"`
}

type quoteResponse struct {
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	DurationHours float64         `json:"durationHours"`
}

func (p *HTTPProvider) Quote(ctx context.Context, service models.ServiceType, params QuoteParams) (*Quote, error) {
	body, err := json.Marshal(quoteRequest{
		Service:     string(service),
		Origin:      params.Origin,
		Destination: params.Destination,
		DepartAt:    params.DepartAt,
		WeightKG:    params.WeightKG,
		Product:     params.Product,
	})
	if err != nil {
		return nil, errors.NewProviderError(p.name, err)
	}

	req, err := http.NewRequest(http.MethodPost, p.baseURL+"/quote", bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewProviderError(p.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.DoWithContext(ctx, req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewProviderTimeoutError(p.name)
		}
		return nil, errors.NewProviderError(p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// The provider has no price for this request; not an error.
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewProviderError(p.name, fmt.Errorf("status %d", resp.StatusCode))
	}

	var qr quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return nil, errors.NewProviderError(p.name, err)
	}

	return &Quote{
		Service:  service,
		Amount:   qr.Amount,
		Currency: qr.Currency,
		Duration: time.Duration(qr.DurationHours * float64(time.Hour)),
		Provider: p.name,
		Source:   models.SourceLive,
		Fresh:    true,
	}, nil
}

// BuildProviderChains builds the ordered provider list per service from
// configuration, skipping disabled entries.
func BuildProviderChains(cfg config.PricingConfig) map[models.ServiceType][]PricingProvider {
	timeout := time.Duration(cfg.ProviderTimeout) * time.Millisecond
	chains := make(map[models.ServiceType][]PricingProvider)
	for service, specs := range cfg.Providers {
		for _, spec := range specs {
			if !spec.Enabled {
				continue
			}
			st := models.ServiceType(service)
			chains[st] = append(chains[st], NewHTTPProvider(spec, timeout))
		}
	}
	return chains
}
