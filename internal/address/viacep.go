package address

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"checkout-wizard/internal/model"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// DefaultViaCEPBaseURL is the public ViaCEP endpoint.
const DefaultViaCEPBaseURL = "https://viacep.com.br"

// ErrUnavailable is returned while the circuit to ViaCEP is open.
var ErrUnavailable = errors.New("address service unavailable")

// ViaCEPConfig configures the ViaCEP client.
type ViaCEPConfig struct {
	BaseURL string
	Timeout time.Duration
	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold uint32
	// OpenTimeout is how long the circuit stays open before a trial request.
	OpenTimeout time.Duration
}

type viaCEPResponse struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Localidade  string `json:"localidade"`
	UF          string `json:"uf"`
	Erro        any    `json:"erro"`
}

// notFound reports the "erro" flag ViaCEP sets for unknown codes. It has been
// served both as a boolean and as the string "true".
func (r viaCEPResponse) notFound() bool {
	switch v := r.Erro.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "" && v != "false"
	default:
		return true
	}
}

type viaCEPClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*model.AddressLookup]
	logger     zerolog.Logger
}

// NewViaCEPClient creates a Lookup backed by the ViaCEP web service. Calls go
// through a circuit breaker; invalid or unknown postal codes do not count as
// failures.
func NewViaCEPClient(cfg ViaCEPConfig, logger zerolog.Logger) Lookup {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultViaCEPBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	logger = logger.With().Str("component", "viacep-client").Logger()

	breaker := gobreaker.NewCircuitBreaker[*model.AddressLookup](gobreaker.Settings{
		Name:        "viacep",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidZip) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})

	return &viaCEPClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		logger:     logger,
	}
}

// Lookup resolves zipCode through ViaCEP.
func (c *viaCEPClient) Lookup(ctx context.Context, zipCode string) (*model.AddressLookup, error) {
	zip, err := NormalizeZip(zipCode)
	if err != nil {
		return nil, err
	}

	addr, err := c.breaker.Execute(func() (*model.AddressLookup, error) {
		return c.fetch(ctx, zip)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.logger.Warn().Str("zip_code", zip).Msg("address lookup rejected by open circuit")
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err != nil {
		return nil, err
	}
	return addr, nil
}

func (c *viaCEPClient) fetch(ctx context.Context, zip string) (*model.AddressLookup, error) {
	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, zip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build address request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("zip_code", zip).Msg("address request failed")
		return nil, fmt.Errorf("failed to call address service: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return nil, ErrInvalidZip
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		c.logger.Error().Int("status", resp.StatusCode).Str("zip_code", zip).Msg("unexpected address service status")
		return nil, fmt.Errorf("address service returned status %d", resp.StatusCode)
	}

	var body viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode address response: %w", err)
	}
	if body.notFound() {
		c.logger.Debug().Str("zip_code", zip).Msg("postal code not found")
		return nil, ErrNotFound
	}

	return &model.AddressLookup{
		Street:       body.Logradouro,
		Neighborhood: body.Bairro,
		City:         body.Localidade,
		State:        body.UF,
	}, nil
}
