// Package registry provides a client for the Pappers company registry API,
// used to enrich the company context with sector and size information.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/marion/csrd-analyzer/internal/types"
)

// DefaultBaseURL is the Pappers API endpoint.
const DefaultBaseURL = "https://api.pappers.fr/v2"

// DefaultTimeout bounds one registry lookup.
const DefaultTimeout = 30 * time.Second

// Error represents a registry lookup failure.
type Error struct {
	SIREN   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("registry lookup for %s: %s: %v", e.SIREN, e.Message, e.Cause)
	}
	return fmt.Sprintf("registry lookup for %s: %s", e.SIREN, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Company is the subset of the registry record the analyzer uses.
type Company struct {
	SIREN     string `json:"siren"`
	Name      string `json:"nom_entreprise"`
	Sector    string `json:"libelle_code_naf"`
	Headcount string `json:"tranche_effectif"`
}

// Client calls the Pappers company registry.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewClient creates a registry client. The API key is required for real
// lookups; baseURL overrides are used in tests.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
	}
}

// WithBaseURL returns a copy of the client pointed at a different endpoint.
func (c *Client) WithBaseURL(baseURL string) *Client {
	clone := *c
	clone.baseURL = baseURL
	return &clone
}

// CompanyBySIREN looks up a company record by SIREN. Any non-200 response
// is an error; callers treat lookup failure as a degraded, non-fatal
// condition.
func (c *Client) CompanyBySIREN(ctx context.Context, siren string) (*Company, error) {
	if siren == "" {
		return nil, &Error{SIREN: siren, Message: "SIREN is empty"}
	}

	endpoint := fmt.Sprintf("%s/entreprise?%s", c.baseURL, url.Values{
		"api_token": {c.apiKey},
		"siren":     {siren},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{SIREN: siren, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{SIREN: siren, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{SIREN: siren, Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{SIREN: siren, Message: "failed to read response", Cause: err}
	}

	var company Company
	if err := json.Unmarshal(body, &company); err != nil {
		return nil, &Error{SIREN: siren, Message: "failed to parse response", Cause: err}
	}

	return &company, nil
}

// Enrich fills the unspecified fields of a company context from the
// registry record. Lookup failure leaves the context unchanged and returns
// the error for logging.
func (c *Client) Enrich(ctx context.Context, company *types.CompanyContext) error {
	record, err := c.CompanyBySIREN(ctx, company.SIREN)
	if err != nil {
		return err
	}

	if company.Name == "" {
		company.Name = record.Name
	}
	if company.Sector == "" || company.Sector == types.UnspecifiedValue {
		if record.Sector != "" {
			company.Sector = record.Sector
		}
	}
	if company.Size == "" || company.Size == types.UnspecifiedValue {
		if record.Headcount != "" {
			company.Size = record.Headcount
		}
	}

	return nil
}
