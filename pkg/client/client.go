package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"gazi-tiles/internal/model"
	"gazi-tiles/internal/stock"
)

// Client talks to a running gazi-tiles API.
type Client struct {
	httpClient *resty.Client
}

// New builds a resty-backed client. token may be empty for read-only use.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	if token != "" {
		restyClient.SetAuthToken(token)
	}
	return &Client{httpClient: restyClient}
}

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

func (e *APIError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Kind, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type storeListResponse struct {
	Success bool             `json:"success"`
	Data    []model.StoreRow `json:"data"`
}

type storeItemResponse struct {
	Success bool           `json:"success"`
	Data    model.StoreRow `json:"data"`
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, result any) error {
	apiErr := new(APIError)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(result).
		SetError(apiErr).
		Get(path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		apiErr.Status = resp.StatusCode()
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode())
		}
		return apiErr
	}
	return nil
}

// Store lists store rows, optionally filtered by a product code substring.
func (c *Client) Store(ctx context.Context, code string) ([]model.StoreRow, error) {
	query := map[string]string{}
	if code != "" {
		query["code"] = code
	}
	out := new(storeListResponse)
	if err := c.get(ctx, "/api/store/all", query, out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// StoreItem fetches the store row of one product.
func (c *Client) StoreItem(ctx context.Context, code string) (*model.StoreRow, error) {
	out := new(storeItemResponse)
	if err := c.get(ctx, "/api/store/"+url.PathEscape(code), nil, out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// CheckSale validates a sale of caton cartons and pcs pieces against the live
// stock of code without recording anything. It returns the feet the sale
// would take.
func (c *Client) CheckSale(ctx context.Context, code string, caton, pcs float64) (decimal.Decimal, error) {
	row, err := c.StoreItem(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}
	draft := stock.NewDraft()
	line, err := draft.Add(row.Item(), caton, pcs)
	if err != nil {
		return decimal.Zero, err
	}
	return line.SellFeet, nil
}
