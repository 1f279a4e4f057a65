// Package api implements the remote catalog API client: JSON over HTTPS
// against a fixed base path, with the stored bearer token attached to every
// request that has one.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/shopfront/catalog-console/internal/core/domain"
	"github.com/shopfront/catalog-console/internal/core/ports"
	"github.com/shopfront/catalog-console/internal/pkg/config"
)

// Client implements ports.AuthAPI and ports.ProductAPI over resty.
type Client struct {
	http *resty.Client
	log  zerolog.Logger
}

var _ ports.AuthAPI = (*Client)(nil)
var _ ports.ProductAPI = (*Client)(nil)

// NewClient builds the HTTP client. tokens supplies the bearer token per
// request; an empty token sends no Authorization header. Retries are
// disabled: a failed request requires explicit user-initiated resubmission.
func NewClient(cfg *config.Config, tokens ports.TokenProvider, log zerolog.Logger) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIBaseURL, "/")).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	rc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if tok := tokens.Token(); tok != "" {
			r.SetHeader("Authorization", "Bearer "+tok)
		}
		return nil
	})

	if strings.EqualFold(cfg.LogLevel, "debug") {
		rc.SetDebug(true)
	}

	return &Client{http: rc, log: log}
}

// --- Response envelopes ---

type authEnvelope struct {
	Data struct {
		AccessToken string             `json:"access_token"`
		User        domain.UserProfile `json:"user"`
	} `json:"data"`
}

type refreshEnvelope struct {
	Data struct {
		AccessToken string `json:"access_token"`
	} `json:"data"`
}

type userEnvelope struct {
	Data domain.UserProfile `json:"data"`
}

type productEnvelope struct {
	Data domain.Product `json:"data"`
}

type listEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// --- AuthAPI ---

func (c *Client) Login(ctx context.Context, creds ports.Credentials) (*ports.AuthSession, error) {
	var out authEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": creds.Email, "password": creds.Password}).
		SetResult(&out).
		Post("/auth/login")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return authSession(resp, out)
}

func (c *Client) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthSession, error) {
	var out authEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"email":     input.Email,
			"password":  input.Password,
			"firstName": input.FirstName,
			"lastName":  input.LastName,
		}).
		SetResult(&out).
		Post("/auth/register")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return authSession(resp, out)
}

func (c *Client) Refresh(ctx context.Context) (string, error) {
	var out refreshEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Post("/auth/refresh")
	if err := c.check(resp, err); err != nil {
		return "", err
	}
	if out.Data.AccessToken == "" {
		return "", &domain.RemoteError{Status: resp.StatusCode(), Message: "Invalid response format"}
	}
	return out.Data.AccessToken, nil
}

func (c *Client) Profile(ctx context.Context) (*domain.UserProfile, error) {
	var out userEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/auth/profile")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	user := out.Data
	return &user, nil
}

// --- ProductAPI ---

// List fetches the product collection. The endpoint answers either a flat
// list ({"data": [...]}) or a paginated envelope ({"data": {"data": [...]}});
// both normalise to the same flat ordered sequence.
func (c *Client) List(ctx context.Context) ([]domain.Product, error) {
	var out listEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/products")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return normalizeList(out.Data), nil
}

func (c *Client) Get(ctx context.Context, id int64) (*domain.Product, error) {
	var out productEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/products/%d", id))
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	product := out.Data
	return &product, nil
}

func (c *Client) Create(ctx context.Context, input ports.ProductInput) (*domain.Product, error) {
	var out productEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(input).
		SetResult(&out).
		Post("/products")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	product := out.Data
	return &product, nil
}

func (c *Client) Update(ctx context.Context, id int64, input ports.ProductInput) (*domain.Product, error) {
	var out productEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(input).
		SetResult(&out).
		Put(fmt.Sprintf("/products/%d", id))
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	product := out.Data
	return &product, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/products/%d", id))
	return c.check(resp, err)
}

// --- helpers ---

// check converts transport failures and non-2xx answers into errors. Non-2xx
// answers become a RemoteError with the best-effort message from the payload.
func (c *Client) check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &domain.RemoteError{Status: resp.StatusCode(), Message: extractMessage(resp.Body())}
	}
	return nil
}

// extractMessage pulls a human-readable message out of a failure payload.
// Servers answer with either {"message": "..."} or {"error": "..."}.
func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return ""
}

func authSession(resp *resty.Response, out authEnvelope) (*ports.AuthSession, error) {
	if out.Data.AccessToken == "" {
		return nil, &domain.RemoteError{Status: resp.StatusCode(), Message: "Invalid response format"}
	}
	return &ports.AuthSession{AccessToken: out.Data.AccessToken, User: out.Data.User}, nil
}

// normalizeList accepts a flat array or a nested paginated envelope and
// returns a flat ordered sequence. Anything unrecognisable normalises to an
// empty list, matching the tolerant reading the UI has always done.
func normalizeList(data json.RawMessage) []domain.Product {
	if len(data) == 0 {
		return []domain.Product{}
	}
	var flat []domain.Product
	if err := json.Unmarshal(data, &flat); err == nil {
		if flat == nil {
			flat = []domain.Product{}
		}
		return flat
	}
	var nested struct {
		Data []domain.Product `json:"data"`
	}
	if err := json.Unmarshal(data, &nested); err == nil && nested.Data != nil {
		return nested.Data
	}
	return []domain.Product{}
}
