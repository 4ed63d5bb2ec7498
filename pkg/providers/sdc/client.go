package sdc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bacalhau-project/convergence/pkg/logger"
	"github.com/bacalhau-project/convergence/pkg/providers/common"
)

const apiVersion = "~6.5"

// Machine is the subset of the CloudAPI machine object the adapter needs.
type Machine struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Type    string       `json:"type"`
	State   MachineState `json:"state"`
	Dataset string       `json:"dataset"`
	Package string       `json:"package"`
	Memory  int          `json:"memory"`
	Disk    int          `json:"disk"`
	IPs     []string     `json:"ips"`
	Created time.Time    `json:"created"`
	Updated time.Time    `json:"updated"`
}

type Account struct {
	ID    string `json:"id"`
	Login string `json:"login"`
	Email string `json:"email"`
}

// APIError is a non-2xx CloudAPI response.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("cloudapi: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("cloudapi: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Clienter is the machine API used by the driver.
type Clienter interface {
	GetMachine(ctx context.Context, machineID string) (*Machine, error)
	MachineAction(ctx context.Context, machineID, action string) error
	DeleteMachine(ctx context.Context, machineID string) error
	GetAccount(ctx context.Context) (*Account, error)
}

// Client talks to the CloudAPI of a single datacenter.
type Client struct {
	endpoint   *url.URL
	login      string
	signer     *requestSigner
	httpClient *http.Client
}

var _ Clienter = (*Client)(nil)

func NewClient(endpoint, login, privateKeyPath string) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid CloudAPI endpoint %q: %w", endpoint, err)
	}
	if login == "" {
		return nil, fmt.Errorf("CloudAPI login is required")
	}
	signer, err := newRequestSigner(login, privateKeyPath)
	if err != nil {
		return nil, err
	}
	return &Client{
		endpoint:   u,
		login:      login,
		signer:     signer,
		httpClient: &http.Client{Timeout: common.DefaultRequestTimeout},
	}, nil
}

func (c *Client) accountURL() string {
	u := *c.endpoint
	u.Path = fmt.Sprintf("%s/%s", u.Path, url.PathEscape(c.login))
	return u.String()
}

func (c *Client) machineURL(machineID string, query url.Values) string {
	u := *c.endpoint
	u.Path = fmt.Sprintf("%s/%s/machines/%s", u.Path, url.PathEscape(c.login), url.PathEscape(machineID))
	u.RawQuery = query.Encode()
	return u.String()
}

func (c *Client) do(ctx context.Context, method, target string, out interface{}) error {
	l := logger.Get()

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Version", apiVersion)
	if err := c.signer.sign(req); err != nil {
		return err
	}

	l.Debugf("CloudAPI %s %s", method, target)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cloudapi request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read CloudAPI response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if len(body) > 0 {
			_ = json.Unmarshal(body, apiErr)
		}
		return apiErr
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode CloudAPI response: %w", err)
	}
	return nil
}

func (c *Client) GetMachine(ctx context.Context, machineID string) (*Machine, error) {
	var m Machine
	if err := c.do(ctx, http.MethodGet, c.machineURL(machineID, nil), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// MachineAction submits stop, start or reboot. CloudAPI answers 202 and
// performs the action asynchronously.
func (c *Client) MachineAction(ctx context.Context, machineID, action string) error {
	return c.do(ctx, http.MethodPost, c.machineURL(machineID, url.Values{"action": {action}}), nil)
}

func (c *Client) DeleteMachine(ctx context.Context, machineID string) error {
	return c.do(ctx, http.MethodDelete, c.machineURL(machineID, nil), nil)
}

func (c *Client) GetAccount(ctx context.Context) (*Account, error) {
	var a Account
	if err := c.do(ctx, http.MethodGet, c.accountURL(), &a); err != nil {
		return nil, err
	}
	return &a, nil
}
