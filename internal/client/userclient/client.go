package userclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/meethub/eventsvc/internal/domain/user"
	"github.com/meethub/eventsvc/internal/observability"
)

const headerUserID = "X-User-Id"

// Client looks up users in the remote user service. One blocking call
// per lookup, no caching and no retries: a failed lookup is fatal to
// the operation that needed it.
type Client struct {
	baseURL string
	hc      *http.Client
	prom    *observability.Prom
}

func New(baseURL string, timeout time.Duration, prom *observability.Prom) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   2 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		prom: prom,
	}
}

// GetUserByID fetches a user, identifying the caller via X-User-Id.
// A 404 maps to user.ErrNotFound; any other non-2xx response is opaque
// and maps to user.ErrUnknown.
func (c *Client) GetUserByID(ctx context.Context, callerID, id int64) (user.User, error) {
	url := fmt.Sprintf("%s/users/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return user.User{}, fmt.Errorf("create user request: %w", err)
	}

	req.Header.Set(headerUserID, strconv.FormatInt(callerID, 10))

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.observe("error", start)
		return user.User{}, fmt.Errorf("%w: %v", user.ErrUnknown, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.observe("not_found", start)
		return user.User{}, user.ErrNotFound

	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.observe("error", start)
		return user.User{}, fmt.Errorf("%w: status %d", user.ErrUnknown, resp.StatusCode)
	}

	var u user.User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		c.observe("error", start)
		return user.User{}, fmt.Errorf("%w: decode response: %v", user.ErrUnknown, err)
	}

	c.observe("ok", start)
	return u, nil
}

func (c *Client) observe(outcome string, start time.Time) {
	if c.prom == nil {
		return
	}
	c.prom.ObserveUpstream("user-service", outcome, time.Since(start))
}
