package turnstile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tlh_backend/internal/logger"
)

const DefaultEndpoint = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// Result carries the outcome of a bot check. Trust is 1.0 for a passed
// challenge, 0.0 for a failed one, and 0.1 when the verifier itself was
// unreachable (degraded mode: accept but flag).
type Result struct {
	Passed   bool
	Degraded bool
	Trust    float64
}

type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) Result
}

type client struct {
	secret   string
	endpoint string
	http     *http.Client
}

func NewClient(secret, endpoint string) Verifier {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &client{
		secret:   secret,
		endpoint: endpoint,
		http:     &http.Client{Timeout: 5 * time.Second},
	}
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify calls the siteverify endpoint. Network or decode failures degrade
// rather than block: the submission is accepted with a low trust score so
// moderation can follow up.
func (c *client) Verify(ctx context.Context, token, remoteIP string) Result {
	form := url.Values{}
	form.Set("secret", c.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return degraded(ctx, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return degraded(ctx, err)
	}
	defer resp.Body.Close()

	var body siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return degraded(ctx, err)
	}

	if !body.Success {
		logger.CtxInfo(ctx, "turnstile challenge failed", "error_codes", body.ErrorCodes)
		return Result{Passed: false, Trust: 0.0}
	}
	return Result{Passed: true, Trust: 1.0}
}

func degraded(ctx context.Context, err error) Result {
	logger.CtxWarn(ctx, "turnstile verifier unreachable, degrading", "error", err)
	return Result{Passed: true, Degraded: true, Trust: 0.1}
}
