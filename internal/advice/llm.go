// internal/advice/llm.go
package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const systemPrompt = `You are a senior Linux system administrator reviewing the findings of a host audit. Each finding has a category (health, security, logs), a severity, a metric name, and an observed value.

Suggest concrete, prioritized remediation steps. Do not include shell commands.

Respond with JSON only:
{"recommendations": ["first suggestion", "second suggestion"]}

If the findings need no action beyond routine monitoring, return {"recommendations": []}`

// ErrAdvisorUnavailable indicates the external advisor could not be reached.
// Callers recover by keeping the static recommendation list.
var ErrAdvisorUnavailable = errors.New("recommendation service unavailable")

// Advisor produces advisory text from a finding summary. Implementations
// must be additive only: audits never depend on an advisor succeeding.
type Advisor interface {
	Advise(ctx context.Context, findings []FindingSummary) ([]string, error)
}

// Endpoint is one OpenAI-compatible inference provider in the fallback chain.
type Endpoint struct {
	URL    string
	Model  string
	APIKey string
}

// LLMAdvisor calls chat-completions APIs with fallback support.
type LLMAdvisor struct {
	endpoints []Endpoint
	client    *http.Client
}

// NewLLMAdvisor creates an advisor that tries each endpoint in order.
func NewLLMAdvisor(endpoints []Endpoint) *LLMAdvisor {
	return &LLMAdvisor{
		endpoints: endpoints,
		client: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

// Advise sends the finding summary to the LLM and returns its suggestions.
// Tries each endpoint in order; returns ErrAdvisorUnavailable only if ALL
// fail with availability errors.
func (a *LLMAdvisor) Advise(ctx context.Context, findings []FindingSummary) ([]string, error) {
	if len(a.endpoints) == 0 {
		return nil, fmt.Errorf("%w: no endpoints configured", ErrAdvisorUnavailable)
	}

	payload, err := json.Marshal(findings)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, ep := range a.endpoints {
		recs, err := a.tryEndpoint(ctx, ep, string(payload))
		if err == nil {
			return recs, nil
		}
		lastErr = err
		if isUnavailableErr(err) {
			continue
		}
		// Non-availability error (e.g. parse error) - don't try fallback
		return nil, err
	}

	return nil, fmt.Errorf("%w: %v", ErrAdvisorUnavailable, lastErr)
}

func (a *LLMAdvisor) tryEndpoint(ctx context.Context, ep Endpoint, payload string) ([]string, error) {
	reqBody := map[string]any{
		"model": ep.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": payload},
		},
		"max_tokens": 1024,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := strings.TrimSuffix(ep.URL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ep.APIKey)

	resp, err := a.client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("connection failed: %w", err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	// Service unavailable / bad gateway / gateway timeout - try next endpoint
	if resp.StatusCode == http.StatusBadGateway ||
		resp.StatusCode == http.StatusServiceUnavailable ||
		resp.StatusCode == http.StatusGatewayTimeout {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var apiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, err
	}

	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}

	var result struct {
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(apiResp.Choices[0].Message.Content), &result); err != nil {
		return nil, fmt.Errorf("failed to parse advisor response: %w", err)
	}

	return result.Recommendations, nil
}

// isUnavailableErr checks if an error indicates a transient availability issue
func isUnavailableErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "connection") ||
		strings.Contains(s, "HTTP 502") ||
		strings.Contains(s, "HTTP 503") ||
		strings.Contains(s, "HTTP 504")
}

// IsUnavailable reports whether the error means the advisor was unreachable.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrAdvisorUnavailable)
}

// Disabled is the always-fails advisor used when no external service is
// configured. It keeps the degradation path identical whether the service
// is down or simply absent.
type Disabled struct{}

func (Disabled) Advise(context.Context, []FindingSummary) ([]string, error) {
	return nil, ErrAdvisorUnavailable
}
