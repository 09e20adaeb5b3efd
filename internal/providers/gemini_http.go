package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Identify walks the fallback list, retrying transient overload on the
// same model with exponential backoff and advancing to the next model on
// hard failure. The loop is explicit and per-request: no retry state
// survives the call.
func (c *GeminiClient) Identify(ctx context.Context, req *IdentifyRequest) (*IdentifyResult, error) {
	start := time.Now()
	attempts := 0
	var lastErr error

	for _, model := range c.models {
		retries := 0

	modelLoop:
		for {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrAllModelsExhausted, err)
			}

			attempts++
			status, body, err := c.attempt(ctx, model, req)
			if err != nil {
				// Network-level failure: treat like a generic upstream
				// error and move on to the next model.
				lastErr = err
				c.logger.Warn("model attempt failed", "model", model, "error", err)
				c.sleep(ctx, c.failoverDelay)
				break modelLoop
			}

			switch {
			case status >= 200 && status < 300:
				text, perr := candidateText(body)
				if perr != nil {
					lastErr = fmt.Errorf("model %s: %w", model, perr)
					c.logger.Warn("empty or unreadable response", "model", model, "error", perr)
					c.sleep(ctx, c.failoverDelay)
					break modelLoop
				}
				c.logger.Info("identification succeeded",
					"model", model, "attempts", attempts, "elapsed", time.Since(start))
				return &IdentifyResult{
					Text:      text,
					ModelUsed: model,
					Attempts:  attempts,
					Elapsed:   time.Since(start),
				}, nil

			case status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable:
				lastErr = fmt.Errorf("model %s overloaded (status %d)", model, status)
				if retries >= c.maxRetries {
					c.logger.Warn("retries exhausted, advancing to next model",
						"model", model, "retries", retries)
					break modelLoop
				}
				delay := c.retryBaseDelay << retries
				c.logger.Info("upstream overloaded, backing off",
					"model", model, "status", status, "retry", retries+1, "delay", delay)
				retries++
				if !c.sleep(ctx, delay) {
					return nil, fmt.Errorf("%w: %v", ErrAllModelsExhausted, ctx.Err())
				}

			case status == http.StatusNotFound:
				// Unknown model: no point retrying it, advance at once.
				lastErr = fmt.Errorf("model %s not found", model)
				c.logger.Warn("model not found, advancing", "model", model)
				break modelLoop

			default:
				lastErr = fmt.Errorf("model %s: unexpected status %d: %s", model, status, truncate(body, 200))
				c.logger.Warn("unexpected upstream status",
					"model", model, "status", status)
				c.sleep(ctx, c.failoverDelay)
				break modelLoop
			}
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no models configured")
	}
	return nil, fmt.Errorf("%w: %v", ErrAllModelsExhausted, lastErr)
}

// attempt performs one HTTP call against one model.
func (c *GeminiClient) attempt(ctx context.Context, model string, req *IdentifyRequest) (int, []byte, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{Text: req.Prompt},
				{InlineData: &geminiInlineData{MIMEType: req.MIMEType, Data: req.ImageBase64}},
			},
		}},
		GenerationConfig: geminiGenConfig{
			Temperature:     c.temperature,
			MaxOutputTokens: c.maxOutputTokens,
		},
		SafetySettings: defaultSafetySettings,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// candidateText extracts the generated text from a 2xx response body.
func candidateText(body []byte) (string, error) {
	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("API error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	text := parsed.text()
	if text == "" {
		return "", fmt.Errorf("no candidate text in response")
	}
	return text, nil
}

// sleep pauses for d unless the context is cancelled first. Returns false
// on cancellation.
func (c *GeminiClient) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
