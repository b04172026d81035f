package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// GenerateRequest is one prompt for the backend.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	// Schema asks the backend for structured output; nil means free text.
	Schema      json.RawMessage
	Temperature *float64
	MaxTokens   *int
}

// GenerateResponse carries the raw model output.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient is the reasoning backend seen by the question generator.
type LLMClient interface {
	// Generate makes exactly one request. There is no retry.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	Available(ctx context.Context) bool
}

const (
	generatePath = "/api/generate"
	tagsPath     = "/api/tags"
	dialTimeout  = 5 * time.Second
	probeTimeout = 2 * time.Second
)

type ollama struct {
	cfg      LLMConfig
	http     *http.Client
	observer Observer
}

// NewOllamaClient returns an LLMClient speaking the Ollama generate API.
// A nil observer discards call events.
func NewOllamaClient(cfg LLMConfig, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	dialer := &net.Dialer{Timeout: dialTimeout}
	return &ollama{
		cfg:      cfg,
		http:     &http.Client{Transport: &http.Transport{DialContext: dialer.DialContext}},
		observer: observer,
	}
}

type generateBody struct {
	Model   string          `json:"model"`
	System  string          `json:"system,omitempty"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Format  json.RawMessage `json:"format,omitempty"`
	Options sampling        `json:"options,omitempty"`
}

type sampling struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type generateReply struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

func (c *ollama) Generate(ctx context.Context, req GenerateRequest) (resp *GenerateResponse, err error) {
	params := c.cfg.Resolve(req.Task)
	if req.Temperature != nil {
		params.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		params.MaxTokens = *req.MaxTokens
	}

	callCtx, cancel := context.WithTimeout(ctx, params.Timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		c.observer.OnCallComplete(LLMCallEvent{
			Task:      req.Task,
			Model:     c.cfg.Model,
			LatencyMs: time.Since(start).Milliseconds(),
			Success:   err == nil,
			ErrorCode: errorCode(err),
		})
	}()

	var reply generateReply
	err = c.post(callCtx, generatePath, generateBody{
		Model:   c.cfg.Model,
		System:  req.SystemPrompt,
		Prompt:  req.UserPrompt,
		Format:  req.Schema,
		Options: sampling{Temperature: params.Temperature, NumPredict: params.MaxTokens},
	}, &reply)
	if err != nil {
		return nil, classify(callCtx, err)
	}
	return &GenerateResponse{
		Text:      reply.Response,
		Model:     reply.Model,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}

// post sends in as JSON and decodes a 200 reply into out. Non-200 bodies
// are folded into the ErrBackendStatus error text.
func (c *ollama) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", ErrBackendStatus, httpResp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrInvalidOutput, err)
	}
	return nil
}

// Available probes the tags endpoint with a short deadline.
func (c *ollama) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+tagsPath, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
