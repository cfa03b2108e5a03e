// Package completion talks to an OpenAI compatible chat-completion endpoint.
package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gothiabil/bilgateway/models"
	"github.com/pkg/errors"
)

type Options struct {
	URL         string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

type Client struct {
	http        *resty.Client
	url         string
	model       string
	maxTokens   int
	temperature float64
}

// Result is a successful completion. Content is empty when the provider returned no choices.
type Result struct {
	Content string
	Usage   *models.Usage
	Size    int
}

// StatusError is returned when the provider answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("completion API responded with status %d", e.StatusCode)
}

func NewClient(opts Options) *Client {
	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:        client,
		url:         opts.URL,
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}
}

// Complete sends one chat-completion request authenticated with apiKey. It never retries.
func (c *Client) Complete(ctx context.Context, apiKey string, messages []models.Message) (Result, error) {
	request := models.AIRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(apiKey).
		SetBody(request).
		Post(c.url)
	if err != nil {
		return Result{}, errors.Wrap(err, "call completion API")
	}
	if !resp.IsSuccess() {
		return Result{}, &StatusError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}

	var rsp models.AIResponse
	if err := json.Unmarshal(resp.Body(), &rsp); err != nil {
		return Result{}, errors.Wrap(err, "decode completion response")
	}

	result := Result{Usage: rsp.Usage, Size: len(resp.Body())}
	if len(rsp.Choices) > 0 {
		result.Content = rsp.Choices[0].Message.Content
	}
	return result, nil
}
