// Package geminipkg wraps the Google generative AI client used for receipt analysis.
package geminipkg

import (
	"context"
	"errors"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrEmptyResponse indicates that the model returned no usable candidates.
var ErrEmptyResponse = errors.New("no response from the model")

// Client generates text from an image and a prompt.
type Client struct {
	client    *genai.Client
	modelName string
}

// New returns a Client for the given API key and model name.
func New(ctx context.Context, apiKey, modelName string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &Client{client: client, modelName: modelName}, nil
}

// AnalyzeImage sends the image with the prompt to the model and returns the text response.
func (c *Client) AnalyzeImage(ctx context.Context, image []byte, mimeType, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.modelName)

	res, err := model.GenerateContent(ctx, genai.Blob{MIMEType: mimeType, Data: image}, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	text, ok := res.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", ErrEmptyResponse
	}

	return string(text), nil
}

// Close releases the underlying client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
