package gemini

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"imageworld/internal/imagegen"
	"imageworld/utils"

	"google.golang.org/genai"
)

const jpegQuality = 92

var ErrNoImage = errors.New("no image data returned from model")

// Client generates images with a Gemini image model. Width, height, steps and
// guidance have no equivalent in the Gemini API and are not sent.
type Client struct {
	models *genai.Models
	model  string
}

type Options struct {
	ApiKey string
	Model  string
	// BaseUrl overrides the API endpoint; empty uses the public one.
	BaseUrl string
}

func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.ApiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cc := &genai.ClientConfig{APIKey: opts.ApiKey, Backend: genai.BackendGeminiAPI}
	if opts.BaseUrl != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseUrl}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	return &Client{models: client.Models, model: opts.Model}, nil
}

func (c *Client) Generate(ctx context.Context, req imagegen.Request) ([]byte, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	}
	cfg.Seed = seedFor(req.Seed)

	res, err := c.models.GenerateContent(ctx, c.model, genai.Text(promptText(req)), cfg)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	if res == nil || len(res.Candidates) == 0 || res.Candidates[0] == nil || res.Candidates[0].Content == nil {
		return nil, ErrNoImage
	}

	for _, part := range res.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		// The bridge labels every image as JPEG.
		return utils.ToJPEG(part.InlineData.Data, jpegQuality)
	}

	return nil, ErrNoImage
}

// seedFor maps a request seed onto Gemini's int32 seed. Negative seeds and
// seeds Gemini cannot represent are left unset, which means random.
func seedFor(seed int64) *int32 {
	if seed < 0 || seed > math.MaxInt32 {
		return nil
	}
	return genai.Ptr(int32(seed))
}

func promptText(req imagegen.Request) string {
	neg := strings.TrimSpace(req.NegativePrompt)
	if neg == "" {
		return req.Prompt
	}
	return req.Prompt + "\n\nAvoid: " + neg
}
