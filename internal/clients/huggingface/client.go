package huggingface

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"imageworld/internal/clients/transport"
	"imageworld/internal/imagegen"
)

// Hf talks to the HuggingFace inference API for one hosted model.
type Hf struct {
	apiKey     string
	httpClient *http.Client

	inferenceUrl string
	modelInfoUrl string
}

type Options struct {
	ApiKey       string
	InferenceUrl string
	ModelInfoUrl string
	// Timeout of zero leaves the call without a deadline.
	Timeout time.Duration
}

func NewHfClient(opts Options) *Hf {
	return &Hf{
		apiKey:       opts.ApiKey,
		inferenceUrl: strings.TrimSpace(opts.InferenceUrl),
		modelInfoUrl: strings.TrimSpace(opts.ModelInfoUrl),
		httpClient: &http.Client{
			Timeout:       opts.Timeout,
			CheckRedirect: keepAuthOnSameHost,
		},
	}
}

// keepAuthOnSameHost re-attaches the bearer token only while the redirect
// stays on the host it was issued for.
func keepAuthOnSameHost(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return errors.New("too many redirects")
	}
	if len(via) == 0 {
		return nil
	}
	if auth := via[0].Header.Get("Authorization"); auth != "" && req.URL.Host == via[0].URL.Host {
		req.Header.Set("Authorization", auth)
	}
	return nil
}

func (hf *Hf) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + hf.apiKey,
	}
}

// Generate implements imagegen.Provider with a single POST to the inference url.
func (hf *Hf) Generate(ctx context.Context, req imagegen.Request) ([]byte, error) {
	if hf.inferenceUrl == "" {
		return nil, errors.New("missing inference url")
	}

	body := NewTextToImageRequest(req)
	image, err := transport.PostBytes(hf.httpClient, ctx, hf.inferenceUrl, body, hf.headers())
	if err != nil {
		return nil, fmt.Errorf("text to image: %w", err)
	}

	return image, nil
}

func (hf *Hf) GetModelInfo(ctx context.Context) (ModelInfo, error) {
	if hf.modelInfoUrl == "" {
		return ModelInfo{}, errors.New("missing model info url")
	}

	headers := hf.headers()
	headers["Content-Type"] = "application/json"

	resp, err := transport.Get[ModelInfo](hf.httpClient, ctx, hf.modelInfoUrl, headers)
	if err != nil {
		return ModelInfo{}, err
	}

	return resp, nil
}
