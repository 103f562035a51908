package huggingface

import (
	"imageworld/internal/imagegen"
)

type TextToImageRequest struct {
	Inputs     string                `json:"inputs"`
	Parameters TextToImageParameters `json:"parameters"`
}

type TextToImageParameters struct {
	NegativePrompt    string  `json:"negative_prompt"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	GuidanceScale     float64 `json:"guidance_scale"`
	Seed              int64   `json:"seed"`
}

func NewTextToImageRequest(req imagegen.Request) TextToImageRequest {
	return TextToImageRequest{
		Inputs: req.Prompt,
		Parameters: TextToImageParameters{
			NegativePrompt:    req.NegativePrompt,
			Width:             req.Width,
			Height:            req.Height,
			NumInferenceSteps: req.Steps,
			GuidanceScale:     req.GuidanceScale,
			Seed:              req.Seed,
		},
	}
}

// ModelInfo is the subset of https://huggingface.co/api/models/{id} we surface.
type ModelInfo struct {
	Id           string       `json:"id"`
	ModelId      string       `json:"modelId"`
	Author       string       `json:"author"`
	PipelineTag  string       `json:"pipeline_tag"`
	LibraryName  string       `json:"library_name"`
	Likes        int64        `json:"likes"`
	Downloads    int64        `json:"downloads"`
	Private      bool         `json:"private"`
	Tags         []string     `json:"tags"`
	CreatedAt    FlexibleTime `json:"createdAt"`
	LastModified FlexibleTime `json:"lastModified"`
}
