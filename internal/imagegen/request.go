package imagegen

const (
	DefaultWidth         = 1024
	DefaultHeight        = 1024
	DefaultSteps         = 30
	DefaultSeed          = -1
	DefaultGuidanceScale = 7.5

	// Bounds the create form offers. They are hints for clients and are not
	// enforced here.
	MinDimension     = 512
	MaxDimension     = 1024
	MinSteps         = 20
	MaxSteps         = 50
	MinGuidanceScale = 1.0
	MaxGuidanceScale = 20.0
)

// Request is a single text-to-image generation. Seed -1 leaves the choice to
// the provider.
type Request struct {
	Prompt         string
	NegativePrompt string
	Width          int
	Height         int
	Steps          int
	Seed           int64
	GuidanceScale  float64
}

// NewRequest returns a request for prompt with every sampling parameter at its default.
func NewRequest(prompt string) Request {
	return Request{
		Prompt:        prompt,
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		Steps:         DefaultSteps,
		Seed:          DefaultSeed,
		GuidanceScale: DefaultGuidanceScale,
	}
}

// InBounds reports whether every parameter sits inside the form bounds.
func (r Request) InBounds() bool {
	return inRange(r.Width, MinDimension, MaxDimension) &&
		inRange(r.Height, MinDimension, MaxDimension) &&
		inRange(r.Steps, MinSteps, MaxSteps) &&
		r.GuidanceScale >= MinGuidanceScale && r.GuidanceScale <= MaxGuidanceScale
}

func inRange(v, lo, hi int) bool {
	return v >= lo && v <= hi
}
