package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces free-form text completions from prompts.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// GenerateText sends a prompt to the model and returns its text response.
	// Callers tune sampling via GenerateOption values; unset options use
	// the implementation's defaults.
	// Returns an error if the generation call fails. Callers that need to
	// distinguish quota exhaustion should classify the error with IsRateLimit.
	GenerateText(ctx context.Context, prompt string, opts ...GenerateOption) (string, error)
}

// GenerateOption tunes a single GenerateText call.
type GenerateOption func(*GenerateOptions)

// GenerateOptions collects the sampling parameters for one generation call.
// Implementations read this struct after applying the caller's options.
type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
	TopP        float64
	JSONMode    bool
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temperature
	}
}

// WithMaxTokens caps the length of the generated response.
func WithMaxTokens(maxTokens int) GenerateOption {
	return func(o *GenerateOptions) {
		o.MaxTokens = maxTokens
	}
}

// WithTopP sets the nucleus sampling parameter.
func WithTopP(topP float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.TopP = topP
	}
}

// WithJSONMode asks the model to emit a JSON object response.
func WithJSONMode() GenerateOption {
	return func(o *GenerateOptions) {
		o.JSONMode = true
	}
}

// ApplyGenerateOptions builds a GenerateOptions from defaults plus the
// caller's options. Used by implementations.
func ApplyGenerateOptions(opts ...GenerateOption) GenerateOptions {
	options := GenerateOptions{
		Temperature: 0.3,
		MaxTokens:   1024,
		TopP:        0.95,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Generator instances, ensuring
// they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Generator returns the text generation service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
