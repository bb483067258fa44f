package docrag

import "time"

// Config is an immutable snapshot of pipeline settings, loaded once at
// process start and passed by value into each component.
type Config struct {
	// Chunking budgets, in tokens. MaxTokens is the binding hard ceiling;
	// TargetTokens and OverlapTokens are advisory.
	MinTokens     int `json:"minTokens"`
	TargetTokens  int `json:"targetTokens"`
	MaxTokens     int `json:"maxTokens"`
	OverlapTokens int `json:"overlapTokens"`

	// Near-duplicate similarity threshold in [0,1].
	SimilarityThreshold float64 `json:"similarityThreshold"`

	// Embedding batching and retry behavior.
	BatchSize         int           `json:"batchSize"`
	RetryMaxAttempts  int           `json:"retryMaxAttempts"`
	RetryInitialDelay time.Duration `json:"retryInitialDelay"`
	RetryMaxDelay     time.Duration `json:"retryMaxDelay"`

	// Embedding model contract.
	EmbeddingDimension int `json:"embeddingDimension"`

	// Retrieval defaults.
	TopK           int     `json:"topK"`
	ScoreThreshold float32 `json:"scoreThreshold"`
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		MinTokens:           100,
		TargetTokens:        350,
		MaxTokens:           512,
		OverlapTokens:       50,
		SimilarityThreshold: 0.95,
		BatchSize:           20,
		RetryMaxAttempts:    5,
		RetryInitialDelay:   time.Second,
		RetryMaxDelay:       60 * time.Second,
		EmbeddingDimension:  1024,
		TopK:                5,
		ScoreThreshold:      0.3,
	}
}

// Validate returns an error if the configuration is inconsistent.
func (c Config) Validate() error {
	if c.MinTokens < 0 {
		return Errorf(EINVALID, "min tokens must be non-negative")
	}
	if c.MaxTokens <= 0 {
		return Errorf(EINVALID, "max tokens must be positive")
	}
	if c.MinTokens > c.MaxTokens {
		return Errorf(EINVALID, "min tokens %d exceeds max tokens %d", c.MinTokens, c.MaxTokens)
	}
	if c.TargetTokens > c.MaxTokens {
		return Errorf(EINVALID, "target tokens %d exceeds max tokens %d", c.TargetTokens, c.MaxTokens)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return Errorf(EINVALID, "similarity threshold must be in [0,1]")
	}
	if c.BatchSize <= 0 {
		return Errorf(EINVALID, "batch size must be positive")
	}
	if c.RetryMaxAttempts <= 0 {
		return Errorf(EINVALID, "retry max attempts must be positive")
	}
	if c.EmbeddingDimension <= 0 {
		return Errorf(EINVALID, "embedding dimension must be positive")
	}
	if c.TopK <= 0 {
		return Errorf(EINVALID, "top-k must be positive")
	}
	return nil
}
