package screening

import "context"

// Provider is a single generative-text backend. Implementations make exactly
// one network call per Classify invocation and never retry internally; retry
// and fallback ordering belong to the Cascade.
type Provider interface {
	Name() string

	// Available reports whether the provider is configured. Unconfigured
	// providers are skipped by the cascade without a network call.
	Available() bool

	// Models lists the model variants to try, in preference order.
	Models() []string

	// Classify sends the prompt to one model variant and returns the raw
	// response text. Failed attempts should be tagged with *ProviderError.
	Classify(ctx context.Context, model, prompt string) (string, error)
}
