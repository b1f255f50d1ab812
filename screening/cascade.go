package screening

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Cascade runs an ordered list of providers, each with an ordered list of
// model variants, until one produces a usable response.
//
// Fallback rules:
//   - an unavailable provider is skipped entirely;
//   - NotSupported moves to the next variant of the same provider;
//   - any other failure abandons the provider's remaining variants and falls
//     through to the next provider;
//   - a response the validator rejects also falls through to the next
//     provider, since the same call cannot be replayed against it;
//   - the first success returns immediately.
type Cascade struct {
	providers []Provider
}

// Response is the raw output of the first successful attempt.
type Response struct {
	Raw      string
	Provider string
	Model    string
}

func NewCascade(providers ...Provider) *Cascade {
	return &Cascade{providers: providers}
}

// Generate walks the provider/variant order and returns the first response
// accepted by validate. A nil validate accepts any response. When everything
// fails it returns *CascadeExhaustedError wrapping the last attempt error.
func (c *Cascade) Generate(ctx context.Context, prompt string, validate func(raw string) error) (Response, error) {
	var last error
	attempts := 0

	for _, provider := range c.providers {
		if !provider.Available() {
			logrus.Debugf("skipping provider %s: not configured", provider.Name())
			last = &ProviderError{Provider: provider.Name(), Kind: FailureUnavailable, Err: errors.New("provider not configured")}
			continue
		}

		resp, n, err := c.tryProvider(ctx, provider, prompt, validate)
		attempts += n
		if err == nil {
			return resp, nil
		}
		logrus.Infof("provider %s failed, falling through: %v", provider.Name(), err)
		last = err
	}

	if last == nil {
		last = errors.New("no providers configured")
	}
	return Response{}, &CascadeExhaustedError{Attempts: attempts, Last: last}
}

func (c *Cascade) tryProvider(ctx context.Context, provider Provider, prompt string, validate func(string) error) (Response, int, error) {
	var last error
	attempts := 0

	for _, model := range provider.Models() {
		attempts++
		logrus.Debugf("trying %s/%s", provider.Name(), model)

		raw, err := provider.Classify(ctx, model, prompt)
		if err != nil {
			last = err
			if KindOf(err) == FailureNotSupported {
				// Deprecated or unknown model name; the next variant of the
				// same provider may still work.
				continue
			}
			return Response{}, attempts, err
		}

		if validate != nil {
			if verr := validate(raw); verr != nil {
				// The call is already consumed; a different variant would not
				// change the outcome, so hand over to the next provider.
				return Response{}, attempts, &ProviderError{
					Provider: provider.Name(),
					Model:    model,
					Kind:     FailureMalformed,
					Err:      verr,
				}
			}
		}

		return Response{Raw: raw, Provider: provider.Name(), Model: model}, attempts, nil
	}

	if last == nil {
		last = &ProviderError{
			Provider: provider.Name(),
			Kind:     FailureUnavailable,
			Err:      fmt.Errorf("provider has no model variants"),
		}
	}
	return Response{}, attempts, last
}
