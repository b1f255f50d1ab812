package screening

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttempt struct {
	raw string
	err error
}

type fakeProvider struct {
	name      string
	available bool
	models    []string
	attempts  map[string]fakeAttempt
	calls     []string
}

func (f *fakeProvider) Name() string     { return f.name }
func (f *fakeProvider) Available() bool  { return f.available }
func (f *fakeProvider) Models() []string { return f.models }

func (f *fakeProvider) Classify(_ context.Context, model, _ string) (string, error) {
	f.calls = append(f.calls, model)
	attempt := f.attempts[model]
	return attempt.raw, attempt.err
}

func notSupported(provider, model string) error {
	return &ProviderError{Provider: provider, Model: model, Kind: FailureNotSupported, Err: errors.New("model not found")}
}

func transient(provider, model string) error {
	return &ProviderError{Provider: provider, Model: model, Kind: FailureTransient, Err: errors.New("rate limited")}
}

func TestCascadeTriesNextVariantOnNotSupported(t *testing.T) {
	a := &fakeProvider{
		name:      "a",
		available: true,
		models:    []string{"a1", "a2"},
		attempts: map[string]fakeAttempt{
			"a1": {err: notSupported("a", "a1")},
			"a2": {raw: "from a2"},
		},
	}
	b := &fakeProvider{
		name:      "b",
		available: true,
		models:    []string{"b1"},
		attempts:  map[string]fakeAttempt{"b1": {raw: "from b1"}},
	}

	resp, err := NewCascade(a, b).Generate(context.Background(), "prompt", nil)
	require.NoError(t, err)

	assert.Equal(t, "from a2", resp.Raw)
	assert.Equal(t, "a", resp.Provider)
	assert.Equal(t, "a2", resp.Model)
	assert.Empty(t, b.calls, "secondary provider must not be called after a primary success")
}

func TestCascadeFallsThroughToNextProviderOnTransient(t *testing.T) {
	a := &fakeProvider{
		name:      "a",
		available: true,
		models:    []string{"a1", "a2"},
		attempts: map[string]fakeAttempt{
			"a1": {err: transient("a", "a1")},
			"a2": {raw: "never reached"},
		},
	}
	b := &fakeProvider{
		name:      "b",
		available: true,
		models:    []string{"b1"},
		attempts:  map[string]fakeAttempt{"b1": {raw: "from b1"}},
	}

	resp, err := NewCascade(a, b).Generate(context.Background(), "prompt", nil)
	require.NoError(t, err)

	assert.Equal(t, "from b1", resp.Raw)
	assert.Equal(t, "b", resp.Provider)
	// A transient failure abandons the provider's remaining variants.
	assert.Equal(t, []string{"a1"}, a.calls)
}

func TestCascadeExhausted(t *testing.T) {
	a := &fakeProvider{
		name:      "a",
		available: true,
		models:    []string{"a1"},
		attempts:  map[string]fakeAttempt{"a1": {err: transient("a", "a1")}},
	}
	b := &fakeProvider{
		name:      "b",
		available: true,
		models:    []string{"b1"},
		attempts:  map[string]fakeAttempt{"b1": {err: transient("b", "b1")}},
	}

	_, err := NewCascade(a, b).Generate(context.Background(), "prompt", nil)

	var exhausted *CascadeExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 2, exhausted.Attempts)

	var perr *ProviderError
	require.ErrorAs(t, exhausted.Last, &perr)
	assert.Equal(t, "b", perr.Provider)
}

func TestCascadeSkipsUnavailableProvider(t *testing.T) {
	a := &fakeProvider{name: "a", available: false, models: []string{"a1"}}
	b := &fakeProvider{
		name:      "b",
		available: true,
		models:    []string{"b1"},
		attempts:  map[string]fakeAttempt{"b1": {raw: "from b1"}},
	}

	resp, err := NewCascade(a, b).Generate(context.Background(), "prompt", nil)
	require.NoError(t, err)

	assert.Equal(t, "from b1", resp.Raw)
	assert.Empty(t, a.calls, "unavailable provider must not be called at all")
}

func TestCascadeMalformedResponseAdvancesToNextProvider(t *testing.T) {
	a := &fakeProvider{
		name:      "a",
		available: true,
		models:    []string{"a1", "a2"},
		attempts: map[string]fakeAttempt{
			"a1": {raw: "not json"},
			"a2": {raw: "also not json"},
		},
	}
	b := &fakeProvider{
		name:      "b",
		available: true,
		models:    []string{"b1"},
		attempts:  map[string]fakeAttempt{"b1": {raw: `{"ok": true}`}},
	}

	validate := func(raw string) error {
		if raw != `{"ok": true}` {
			return ErrMalformedResponse
		}
		return nil
	}

	resp, err := NewCascade(a, b).Generate(context.Background(), "prompt", validate)
	require.NoError(t, err)

	assert.Equal(t, "b", resp.Provider)
	// A rejected response consumes the call; the same provider's other
	// variants are not retried.
	assert.Equal(t, []string{"a1"}, a.calls)
}

func TestCascadeNoProvidersConfigured(t *testing.T) {
	_, err := NewCascade().Generate(context.Background(), "prompt", nil)

	var exhausted *CascadeExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 0, exhausted.Attempts)
}
