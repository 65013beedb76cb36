package llm

import "fmt"

// UnsupportedProviderError is returned before any attempt when the provider
// name is not one of the registered backends.
type UnsupportedProviderError struct {
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported LLM provider: %s", e.Provider)
}

// ProviderNotConfiguredError means the provider's API key is not set.
type ProviderNotConfiguredError struct {
	Provider string
	EnvKey   string
}

func (e *ProviderNotConfiguredError) Error() string {
	return fmt.Sprintf("%s API key not configured (%s)", e.Provider, e.EnvKey)
}

// ProviderTransportError wraps the last backend error once the attempt
// budget is spent, or as soon as a permanent failure is seen.
type ProviderTransportError struct {
	Provider string
	Attempts int
	Err      error
}

func (e *ProviderTransportError) Error() string {
	return fmt.Sprintf("%s request failed after %d attempt(s): %v", e.Provider, e.Attempts, e.Err)
}

func (e *ProviderTransportError) Unwrap() error { return e.Err }
