package payments

import "fmt"

// NewProvider creates a payment provider by kind. Only the mock backend
// exists today; the factory keeps the wiring uniform when a real PSP
// adapter is added.
func NewProvider(kind ProviderKind) (Provider, error) {
	switch kind {
	case ProviderMock, "":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported payment provider: %s", kind)
	}
}

// SupportedProviders lists the provider kinds the factory can build.
func SupportedProviders() []ProviderKind {
	return []ProviderKind{ProviderMock}
}
