package tts

import (
	"fmt"
	"strings"
	"time"
)

// Provider names accepted by New.
const (
	ProviderOpenAI     = providerOpenAI
	ProviderElevenLabs = providerElevenLabs
	ProviderMock       = "mock"
)

// New builds a provider by name. The mock speaks silence at roughly
// narration pace.
func New(name string, opts ...Option) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProviderOpenAI:
		return NewOpenAI(opts...)
	case ProviderElevenLabs:
		return NewElevenLabs(opts...)
	case ProviderMock:
		return NewMock(150 * time.Millisecond), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}
