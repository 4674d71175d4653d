// internal/llm/interface_test.go
package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	initErr error
	config  map[string]string
}

func (p *stubProvider) Initialize(config map[string]string) error {
	p.config = config
	return p.initErr
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Converse(context.Context, ConverseRequest) (*ConverseResponse, error) {
	return &ConverseResponse{Text: "ok"}, nil
}

func TestGetProviderUnknown(t *testing.T) {
	_, err := GetProvider("no-such-provider", nil)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestRegisterAndGetProvider(t *testing.T) {
	stub := &stubProvider{}
	Register("stub-test", func() Provider { return stub })

	cfg := map[string]string{"api_key": "k"}
	provider, err := GetProvider("stub-test", cfg)
	require.NoError(t, err)
	assert.Same(t, stub, provider.(*stubProvider))
	assert.Equal(t, cfg, stub.config)

	assert.Contains(t, ListProviders(), "stub-test")
}

func TestGetProviderInitializeFailure(t *testing.T) {
	Register("stub-failing", func() Provider {
		return &stubProvider{initErr: errors.New("missing key")}
	})

	_, err := GetProvider("stub-failing", nil)
	assert.ErrorContains(t, err, "missing key")
}
