package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLoadKeepsSourceOrder(t *testing.T) {
	registry := NewRegistry(&stubPersonaSource{personas: testPersonas()})

	require.NoError(t, registry.Load(context.Background()))

	personas := registry.List()
	require.Len(t, personas, 2)
	assert.Equal(t, uint(7), personas[0].ID)
	assert.Equal(t, uint(8), personas[1].ID)
	assert.Equal(t, uint(7), registry.Default().ID)

	got, ok := registry.Get(8)
	assert.True(t, ok)
	assert.Equal(t, "阿杰", got.Nickname)

	_, ok = registry.Get(999)
	assert.False(t, ok)
}

func TestRegistryLoadFailureInstallsFallback(t *testing.T) {
	registry := NewRegistry(&stubPersonaSource{err: errors.New("db down")})

	err := registry.Load(context.Background())
	assert.Error(t, err)

	personas := registry.List()
	require.Len(t, personas, 1)
	assert.Equal(t, "AI助手", personas[0].Nickname)
	assert.Equal(t, personas[0], registry.Default())
}

func TestRegistryEmptySourceInstallsFallback(t *testing.T) {
	registry := NewRegistry(&stubPersonaSource{})

	require.NoError(t, registry.Load(context.Background()))

	personas := registry.List()
	require.Len(t, personas, 1)
	assert.Equal(t, "AI助手", personas[0].Nickname)
}

func TestRegistryUnloadedServesFallback(t *testing.T) {
	registry := NewRegistry(&stubPersonaSource{personas: testPersonas()})

	assert.Equal(t, "AI助手", registry.Default().Nickname)
	assert.Len(t, registry.List(), 1)
}
