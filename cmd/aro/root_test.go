package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arolang/aro-sub008/actions"
	"github.com/arolang/aro-sub008/runtimectx"
)

func TestConfigOutputContextDefaultsToHuman(t *testing.T) {
	cfg := newConfig()
	assert.Equal(t, runtimectx.OutputHuman, cfg.outputContext())
}

func TestConfigOutputContextReadsMachineAndDeveloper(t *testing.T) {
	cfg := newConfig()
	cfg.v.Set("output-context", "machine")
	assert.Equal(t, runtimectx.OutputMachine, cfg.outputContext())

	cfg.v.Set("output-context", "developer")
	assert.Equal(t, runtimectx.OutputDeveloper, cfg.outputContext())
}

func TestNewRuntimeRegistersAmbientServicesButNotRateLimiterByDefault(t *testing.T) {
	cfg := newConfig()
	reg, ctx := newRuntime(cfg)
	require.NotNil(t, reg)

	_, hasLimiter := runtimectx.Service[actions.RateLimiter](ctx)
	assert.False(t, hasLimiter, "rate limiter is opt-in, absent without --outbound-rate-limit")
}

func TestNewRuntimeRegistersRateLimiterWhenConfigured(t *testing.T) {
	cfg := newConfig()
	cfg.v.Set("outbound-rate-limit", 5.0)
	_, ctx := newRuntime(cfg)

	limiter, ok := runtimectx.Service[actions.RateLimiter](ctx)
	require.True(t, ok)
	require.NotNil(t, limiter)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := rootCommand()
	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["actions"])
	assert.True(t, names["version"])
}
