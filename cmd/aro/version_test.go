package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommandPrintsVersion(t *testing.T) {
	old := version
	version = "1.2.3-test"
	defer func() { version = old }()

	cmd := newVersionCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.RunE(cmd, nil))

	assert.Equal(t, "1.2.3-test\n", out.String())
}
