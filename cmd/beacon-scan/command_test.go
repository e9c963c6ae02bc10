package main

import (
	"testing"
	"time"

	"github.com/docopt/docopt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageParsing(t *testing.T) {
	argv := []string{"scan", "ABCDEFAB-1234-1234-1234-1234567890AB", "--timeout=2s", "--major=7"}

	a, err := docopt.Parse(usage, argv, false, "", false, false)
	require.NoError(t, err)

	assert.True(t, getBool(a["scan"]))
	assert.False(t, getBool(a["simulate"]))
	assert.Equal(t, "ABCDEFAB-1234-1234-1234-1234567890AB", getString(a["<uuid>"]))
	assert.Equal(t, 2*time.Second, getDuration(a["--timeout"]))
	assert.Equal(t, uint16(7), *getUint16(a["--major"]))
	assert.Nil(t, getUint16(a["--minor"]))
	assert.Equal(t, "", getString(a["--output"]))
}
