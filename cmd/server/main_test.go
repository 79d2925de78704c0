package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeCmd(t *testing.T) {
	cmd := computeCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--date", "2025-07-20", "--start", "6", "--end", "18"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "HEFD  4")
	assert.Contains(t, out.String(), "RD    8")
}

func TestComputeCmd_InvalidShift(t *testing.T) {
	cmd := computeCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--date", "2025-07-15", "--start", "10", "--end", "10"})
	assert.Error(t, cmd.Execute())
}

func TestHolidaysCmd(t *testing.T) {
	cmd := holidaysCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--year", "2025"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "2025-04-18")
	assert.Contains(t, out.String(), "2025-11-17")
}
