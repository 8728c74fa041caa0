package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRequiresExecutableName(t *testing.T) {
	err := runCmd.RunE(runCmd, nil)
	assert.Error(t, err)
}

func TestRunRecordsExitCodeWithoutExiting(t *testing.T) {
	exitCode = 0
	// A missing executable must surface as a recorded exit code, not an
	// immediate process exit from inside the command.
	err := runCmd.RunE(runCmd, []string{"no-such-helper-binary"})
	require.NoError(t, err)
	assert.Equal(t, 1, exitCode)
	exitCode = 0
}
