package cli

import (
	"bytes"
	"dbhelper"
	"dbhelper/engine"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "dbhelper", cmd.Use)
	assert.Contains(t, cmd.Long, "embedded database")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"add", "list", "first", "set", "rm"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{"contacts", cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
	assert.Equal(t, "dbhelper.yaml", configFlag.DefValue)

	for _, name := range []string{"db", "backend", "log-level"} {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "", flag.DefValue)
	}

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "xml", "contacts", "list"})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitUsage, GetExitCode(err))
}

func TestInvalidBackend(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", "", "--backend", "postgres", "contacts", "list"})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Equal(t, ExitUsage, GetExitCode(err))
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitUsage, GetExitCode(dbhelper.Errorf(dbhelper.KindContract, "use", engine.ErrUnknownEntity)))
	assert.Equal(t, ExitUsage, GetExitCode(dbhelper.Errorf(dbhelper.KindQuery, "fetch", engine.ErrInvalidLimit)))
	assert.Equal(t, ExitFailure, GetExitCode(dbhelper.Errorf(dbhelper.KindWrite, "commit", engine.ErrDuplicateID)))
	assert.Equal(t, ExitUsage, GetExitCode(NewExitError(ExitUsage, "bad flag")))
}
