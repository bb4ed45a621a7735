package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparetex/leadgen-cli/internal/config"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"run", "score", "resolve", "validate", "export", "cache"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "leadgen", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRunCommand_Flags(t *testing.T) {
	flag := runCmd.Flags().Lookup("input")
	require.NotNil(t, flag, "run command should have --input flag")

	noSearch := runCmd.Flags().Lookup("no-search")
	require.NotNil(t, noSearch, "run command should have --no-search flag")
	assert.Equal(t, "false", noSearch.DefValue)
}

func TestResolveCommand_MissingBraveKey(t *testing.T) {
	cfg = &config.Config{}
	resolveCmd.SetContext(t.Context())

	err := resolveCmd.RunE(resolveCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "brave search key is required")
}

func TestValidateCommand_RequiresInputOrResume(t *testing.T) {
	cfg = &config.Config{}
	validateInput = ""
	validateResume = ""
	validateCmd.SetContext(t.Context())

	err := validateCmd.RunE(validateCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "either --input or --resume")
}

func TestInitStore_UnsupportedDriver(t *testing.T) {
	cfg = &config.Config{Store: config.StoreConfig{Driver: "mysql"}}

	_, err := initStore(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store driver")
}

func TestCacheCommand_HasPrune(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range cacheCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["prune"])
}
