package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommandWiring(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"init", "link", "status", "diff", "drift", "sync", "unlink", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootSilencesCobraOutput(t *testing.T) {
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)
}

func TestUnlinkTakesPathFlag(t *testing.T) {
	assert.NotNil(t, unlinkCmd.Flags().Lookup("path"))
	assert.Equal(t, "unlink", unlinkCmd.Use, "unlink takes no positional arguments")
}

func TestPathArg(t *testing.T) {
	assert.Equal(t, "", pathArg(nil))
	assert.Equal(t, "proj", pathArg([]string{"proj"}))
}

func TestInteractive_ScriptWins(t *testing.T) {
	assert.False(t, interactive(true))
}
