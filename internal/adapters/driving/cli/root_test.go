package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "makerlens", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	commands := rootCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "index")
	assert.Contains(t, commandNames, "search")
	assert.Contains(t, commandNames, "product")
	assert.Contains(t, commandNames, "bulk")
	assert.Contains(t, commandNames, "settings")
	assert.Contains(t, commandNames, "version")
}

func TestRootCmd_HasVerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	assert.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
}

func TestReindexCooldown(t *testing.T) {
	assert.Equal(t, int64(-1), int64(reindexCooldown(0)))
	assert.Equal(t, int64(-1), int64(reindexCooldown(-3)))
	assert.Positive(t, int64(reindexCooldown(24)))
}
