package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommandStructure(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "ratetrack", cmd.Use)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "convert")
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "parsers")
}

func TestParsersCommand(t *testing.T) {
	out, err := execute(t, "parsers")
	require.NoError(t, err)
	assert.Equal(t, "bt\ncec\n", out)
}

func TestConvertRequiresFiles(t *testing.T) {
	_, err := execute(t, "convert")
	assert.Error(t, err)
}

func TestConvertRejectsMissingFile(t *testing.T) {
	_, err := execute(t, "convert", "no-such-statement.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
