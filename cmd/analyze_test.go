package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promptWith(t *testing.T, input string) (string, error) {
	t.Helper()
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&bytes.Buffer{})
	return promptURL(cmd)
}

func TestPromptURL(t *testing.T) {
	t.Run("keeps explicit scheme", func(t *testing.T) {
		url, err := promptWith(t, "https://example.com\n")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", url)
	})

	t.Run("defaults to https", func(t *testing.T) {
		url, err := promptWith(t, "example.com\n")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", url)
	})

	t.Run("trims whitespace", func(t *testing.T) {
		url, err := promptWith(t, "  http://example.com  \n")
		require.NoError(t, err)
		assert.Equal(t, "http://example.com", url)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := promptWith(t, "\n")
		assert.Error(t, err)
	})
}
