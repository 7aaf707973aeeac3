package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makerlens/makerlens-cli/internal/core/domain"
)

func TestIndexCmd_Use(t *testing.T) {
	assert.Equal(t, "index [url]", indexCmd.Use)
}

func TestIndexCmd_Short(t *testing.T) {
	assert.Equal(t, "Index a product by URL", indexCmd.Short)
}

func TestIndexCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestIndexCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", "https://newproduct.example.com"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Indexed https://newproduct.example.com")
	assert.Contains(t, buf.String(), "Indexed Product")
}

func TestIndexCmd_DuplicateURLHint(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	fake := indexingService.(*fakeIndexingService)
	fake.indexErr = domain.ErrDuplicateURL

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index", "https://example.com"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrDuplicateURL)
	assert.Contains(t, err.Error(), "product reindex")
}

func TestIndexCmd_OwnershipRemediation(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	fake := indexingService.(*fakeIndexingService)
	fake.indexErr = &domain.OwnershipError{Handle: "janemaker"}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index", "https://example.com", "--as", "@JaneMaker"})
	defer func() {
		rootCmd.SetArgs(nil)
		indexAs = ""
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "twitter:creator")
	assert.Contains(t, err.Error(), "janemaker")
}
