package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLangErrorMessageWithoutCause(t *testing.T) {
	err := New(PropertyError, "no field named x")
	assert.Equal(t, "PropertyError: no field named x", err.Error())
}

func TestLangErrorMessageWithCause(t *testing.T) {
	cause := errors.New("file not found")
	err := Wrap(ImportError, cause, "resolving module main.lay")
	assert.Equal(t, "ImportError: resolving module main.lay: file not found", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestNewfFormatsMessage(t *testing.T) {
	err := Newf(RuntimeError, "expected %d args, got %d", 2, 1)
	assert.Equal(t, "expected 2 args, got 1", err.Message)
}

func TestIsMatchesKindThroughWrapping(t *testing.T) {
	base := New(ExportError, "already exported")

	var wrappedErr error = fmt.Errorf("context: %w", base)
	assert.True(t, Is(wrappedErr, ExportError))
	assert.False(t, Is(wrappedErr, ImportError))
}

func TestIsFalseForNonLangError(t *testing.T) {
	assert.False(t, Is(errors.New("plain"), RuntimeError))
}

func TestKindStringNamesEveryTaxonomyMember(t *testing.T) {
	kinds := []Kind{
		RuntimeError, PropertyError, MethodNotFoundError,
		ImportError, ExportError, IoError, SyntaxError,
	}
	for _, k := range kinds {
		require.NotEmpty(t, k.String())
		assert.NotContains(t, k.String(), "Kind(")
	}
}
