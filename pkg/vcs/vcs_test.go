package vcs

import (
	"testing"

	"github.com/microsync/microsync/pkg/errors"
	"github.com/microsync/microsync/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForType(t *testing.T) {
	t.Run("git is registered", func(t *testing.T) {
		vc, err := ForType(TypeGit)
		require.NoError(t, err)
		assert.NotNil(t, vc)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := ForType("svn")
		assert.True(t, errors.IsErrorCode(err, errors.ErrVCSTypeNotSupported))
	})
}

func TestObtain_UnknownType(t *testing.T) {
	_, err := Obtain("https://github.com/org/t", t.TempDir(), "", state.VCS{Type: "svn"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrVCSTypeNotSupported))
}

func TestValidateSrc(t *testing.T) {
	assert.NoError(t, validateSrc("https://github.com/org/template"))
	assert.NoError(t, validateSrc(t.TempDir()))

	err := validateSrc("not-a-locator")
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateSourceInvalid))
}
