package logforge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrPoolGone_WrapsErrLifetime(t *testing.T) {
	assert.True(t, errors.Is(ErrPoolGone, ErrLifetime))
}

func TestErrorSentinels_AreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrIO, ErrConfig))
	assert.False(t, errors.Is(ErrConfig, ErrLifetime))
	assert.False(t, errors.Is(ErrIO, ErrLifetime))
}
