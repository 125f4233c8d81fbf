//go:build !windows

package winstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regkit/pkg/types"
)

func TestNew_Unsupported(t *testing.T) {
	store, err := New()
	require.Error(t, err)
	assert.Nil(t, store)
	assert.ErrorIs(t, err, types.ErrUnsupported)
}
