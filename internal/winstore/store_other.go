//go:build !windows

package winstore

import (
	"runtime"

	"github.com/joshuapare/regkit/pkg/types"
)

// New fails on platforms without a registry.
func New() (types.RegistryStore, error) {
	return nil, &types.Error{
		Kind: types.ErrKindUnsupported,
		Msg:  types.ErrUnsupported.Msg + ": no live registry on " + runtime.GOOS,
	}
}
