package domain

import (
	"fmt"
	"math"
)

// DeriveSpeed computes the elementwise Euclidean magnitude of two
// orthogonal velocity components. The result shares the components' shape
// and axes; a cell is missing when either component is missing.
func DeriveSpeed(u, v *Field) (*Field, error) {
	if !u.SameShape(v) {
		return nil, fmt.Errorf("%w: velocity components have mismatched shapes", ErrConfig)
	}
	out := NewField(u.HasDepth, u.NT, u.ND, u.NY, u.NX)
	for i, uv := range u.Data {
		out.Data[i] = math.Hypot(uv, v.Data[i])
	}
	return out, nil
}

// Derive computes the parameter's derived quantity from its constituent
// variables and injects it into the dataset under the canonical name.
// For non-derived parameters this is a no-op.
func Derive(ds *Dataset, p Parameter) error {
	if !p.Derived {
		return nil
	}
	if len(p.Components) != 2 {
		return fmt.Errorf("%w: derived parameter %q needs two components, has %d", ErrConfig, p.Name, len(p.Components))
	}
	u, ok := ds.Vars[p.Components[0]]
	if !ok {
		return fmt.Errorf("%w: component %q not present in dataset", ErrConfig, p.Components[0])
	}
	v, ok := ds.Vars[p.Components[1]]
	if !ok {
		return fmt.Errorf("%w: component %q not present in dataset", ErrConfig, p.Components[1])
	}
	speed, err := DeriveSpeed(u, v)
	if err != nil {
		return err
	}
	ds.Vars[p.Variable] = speed
	return nil
}
