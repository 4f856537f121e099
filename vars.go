package layout

import (
	"fmt"
	"maps"
)

// ParentKey is the default variable under which an inline block template
// can read the variables of the template that rendered it.
const ParentKey = "parent"

// Vars is the variable context of a render pass.
type Vars map[string]any

// Clone returns a shallow copy of v. It never returns nil.
func (v Vars) Clone() Vars {
	out := make(Vars, len(v))
	maps.Copy(out, v)
	return out
}

// Get returns the value stored under key.
func (v Vars) Get(key string) (any, bool) {
	val, ok := v[key]
	return val, ok
}

// String returns the value stored under key formatted as text, or an empty
// string when the key is missing or nil.
func (v Vars) String(key string) string {
	val, ok := v[key]
	if !ok || val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return fmt.Sprint(val)
}

// withBlocks returns a copy of v overridden by blocks. Block names win.
func (v Vars) withBlocks(blocks Blocks) Vars {
	out := v.Clone()
	for name, text := range blocks {
		out[name] = text
	}
	return out
}

// withParent returns a copy of v with a snapshot of parent stored under key.
func (v Vars) withParent(key string, parent Vars) Vars {
	out := v.Clone()
	out[key] = parent.Clone()
	return out
}

// toVars converts template data into Vars. Values that are not maps are
// exposed under the "data" key.
func toVars(data any) Vars {
	switch v := data.(type) {
	case nil:
		return Vars{}
	case Vars:
		return v
	case map[string]any:
		return Vars(v)
	case map[string]string:
		out := make(Vars, len(v))
		for key, val := range v {
			out[key] = val
		}
		return out
	default:
		return Vars{"data": data}
	}
}
