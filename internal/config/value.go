package config

import (
	"github.com/zclconf/go-cty/cty"
)

// GoValue converts a manifest cty.Value into a plain Go value suitable for
// handing to an engine constructor. Unknown or null values become nil;
// numbers come back as float64.
func GoValue(v cty.Value) any {
	if v.IsNull() || !v.IsKnown() {
		return nil
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString()
	case ty == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f
	case ty == cty.Bool:
		return v.True()
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			out = append(out, GoValue(ev))
		}
		return out
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			out[k.AsString()] = GoValue(ev)
		}
		return out
	default:
		return nil
	}
}

// GoDefaults converts a whole defaults table with GoValue.
func GoDefaults(defaults map[string]cty.Value) map[string]any {
	if len(defaults) == 0 {
		return nil
	}
	out := make(map[string]any, len(defaults))
	for k, v := range defaults {
		out[k] = GoValue(v)
	}
	return out
}
