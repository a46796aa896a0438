package lang

import (
	"encoding/json"
)

// MarshalJSON implements json.Marshaler for Expr.
func (e *Expr) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToNative())
}

// ToNative converts the expression tree to native Go maps:
//
//	{"type": "real", "value": 1.5}
//	{"ref": "L"}
//	{"op": "neg", "operand": {...}}
//	{"op": "add", "left": {...}, "right": {...}}
func (e *Expr) ToNative() map[string]any {
	if e == nil {
		return nil
	}

	switch e.kind {
	case KindLiteral:
		return map[string]any{
			"type":  e.value.Type().String(),
			"value": e.value.Native(),
		}

	case KindReference:
		return map[string]any{"ref": e.name}

	case KindUnary:
		return map[string]any{
			"op":      e.op.String(),
			"operand": e.left.ToNative(),
		}

	default:
		return map[string]any{
			"op":    e.op.String(),
			"left":  e.left.ToNative(),
			"right": e.right.ToNative(),
		}
	}
}

// ToMap converts the declarations to a native Go map keyed by name.
//
// Each entry holds the declared type and modifier, the rendered expression,
// and its resolved value. If the expression cannot be resolved, the entry
// holds the error text in place of the value.
func (s *Session) ToMap() map[string]any {
	result := make(map[string]any, len(s.decls))

	for d := range s.All() {
		entry := map[string]any{
			"type":     d.typ.String(),
			"modifier": d.modifier.String(),
			"expr":     Render(d.bound),
		}

		if n, err := s.Resolve(d); err != nil {
			entry["error"] = err.Error()
		} else {
			entry["value"] = n.Native()
		}

		result[d.name] = entry
	}

	return result
}
