package redact

import (
	"fmt"
	"reflect"
)

// SanitizeFields returns a deep copy of a structured logging payload with
// the same shape, where leaf strings have been passed through
// SanitizeMessage and any value sitting under a sensitive key is replaced
// wholesale by the mask. Traversal handles maps, slices, arrays, structs
// and pointers at unbounded depth; a value that contains itself is cut at
// the back edge and masked instead of recursed into. Leaf kinds the engine
// does not understand are stringified and scanned rather than skipped.
func (e *Engine) SanitizeFields(value any) (out any) {
	// Fail closed: a payload the walk cannot handle must never escape
	// unredacted.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("structured payload could not be sanitized, suppressing value")
			out = UnloggableMask
		}
	}()

	return e.sanitizeValue(reflect.ValueOf(value), map[uintptr]struct{}{})
}

func (e *Engine) sanitizeValue(v reflect.Value, visited map[uintptr]struct{}) any {
	if !v.IsValid() {
		return nil
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return e.sanitizeValue(v.Elem(), visited)

	case reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		if _, seen := visited[v.Pointer()]; seen {
			return Mask
		}
		visited[v.Pointer()] = struct{}{}
		defer delete(visited, v.Pointer())
		return e.sanitizeValue(v.Elem(), visited)

	case reflect.String:
		return e.SanitizeMessage(v.String())

	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		if _, seen := visited[v.Pointer()]; seen {
			return Mask
		}
		visited[v.Pointer()] = struct{}{}
		defer delete(visited, v.Pointer())

		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			key := mapKeyString(iter.Key())
			if e.IsSensitiveKey(key) {
				// Sensitive keys mask the whole subtree before any
				// descent, so even the shape of the value stays out
				// of the logs.
				out[key] = Mask
				continue
			}
			out[key] = e.sanitizeValue(iter.Value(), visited)
		}
		return out

	case reflect.Slice:
		if v.IsNil() {
			return nil
		}
		if _, seen := visited[v.Pointer()]; seen {
			return Mask
		}
		visited[v.Pointer()] = struct{}{}
		defer delete(visited, v.Pointer())
		return e.sanitizeSequence(v, visited)

	case reflect.Array:
		return e.sanitizeSequence(v, visited)

	case reflect.Struct:
		out := make(map[string]any, v.NumField())
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			if e.IsSensitiveKey(field.Name) {
				out[field.Name] = Mask
				continue
			}
			out[field.Name] = e.sanitizeValue(v.Field(i), visited)
		}
		return out

	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return v.Interface()

	default:
		// Chans, funcs and anything else opaque: stringify and scan the
		// rendering rather than pass the value through unexamined.
		return e.SanitizeMessage(fmt.Sprint(v))
	}
}

func (e *Engine) sanitizeSequence(v reflect.Value, visited map[uintptr]struct{}) []any {
	out := make([]any, v.Len())
	for i := 0; i < v.Len(); i++ {
		out[i] = e.sanitizeValue(v.Index(i), visited)
	}
	return out
}

// mapKeyString renders a map key for sensitivity checks and output. Keys in
// structured logging payloads are nearly always strings; anything else is
// formatted.
func mapKeyString(k reflect.Value) string {
	if k.Kind() == reflect.Interface {
		if k.IsNil() {
			return "<nil>"
		}
		k = k.Elem()
	}
	if !k.IsValid() {
		return "<nil>"
	}
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}
