package dynaprop

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"

	"github.com/reoring/dynaprop/shape"
)

// Leaf validation is kind-exact: an int is not an int64 and a rune is
// not an int. The one sanctioned coercion is textual numbers
// (json.Number) into the declared numeric kind, with range checks.

func zeroOf(t shape.Type) any {
	switch t.Kind {
	case shape.Bool:
		return false
	case shape.Byte:
		return byte(0)
	case shape.Int16:
		return int16(0)
	case shape.Rune:
		return rune(0)
	case shape.Int:
		return 0
	case shape.Int64:
		return int64(0)
	case shape.Float32:
		return float32(0)
	case shape.Float64:
		return float64(0)
	case shape.String:
		return ""
	default:
		return nil
	}
}

// coerceScalar validates v against a scalar declared type and returns
// the stored representation. Interface kinds are handled by the builder,
// not here.
func coerceScalar(pathStr string, t shape.Type, v any, strict Strictness) (any, Issues) {
	if v == nil {
		if t.Kind == shape.Opaque {
			return nil, nil
		}
		return nil, oneIssue(typeIssue(pathStr, t, "null"))
	}
	switch t.Kind {
	case shape.Bool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case shape.Byte:
		if n, ok := v.(byte); ok {
			return n, nil
		}
		if num, ok := v.(json.Number); ok {
			return coerceInt(pathStr, t, num, 0, math.MaxUint8)
		}
	case shape.Int16:
		if n, ok := v.(int16); ok {
			return n, nil
		}
		if num, ok := v.(json.Number); ok {
			return coerceInt(pathStr, t, num, math.MinInt16, math.MaxInt16)
		}
	case shape.Rune:
		if n, ok := v.(rune); ok {
			return n, nil
		}
		if num, ok := v.(json.Number); ok {
			return coerceInt(pathStr, t, num, math.MinInt32, math.MaxInt32)
		}
	case shape.Int:
		if n, ok := v.(int); ok {
			return n, nil
		}
		if num, ok := v.(json.Number); ok {
			return coerceInt(pathStr, t, num, math.MinInt, math.MaxInt)
		}
	case shape.Int64:
		if n, ok := v.(int64); ok {
			return n, nil
		}
		if num, ok := v.(json.Number); ok {
			return coerceInt(pathStr, t, num, math.MinInt64, math.MaxInt64)
		}
	case shape.Float32:
		if f, ok := v.(float32); ok {
			return checkFloat(pathStr, t, float64(f), strict)
		}
		if num, ok := v.(json.Number); ok {
			return coerceFloat(pathStr, t, num, strict)
		}
	case shape.Float64:
		if f, ok := v.(float64); ok {
			return checkFloat(pathStr, t, f, strict)
		}
		if num, ok := v.(json.Number); ok {
			return coerceFloat(pathStr, t, num, strict)
		}
	case shape.String:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case shape.Opaque:
		if t.Go == nil {
			return v, nil
		}
		if sameGoType(v, t) {
			return v, nil
		}
	}
	return nil, oneIssue(typeIssue(pathStr, t, typeName(v)))
}

func coerceInt(pathStr string, t shape.Type, num json.Number, min, max int64) (any, Issues) {
	n, err := strconv.ParseInt(num.String(), 10, 64)
	if err != nil {
		// Distinguish "not an integer" from "does not fit".
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return nil, oneIssue(overflowIssue(pathStr, t, num.String()))
		}
		return nil, oneIssue(typeIssue(pathStr, t, num.String()))
	}
	if n < min || n > max {
		return nil, oneIssue(overflowIssue(pathStr, t, num.String()))
	}
	switch t.Kind {
	case shape.Byte:
		return byte(n), nil
	case shape.Int16:
		return int16(n), nil
	case shape.Rune:
		return rune(n), nil
	case shape.Int:
		return int(n), nil
	default:
		return n, nil
	}
}

func coerceFloat(pathStr string, t shape.Type, num json.Number, strict Strictness) (any, Issues) {
	f, err := strconv.ParseFloat(num.String(), 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return nil, oneIssue(overflowIssue(pathStr, t, num.String()))
		}
		return nil, oneIssue(typeIssue(pathStr, t, num.String()))
	}
	return checkFloat(pathStr, t, f, strict)
}

func checkFloat(pathStr string, t shape.Type, f float64, strict Strictness) (any, Issues) {
	if !strict.AllowNaN && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil, oneIssue(overflowIssue(pathStr, t, strconv.FormatFloat(f, 'g', -1, 64)))
	}
	if t.Kind == shape.Float32 {
		if !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
			return nil, oneIssue(overflowIssue(pathStr, t, strconv.FormatFloat(f, 'g', -1, 64)))
		}
		return float32(f), nil
	}
	return f, nil
}

func typeIssue(pathStr string, t shape.Type, got string) Issue {
	return issueAt(pathStr, CodeTypeMismatch, map[string]string{
		"expected": t.String(),
		"got":      got,
	})
}

func overflowIssue(pathStr string, t shape.Type, got string) Issue {
	return issueAt(pathStr, CodeOverflow, map[string]string{
		"expected": t.String(),
		"got":      got,
	})
}

func typeName(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case byte:
		return "byte"
	case int16:
		return "int16"
	case rune:
		return "rune"
	case int:
		return "int"
	case int64:
		return "int64"
	case float32:
		return "float32"
	case float64:
		return "float64"
	case string:
		return "string"
	case json.Number:
		return "number " + x.String()
	case *Values:
		return "values"
	case *Instance:
		return "instance " + x.Shape().Name()
	case []any:
		return "sequence"
	default:
		return reflect.TypeOf(v).String()
	}
}

func sameGoType(v any, t shape.Type) bool {
	return t.Go != nil && reflect.TypeOf(v) == t.Go
}
