package tree

import (
	"math/big"
	"strconv"

	"go.branchpoint.dev/confupdate/route"
)

// GetString returns the value at r coerced to a string, and whether it was
// present and coercible.
func (s *Section) GetString(r route.Route) (string, bool) {
	v, ok := s.Get(r)
	if !ok {
		return "", false
	}

	return coerceString(v)
}

// GetStringOrDefault is [Section.GetString] with a fallback.
func (s *Section) GetStringOrDefault(r route.Route, def string) string {
	if v, ok := s.GetString(r); ok {
		return v
	}

	return def
}

func coerceString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true
	default:
		return "", false
	}
}

// GetChar returns the value at r coerced to a single rune.
func (s *Section) GetChar(r route.Route) (rune, bool) {
	str, ok := s.GetString(r)
	if !ok {
		return 0, false
	}

	runes := []rune(str)
	if len(runes) != 1 {
		return 0, false
	}

	return runes[0], true
}

// GetCharOrDefault is [Section.GetChar] with a fallback.
func (s *Section) GetCharOrDefault(r route.Route, def rune) rune {
	if v, ok := s.GetChar(r); ok {
		return v
	}

	return def
}

// GetBool returns the value at r coerced to a bool.
func (s *Section) GetBool(r route.Route) (bool, bool) {
	v, ok := s.Get(r)
	if !ok {
		return false, false
	}

	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(x)

		return b, err == nil
	default:
		return false, false
	}
}

// GetBoolOrDefault is [Section.GetBool] with a fallback.
func (s *Section) GetBoolOrDefault(r route.Route, def bool) bool {
	if v, ok := s.GetBool(r); ok {
		return v
	}

	return def
}

// GetInt64 returns the value at r coerced to an int64. This accessor also
// serves the spec's byte/short/int/long accessor family; callers needing a
// narrower width should range-check the result themselves.
func (s *Section) GetInt64(r route.Route) (int64, bool) {
	v, ok := s.Get(r)
	if !ok {
		return 0, false
	}

	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		if x == float64(int64(x)) {
			return int64(x), true
		}

		return 0, false
	case string:
		n, err := strconv.ParseInt(x, 10, 64)

		return n, err == nil
	default:
		return 0, false
	}
}

// GetInt64OrDefault is [Section.GetInt64] with a fallback.
func (s *Section) GetInt64OrDefault(r route.Route, def int64) int64 {
	if v, ok := s.GetInt64(r); ok {
		return v
	}

	return def
}

// GetFloat64 returns the value at r coerced to a float64. This accessor
// also serves the spec's float/double accessor family.
func (s *Section) GetFloat64(r route.Route) (float64, bool) {
	v, ok := s.Get(r)
	if !ok {
		return 0, false
	}

	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)

		return f, err == nil
	default:
		return 0, false
	}
}

// GetFloat64OrDefault is [Section.GetFloat64] with a fallback.
func (s *Section) GetFloat64OrDefault(r route.Route, def float64) float64 {
	if v, ok := s.GetFloat64(r); ok {
		return v
	}

	return def
}

// GetBigInt returns the value at r coerced to an arbitrary-precision
// integer, serving the spec's "bigint" accessor.
func (s *Section) GetBigInt(r route.Route) (*big.Int, bool) {
	v, ok := s.Get(r)
	if !ok {
		return nil, false
	}

	switch x := v.(type) {
	case *big.Int:
		return new(big.Int).Set(x), true
	case int64:
		return big.NewInt(x), true
	case string:
		n, ok := new(big.Int).SetString(x, 10)

		return n, ok
	default:
		return nil, false
	}
}

// GetBigIntOrDefault is [Section.GetBigInt] with a fallback.
func (s *Section) GetBigIntOrDefault(r route.Route, def *big.Int) *big.Int {
	if v, ok := s.GetBigInt(r); ok {
		return v
	}

	return def
}

// GetList returns the value at r coerced to a []any.
func (s *Section) GetList(r route.Route) ([]any, bool) {
	v, ok := s.Get(r)
	if !ok {
		return nil, false
	}

	list, ok := v.([]any)

	return list, ok
}

// GetListOrDefault is [Section.GetList] with a fallback.
func (s *Section) GetListOrDefault(r route.Route, def []any) []any {
	if v, ok := s.GetList(r); ok {
		return v
	}

	return def
}

// GetStringList returns the value at r coerced to a []string. Every
// element must itself be string-coercible or the whole accessor fails.
func (s *Section) GetStringList(r route.Route) ([]string, bool) {
	list, ok := s.GetList(r)
	if !ok {
		return nil, false
	}

	out := make([]string, len(list))

	for i, v := range list {
		str, ok := coerceString(v)
		if !ok {
			return nil, false
		}

		out[i] = str
	}

	return out, true
}

// GetInt64List returns the value at r coerced to a []int64. Every element
// must itself be int-coercible or the whole accessor fails.
func (s *Section) GetInt64List(r route.Route) ([]int64, bool) {
	list, ok := s.GetList(r)
	if !ok {
		return nil, false
	}

	out := make([]int64, len(list))

	for i, v := range list {
		switch x := v.(type) {
		case int64:
			out[i] = x
		case int:
			out[i] = int64(x)
		default:
			return nil, false
		}
	}

	return out, true
}

// GetInt64ListOrDefault is [Section.GetInt64List] with a fallback.
func (s *Section) GetInt64ListOrDefault(r route.Route, def []int64) []int64 {
	if v, ok := s.GetInt64List(r); ok {
		return v
	}

	return def
}

// GetStringListOrDefault is [Section.GetStringList] with a fallback.
func (s *Section) GetStringListOrDefault(r route.Route, def []string) []string {
	if v, ok := s.GetStringList(r); ok {
		return v
	}

	return def
}
