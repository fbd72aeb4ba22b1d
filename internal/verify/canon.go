package verify

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Canon normalizes a scalar into the comparable string form used by every
// equality check in the engine. Null and absent values become the empty
// string; everything else becomes its minimal, locale-independent string
// representation, trimmed of surrounding whitespace. The same function is
// applied to snapshot values and store values, so integer 7 and string "7"
// always land on the same canonical form.
func Canon(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case []byte:
		return strings.TrimSpace(string(x))
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.FormatInt(int64(x), 10)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		// JSON numbers decode as float64; 'f' with -1 precision renders
		// whole values without a trailing ".0", matching integer columns.
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		// Exact integers stay exact (snapshot ids above 2^53 must still
		// equal the store's int64); non-integral forms like "7.0" are
		// normalized through the float path.
		if i, err := x.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		if f, err := x.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return strings.TrimSpace(x.String())
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

// KeyTuple joins already-ordered key values into the canonical pipe form.
func KeyTuple(vals []any) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = Canon(v)
	}
	return strings.Join(parts, "|")
}
