package merge

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Data is a bag of response values keyed by field id or field label.
// Values are strings, numbers, booleans, string lists, or nil.
type Data map[string]any

// Clone returns a shallow copy of d. A nil map clones to an empty one.
func (d Data) Clone() Data {
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Resolution is the outcome of looking up one placeholder name.
// Key is the data key whose value was used; when nothing matched it is
// the placeholder name itself so later edits land under a stable key.
type Resolution struct {
	Found bool
	Value string
	Key   string
}

// Resolve finds the best value for a placeholder name in data.
// Lookup order: exact key match first, then a scan of all keys comparing
// normalized forms. Absence is reported through Found, never an error.
//
// Response data sometimes keys entries by field id and sometimes by field
// label; the normalized scan papers over that. When several keys normalize
// to the same name the scan takes the first in ascending key order, a
// deterministic tie-break for a data-quality problem upstream.
func Resolve(name string, data Data) Resolution {
	if v, ok := data[name]; ok {
		return Resolution{Found: true, Value: Stringify(v), Key: name}
	}

	want := Normalize(name)
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if Normalize(k) == want {
			return Resolution{Found: true, Value: Stringify(data[k]), Key: k}
		}
	}

	return Resolution{Found: false, Value: "", Key: name}
}

// Normalize lowercases s and collapses each run of whitespace to a single
// underscore, so "Full Name" and "full_name" compare equal.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "_")
}

// Stringify renders a data value as document text: lists join with ", ",
// nil becomes empty, scalars use their natural string form. Export and
// preview share this rule.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", val)
	}
}
