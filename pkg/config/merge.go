package config

import "fmt"

// replacedLists are list-valued settings that behave like scalars: the
// higher layer replaces the lower one instead of extending it.
var replacedLists = map[string]bool{
	"packages":    true,
	"auto_deploy": true,
}

// mergeMaps merges src into dest. Nested maps merge recursively, lists
// merge as a deduplicated union in first-seen order unless the key is in
// replacedLists, everything else is overwritten.
func mergeMaps(dest, src map[string]interface{}) {
	for key, srcVal := range src {
		destVal, destOk := dest[key]
		if !destOk {
			dest[key] = copyValue(srcVal)
			continue
		}

		if srcMap, srcOk := srcVal.(map[string]interface{}); srcOk {
			if destMap, destOk := destVal.(map[string]interface{}); destOk {
				mergeMaps(destMap, srcMap)
				continue
			}
		}

		if isSlice(srcVal) && isSlice(destVal) && !replacedLists[key] {
			dest[key] = unionSlices(destVal, srcVal)
			continue
		}

		dest[key] = copyValue(srcVal)
	}
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = copyValue(val)
		}
		return out
	case []interface{}:
		return append([]interface{}(nil), t...)
	case []string:
		return toInterfaceSlice(t)
	}
	return v
}

func isSlice(v interface{}) bool {
	switch v.(type) {
	case []interface{}, []string:
		return true
	default:
		return false
	}
}

func unionSlices(dest, src interface{}) []interface{} {
	seen := map[string]bool{}
	out := []interface{}{}
	for _, list := range [][]interface{}{toInterfaceSlice(dest), toInterfaceSlice(src)} {
		for _, v := range list {
			key := fmt.Sprint(v)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, v)
		}
	}
	return out
}

func toInterfaceSlice(v interface{}) []interface{} {
	switch s := v.(type) {
	case []interface{}:
		return s
	case []string:
		result := make([]interface{}, len(s))
		for i, v := range s {
			result[i] = v
		}
		return result
	default:
		return []interface{}{}
	}
}
