package live

import (
	"encoding/json"
)

// Merge combines a cached value with a frame payload: fields the frame
// carries win, fields it omits survive from the cached value. Nested objects
// merge recursively, anything else is replaced wholesale. The inputs are
// never mutated.
func Merge(base interface{}, patch map[string]interface{}) interface{} {
	return mergeMaps(toMap(base), patch)
}

func mergeMaps(base, patch map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(base)+len(patch))
	for k, v := range base {
		merged[k] = v
	}
	for k, patchVal := range patch {
		baseMap, baseIsMap := merged[k].(map[string]interface{})
		patchMap, patchIsMap := patchVal.(map[string]interface{})
		if baseIsMap && patchIsMap {
			merged[k] = mergeMaps(baseMap, patchMap)
		} else {
			merged[k] = patchVal
		}
	}
	return merged
}

// toMap views an arbitrary cached value as a field map. Typed structs go
// through a JSON round-trip, which matches how they came off the wire in the
// first place.
func toMap(value interface{}) map[string]interface{} {
	if value == nil {
		return nil
	}
	if m, ok := value.(map[string]interface{}); ok {
		return m
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
