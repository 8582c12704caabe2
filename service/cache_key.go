package service

import (
	"encoding/json"
)

const (
	IsEnabledPrefix        = "isEnabled_"
	GetEnabledValuesPrefix = "getEnabledValues_"

	keyInfix = "FF_"
)

// CacheKey derives the cache key for an operation. encoding/json writes map
// keys in sorted order, so equal filters always produce equal keys; a nil
// filter encodes as "null".
func CacheKey(prefix, flagName string, filter map[string]string) string {
	encoded, err := json.Marshal(filter)
	if err != nil {
		// map[string]string always marshals
		encoded = []byte("null")
	}
	return prefix + keyInfix + flagName + string(encoded)
}
