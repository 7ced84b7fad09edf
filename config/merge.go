package config

// mergeMaps deep-merges override into base. Nested maps merge key by key;
// any other value (including lists) in override replaces the base value.
func mergeMaps(base, override map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(base)+len(override))
	for k, v := range base {
		result[k] = v
	}

	for k, v := range override {
		overrideMap, overrideOk := v.(map[string]interface{})
		baseMap, baseOk := result[k].(map[string]interface{})
		if overrideOk && baseOk {
			result[k] = mergeMaps(baseMap, overrideMap)
			continue
		}
		result[k] = v
	}

	return result
}
