package sync

// ExtractIdentifier pulls a block UUID out of an insertBlock response.
// Logseq versions disagree on the response shape, so this is an ordered list
// of strategies, first hit wins:
//
//  1. the result is itself a string
//  2. a top-level "uuid", then "id" key holding a string
//  3. the same two keys inside a nested "block" object
//
// Anything else — including the keys present with non-string values — is
// "not found". When the API grows a new shape, this list is the one place
// to extend.
func ExtractIdentifier(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case map[string]any:
		if id, ok := stringKey(val, "uuid", "id"); ok {
			return id, true
		}
		if block, ok := val["block"].(map[string]any); ok {
			return stringKey(block, "uuid", "id")
		}
	}
	return "", false
}

func stringKey(m map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			return s, true
		}
	}
	return "", false
}
