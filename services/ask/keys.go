package ask

// ResolveKeys merges caller-supplied credentials with process defaults,
// independently per provider. A caller value wins only when it is a
// non-empty string; JSON null, empty strings and non-string values all
// fall through to the default. Providers with no key from either source
// are left out of the result and will not be dispatched.
func ResolveKeys(query *Query, defaults map[string]string, known []string) map[string]string {
	resolved := make(map[string]string, len(known))

	for _, name := range known {
		if raw, ok := query.APIKeys[name]; ok {
			if key, ok := raw.(string); ok && key != "" {
				resolved[name] = key
				continue
			}
		}
		if key := defaults[name]; key != "" {
			resolved[name] = key
		}
	}

	return resolved
}
