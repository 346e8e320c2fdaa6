package worklog

// LookupFunc reports the value of an environment-style setting and whether it was present.
// os.LookupEnv is the production implementation.
type LookupFunc func(key string) (string, bool)

// MapLookup adapts a plain map to a LookupFunc.
func MapLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func getOrDefault(lookup LookupFunc, key, defaultValue string) string {
	value, _ := lookup(key)
	if value == "" {
		return defaultValue
	}

	return value
}
