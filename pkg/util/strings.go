package util

// ResolveParam returns the last supplied value when the parameter was present at
// all, even empty, and def otherwise. No coercion is applied.
func ResolveParam(values []string, def string) string {
    if len(values) == 0 {
        return def
    }
    return values[len(values)-1]
}

// FirstNonEmpty returns the first non-empty candidate, or "" if none.
func FirstNonEmpty(candidates ...string) string {
    for _, s := range candidates {
        if s != "" {
            return s
        }
    }
    return ""
}
