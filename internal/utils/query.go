package utils

import (
	"net/url"
	"strconv"
)

// QueryInt reads an integer query parameter, falling back to def when the
// parameter is absent or not a number. Callers decide what range is sensible.
func QueryInt(q url.Values, key string, def int) int {
	v := q.Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
