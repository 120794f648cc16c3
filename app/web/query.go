package web

import (
	"fmt"
	"html/template"
	"net/url"
)

// updateQuery copies current and applies key/value pairs to it. An empty
// value removes the key, so links never carry "?page=".
func updateQuery(current url.Values, pairs ...any) (template.URL, error) {
	if len(pairs)%2 != 0 {
		return "", fmt.Errorf("query: odd number of arguments")
	}

	params := make(url.Values, len(current))
	for key, values := range current {
		params[key] = append([]string(nil), values...)
	}

	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return "", fmt.Errorf("query: key %v is not a string", pairs[i])
		}

		value := ""
		if pairs[i+1] != nil {
			value = fmt.Sprint(pairs[i+1])
		}

		if value == "" {
			params.Del(key)
		} else {
			params.Set(key, value)
		}
	}

	return template.URL("?" + params.Encode()), nil
}
