package ratelimit

import "strings"

// unlimited paths are never throttled.
var unlimited = map[string]bool{
	"/health": true,
}

// MatchEndpoint returns the configuration for a request path and method, or nil
// when the default limit applies. Exact paths win over prefixes ending in "/".
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if unlimited[path] && method == "GET" {
		return &EndpointConfig{Path: path, Method: method}
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}

	return nil
}
