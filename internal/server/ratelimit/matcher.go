package ratelimit

import "strings"

// MatchEndpoint returns the endpoint configuration whose route pattern best
// matches the request, or nil when none does.
//
// Patterns use the same shape as the server's mux routes: a segment written as
// {name} matches any single non-empty path segment, so "/admin/resumes/{id}"
// covers every resume. An empty Method matches all methods. When several
// configurations match, the one with more literal segments wins, and a method
// specific entry beats a method agnostic one.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	segments := splitPath(path)

	var best *EndpointConfig
	bestScore := -1
	for i := range configs {
		cfg := &configs[i]
		if cfg.Method != "" && cfg.Method != method {
			continue
		}
		literals, ok := matchSegments(splitPath(cfg.Path), segments)
		if !ok {
			continue
		}
		score := literals * 2
		if cfg.Method != "" {
			score++
		}
		if score > bestScore {
			best, bestScore = cfg, score
		}
	}
	return best
}

// matchSegments reports whether path fits pattern and how many of the
// pattern's segments were literals.
func matchSegments(pattern, path []string) (int, bool) {
	if len(pattern) != len(path) {
		return 0, false
	}
	literals := 0
	for i, seg := range pattern {
		if isParam(seg) {
			if path[i] == "" {
				return 0, false
			}
			continue
		}
		if seg != path[i] {
			return 0, false
		}
		literals++
	}
	return literals, true
}

func isParam(seg string) bool {
	return len(seg) > 2 && strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}")
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
