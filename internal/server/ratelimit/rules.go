package ratelimit

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Rule limits one method and path. A Path ending in "/" matches by prefix.
type Rule struct {
	Method string
	Path   string
	Limit  int           // requests per Window
	Window time.Duration
	Burst  int           // defaults to Limit
}

func (r Rule) key() string {
	return r.Method + " " + r.Path
}

func (r Rule) refill() rate.Limit {
	return rate.Every(r.Window / time.Duration(r.Limit))
}

func (r Rule) burst() int {
	if r.Burst > 0 {
		return r.Burst
	}
	return r.Limit
}

// WriteRules limits every mutating applications endpoint to perMinute requests
// per client, with a burst of a sixth of that.
func WriteRules(perMinute int) []Rule {
	burst := max(perMinute/6, 1)
	rule := func(method, path string) Rule {
		return Rule{Method: method, Path: path, Limit: perMinute, Window: time.Minute, Burst: burst}
	}
	return []Rule{
		rule(http.MethodPost, "/applications"),
		rule(http.MethodPost, "/applications/"),
		rule(http.MethodPatch, "/applications/"),
		rule(http.MethodDelete, "/applications/"),
	}
}

// Match finds the rule for method and path. Exact paths win over prefixes.
// Health checks are never limited.
func Match(method, path string, rules []Rule) (Rule, bool) {
	if path == "/health" {
		return Rule{}, true
	}

	for _, r := range rules {
		if r.Method == method && r.Path == path {
			return r, true
		}
	}
	for _, r := range rules {
		if r.Method == method && strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			return r, true
		}
	}
	return Rule{}, false
}
