// Package navigation declares the page routes of the client and the guard
// that gates every transition between them.
package navigation

import (
	"fmt"
	"net/url"
	"strings"

	"hotelguru/internal/domain"
)

// Route describes one page. Child paths without a leading slash are joined
// to the parent path.
type Route struct {
	Path         string
	Name         string
	RequiresAuth bool
	Roles        []string
	Children     []Route
}

// Location is a navigation target given by name or by path
type Location struct {
	Name   string
	Path   string
	Params map[string]string
	Query  url.Values
}

// FullPath returns the path with its encoded query string
func (l Location) FullPath() string {
	if len(l.Query) == 0 {
		return l.Path
	}
	return l.Path + "?" + l.Query.Encode()
}

// Resolved is a location matched against the table. Matched holds the route
// chain from root to leaf and is empty for unknown paths.
type Resolved struct {
	Location
	Matched []Route
}

// Found reports whether the location matched a route
func (r Resolved) Found() bool {
	return len(r.Matched) > 0
}

// RequiresAuth reports whether any route in the chain requires a session
func (r Resolved) RequiresAuth() bool {
	for _, route := range r.Matched {
		if route.RequiresAuth {
			return true
		}
	}
	return false
}

// RequiredRoles is the union of the roles declared along the chain
func (r Resolved) RequiredRoles() []string {
	var roles []string
	seen := make(map[string]bool)
	for _, route := range r.Matched {
		for _, role := range route.Roles {
			if !seen[role] {
				seen[role] = true
				roles = append(roles, role)
			}
		}
	}
	return roles
}

type entry struct {
	path     string
	segments []string
	chain    []Route
}

func (e entry) leaf() Route {
	return e.chain[len(e.chain)-1]
}

// Table is the static route table
type Table struct {
	entries []entry
	byName  map[string]int
}

// NewTable flattens routes into a table. Names must be unique.
func NewTable(routes []Route) (*Table, error) {
	t := &Table{byName: make(map[string]int)}
	if err := t.add("", nil, routes); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) add(base string, parents []Route, routes []Route) error {
	for _, r := range routes {
		full := r.Path
		if !strings.HasPrefix(full, "/") {
			full = strings.TrimRight(base, "/") + "/" + full
		}
		full = cleanPath(full)

		chain := make([]Route, len(parents), len(parents)+1)
		copy(chain, parents)
		chain = append(chain, r)

		if r.Name != "" {
			if _, dup := t.byName[r.Name]; dup {
				return fmt.Errorf("duplicate route name %q", r.Name)
			}
			t.byName[r.Name] = len(t.entries)
		}
		t.entries = append(t.entries, entry{path: full, segments: splitPath(full), chain: chain})

		if err := t.add(full, chain, r.Children); err != nil {
			return err
		}
	}
	return nil
}

// Match returns the route chain for path, preferring the route with the
// most static segments and then declaration order
func (t *Table) Match(path string) ([]Route, map[string]string, bool) {
	segments := splitPath(cleanPath(path))

	best, bestScore := -1, -1
	var bestParams map[string]string
	for i, e := range t.entries {
		params, score, ok := matchSegments(e.segments, segments)
		if ok && score > bestScore {
			best, bestScore, bestParams = i, score, params
		}
	}
	if best < 0 {
		return nil, nil, false
	}
	chain := make([]Route, len(t.entries[best].chain))
	copy(chain, t.entries[best].chain)
	return chain, bestParams, true
}

// Resolve fills in the path or the name of loc and matches it
func (t *Table) Resolve(loc Location) (Resolved, error) {
	if loc.Name != "" {
		i, ok := t.byName[loc.Name]
		if !ok {
			return Resolved{}, fmt.Errorf("%w: name %q", domain.ErrRouteNotFound, loc.Name)
		}
		e := t.entries[i]
		path, err := buildPath(e.segments, loc.Params)
		if err != nil {
			return Resolved{}, err
		}
		loc.Path = path
		chain := make([]Route, len(e.chain))
		copy(chain, e.chain)
		return Resolved{Location: loc, Matched: chain}, nil
	}

	if loc.Path == "" {
		loc.Path = "/"
	}
	if u, err := url.Parse(loc.Path); err == nil && u.RawQuery != "" {
		loc.Path = u.Path
		if loc.Query == nil {
			loc.Query = u.Query()
		}
	}
	loc.Path = cleanPath(loc.Path)

	chain, params, ok := t.Match(loc.Path)
	if !ok {
		return Resolved{Location: loc}, nil
	}
	loc.Name = chain[len(chain)-1].Name
	loc.Params = params
	return Resolved{Location: loc, Matched: chain}, nil
}

// Routes lists every route with its full path, in declaration order
func (t *Table) Routes() []Route {
	out := make([]Route, 0, len(t.entries))
	for _, e := range t.entries {
		r := e.leaf()
		r.Path = e.path
		r.Children = nil
		out = append(out, r)
	}
	return out
}

func matchSegments(pattern, segments []string) (map[string]string, int, bool) {
	if len(pattern) != len(segments) {
		return nil, 0, false
	}
	params := make(map[string]string)
	score := 0
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if segments[i] == "" {
				return nil, 0, false
			}
			params[p[1:]] = segments[i]
			continue
		}
		if p != segments[i] {
			return nil, 0, false
		}
		score++
	}
	return params, score, true
}

func buildPath(pattern []string, params map[string]string) (string, error) {
	if len(pattern) == 0 {
		return "/", nil
	}
	parts := make([]string, len(pattern))
	for i, p := range pattern {
		if !strings.HasPrefix(p, ":") {
			parts[i] = p
			continue
		}
		v, ok := params[p[1:]]
		if !ok || v == "" {
			return "", fmt.Errorf("missing route param %q", p[1:])
		}
		parts[i] = url.PathEscape(v)
	}
	return "/" + strings.Join(parts, "/"), nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func cleanPath(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(path, "/")
}
