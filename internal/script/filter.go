package script

import (
	"github.com/gobwas/glob"
)

// Filter matches task IDs against a glob pattern.
type Filter struct {
	g glob.Glob
}

// CompileFilter compiles pattern. An empty pattern matches every ID.
func CompileFilter(pattern string) (Filter, error) {
	if pattern == "" {
		return Filter{}, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return Filter{}, err
	}
	return Filter{g: g}, nil
}

// Match reports whether id passes the filter.
func (f Filter) Match(id string) bool {
	return f.g == nil || f.g.Match(id)
}
