// Package registry maps curated task names to tasks. A task declared as
// "core:deploy" is registered as "deploy"; the dropped segment is its prefix,
// used only to group tasks in help output.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dotandev/tooling/internal/task"
)

var (
	// ErrUnknownTask is returned for names that are not registered.
	ErrUnknownTask = errors.New("task not found")
	// ErrDuplicateTask is returned when two tasks share a curated name.
	ErrDuplicateTask = errors.New("duplicate task")
)

// Entry is a registered task.
type Entry struct {
	task.Task
	CuratedName string
	Prefix      string
}

// Group is a set of entries sharing a prefix.
type Group struct {
	Prefix  string
	Entries []Entry
}

// Registry is read-only once built.
type Registry struct {
	entries map[string]Entry
}

// CuratedName splits a declared task name into its prefix and curated name.
// Names without a colon have no prefix.
func CuratedName(name string) (prefix, curated string) {
	prefix, curated, ok := strings.Cut(name, ":")
	if !ok {
		return "", name
	}
	return prefix, curated
}

// Build registers every task. Two tasks that resolve to the same curated
// name are rejected.
func Build(tasks []task.Task) (*Registry, error) {
	r := &Registry{entries: make(map[string]Entry, len(tasks))}
	for _, t := range tasks {
		if t.Run == nil {
			return nil, fmt.Errorf("task %s has no entry point", t.Meta.Name)
		}
		prefix, curated := CuratedName(t.Meta.Name)
		if curated == "" {
			return nil, fmt.Errorf("task %q has an empty name", t.Meta.Name)
		}
		if prev, exists := r.entries[curated]; exists {
			return nil, fmt.Errorf("%w: %s and %s both register as %q",
				ErrDuplicateTask, prev.Meta.Name, t.Meta.Name, curated)
		}
		r.entries[curated] = Entry{Task: t, CuratedName: curated, Prefix: prefix}
	}
	return r, nil
}

// MustBuild is Build for static task tables; it panics on error.
func MustBuild(tasks []task.Task) *Registry {
	r, err := Build(tasks)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the entry registered under curated.
func (r *Registry) Lookup(curated string) (Entry, bool) {
	e, ok := r.entries[curated]
	return e, ok
}

// Len returns the number of registered tasks.
func (r *Registry) Len() int {
	return len(r.entries)
}

// List returns all entries ordered by curated name.
func (r *Registry) List() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CuratedName < out[j].CuratedName
	})
	return out
}

// Groups returns entries grouped by prefix, prefixes in ascending order and
// entries by curated name within each group.
func (r *Registry) Groups() []Group {
	var groups []Group
	index := make(map[string]int)
	for _, e := range r.List() {
		i, ok := index[e.Prefix]
		if !ok {
			i = len(groups)
			index[e.Prefix] = i
			groups = append(groups, Group{Prefix: e.Prefix})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Prefix < groups[j].Prefix
	})
	return groups
}
