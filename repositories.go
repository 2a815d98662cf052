/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package kvbridge

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	kverrors "github.com/suparena/kvbridge/errors"
)

// Repositories keeps named repositories of any element type. It is safe for
// concurrent use.
type Repositories struct {
	mu    sync.RWMutex
	repos map[reflect.Type]map[string]any
}

// NewRepositories creates an empty set of repositories.
func NewRepositories() *Repositories {
	return &Repositories{repos: make(map[reflect.Type]map[string]any)}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// RegisterRepository adds repo under name for element type T.
func RegisterRepository[T any](rs *Repositories, name string, repo *Repository[T]) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	typ := typeOf[T]()
	byName := rs.repos[typ]
	if byName == nil {
		byName = make(map[string]any)
		rs.repos[typ] = byName
	}
	if _, exists := byName[name]; exists {
		return fmt.Errorf("repository %q already registered for %s", name, typ)
	}
	byName[name] = repo
	return nil
}

// GetRepository returns the repository registered under name for T.
func GetRepository[T any](rs *Repositories, name string) (*Repository[T], error) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	repo, ok := rs.repos[typeOf[T]()][name]
	if !ok {
		return nil, kverrors.NewNotFoundError("repository", name)
	}
	return repo.(*Repository[T]), nil
}

// RemoveRepository deletes the repository registered under name for T.
func RemoveRepository[T any](rs *Repositories, name string) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	byName := rs.repos[typeOf[T]()]
	if _, ok := byName[name]; !ok {
		return kverrors.NewNotFoundError("repository", name)
	}
	delete(byName, name)
	return nil
}

// List returns every registered name, sorted, across all element types.
func (rs *Repositories) List() []string {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	var names []string
	for _, byName := range rs.repos {
		for name := range byName {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
