/*
	Copyright NetFoundry Inc.

	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at

	https://www.apache.org/licenses/LICENSE-2.0

	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Package todo implements the todo list service: an in-memory record store and its JSON API.
package todo

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Priority string

const (
	Low    Priority = "low"
	Medium Priority = "medium"
	High   Priority = "high"
)

// ErrNotFound is returned for ids the Store does not hold.
var ErrNotFound = errors.New("todo not found")

// ErrInvalidPriority is returned for priorities other than low, medium and high.
var ErrInvalidPriority = errors.New("invalid priority")

// Validate returns ErrInvalidPriority unless p is one of the known priorities.
func (p Priority) Validate() error {
	switch p {
	case Low, Medium, High:
		return nil
	}
	return errors.Wrapf(ErrInvalidPriority, "priority [%s] must be one of low, medium, high", p)
}

type Todo struct {
	Id          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Completed   bool     `json:"completed"`
	Priority    Priority `json:"priority"`
	CreatedAt   string   `json:"created_at"`
}

// Update holds the fields of a partial update. Nil fields are left unchanged.
type Update struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Completed   *bool     `json:"completed"`
	Priority    *Priority `json:"priority"`
}

// Validate checks the fields present in the update.
func (u *Update) Validate() error {
	if u.Priority != nil {
		return u.Priority.Validate()
	}
	return nil
}

type StoreOption func(store *Store)

// WithClock sets the time source used for created_at.
func WithClock(now func() time.Time) StoreOption {
	return func(store *Store) {
		store.now = now
	}
}

// WithIdGenerator sets the generator used for new ids.
func WithIdGenerator(newId func() string) StoreOption {
	return func(store *Store) {
		store.newId = newId
	}
}

// Store holds todos in memory, in insertion order. It is safe for concurrent use and only ever hands out copies of
// its records.
type Store struct {
	mu    sync.RWMutex
	todos map[string]*Todo
	order []string
	now   func() time.Time
	newId func() string
}

func NewStore(options ...StoreOption) *Store {
	store := &Store{
		todos: map[string]*Todo{},
		now:   time.Now,
		newId: uuid.NewString,
	}

	for _, option := range options {
		option(store)
	}

	return store
}

// Create adds a new, incomplete todo. An empty priority means Medium.
func (store *Store) Create(title, description string, priority Priority) (Todo, error) {
	if priority == "" {
		priority = Medium
	}

	if err := priority.Validate(); err != nil {
		return Todo{}, err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	id := store.newId()
	if _, exists := store.todos[id]; exists {
		return Todo{}, errors.Errorf("generated id [%s] is already in use", id)
	}

	todo := &Todo{
		Id:          id,
		Title:       title,
		Description: description,
		Priority:    priority,
		CreatedAt:   store.now().Format(time.RFC3339Nano),
	}

	store.todos[id] = todo
	store.order = append(store.order, id)

	return *todo, nil
}

func (store *Store) Get(id string) (Todo, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	todo, ok := store.todos[id]
	if !ok {
		return Todo{}, notFound(id)
	}

	return *todo, nil
}

// List returns all todos in insertion order.
func (store *Store) List() []Todo {
	store.mu.RLock()
	defer store.mu.RUnlock()

	result := make([]Todo, 0, len(store.order))
	for _, id := range store.order {
		result = append(result, *store.todos[id])
	}

	return result
}

// Update applies the non-nil fields of update to the todo with the given id. An unknown id is reported before an
// invalid update.
func (store *Store) Update(id string, update Update) (Todo, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	todo, ok := store.todos[id]
	if !ok {
		return Todo{}, notFound(id)
	}

	if err := update.Validate(); err != nil {
		return Todo{}, err
	}

	if update.Title != nil {
		todo.Title = *update.Title
	}

	if update.Description != nil {
		todo.Description = *update.Description
	}

	if update.Completed != nil {
		todo.Completed = *update.Completed
	}

	if update.Priority != nil {
		todo.Priority = *update.Priority
	}

	return *todo, nil
}

// Toggle flips the completed flag of the todo with the given id.
func (store *Store) Toggle(id string) (Todo, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	todo, ok := store.todos[id]
	if !ok {
		return Todo{}, notFound(id)
	}

	todo.Completed = !todo.Completed
	return *todo, nil
}

func (store *Store) Delete(id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.todos[id]; !ok {
		return notFound(id)
	}

	delete(store.todos, id)

	for i, existing := range store.order {
		if existing == id {
			store.order = append(store.order[:i], store.order[i+1:]...)
			break
		}
	}

	return nil
}

// Count returns the number of todos held.
func (store *Store) Count() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.todos)
}

func notFound(id string) error {
	return errors.Wrapf(ErrNotFound, "id [%s]", id)
}
