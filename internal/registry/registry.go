// Package registry provides a global registry for turtle program factories.
// Programs register themselves in init() functions, allowing the CLI and
// the menus to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-turtle/internal/canvas"
)

// Program is a turtle drawing that can be replayed on any screen.
// Programs only create turtles and enqueue their commands; the frame loop
// that animates them belongs to the caller.
type Program interface {
	// ID returns a unique identifier (e.g., "square", "tree").
	// Used for CLI commands and drawing storage.
	ID() string

	// Title returns a human-readable name for display (e.g., "Fractal tree").
	Title() string

	// Setup creates the program's turtles on s and queues their commands.
	Setup(s *canvas.Screen) error
}

// ProgramInfo contains metadata about a registered program.
type ProgramInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a program.
type Factory func() Program

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a program factory to the registry.
// Typically called from an init() function.
// Panics if a program with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: program %q already registered", id))
	}

	factories[id] = f

	// Get title by creating a temporary instance
	titles[id] = f().Title()
}

// List returns information about all registered programs, sorted by ID.
func List() []ProgramInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]ProgramInfo, 0, len(factories))
	for id := range factories {
		result = append(result, ProgramInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new program by its ID.
// Returns an error if the program ID is not registered.
func Create(id string) (Program, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown program %q", id)
	}

	return f(), nil
}

// Exists checks if a program with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
