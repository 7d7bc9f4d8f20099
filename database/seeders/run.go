// Package seeders provides a registry of database seed functions.
//
// Usage (define a seeder in any file in this package):
//
//	func init() {
//	    seeders.Register("catalog", SeedCatalog)
//	}
//
//	func SeedCatalog(ctx context.Context, deps *Deps) error {
//	    // insert documents through the services …
//	    return nil
//	}
//
// Then run via CLI: aarohi seed
package seeders

import (
	"context"
	"fmt"
	"sync"

	"github.com/priyamehta/aarohi/app/services"
)

// Deps bundles the services seeders write through. Seeding goes through the
// service layer, not raw collections, so slug allocation, validation, and
// rating aggregation apply to seed data the same way they apply to API input.
type Deps struct {
	Catalog    *services.CatalogService
	Categories *services.CategoryService
	Auth       *services.AuthService
}

// SeederFunc is the signature for a seed function.
type SeederFunc func(ctx context.Context, deps *Deps) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder to the global registry.
// Call this from init() in your seeder files.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes every registered seeder in registration order.
// It stops on the first error.
func RunAll(ctx context.Context, deps *Deps) error {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	if len(current) == 0 {
		fmt.Println("  (no seeders registered)")
		return nil
	}

	for _, e := range current {
		fmt.Printf("  • Running seeder: %s … ", e.name)
		if err := e.fn(ctx, deps); err != nil {
			fmt.Println("FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Println("OK")
	}
	return nil
}
