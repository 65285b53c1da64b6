package interfaces

import "github.com/goliatone/go-press/pkg/storage"

// StorageProvider re-exports the storage contract for consumers that only
// import the interfaces package.
type StorageProvider = storage.Provider

// Rows aliases the storage.Rows type.
type Rows = storage.Rows

// Result aliases the storage.Result type.
type Result = storage.Result
