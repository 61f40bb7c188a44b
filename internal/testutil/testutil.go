// Package testutil provides test doubles shared across packages:
//   - a recording JobsClient that captures submitted job specs (jobs.go)
//   - a config fixture helper (fixtures.go)
//
// Blob storage tests use storage.NewMemoryStore directly; it is part of
// the production surface, not a test double.
package testutil
