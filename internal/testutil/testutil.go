// Package testutil provides test utilities for persona, including:
//   - Record fixtures for tasks and targets (fixtures.go)
//   - Miniredis helpers for unit tests (miniredis.go)
//   - Redis container helpers for integration tests (redis.go)
//
// Integration test utilities require Docker and are gated behind the "integration"
// build tag. To run integration tests:
//
//	go test -tags=integration ./...
//
// Unit test helpers (fixtures, miniredis) do not require Docker and work with regular tests.
package testutil
