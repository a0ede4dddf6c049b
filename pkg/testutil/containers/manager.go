//go:build integration

// Package containers starts the backing services integration suites run
// against. Containers are shared across suites in one test binary; Ryuk
// removes them when the process exits.
package containers

import "sync"

// Manager lazily starts each container at most once.
type Manager struct {
	redisOnce sync.Once
	redis     *RedisContainer
	redisErr  error

	postgresOnce sync.Once
	postgres     *PostgresContainer
	postgresErr  error

	redpandaOnce sync.Once
	redpanda     *RedpandaContainer
	redpandaErr  error
}

var (
	managerOnce sync.Once
	manager     *Manager
)

// GetManager returns the process-wide manager.
func GetManager() *Manager {
	managerOnce.Do(func() { manager = &Manager{} })
	return manager
}
