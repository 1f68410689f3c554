package pipeline

import "errors"

var (
	// ErrNoModulesRegistered is returned when a scan is started with an empty
	// module registry.
	ErrNoModulesRegistered = errors.New("no analysis modules registered")

	// errModulePanic marks a recovered module panic.
	errModulePanic = errors.New("module panicked")
)
