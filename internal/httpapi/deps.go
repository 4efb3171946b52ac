package httpapi

import (
	"context"
	"sync/atomic"

	"internfinder-engine/internal/config"
	"internfinder-engine/internal/domain"
	"internfinder-engine/internal/events"
)

// RunStatus is the engine's view of the most recent reconciliation run.
type RunStatus struct {
	Running   bool   `json:"running"`
	LastRunAt string `json:"last_run_at,omitempty"`
	LastOkAt  string `json:"last_ok_at,omitempty"`
	LastAdded int    `json:"last_added"`
	LastError string `json:"last_error,omitempty"`
}

type Deps struct {
	Hub *events.Hub

	// Atomic stores
	CfgVal    *atomic.Value // stores config.Config
	RunStatus *atomic.Value // stores httpapi.RunStatus

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Store read access
	LoadListings func(ctx context.Context) ([]domain.Listing, error)

	// Reconciliation entrypoint (inject for testability). The implementation
	// serializes runs, maintains RunStatus, and fails fast when one is
	// already in flight.
	RunOnce func(ctx context.Context) (added int, err error)
}
