package app

import (
	"math/rand/v2"
	"time"

	"treasuregate/internal/catalog"
	"treasuregate/internal/state"
	"treasuregate/internal/telemetry"
	"treasuregate/internal/ui"
)

// Deps are the collaborators New builds from a Config. Tests pass fakes
// through NewWithDeps. Nil Rand, After and Now get real implementations.
type Deps struct {
	Logger  telemetry.Logger
	Store   state.Store
	Catalog *catalog.Catalog
	View    ui.View
	Rand    *rand.Rand
	// After schedules fn once after d. It must not run fn synchronously.
	After func(d time.Duration, fn func())
	Now   func() time.Time
}

func afterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}
