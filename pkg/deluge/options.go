package deluge

import (
	"runtime"

	"github.com/mkawalec/deluge/pkg/helpers"
)

// Unbounded disables the concurrency limit: Collect and friends evaluate
// every loaded element computation simultaneously. This is the default for
// the single-driver terminals.
const Unbounded = 0

// EnvWorkers overrides the default worker count of the parallel driver.
const EnvWorkers = "DELUGE_WORKERS"

// EnvWorkerConcurrency overrides the default per-worker concurrency of the
// parallel driver.
const EnvWorkerConcurrency = "DELUGE_WORKER_CONCURRENCY"

// Option configures a terminal driver.
//
// Options are shared across the terminal surface; each driver reads the
// knobs that apply to it and ignores the rest (WithWorkers on Collect has
// no effect, WithConcurrency on CollectPar has none).
type Option func(*config)

type config struct {
	concurrency       int
	workers           int
	workerConcurrency int
}

// WithConcurrency bounds how many element computations a concurrent driver
// keeps in flight at once.
//
// Input: the bound k; values <= 0 mean Unbounded
// Output: Option for Collect, Fold, All, Any and the per-side drives of Zip
// Behavior: the driver never pulls a new computation from the flow while k
// are already running
//
// Example:
//
//	results, err := deluge.Collect(ctx, flow, deluge.WithConcurrency(5))
func WithConcurrency(k int) Option {
	return func(c *config) {
		if k > 0 {
			c.concurrency = k
		} else {
			c.concurrency = Unbounded
		}
	}
}

// WithWorkers sets the worker count of the parallel driver.
//
// Input: worker count; values <= 0 fall back to the default
// Output: Option for CollectPar, AllPar, AnyPar
// Behavior: default is DELUGE_WORKERS from the environment, else GOMAXPROCS
func WithWorkers(w int) Option {
	return func(c *config) {
		if w > 0 {
			c.workers = w
		}
	}
}

// WithWorkerConcurrency sets how many computations each parallel worker
// keeps in flight.
//
// Input: per-worker window; values <= 0 fall back to the default
// Output: Option for CollectPar, AllPar, AnyPar
// Behavior: default is DELUGE_WORKER_CONCURRENCY from the environment, else
// the total input count divided by the worker count, rounded up (at least 1)
func WithWorkerConcurrency(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workerConcurrency = n
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{concurrency: Unbounded}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// effectiveWorkers resolves the worker count, preferring the explicit
// option, then the environment, then the CPU count.
func (c config) effectiveWorkers() int {
	if c.workers > 0 {
		return c.workers
	}
	return helpers.GetIntFromEnv(EnvWorkers, runtime.GOMAXPROCS(0))
}

// effectiveWorkerConcurrency resolves the per-worker window for a total of
// n queued computations spread over w workers.
func (c config) effectiveWorkerConcurrency(n, w int) int {
	wc := c.workerConcurrency
	if wc <= 0 {
		wc = helpers.GetIntFromEnv(EnvWorkerConcurrency, 0)
	}
	if wc <= 0 && w > 0 {
		wc = (n + w - 1) / w
	}
	if wc <= 0 {
		wc = 1
	}
	return wc
}
