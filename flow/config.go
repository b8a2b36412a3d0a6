package flow

import "time"

// Config controls run execution behavior.
//
// A zero Config is not useful on its own; DefaultConfig supplies the
// engine-wide defaults and functional options adjust individual fields,
// either at engine construction or per run at Start.
type Config struct {
	// Parallel enables concurrent execution of independent ready nodes.
	// When disabled, ready nodes execute strictly one at a time in
	// deterministic graph order.
	Parallel bool

	// MaxConcurrent bounds how many nodes may execute at once when
	// Parallel is enabled, so a wide fan-out cannot exhaust resources.
	MaxConcurrent int

	// NodeTimeout limits each execution attempt of a node. Zero disables
	// the timeout.
	NodeTimeout time.Duration

	// RetryEnabled turns the retry policy engine on or off globally.
	// When off, every node gets exactly one attempt.
	RetryEnabled bool

	// RetryPolicy is the global policy applied to nodes without an
	// override.
	RetryPolicy RetryPolicy

	// NodePolicies overrides the retry policy for specific node IDs.
	NodePolicies map[string]RetryPolicy

	// PauseOnError aborts the whole run as soon as any node exhausts its
	// retries. When false, the run continues; the failed node's dependents
	// are stranded but every reachable node still executes.
	PauseOnError bool

	// CheckpointsEnabled turns progress checkpointing on.
	CheckpointsEnabled bool

	// CheckpointInterval creates a checkpoint every N completed nodes.
	CheckpointInterval int

	// GracePeriod keeps finished runs queryable in the active-run registry
	// before eviction.
	GracePeriod time.Duration
}

// DefaultConfig returns the engine defaults: parallel execution bounded at
// eight nodes, retries on with DefaultRetryPolicy, checkpoints on every five
// completions, and a five-minute observation window for finished runs.
func DefaultConfig() Config {
	return Config{
		Parallel:           true,
		MaxConcurrent:      8,
		RetryEnabled:       true,
		RetryPolicy:        DefaultRetryPolicy(),
		CheckpointsEnabled: true,
		CheckpointInterval: 5,
		GracePeriod:        5 * time.Minute,
	}
}

// policyFor returns the effective retry policy for a node: the per-node
// override when present, otherwise the global policy.
func (c Config) policyFor(nodeID string) RetryPolicy {
	if p, ok := c.NodePolicies[nodeID]; ok {
		return p
	}
	return c.RetryPolicy
}

// Option is a functional option applied to a Config.
//
// Options given to New set the engine defaults; options given to Start
// override them for that run only.
type Option func(*Config)

// WithParallel enables or disables concurrent node execution.
func WithParallel(enabled bool) Option {
	return func(c *Config) { c.Parallel = enabled }
}

// WithMaxConcurrent bounds concurrent node execution. Values below 1 are
// clamped to 1.
func WithMaxConcurrent(n int) Option {
	return func(c *Config) {
		if n < 1 {
			n = 1
		}
		c.MaxConcurrent = n
	}
}

// WithNodeTimeout sets the per-attempt execution timeout for every node.
func WithNodeTimeout(d time.Duration) Option {
	return func(c *Config) { c.NodeTimeout = d }
}

// WithRetries enables or disables the retry policy engine.
func WithRetries(enabled bool) Option {
	return func(c *Config) { c.RetryEnabled = enabled }
}

// WithRetryPolicy sets the global retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Config) { c.RetryPolicy = p }
}

// WithNodeRetryPolicy overrides the retry policy for one node ID.
func WithNodeRetryPolicy(nodeID string, p RetryPolicy) Option {
	return func(c *Config) {
		if c.NodePolicies == nil {
			c.NodePolicies = make(map[string]RetryPolicy)
		}
		c.NodePolicies[nodeID] = p
	}
}

// WithPauseOnError makes any exhausted node failure abort the whole run.
func WithPauseOnError(enabled bool) Option {
	return func(c *Config) { c.PauseOnError = enabled }
}

// WithCheckpoints enables checkpointing with the given interval in
// completed nodes. An interval below 1 disables checkpointing.
func WithCheckpoints(interval int) Option {
	return func(c *Config) {
		if interval < 1 {
			c.CheckpointsEnabled = false
			return
		}
		c.CheckpointsEnabled = true
		c.CheckpointInterval = interval
	}
}

// WithGracePeriod sets how long finished runs stay queryable before being
// evicted from the active-run registry.
func WithGracePeriod(d time.Duration) Option {
	return func(c *Config) { c.GracePeriod = d }
}
