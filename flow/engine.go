package flow

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/flowgrid/flowgrid-go/flow/emit"
	"github.com/flowgrid/flowgrid-go/flow/store"
)

// Engine drives workflow runs to a terminal state.
//
// It owns the active-run registry and exposes the run API consumed by the
// canvas and any outer HTTP layer: Start, Pause, Resume, Cancel, plus the
// status/checkpoint/retry queries. Node side effects are delegated to the
// executors in the Registry; progress snapshots go to the checkpoint Store;
// lifecycle notifications go to the Emitter.
//
// Scheduling is completion-driven: whenever a node finishes, the ready set
// is recomputed immediately from the dependency gate, so an unrelated slow
// node never delays newly-ready work. Concurrency is bounded by
// Config.MaxConcurrent.
//
// Example:
//
//	registry := flow.NewRegistry()
//	registry.Register("http", exec.NewHTTPExecutor())
//
//	bus := emit.NewBus()
//	bus.Subscribe(emit.WorkflowCompleted, func(ev emit.Event) { ... })
//
//	engine := flow.New(registry, store.NewMemStore(), bus)
//	execID, err := engine.Start(ctx, graph, map[string]any{"city": "Oslo"})
//	err = engine.Wait(ctx, execID)
type Engine struct {
	registry *Registry
	store    store.Store
	emitter  emit.Emitter
	metrics  *Metrics
	cfg      Config

	mu   sync.RWMutex
	runs map[string]*run
}

// run is the engine-internal state of one execution.
type run struct {
	ec     *ExecutionContext
	graph  *Graph
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	status     RunStatus
	statuses   map[string]NodeStatus
	completed  map[string]struct{}
	running    map[string]struct{}
	failed     map[string]struct{}
	paused     bool
	active     bool // dispatch loop currently executing
	resumeGen  int  // bumped whenever Resume unpauses a live dispatcher
	sinceCP    int
	cpPrev     chan struct{} // tail of the checkpoint save chain
	lastDone   string
	pausedNode string // node that triggered a pause-on-error abort
	failure    error
	evicted    bool

	done     chan struct{}
	doneOnce sync.Once
}

// outcome is the fan-in message from a node worker back to the dispatcher.
type outcome struct {
	nodeID  string
	result  any
	retries int
	err     error
}

// New creates an Engine.
//
// registry supplies the node executors and must not be nil. st may be nil
// to disable checkpointing entirely. emitter may be nil, in which case
// events are discarded. Options set the engine-wide defaults; Start accepts
// further options that override them per run.
func New(registry *Registry, st store.Store, emitter emit.Emitter, opts ...Option) *Engine {
	if emitter == nil {
		emitter = emit.NewNullEmitter()
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{
		registry: registry,
		store:    st,
		emitter:  emitter,
		cfg:      cfg,
		runs:     make(map[string]*run),
	}
}

// SetMetrics attaches Prometheus metrics. Call before starting runs.
func (e *Engine) SetMetrics(m *Metrics) { e.metrics = m }

// Start begins executing the graph with the given input variables and
// returns the new execution ID. The run proceeds in the background; use
// Wait or subscribe to workflow events to observe completion.
func (e *Engine) Start(ctx context.Context, g *Graph, variables map[string]any, opts ...Option) (string, error) {
	if e.registry == nil {
		return "", fmt.Errorf("engine has no executor registry")
	}
	if g == nil || g.Len() == 0 {
		return "", fmt.Errorf("graph has no nodes")
	}

	cfg := e.cfg
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.RetryEnabled {
		if err := cfg.RetryPolicy.Validate(); err != nil {
			return "", fmt.Errorf("global retry policy: %w", err)
		}
		for nodeID, p := range cfg.NodePolicies {
			if err := p.Validate(); err != nil {
				return "", fmt.Errorf("retry policy for node %s: %w", nodeID, err)
			}
		}
	}

	execID := uuid.NewString()
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	r := &run{
		ec:        newExecutionContext(execID, g.WorkflowID(), variables, cfg),
		graph:     g,
		cfg:       cfg,
		ctx:       runCtx,
		cancel:    cancel,
		status:    RunRunning,
		statuses:  make(map[string]NodeStatus, g.Len()),
		completed: make(map[string]struct{}),
		running:   make(map[string]struct{}),
		failed:    make(map[string]struct{}),
		active:    true,
		done:      make(chan struct{}),
	}
	for _, id := range g.NodeIDs() {
		r.statuses[id] = NodeIdle
	}

	e.mu.Lock()
	e.runs[execID] = r
	e.mu.Unlock()

	e.emit(r, emit.WorkflowStarted, "", map[string]any{"nodes": g.Len()})
	go e.dispatch(r)

	return execID, nil
}

// dispatch is the scheduler loop for one run. It launches every ready node
// (bounded by MaxConcurrent, or strictly one at a time when Parallel is
// off), then blocks on the fan-in channel; each completion updates the
// state sets and immediately re-evaluates readiness.
func (e *Engine) dispatch(r *run) {
	results := make(chan outcome, r.graph.Len())

	limit := int64(1)
	if r.cfg.Parallel {
		limit = int64(r.cfg.MaxConcurrent)
		if limit < 1 {
			limit = 1
		}
	}
	sem := semaphore.NewWeighted(limit)

	inFlight := 0
	for {
		if r.terminal() {
			return // cancelled or aborted; in-flight results are discarded
		}

		launched, gen := e.launchReady(r, sem, results)
		inFlight += launched

		if inFlight == 0 {
			// A Resume can land between launchReady observing the pause
			// and settle acquiring the lock; settle detects that through
			// the generation counter and defers to another loop pass.
			if e.settle(r, gen) {
				return
			}
			continue
		}

		out := <-results
		inFlight--
		if r.terminal() {
			continue // drain; Cancel already finished the run
		}
		if e.collect(r, out) {
			return // pause-on-error abort
		}
	}
}

// launchReady starts every ready node the concurrency budget allows and
// returns how many were launched, along with the resume generation the
// decision was based on. No nodes are launched on a paused run.
func (e *Engine) launchReady(r *run, sem *semaphore.Weighted, results chan<- outcome) (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.paused {
		return 0, r.resumeGen
	}

	ready := r.graph.ReadyNodes(r.completed, r.running, r.failed)
	launched := 0
	for _, id := range ready {
		if !sem.TryAcquire(1) {
			break
		}
		r.running[id] = struct{}{}
		r.statuses[id] = NodeRunning
		node, _ := r.graph.Node(id)
		launched++
		go e.executeNode(r, node, sem, results)
	}
	return launched, r.resumeGen
}

// collect applies one node outcome to the run state. Returns true when the
// run was aborted by pause-on-error.
func (e *Engine) collect(r *run, out outcome) bool {
	r.mu.Lock()
	delete(r.running, out.nodeID)

	if out.err != nil {
		// Only a cancellation of the run itself parks the node as
		// cancelled. An executor may surface context.Canceled from a
		// sub-operation it aborted on its own; treating that as a
		// cancellation would leave the node in no state set and the
		// scheduler would relaunch it forever.
		if errors.Is(out.err, context.Canceled) && r.ctx.Err() != nil {
			r.statuses[out.nodeID] = NodeCancelled
			r.mu.Unlock()
			return false
		}

		r.failed[out.nodeID] = struct{}{}
		r.statuses[out.nodeID] = NodeError
		if r.cfg.PauseOnError {
			r.pausedNode = out.nodeID
		}
		r.mu.Unlock()

		e.emit(r, emit.NodeStatusChanged, out.nodeID, map[string]any{"status": string(NodeError)})
		e.emit(r, emit.NodeFailed, out.nodeID, map[string]any{
			"error":    out.err.Error(),
			"attempts": out.retries + 1,
		})

		if r.cfg.PauseOnError {
			e.finish(r, RunError, emit.WorkflowError, out.err)
			return true
		}
		return false
	}

	r.completed[out.nodeID] = struct{}{}
	r.statuses[out.nodeID] = NodeCompleted
	r.lastDone = out.nodeID
	r.sinceCP++
	checkpointDue := r.cfg.CheckpointsEnabled && r.cfg.CheckpointInterval > 0 &&
		r.sinceCP >= r.cfg.CheckpointInterval
	if checkpointDue {
		r.sinceCP = 0
	}
	r.mu.Unlock()

	r.ec.SetVariable(out.nodeID+outputSuffix, out.result)
	e.emit(r, emit.NodeStatusChanged, out.nodeID, map[string]any{"status": string(NodeCompleted)})
	e.emit(r, emit.NodeCompleted, out.nodeID, map[string]any{"attempts": out.retries + 1})

	if checkpointDue {
		e.checkpoint(r)
	}
	return false
}

// settle decides the terminal (or paused) state of a run whose dispatcher
// has drained: nothing ready, nothing running. It returns false when a
// Resume raced the drain (the generation moved since launchReady), in which
// case the dispatcher must re-evaluate readiness instead of finishing.
func (e *Engine) settle(r *run, gen int) bool {
	r.mu.Lock()
	if r.resumeGen != gen {
		r.mu.Unlock()
		return false
	}
	if r.paused {
		r.paused = false // consumed; Resume restarts cleanly
		r.status = RunPaused
		r.active = false
		r.mu.Unlock()
		e.emit(r, emit.WorkflowPaused, "", nil)
		return true
	}

	total := r.graph.Len()
	finished := len(r.completed) + len(r.failed)
	var remaining, stuck []string
	if finished < total {
		for _, id := range r.graph.NodeIDs() {
			if _, ok := r.completed[id]; ok {
				continue
			}
			if _, ok := r.failed[id]; ok {
				continue
			}
			remaining = append(remaining, id)
			if !r.graph.dependsOnAny(id, r.failed) {
				stuck = append(stuck, id)
			}
		}
	}
	failed := setToSorted(r.failed)
	r.mu.Unlock()

	switch {
	case len(stuck) > 0:
		// Not every leftover node is explained by a failed ancestor: the
		// graph itself cannot resolve (cycle or equivalent).
		e.finish(r, RunError, emit.WorkflowError, &UnresolvableGraphError{Remaining: remaining})
	case len(failed) > 0:
		e.finish(r, RunError, emit.WorkflowFailed, fmt.Errorf("nodes failed: %v", failed))
	default:
		e.finish(r, RunCompleted, emit.WorkflowCompleted, nil)
	}
	return true
}

// executeNode runs one node through the retry policy engine and reports the
// outcome on the fan-in channel. It is the only goroutine that touches the
// node between launch and completion.
func (e *Engine) executeNode(r *run, node Node, sem *semaphore.Weighted, results chan<- outcome) {
	defer sem.Release(1)

	policy := r.cfg.policyFor(node.ID)
	maxAttempts := 1
	if r.cfg.RetryEnabled && policy.MaxAttempts > 1 {
		maxAttempts = policy.MaxAttempts
	}

	e.metrics.nodeStarted()
	e.emit(r, emit.NodeStarted, node.ID, nil)
	start := time.Now()

	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attempts = attempt
		e.emit(r, emit.NodeAttemptStarted, node.ID, map[string]any{"attempt": attempt})

		result, err := e.attempt(r.ctx, node, r.ec)
		if err == nil {
			e.metrics.nodeFinished(node.Type, "success", time.Since(start).Seconds())
			results <- outcome{nodeID: node.ID, result: result, retries: attempt - 1}
			return
		}
		lastErr = err

		if errors.Is(err, context.Canceled) && r.ctx.Err() != nil {
			e.metrics.nodeFinished(node.Type, "cancelled", time.Since(start).Seconds())
			results <- outcome{nodeID: node.ID, retries: attempt - 1, err: err}
			return
		}

		e.emit(r, emit.NodeAttemptFailed, node.ID, map[string]any{
			"attempt": attempt,
			"error":   err.Error(),
		})

		if attempt == maxAttempts || !policy.Retryable(err) {
			break
		}

		delay := policy.Delay(attempt)
		r.ec.recordRetry(node.ID)
		e.metrics.retryScheduled(node.Type)
		e.emit(r, emit.NodeRetryScheduled, node.ID, map[string]any{
			"attempt":  attempt,
			"delay_ms": delay.Milliseconds(),
		})

		select {
		case <-r.ctx.Done():
			e.metrics.nodeFinished(node.Type, "cancelled", time.Since(start).Seconds())
			results <- outcome{nodeID: node.ID, retries: attempt - 1, err: r.ctx.Err()}
			return
		case <-time.After(delay):
		}
	}

	e.metrics.nodeFinished(node.Type, "error", time.Since(start).Seconds())
	results <- outcome{
		nodeID:  node.ID,
		retries: attempts - 1,
		err:     &NodeExecutionError{NodeID: node.ID, Attempts: attempts, Cause: lastErr},
	}
}

// attempt performs one execution attempt, racing the executor against the
// per-node timeout. The executor receives the (possibly deadlined) context
// so well-behaved implementations abort promptly; a deadline overrun is
// reported as an ErrNodeTimeout and classified by the retry policy like any
// other error.
func (e *Engine) attempt(ctx context.Context, node Node, ec *ExecutionContext) (any, error) {
	ex, err := e.registry.Lookup(node.Type)
	if err != nil {
		return nil, err
	}

	timeout := ec.Config.NodeTimeout
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type attemptResult struct {
		value any
		err   error
	}
	ch := make(chan attemptResult, 1)
	go func() {
		value, execErr := ex.Execute(ctx, node, ec)
		ch <- attemptResult{value: value, err: execErr}
	}()

	select {
	case res := <-ch:
		return res.value, res.err
	case <-ctx.Done():
		if timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: node %s exceeded %v", ErrNodeTimeout, node.ID, timeout)
		}
		return nil, ctx.Err()
	}
}

// finish moves the run to a terminal state, emits the terminal event with
// the failed-node list and retry counts, and schedules eviction.
func (e *Engine) finish(r *run, status RunStatus, eventName string, failure error) {
	r.mu.Lock()
	if r.status.Terminal() {
		r.mu.Unlock()
		return
	}
	r.status = status
	r.failure = failure
	r.active = false
	failed := setToSorted(r.failed)
	pausedNode := r.pausedNode
	r.mu.Unlock()

	meta := map[string]any{
		"failed":  failed,
		"retries": r.ec.RetryCounts(),
	}
	if failure != nil {
		meta["error"] = failure.Error()
	}
	if pausedNode != "" {
		meta["paused_node"] = pausedNode
	}
	e.emit(r, eventName, "", meta)
	e.metrics.runFinished(status)

	r.doneOnce.Do(func() { close(r.done) })
	e.evictAfter(r)
}

// checkpoint snapshots current progress and persists it in the background.
// Persistence failures are reported as a checkpoint:error event and never
// affect the run.
func (e *Engine) checkpoint(r *run) {
	if e.store == nil {
		return
	}

	r.mu.Lock()
	completed := setToSorted(r.completed)
	lastDone := r.lastDone
	prev := r.cpPrev
	done := make(chan struct{})
	r.cpPrev = done
	r.mu.Unlock()

	cp := store.Checkpoint{
		ID:          uuid.NewString(),
		ExecutionID: r.ec.ID,
		NodeID:      lastDone,
		Completed:   completed,
		Variables:   r.ec.Variables(),
		Retries:     r.ec.RetryCounts(),
		CreatedAt:   time.Now(),
	}

	// Saves are fire-and-forget but chained, so checkpoints land in the
	// order they were taken and Latest stays meaningful.
	go func() {
		defer close(done)
		if prev != nil {
			<-prev
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.store.Save(ctx, cp); err != nil {
			e.emit(r, emit.CheckpointError, "", map[string]any{
				"checkpoint_id": cp.ID,
				"error":         err.Error(),
			})
			return
		}
		e.metrics.checkpointSaved()
		e.emit(r, emit.CheckpointCreated, "", map[string]any{
			"checkpoint_id": cp.ID,
			"node_id":       cp.NodeID,
			"completed":     len(cp.Completed),
		})
	}()
}

// Pause marks the run as paused. Pausing is cooperative: in-flight nodes
// finish their current attempt, but no new rounds of work are launched. The
// run reports RunPaused once in-flight work has drained.
func (e *Engine) Pause(executionID string) error {
	r, err := e.lookupRun(executionID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.Terminal() {
		return fmt.Errorf("execution %s already %s", executionID, r.status)
	}
	r.paused = true
	return nil
}

// Resume clears the pause marker and restarts the scheduling loop. When
// fromNodeID is non-empty, the checkpoint taken after that node completed
// seeds the completed set; otherwise the latest checkpoint is used when one
// exists. Checkpoint contents are validated against the graph's dependency
// closure, so resume never skips a node whose ancestors have not run.
func (e *Engine) Resume(ctx context.Context, executionID, fromNodeID string) error {
	r, err := e.lookupRun(executionID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if r.status.Terminal() {
		r.mu.Unlock()
		return fmt.Errorf("execution %s already %s", executionID, r.status)
	}
	if r.active {
		// The dispatcher never drained; clear the marker and move the
		// generation so a drain racing this call re-evaluates readiness
		// instead of parking or erroring the run.
		r.paused = false
		r.resumeGen++
		r.mu.Unlock()
		e.emit(r, emit.WorkflowResumed, "", nil)
		return nil
	}
	// Claim the dispatcher slot before releasing the lock, so a concurrent
	// Resume takes the active path above instead of starting a second
	// dispatcher over the same run state.
	r.paused = false
	r.active = true
	r.status = RunRunning
	r.mu.Unlock()

	if e.store != nil {
		if cp, cpErr := e.selectCheckpoint(ctx, executionID, fromNodeID); cpErr == nil {
			e.restore(r, cp)
		} else if fromNodeID != "" {
			r.mu.Lock()
			r.active = false
			r.status = RunPaused
			r.mu.Unlock()
			return fmt.Errorf("resume %s from node %s: %w", executionID, fromNodeID, cpErr)
		}
	}

	e.emit(r, emit.WorkflowResumed, "", map[string]any{"from_node": fromNodeID})
	go e.dispatch(r)
	return nil
}

// selectCheckpoint picks the checkpoint to resume from: the one recorded
// after fromNodeID completed, or the latest when fromNodeID is empty.
func (e *Engine) selectCheckpoint(ctx context.Context, executionID, fromNodeID string) (store.Checkpoint, error) {
	if fromNodeID == "" {
		return e.store.Latest(ctx, executionID)
	}
	cps, err := e.store.List(ctx, executionID)
	if err != nil {
		return store.Checkpoint{}, err
	}
	for i := len(cps) - 1; i >= 0; i-- {
		if cps[i].NodeID == fromNodeID {
			return cps[i], nil
		}
	}
	return store.Checkpoint{}, store.ErrNotFound
}

// restore seeds run state from a checkpoint. Only the dependency closure of
// the recorded completed set is trusted; variables already present in the
// live context are not clobbered.
func (e *Engine) restore(r *run, cp store.Checkpoint) {
	attested := make(map[string]struct{}, len(cp.Completed))
	for _, id := range cp.Completed {
		attested[id] = struct{}{}
	}
	valid := r.graph.closure(attested)

	r.mu.Lock()
	for id := range valid {
		r.completed[id] = struct{}{}
		delete(r.failed, id)
		r.statuses[id] = NodeCompleted
	}
	r.mu.Unlock()

	for key, value := range cp.Variables {
		if _, exists := r.ec.Variable(key); !exists {
			r.ec.SetVariable(key, value)
		}
	}
	r.ec.seedRetries(cp.Retries)
}

// Cancel stops the run: no new work is launched, pending retries abort, and
// results of in-flight executor calls are discarded. Executors observe the
// cancellation through their context but are not force-terminated.
func (e *Engine) Cancel(executionID string) error {
	r, err := e.lookupRun(executionID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if r.status.Terminal() {
		r.mu.Unlock()
		return fmt.Errorf("execution %s already %s", executionID, r.status)
	}
	for id, status := range r.statuses {
		if status == NodeRunning || status == NodeIdle {
			r.statuses[id] = NodeCancelled
		}
	}
	r.mu.Unlock()

	r.cancel()
	e.finish(r, RunCancelled, emit.WorkflowCancelled, nil)
	return nil
}

// Status returns the run's lifecycle state.
func (e *Engine) Status(executionID string) (RunStatus, error) {
	r, err := e.lookupRun(executionID)
	if err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status, nil
}

// NodeStatuses returns a snapshot of every node's state for the run.
func (e *Engine) NodeStatuses(executionID string) (map[string]NodeStatus, error) {
	r, err := e.lookupRun(executionID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]NodeStatus, len(r.statuses))
	for id, st := range r.statuses {
		out[id] = st
	}
	return out, nil
}

// RetryStatistics returns, per node, the number of attempts beyond the
// first that the run has made so far.
func (e *Engine) RetryStatistics(executionID string) (map[string]int, error) {
	r, err := e.lookupRun(executionID)
	if err != nil {
		return nil, err
	}
	return r.ec.RetryCounts(), nil
}

// FailedNodes returns the IDs of nodes that exhausted their retries, sorted.
func (e *Engine) FailedNodes(executionID string) ([]string, error) {
	r, err := e.lookupRun(executionID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return setToSorted(r.failed), nil
}

// Context returns the run's execution context for late inspection of
// variables and outputs.
func (e *Engine) Context(executionID string) (*ExecutionContext, error) {
	r, err := e.lookupRun(executionID)
	if err != nil {
		return nil, err
	}
	return r.ec, nil
}

// Checkpoints returns the run's checkpoints, oldest first. This queries the
// store directly, so it also works for runs already evicted from the
// active-run registry.
func (e *Engine) Checkpoints(ctx context.Context, executionID string) ([]store.Checkpoint, error) {
	if e.store == nil {
		return nil, nil
	}
	return e.store.List(ctx, executionID)
}

// Wait blocks until the run reaches a terminal state (a paused run keeps
// Wait blocked) and returns the run's failure, if any.
func (e *Engine) Wait(ctx context.Context, executionID string) error {
	r, err := e.lookupRun(executionID)
	if err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.failure
	}
}

func (e *Engine) lookupRun(executionID string) (*run, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.runs[executionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExecution, executionID)
	}
	return r, nil
}

// evictAfter removes a finished run from the active-run registry once the
// grace period for late queries has passed.
func (e *Engine) evictAfter(r *run) {
	r.mu.Lock()
	if r.evicted {
		r.mu.Unlock()
		return
	}
	r.evicted = true
	r.mu.Unlock()

	grace := r.cfg.GracePeriod
	if grace < 0 {
		grace = 0
	}
	time.AfterFunc(grace, func() {
		e.mu.Lock()
		delete(e.runs, r.ec.ID)
		e.mu.Unlock()
	})
}

func (e *Engine) emit(r *run, name, nodeID string, meta map[string]any) {
	e.emitter.Emit(emit.Event{
		Name:        name,
		ExecutionID: r.ec.ID,
		WorkflowID:  r.ec.WorkflowID,
		NodeID:      nodeID,
		Time:        time.Now(),
		Meta:        meta,
	})
}

func (r *run) terminal() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status.Terminal()
}

func setToSorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
