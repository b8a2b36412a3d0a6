package emit

import (
	"testing"
	"time"
)

func TestBus_SubscribePublish(t *testing.T) {
	bus := NewBus()

	var completed []string
	bus.Subscribe(NodeCompleted, func(ev Event) {
		completed = append(completed, ev.NodeID)
	})

	bus.Publish(Event{Name: NodeCompleted, NodeID: "a"})
	bus.Publish(Event{Name: NodeStarted, NodeID: "b"}) // no subscriber
	bus.Publish(Event{Name: NodeCompleted, NodeID: "c"})

	if len(completed) != 2 || completed[0] != "a" || completed[1] != "c" {
		t.Errorf("completed = %v, want [a c]", completed)
	}
}

func TestBus_HandlersRunInSubscriptionOrder(t *testing.T) {
	bus := NewBus()

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		bus.Subscribe(WorkflowStarted, func(Event) { order = append(order, i) })
	}

	bus.Publish(Event{Name: WorkflowStarted})

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("handler order = %v, want [1 2 3]", order)
	}
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus()

	var seen []string
	bus.SubscribeAll(func(ev Event) { seen = append(seen, ev.Name) })
	bus.Subscribe(NodeStarted, func(Event) {})

	bus.Publish(Event{Name: NodeStarted})
	bus.Publish(Event{Name: WorkflowCompleted})

	if len(seen) != 2 || seen[0] != NodeStarted || seen[1] != WorkflowCompleted {
		t.Errorf("seen = %v, want all events", seen)
	}
}

func TestBus_NilHandlerIgnored(t *testing.T) {
	bus := NewBus()
	bus.Subscribe(NodeStarted, nil)
	bus.SubscribeAll(nil)

	// Must not panic.
	bus.Publish(Event{Name: NodeStarted, Time: time.Now()})
}

func TestMulti_FansOut(t *testing.T) {
	var first, second []string
	multi := Multi{
		EmitterFunc(func(ev Event) { first = append(first, ev.Name) }),
		EmitterFunc(func(ev Event) { second = append(second, ev.Name) }),
	}

	multi.Emit(Event{Name: WorkflowStarted})

	if len(first) != 1 || len(second) != 1 {
		t.Errorf("fan-out delivered %d/%d events, want 1/1", len(first), len(second))
	}
}
