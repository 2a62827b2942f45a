package event

import (
	"context"
	"errors"
	"testing"
)

func TestPublishSubscribe(t *testing.T) {
	bus := NewBus()
	var got []Mutation

	bus.SubscribeFunc(TopicGridMutation, func(ctx context.Context, topic Topic, payload any) error {
		m, ok := payload.(Mutation)
		if !ok {
			t.Fatalf("unexpected payload type %T", payload)
		}
		got = append(got, m)
		return nil
	})

	bus.Publish(context.Background(), TopicGridMutation, Mutation{Op: "type", Cells: 1})
	bus.Publish(context.Background(), TopicViewportSettle, nil) // no subscriber

	if len(got) != 1 || got[0].Op != "type" {
		t.Errorf("got %v, want one 'type' mutation", got)
	}
}

func TestDeliveryOrder(t *testing.T) {
	bus := NewBus()
	var order []int
	for i := range 3 {
		i := i
		bus.SubscribeFunc(TopicStateSaved, func(ctx context.Context, topic Topic, payload any) error {
			order = append(order, i)
			return nil
		})
	}

	bus.Publish(context.Background(), TopicStateSaved, "slot")
	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Errorf("delivery order = %v, want [0 1 2]", order)
	}
}

func TestHandlerErrorDoesNotStopDelivery(t *testing.T) {
	bus := NewBus()
	called := false

	bus.SubscribeFunc(TopicGridMutation, func(ctx context.Context, topic Topic, payload any) error {
		return errors.New("boom")
	})
	bus.SubscribeFunc(TopicGridMutation, func(ctx context.Context, topic Topic, payload any) error {
		called = true
		return nil
	})

	bus.Publish(context.Background(), TopicGridMutation, Mutation{})
	if !called {
		t.Error("second handler not called after first errored")
	}

	stats := bus.Stats()
	if stats.Errors != 1 || stats.Delivered != 1 || stats.Published != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
