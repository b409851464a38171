package bus

import (
	"testing"
	"time"

	"github.com/BCschwifty/sys-API/internal/models"
)

func receive(t *testing.T, c <-chan Message) Message {
	t.Helper()
	select {
	case msg := <-c:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := New()
	defer b.Close()

	first := b.Subscribe(4)
	second := b.Subscribe(4)

	load := &models.SystemLoad{Timestamp: time.Now()}
	b.Publish(SystemLoadSampled{Load: load})

	for _, sub := range []*Subscription{first, second} {
		msg := receive(t, sub.C)
		sampled, ok := msg.(SystemLoadSampled)
		if !ok {
			t.Fatalf("got %T, want SystemLoadSampled", msg)
		}
		if sampled.Load != load {
			t.Error("subscriber received a different snapshot")
		}
	}
}

func TestNoReplayForLateSubscriber(t *testing.T) {
	b := New()
	defer b.Close()

	b.Publish(SystemLoadSampled{Load: &models.SystemLoad{}})

	late := b.Subscribe(4)
	select {
	case msg := <-late.C:
		t.Fatalf("late subscriber received replayed message %T", msg)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	defer b.Close()

	sub := b.Subscribe(1)
	b.Unsubscribe(sub)

	if _, open := <-sub.C; open {
		t.Error("channel still open after Unsubscribe")
	}

	// Publishing after unsubscribe must not panic.
	b.Publish(SystemLoadSampled{Load: &models.SystemLoad{}})
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	b := New()
	defer b.Close()

	sub := b.Subscribe(1)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(SystemLoadSampled{Load: &models.SystemLoad{}})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on a full subscriber channel")
	}
	_ = sub
}
