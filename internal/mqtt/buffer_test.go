package mqtt

import (
	"fmt"
	"testing"
)

func TestRingBufferEmptyDrain(t *testing.T) {
	rb := newRingBuffer(10)
	if got := rb.drainAll(); got != nil {
		t.Errorf("expected nil from empty drain, got %v", got)
	}
}

func TestRingBufferPushAndDrainOrder(t *testing.T) {
	rb := newRingBuffer(10)

	for i := 0; i < 3; i++ {
		dropped := rb.push(bufferedMsg{topic: fmt.Sprintf("t%d", i)})
		if dropped {
			t.Errorf("push %d: unexpected drop", i)
		}
	}
	if rb.len() != 3 {
		t.Fatalf("expected len 3, got %d", rb.len())
	}

	msgs := rb.drainAll()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	for i, m := range msgs {
		if m.topic != fmt.Sprintf("t%d", i) {
			t.Errorf("message %d: expected t%d, got %s", i, i, m.topic)
		}
	}
	if rb.len() != 0 {
		t.Errorf("expected empty buffer after drain, got %d", rb.len())
	}
}

func TestRingBufferOverflowDropsOldest(t *testing.T) {
	rb := newRingBuffer(3)

	for i := 0; i < 5; i++ {
		dropped := rb.push(bufferedMsg{topic: fmt.Sprintf("t%d", i)})
		if i < 3 && dropped {
			t.Errorf("push %d: unexpected drop", i)
		}
		if i >= 3 && !dropped {
			t.Errorf("push %d: expected drop", i)
		}
	}

	msgs := rb.drainAll()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	// Oldest two were overwritten.
	want := []string{"t2", "t3", "t4"}
	for i, m := range msgs {
		if m.topic != want[i] {
			t.Errorf("message %d: expected %s, got %s", i, want[i], m.topic)
		}
	}
}

func TestRingBufferReusableAfterDrain(t *testing.T) {
	rb := newRingBuffer(2)
	rb.push(bufferedMsg{topic: "a"})
	rb.push(bufferedMsg{topic: "b"})
	rb.push(bufferedMsg{topic: "c"})
	rb.drainAll()

	rb.push(bufferedMsg{topic: "d"})
	msgs := rb.drainAll()
	if len(msgs) != 1 || msgs[0].topic != "d" {
		t.Errorf("unexpected messages after reuse: %v", msgs)
	}
}
