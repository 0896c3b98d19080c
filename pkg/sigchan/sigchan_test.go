package sigchan

import "testing"

func pending(c *Chan) int {
	n := 0
	for {
		select {
		case <-c.C():
			n++
		default:
			return n
		}
	}
}

func TestEmitCoalesces(t *testing.T) {
	c := New(1)
	for i := 0; i < 3; i++ {
		c.Emit()
	}
	if n := pending(c); n != 1 {
		t.Fatalf("pending = %d, want 1", n)
	}

	c.Emit()
	if n := pending(c); n != 1 {
		t.Fatalf("emit after drain should deliver again, pending = %d", n)
	}
}

func TestNewClampsBuffer(t *testing.T) {
	c := New(0)
	c.Emit()
	c.Emit()
	if n := pending(c); n != 1 {
		t.Fatalf("zero buffer should behave like buffer of one, pending = %d", n)
	}
}

func TestEmitKeepsBufferedCount(t *testing.T) {
	c := New(2)
	for i := 0; i < 5; i++ {
		c.Emit()
	}
	if n := pending(c); n != 2 {
		t.Fatalf("pending = %d, want 2", n)
	}
}
