package rate

import (
	"testing"
	"time"
)

func TestLimiter(t *testing.T) {
	burst := 1

	interval := 10 * time.Millisecond
	lim := Every(interval)
	r := NewLimiter(burst, 100, lim)

	tooshort := 1 * time.Millisecond

	client := "10.0.0.1"
	expected := []bool{true, false, true, true, false, false}
	waits := []time.Duration{tooshort, interval, interval, tooshort, tooshort, tooshort}
	for i, exp := range expected {
		if got := r.Check(client); got != exp {
			t.Fatalf("iteration %d: expected %v, but got %v", i, exp, got)
		}
		time.Sleep(waits[i])
	}
}

func TestLimiterIsolatesClients(t *testing.T) {
	burst := 1

	interval := time.Minute
	r := NewLimiter(burst, 100, Every(interval))

	if !r.Check("10.0.0.1") {
		t.Fatal("first request of first client should pass")
	}
	if r.Check("10.0.0.1") {
		t.Fatal("second request of first client should be throttled")
	}
	if !r.Check("10.0.0.2") {
		t.Fatal("first request of second client should pass")
	}
}
