package flight

import "testing"

func TestFuelDebitClampsAtZero(t *testing.T) {
	f := NewFuel(1.0)

	if got := f.Debit(0.4); got != 0.4 {
		t.Errorf("Debit(0.4) = %v, expected 0.4", got)
	}
	if got := f.Debit(0.4); got != 0.4 {
		t.Errorf("Debit(0.4) = %v, expected 0.4", got)
	}
	if got := f.Debit(0.4); got < 0.199 || got > 0.201 {
		t.Errorf("third Debit should only consume the remainder, got %v", got)
	}
	if f.Level() != 0 {
		t.Errorf("Level() = %v, expected 0", f.Level())
	}
	if got := f.Debit(0.4); got != 0 {
		t.Errorf("Debit on empty tank = %v, expected 0", got)
	}
	if !f.Empty() {
		t.Error("tank should be empty")
	}
}

func TestFuelRefillClamps(t *testing.T) {
	tests := []struct {
		in, expected float64
	}{
		{50, 50},
		{-3, 0},
		{250, MaxFuel},
	}
	for _, tc := range tests {
		f := NewFuel(tc.in)
		if f.Level() != tc.expected || f.Starting() != tc.expected {
			t.Errorf("NewFuel(%v) level=%v starting=%v, expected %v", tc.in, f.Level(), f.Starting(), tc.expected)
		}
	}
}

func TestFuelRestore(t *testing.T) {
	f := NewFuel(80)
	f.Debit(30)
	f.Restore()
	if f.Level() != 80 {
		t.Errorf("Restore() level = %v, expected 80", f.Level())
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Phase
		allowed  bool
	}{
		{Waiting, PreLaunch, true},
		{Waiting, Flying, false},
		{PreLaunch, Flying, true},
		{Flying, Landed, true},
		{Flying, Crashed, true},
		{Landed, Crashed, false},
		{Crashed, Landed, false},
		{Landed, Waiting, true},
		{Flying, Waiting, true},
		{PreLaunch, Landed, false},
	}
	for _, tc := range tests {
		if got := CanTransition(tc.from, tc.to); got != tc.allowed {
			t.Errorf("CanTransition(%v, %v) = %v, expected %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestMetricsVerticalSpeed(t *testing.T) {
	m := Metrics{}
	m.RelativeVelocity[1] = -4.5
	if m.VerticalSpeed() != 4.5 {
		t.Errorf("VerticalSpeed() = %v, expected 4.5", m.VerticalSpeed())
	}
}
