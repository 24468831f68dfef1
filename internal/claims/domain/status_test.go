package domain

import "testing"

func TestAdvancesIsMonotonic(t *testing.T) {
	cases := []struct {
		current, next string
		want          bool
	}{
		{StatusPending, StatusSubmitted, true},
		{StatusPending, StatusPending, true},
		{StatusSubmitted, StatusPending, false},
		{StatusSubmitted, StatusProcessed, true},
		{StatusSubmitted, StatusDeclined, true},
		{StatusProcessed, StatusSubmitted, false},
		{StatusDeclined, StatusPending, false},
	}

	for _, c := range cases {
		if got := Advances(c.current, c.next); got != c.want {
			t.Fatalf("Advances(%q, %q) = %v, want %v", c.current, c.next, got, c.want)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	if !IsTerminal(StatusProcessed) || !IsTerminal(StatusDeclined) {
		t.Fatalf("processed and declined must be terminal")
	}
	if IsTerminal(StatusPending) || IsTerminal(StatusSubmitted) {
		t.Fatalf("pending and submitted must not be terminal")
	}
}

func TestUnknownStoredStatusNeverBlocksProgress(t *testing.T) {
	if !Advances("", StatusPending) {
		t.Fatalf("empty stored status should allow progress")
	}
	if !Advances("legacy", StatusSubmitted) {
		t.Fatalf("unrecognized stored status should allow progress")
	}
}
