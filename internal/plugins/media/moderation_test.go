package media

import "testing"

func TestInitialStatus(t *testing.T) {
	if got := InitialStatus("admin"); got != StatusApproved {
		t.Errorf("admin uploads should start approved, got %q", got)
	}
	if got := InitialStatus("rtc"); got != StatusPending {
		t.Errorf("rtc uploads should start pending, got %q", got)
	}
	if got := InitialStatus(""); got != StatusPending {
		t.Errorf("unknown roles should default to pending, got %q", got)
	}
}

func TestCanTransition(t *testing.T) {
	legal := [][2]string{
		{StatusPending, StatusApproved},
		{StatusPending, StatusRejected},
	}
	for _, pair := range legal {
		if !CanTransition(pair[0], pair[1]) {
			t.Errorf("expected %s -> %s to be legal", pair[0], pair[1])
		}
	}

	illegal := [][2]string{
		{StatusApproved, StatusRejected},
		{StatusApproved, StatusPending},
		{StatusRejected, StatusApproved},
		{StatusRejected, StatusPending},
		{StatusPending, StatusPending},
		{StatusPending, "archived"},
	}
	for _, pair := range illegal {
		if CanTransition(pair[0], pair[1]) {
			t.Errorf("expected %s -> %s to be illegal", pair[0], pair[1])
		}
	}
}
