package entities

import "testing"

func TestViewersReturnsJoinOrderCopy(t *testing.T) {
	game := NewGame("g1", "1234")

	first := &Viewer{Id: "v1", Username: "a"}
	second := &Viewer{Id: "v2", Username: "a"}

	game.AddViewer(first)
	game.AddViewer(second)

	viewers := game.Viewers()
	if len(viewers) != 2 || viewers[0] != first || viewers[1] != second {
		t.Fatalf("Viewers() = %v; want join order [v1 v2]", viewers)
	}

	// Mutating the returned slice must not touch the game's sequence.
	viewers[0] = nil
	if again := game.Viewers(); again[0] != first {
		t.Fatalf("Viewers() returned shared backing storage")
	}
}

func TestFindViewer(t *testing.T) {
	game := NewGame("g1", "1234")

	viewer := &Viewer{Id: "v1", Username: "a"}
	game.AddViewer(viewer)

	if got := game.FindViewer("v1"); got != viewer {
		t.Fatalf("FindViewer(v1) = %v; want the viewer", got)
	}

	if got := game.FindViewer("missing"); got != nil {
		t.Fatalf("FindViewer(missing) = %v; want nil", got)
	}
}

func TestGameStateDefaultsToWaiting(t *testing.T) {
	game := NewGame("g1", "1234")

	if game.State() != GameWaiting {
		t.Fatalf("new game state = %s; want WAITING", game.State())
	}

	game.SetState(GameActive)
	if game.State() != GameActive {
		t.Fatalf("state = %s; want ACTIVE", game.State())
	}
}
