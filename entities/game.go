package entities

import (
	"sync"

	"github.com/amirrezam75/terrahunt/pkg/syncx"
)

// Broadcaster is the narrow handle a game holds on its client update
// loop: the game owns its lifecycle and nothing else.
type Broadcaster interface {
	Start()
	Stop()
}

// CharacterSimulation is the handle a game holds on its background
// character manager.
type CharacterSimulation interface {
	Initialize()
	Start()
	Stop()
}

type Game struct {
	Id   string
	Code string
	// I used map[] in order to easily remove player and load it in O(1)
	Players syncx.Map[string, *Player]

	Updater      Broadcaster
	BgCharacters CharacterSimulation

	mu           sync.Mutex
	state        GameState
	viewers      []*Viewer
	humanPlayers int
}

func NewGame(id, code string) *Game {
	return &Game{
		Id:    id,
		Code:  code,
		state: GameWaiting,
	}
}

func (game *Game) State() GameState {
	game.mu.Lock()
	defer game.mu.Unlock()

	return game.state
}

func (game *Game) SetState(state GameState) {
	game.mu.Lock()
	defer game.mu.Unlock()

	game.state = state
}

// NextHumanOrdinal reserves the join ordinal for one human player.
// Reservation is atomic; counting existing entries in the player
// mapping instead would let two concurrent joins observe the same
// count and claim the same spawn slot.
func (game *Game) NextHumanOrdinal() int {
	game.mu.Lock()
	defer game.mu.Unlock()

	ordinal := game.humanPlayers
	game.humanPlayers++

	return ordinal
}

// AddViewer appends to the viewer sequence. Duplicate usernames are
// allowed; viewers are only ever addressed by id.
func (game *Game) AddViewer(viewer *Viewer) {
	game.mu.Lock()
	defer game.mu.Unlock()

	game.viewers = append(game.viewers, viewer)
}

// Viewers returns a copy of the viewer sequence in join order.
func (game *Game) Viewers() []*Viewer {
	game.mu.Lock()
	defer game.mu.Unlock()

	viewers := make([]*Viewer, len(game.viewers))
	copy(viewers, game.viewers)

	return viewers
}

func (game *Game) FindViewer(id string) *Viewer {
	game.mu.Lock()
	defer game.mu.Unlock()

	for _, viewer := range game.viewers {
		if viewer.Id == id {
			return viewer
		}
	}

	return nil
}
