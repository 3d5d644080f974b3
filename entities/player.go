package entities

import "sync"

// Player is any participant with a tracked position: a human, a
// background character driven by the simulation, or an overview client.
//
// Location, Heading, State and SyncState are guarded by a per-player
// mutex so that concurrent mutations for different players never block
// each other and a broadcast snapshot never observes a torn record.
// Position writes must go through ApplyMovement; there is deliberately
// no setter that bypasses validation.
type Player struct {
	Id        string
	Token     string
	Character string
	Username  string
	Team      Team
	Type      CharacterType
	// GameId is a non-owning back-reference, kept for convenience only.
	GameId string

	Client

	mu        sync.Mutex
	state     PlayerState
	location  Cartesian3
	heading   float64
	syncState SyncState
}

func NewPlayer(id, token, character, username string, team Team, characterType CharacterType, location Cartesian3) *Player {
	return &Player{
		Id:        id,
		Token:     token,
		Character: character,
		Username:  username,
		Team:      team,
		Type:      characterType,
		state:     PlayerWaiting,
		location:  location,
		syncState: SyncValid,
	}
}

// PlayerSnapshot is a consistent copy of a player's mutable fields,
// taken under the player's lock.
type PlayerSnapshot struct {
	Id        string        `json:"id"`
	Character string        `json:"character"`
	Username  string        `json:"username"`
	Team      Team          `json:"team"`
	Type      CharacterType `json:"type"`
	State     PlayerState   `json:"state"`
	Location  Cartesian3    `json:"currentLocation"`
	Heading   float64       `json:"heading"`
	SyncState SyncState     `json:"syncState"`
}

func (player *Player) State() PlayerState {
	player.mu.Lock()
	defer player.mu.Unlock()

	return player.state
}

func (player *Player) SetState(state PlayerState) {
	player.mu.Lock()
	defer player.mu.Unlock()

	player.state = state
}

func (player *Player) Location() (Cartesian3, float64) {
	player.mu.Lock()
	defer player.mu.Unlock()

	return player.location, player.heading
}

func (player *Player) SyncState() SyncState {
	player.mu.Lock()
	defer player.mu.Unlock()

	return player.syncState
}

// ApplyMovement commits a reported position if accept approves the
// displacement from the current location (accept == nil skips
// validation). A rejected report only flips the sync state; the last
// trusted position stays authoritative. The decision and the commit
// happen under one lock acquisition so concurrent reports for the same
// player cannot interleave between validation and write.
func (player *Player) ApplyMovement(location Cartesian3, heading float64, accept func(current, reported Cartesian3) bool) bool {
	player.mu.Lock()
	defer player.mu.Unlock()

	if accept != nil && !accept(player.location, location) {
		player.syncState = SyncInvalid
		return false
	}

	player.location = location
	player.heading = heading
	player.syncState = SyncValid

	return true
}

func (player *Player) Snapshot() PlayerSnapshot {
	player.mu.Lock()
	defer player.mu.Unlock()

	return PlayerSnapshot{
		Id:        player.Id,
		Character: player.Character,
		Username:  player.Username,
		Team:      player.Team,
		Type:      player.Type,
		State:     player.state,
		Location:  player.location,
		Heading:   player.heading,
		SyncState: player.syncState,
	}
}
