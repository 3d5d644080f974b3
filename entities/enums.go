package entities

type Team string

const (
	TeamRed  Team = "RED"
	TeamBlue Team = "BLUE"
	TeamNone Team = "NONE"
)

type CharacterType string

const (
	TypePlayer              CharacterType = "PLAYER"
	TypeBackgroundCharacter CharacterType = "BACKGROUND_CHARACTER"
	TypeOverview            CharacterType = "OVERVIEW"
)

// PlayerState is deliberately free-form: any state may follow any state.
// The core only ever writes WAITING, READY, DEAD and CONTROLLED itself;
// the broader game flow owns the rest.
type PlayerState string

const (
	PlayerWaiting    PlayerState = "WAITING"
	PlayerReady      PlayerState = "READY"
	PlayerDead       PlayerState = "DEAD"
	PlayerControlled PlayerState = "CONTROLLED"
)

type GameState string

const (
	GameWaiting GameState = "WAITING"
	GameActive  GameState = "ACTIVE"
	GameEnded   GameState = "ENDED"
)

type SyncState string

const (
	SyncValid   SyncState = "VALID"
	SyncInvalid SyncState = "INVALID"
)
