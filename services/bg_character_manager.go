package services

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/amirrezam75/terrahunt/entities"
	"github.com/google/uuid"
)

type BackgroundCharacterOptions struct {
	// CharacterCount is how many background characters each game seeds.
	CharacterCount int
	// MovementInterval is the autonomous movement tick period.
	MovementInterval time.Duration
}

const (
	defaultCharacterCount   = 8
	defaultMovementInterval = 500 * time.Millisecond

	// stepFraction is how far along its current path leg a character
	// advances per tick.
	stepFraction = 0.05
)

// characterPaths are fixed walking loops laid out around the playing
// area. Characters are distributed across them round-robin.
var characterPaths = [][]entities.Cartesian3{
	{
		{X: 1334790.1531071623, Y: -4650352.232600106, Z: 4142171.9648261},
		{X: 1334812.9605748807, Y: -4650339.298053372, Z: 4142180.1740612},
		{X: 1334799.0161623247, Y: -4650322.187516759, Z: 4142203.4213465},
		{X: 1334773.8136734110, Y: -4650334.621702035, Z: 4142196.0872657},
	},
	{
		{X: 1334744.6759433444, Y: -4650431.877096835, Z: 4142092.3522861},
		{X: 1334761.1324211, Y: -4650418.206585243, Z: 4142105.2891417},
		{X: 1334752.4041850453, Y: -4650440.021286272, Z: 4142082.2515744},
	},
	{
		{X: 1334820.5520701144, Y: -4650310.207361281, Z: 4142212.1049192},
		{X: 1334805.1134211000, Y: -4650330.616096835, Z: 4142190.3522861},
		{X: 1334826.9605748807, Y: -4650325.298053372, Z: 4142198.1740612},
	},
}

// backgroundCharacter tracks one NPC's progress along its path.
type backgroundCharacter struct {
	id       string
	path     []entities.Cartesian3
	leg      int
	progress float64
}

// BackgroundCharacterManager owns the background characters of one
// game and advances them on its own schedule. Every write it makes
// goes through the manager's validated position path, so sync-state
// invariants hold for NPCs exactly as they do for humans.
type BackgroundCharacterManager struct {
	gameId  string
	manager *GamesManager
	options BackgroundCharacterOptions

	characters []*backgroundCharacter
	stop       chan struct{}
	stopOnce   sync.Once
	done       sync.WaitGroup
}

func NewBackgroundCharacterManager(gameId string, manager *GamesManager, options BackgroundCharacterOptions) *BackgroundCharacterManager {
	if options.CharacterCount <= 0 {
		options.CharacterCount = defaultCharacterCount
	}
	if options.MovementInterval <= 0 {
		options.MovementInterval = defaultMovementInterval
	}

	return &BackgroundCharacterManager{
		gameId:  gameId,
		manager: manager,
		options: options,
		stop:    make(chan struct{}),
	}
}

// Initialize seeds the characters and registers each one as a player,
// so they are visible and addressable through the same mapping as
// humans.
func (bgManager *BackgroundCharacterManager) Initialize() {
	for i := 0; i < bgManager.options.CharacterCount; i++ {
		path := characterPaths[i%len(characterPaths)]

		player := entities.NewPlayer(
			uuid.NewString(),
			"",
			"civilian",
			"",
			entities.TeamNone,
			entities.TypeBackgroundCharacter,
			path[0],
		)

		if _, err := bgManager.manager.AddPlayerToGame(bgManager.gameId, player); err != nil {
			return
		}

		bgManager.characters = append(bgManager.characters, &backgroundCharacter{
			id:   player.Id,
			path: path,
		})
	}
}

// Start begins autonomous movement on the manager's own ticker.
func (bgManager *BackgroundCharacterManager) Start() {
	bgManager.done.Add(1)

	go bgManager.run()
}

// Stop halts autonomous movement and waits for any in-flight tick to
// finish, so no mutation races the end-of-game cleanup. Safe to call
// more than once; only the first call takes effect.
func (bgManager *BackgroundCharacterManager) Stop() {
	bgManager.stopOnce.Do(func() {
		close(bgManager.stop)
	})

	bgManager.done.Wait()
}

func (bgManager *BackgroundCharacterManager) run() {
	defer bgManager.done.Done()

	ticker := time.NewTicker(bgManager.options.MovementInterval)
	defer ticker.Stop()

	for {
		select {
		case <-bgManager.stop:
			return
		case <-ticker.C:
			if !bgManager.step() {
				return
			}
		}
	}
}

// step advances every character one movement increment. It reports
// false once the game is gone, which ends the loop.
func (bgManager *BackgroundCharacterManager) step() bool {
	game, err := bgManager.manager.GetGameById(bgManager.gameId)
	if err != nil {
		return false
	}

	for _, character := range bgManager.characters {
		player, exists := game.Players.Load(character.id)
		if !exists {
			continue
		}

		// A character under manual control is off the schedule until
		// control is released.
		if player.State() == entities.PlayerControlled {
			continue
		}

		position, heading := character.advance()

		err := bgManager.manager.UpdatePlayerPosition(bgManager.gameId, character.id, &position, heading, true)
		if errors.Is(err, GameNotFound) {
			return false
		}
	}

	return true
}

// advance moves the character along its path, wrapping back to the
// first waypoint at the end, and returns the new position together
// with the walking direction in degrees.
func (character *backgroundCharacter) advance() (entities.Cartesian3, float64) {
	from := character.path[character.leg]
	to := character.path[(character.leg+1)%len(character.path)]

	character.progress += stepFraction
	if character.progress >= 1 {
		character.progress = 0
		character.leg = (character.leg + 1) % len(character.path)
		from = character.path[character.leg]
		to = character.path[(character.leg+1)%len(character.path)]
	}

	position := entities.Cartesian3{
		X: from.X + (to.X-from.X)*character.progress,
		Y: from.Y + (to.Y-from.Y)*character.progress,
		Z: from.Z + (to.Z-from.Z)*character.progress,
	}

	heading := math.Atan2(to.Y-from.Y, to.X-from.X) * 180 / math.Pi

	return position, heading
}
