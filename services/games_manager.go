package services

import (
	"errors"
	"math/rand"
	"strconv"
	"sync"

	"github.com/amirrezam75/terrahunt/entities"
	"github.com/amirrezam75/terrahunt/pkg/logx"
	"github.com/amirrezam75/terrahunt/schemas"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

var (
	GameNotFound   = errors.New("game does not exist")
	PlayerNotFound = errors.New("player not found")
)

// defaultPlayerLocations are the four pre-seeded spawn points handed to
// the first four human players, in join order.
var defaultPlayerLocations = [4]entities.Cartesian3{
	{X: 1334783.4002701144, Y: -4650320.207361281, Z: 4142206.104919172},
	{X: 1334734.4041850453, Y: -4650448.021286272, Z: 4142079.251574431},
	{X: 1334743.0138112511, Y: -4650448.206585243, Z: 4142076.289141699},
	{X: 1334812.4342012317, Y: -4650321.075155178, Z: 4142195.8438288164},
}

// GamesManagerOptions tunes the per-game collaborators a manager
// constructs; zero values fall back to sensible defaults.
type GamesManagerOptions struct {
	ClientsUpdaterOptions
	BackgroundCharacterOptions

	// CodeSource draws join code candidates. Defaults to a random
	// 4-digit draw; tests inject a deterministic source.
	CodeSource func() string
}

func randomGameCode() string {
	return strconv.Itoa(rand.Intn(9000) + 1000)
}

// GamesManager is the authoritative registry of active games and the
// single mutation path for every player and viewer in them. It owns a
// broadcast loop and a background character simulation per game.
type GamesManager struct {
	mu          sync.RWMutex
	activeGames map[string]*entities.Game

	tokenService     TokenService
	validator        PositionValidator
	publisherService Publisher
	options          GamesManagerOptions
}

func NewGamesManager(
	tokenService TokenService,
	validator PositionValidator,
	publisherService Publisher,
	options GamesManagerOptions,
) *GamesManager {
	if options.CodeSource == nil {
		options.CodeSource = randomGameCode
	}

	return &GamesManager{
		activeGames:      make(map[string]*entities.Game),
		tokenService:     tokenService,
		validator:        validator,
		publisherService: publisherService,
		options:          options,
	}
}

// generateGameCode draws 4-digit codes until one is free among the
// currently active games. Callers must hold the write lock, which
// keeps two concurrent creations from racing the same code. The 9000
// value space dwarfs any realistic concurrent game count.
func (manager *GamesManager) generateGameCode() string {
	for {
		code := manager.options.CodeSource()

		taken := false
		for _, game := range manager.activeGames {
			if game.Code == code {
				taken = true
				break
			}
		}

		if !taken {
			return code
		}
	}
}

// CreateGame registers a new game and starts both of its collaborators:
// the clients updater and the background character simulation. It never
// fails; publishing the lifecycle event is best-effort.
func (manager *GamesManager) CreateGame() *entities.Game {
	manager.mu.Lock()

	gameId := bson.NewObjectID().Hex()
	game := entities.NewGame(gameId, manager.generateGameCode())

	updater := NewClientsUpdater(game, manager.options.ClientsUpdaterOptions)
	game.Updater = updater

	bgCharacters := NewBackgroundCharacterManager(gameId, manager, manager.options.BackgroundCharacterOptions)
	game.BgCharacters = bgCharacters

	// Both handles are attached before the game becomes resolvable, so
	// an immediate EndGame always finds them.
	manager.activeGames[gameId] = game

	manager.mu.Unlock()

	updater.Start()
	bgCharacters.Initialize()
	bgCharacters.Start()

	if message, err := schemas.GameCreatedEvent(game.Id, game.Code); err == nil {
		if err := manager.publisherService.Publish(message); err != nil {
			logx.Logger.Error(
				err.Error(),
				zap.String("desc", "could not publish GameCreated event"),
				zap.String("gameId", game.Id),
			)
		}
	}

	return game
}

func (manager *GamesManager) GetGameById(id string) (*entities.Game, error) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	if game, exists := manager.activeGames[id]; exists {
		return game, nil
	}

	return nil, GameNotFound
}

// GetGameByCode is a linear scan: join codes only index the small set
// of concurrently active games, never players.
func (manager *GamesManager) GetGameByCode(code string) (*entities.Game, error) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	for _, game := range manager.activeGames {
		if game.Code == code {
			return game, nil
		}
	}

	return nil, GameNotFound
}

// EndGame removes the game from the registry first, making its id and
// code unresolvable immediately, then stops the simulation and the
// broadcast loop and disconnects everyone. A second call for the same
// id fails with GameNotFound.
func (manager *GamesManager) EndGame(gameId string) error {
	manager.mu.Lock()

	game, exists := manager.activeGames[gameId]
	if !exists {
		manager.mu.Unlock()
		return GameNotFound
	}

	delete(manager.activeGames, gameId)
	manager.mu.Unlock()

	game.SetState(entities.GameEnded)
	game.BgCharacters.Stop()
	game.Updater.Stop()

	game.Players.Range(func(playerId string, player *entities.Player) bool {
		player.Kick()
		return true
	})

	for _, viewer := range game.Viewers() {
		viewer.Kick()
	}

	if message, err := schemas.GameEndedEvent(game.Id, game.Code); err == nil {
		if err := manager.publisherService.Publish(message); err != nil {
			logx.Logger.Error(
				err.Error(),
				zap.String("desc", "could not publish GameEnded event"),
				zap.String("gameId", game.Id),
			)
		}
	}

	return nil
}

// AddViewerToGame admits a spectator. Usernames are not unique;
// viewers are addressed by their minted id.
func (manager *GamesManager) AddViewerToGame(gameId, username string) (*entities.Viewer, error) {
	game, err := manager.GetGameById(gameId)
	if err != nil {
		return nil, err
	}

	viewerId := uuid.NewString()

	token, err := manager.tokenService.Sign(game.Id, viewerId, username)
	if err != nil {
		logx.Logger.Error(
			err.Error(),
			zap.String("desc", "could not sign viewer token"),
			zap.String("gameId", game.Id),
		)
		return nil, err
	}

	viewer := &entities.Viewer{
		Id:       viewerId,
		Token:    token,
		Username: username,
	}

	game.AddViewer(viewer)

	return viewer, nil
}

// AddRealPlayerToGame admits a human player. The first four humans get
// the fixed spawn coordinates in join order; later joins wrap around
// the table rather than reading past it.
func (manager *GamesManager) AddRealPlayerToGame(gameId, character, username string, team entities.Team) (*entities.Player, error) {
	game, err := manager.GetGameById(gameId)
	if err != nil {
		return nil, err
	}

	playerId := uuid.NewString()

	token, err := manager.tokenService.Sign(game.Id, playerId, username)
	if err != nil {
		logx.Logger.Error(
			err.Error(),
			zap.String("desc", "could not sign player token"),
			zap.String("gameId", game.Id),
		)
		return nil, err
	}

	location := defaultPlayerLocations[game.NextHumanOrdinal()%len(defaultPlayerLocations)]

	player := entities.NewPlayer(playerId, token, character, username, team, entities.TypePlayer, location)
	player.GameId = game.Id

	game.Players.Store(playerId, player)

	return player, nil
}

// AddPlayerToGame admits a pre-constructed player record. The
// background character simulation uses it to register its characters so
// they are addressable through the same player mapping as humans.
func (manager *GamesManager) AddPlayerToGame(gameId string, player *entities.Player) (*entities.Player, error) {
	game, err := manager.GetGameById(gameId)
	if err != nil {
		return nil, err
	}

	player.GameId = game.Id
	game.Players.Store(player.Id, player)

	return player, nil
}

// PlayerReady marks a waiting player ready. An unknown player id is a
// silent no-op: stale client messages must not fail the session.
func (manager *GamesManager) PlayerReady(gameId, playerId string) error {
	game, err := manager.GetGameById(gameId)
	if err != nil {
		return err
	}

	if player, exists := game.Players.Load(playerId); exists {
		player.SetState(entities.PlayerReady)
	}

	return nil
}

// UpdatePlayerState overwrites a player's state unconditionally; any
// state may follow any state. Unknown players are ignored.
func (manager *GamesManager) UpdatePlayerState(gameId, playerId string, state entities.PlayerState) error {
	game, err := manager.GetGameById(gameId)
	if err != nil {
		return err
	}

	if player, exists := game.Players.Load(playerId); exists {
		player.SetState(state)
	}

	return nil
}

// UpdatePlayerPosition is the only write path for positions. A report
// failing the plausibility check flips the player's sync state to
// INVALID and leaves the last trusted position in place; no error is
// returned for a rejection. Unknown player ids and missing positions
// are ignored.
func (manager *GamesManager) UpdatePlayerPosition(
	gameId, playerId string,
	position *entities.Cartesian3,
	heading float64,
	skipValidation bool,
) error {
	game, err := manager.GetGameById(gameId)
	if err != nil {
		return err
	}

	player, exists := game.Players.Load(playerId)
	if !exists || position == nil {
		return nil
	}

	accept := manager.validator.Accept
	if skipValidation {
		accept = nil
	}

	player.ApplyMovement(*position, heading, accept)

	return nil
}

// TakeControlOverPlayer lets a client drive a background character
// manually. Marking it CONTROLLED removes it from the autonomous
// mover's schedule. Humans cannot be taken over; unknown ids are
// ignored.
func (manager *GamesManager) TakeControlOverPlayer(gameId, playerId string) error {
	game, err := manager.GetGameById(gameId)
	if err != nil {
		return err
	}

	if player, exists := game.Players.Load(playerId); exists {
		if player.Type == entities.TypeBackgroundCharacter {
			player.SetState(entities.PlayerControlled)
		}
	}

	return nil
}

// RemoveControlOverPlayer hands a controlled character back to the
// simulation.
func (manager *GamesManager) RemoveControlOverPlayer(gameId, playerId string) error {
	game, err := manager.GetGameById(gameId)
	if err != nil {
		return err
	}

	if player, exists := game.Players.Load(playerId); exists {
		if player.Type == entities.TypeBackgroundCharacter && player.State() == entities.PlayerControlled {
			player.SetState(entities.PlayerWaiting)
		}
	}

	return nil
}

// NotifyKill marks the target dead through the ordinary state path and
// fans a notification out to connected clients.
func (manager *GamesManager) NotifyKill(gameId, killerId, targetId string) error {
	game, err := manager.GetGameById(gameId)
	if err != nil {
		return err
	}

	if player, exists := game.Players.Load(targetId); exists {
		player.SetState(entities.PlayerDead)
	}

	if message, err := schemas.PlayerKilledMessage(killerId, targetId); err == nil {
		broadcastToGame(game, message)
	}

	return nil
}

// NotifyShot relays a gunshot notification to every connected client.
func (manager *GamesManager) NotifyShot(gameId, playerId string) error {
	game, err := manager.GetGameById(gameId)
	if err != nil {
		return err
	}

	if message, err := schemas.ShotFiredMessage(playerId); err == nil {
		broadcastToGame(game, message)
	}

	return nil
}

// NotifyBeenShot relays a hit notification to every connected client.
func (manager *GamesManager) NotifyBeenShot(gameId, playerId string) error {
	game, err := manager.GetGameById(gameId)
	if err != nil {
		return err
	}

	if message, err := schemas.BeenShotMessage(playerId); err == nil {
		broadcastToGame(game, message)
	}

	return nil
}

// Attach binds a websocket connection to the participant the credential
// was minted for and starts its write pump. The returned reader blocks
// until the peer disconnects; handlers run it on the request goroutine.
func (manager *GamesManager) Attach(gameId, token string, connection *websocket.Conn) (func(), error) {
	claims, err := manager.tokenService.Verify(token)
	if err != nil {
		return nil, InvalidToken
	}

	if claims.GameId != gameId {
		return nil, InvalidToken
	}

	game, err := manager.GetGameById(gameId)
	if err != nil {
		return nil, err
	}

	var client *entities.Client

	if player, exists := game.Players.Load(claims.PlayerId); exists {
		client = &player.Client
	} else if viewer := game.FindViewer(claims.PlayerId); viewer != nil {
		client = &viewer.Client
	} else {
		return nil, PlayerNotFound
	}

	client.Attach(connection)

	go client.Write()

	return client.Read, nil
}

// broadcastToGame pushes a message to every connected player and viewer
// without ever blocking the caller.
func broadcastToGame(game *entities.Game, message []byte) {
	game.Players.Range(func(playerId string, player *entities.Player) bool {
		player.Push(message)
		return true
	})

	for _, viewer := range game.Viewers() {
		viewer.Push(message)
	}
}
