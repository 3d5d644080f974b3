package services

import (
	"sync"
	"time"

	"github.com/amirrezam75/terrahunt/entities"
	"github.com/amirrezam75/terrahunt/pkg/logx"
	"github.com/amirrezam75/terrahunt/schemas"
	"go.uber.org/zap"
)

type ClientsUpdaterOptions struct {
	// UpdateInterval is the broadcast tick period.
	UpdateInterval time.Duration
}

const defaultUpdateInterval = 200 * time.Millisecond

// ClientsUpdater is the per-game broadcast loop: on every tick it takes
// a consistent snapshot of the game and pushes it to all connected
// participants. It never mutates game state and never blocks a
// mutation; whatever is current at tick time is what goes out.
type ClientsUpdater struct {
	game     *entities.Game
	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

func NewClientsUpdater(game *entities.Game, options ClientsUpdaterOptions) *ClientsUpdater {
	interval := options.UpdateInterval
	if interval <= 0 {
		interval = defaultUpdateInterval
	}

	return &ClientsUpdater{
		game:     game,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (updater *ClientsUpdater) Start() {
	go updater.run()
}

// Stop is safe to call more than once; only the first call closes the
// loop.
func (updater *ClientsUpdater) Stop() {
	updater.stopOnce.Do(func() {
		close(updater.stop)
	})
}

func (updater *ClientsUpdater) run() {
	ticker := time.NewTicker(updater.interval)
	defer ticker.Stop()

	for {
		select {
		case <-updater.stop:
			return
		case <-ticker.C:
			updater.tick()
		}
	}
}

func (updater *ClientsUpdater) tick() {
	snapshot := snapshotGame(updater.game)

	message, err := schemas.GameUpdatedMessage(snapshot)
	if err != nil {
		logx.Logger.Error(
			err.Error(),
			zap.String("desc", "could not encode game snapshot"),
			zap.String("gameId", updater.game.Id),
		)
		return
	}

	broadcastToGame(updater.game, message)
}

// snapshotGame copies every player record under its own lock, so the
// result is internally consistent per player even while mutations keep
// landing on the live game.
func snapshotGame(game *entities.Game) schemas.GameSnapshot {
	snapshot := schemas.GameSnapshot{
		Id:    game.Id,
		Code:  game.Code,
		State: game.State(),
	}

	game.Players.Range(func(playerId string, player *entities.Player) bool {
		snapshot.Players = append(snapshot.Players, player.Snapshot())
		return true
	})

	for _, viewer := range game.Viewers() {
		snapshot.Viewers = append(snapshot.Viewers, viewer.Snapshot())
	}

	return snapshot
}
