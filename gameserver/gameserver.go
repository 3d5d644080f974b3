package gameserver

import (
	"github.com/amirrezam75/terrahunt/handlers"
	"github.com/amirrezam75/terrahunt/pkg/logx"
	"github.com/amirrezam75/terrahunt/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// GameServer wires the session manager, its collaborators and the HTTP
// surface together.
type GameServer struct {
	router       *chi.Mux
	gamesManager *services.GamesManager
}

// NewGameServer creates a game server with the provided configuration.
func NewGameServer(config Config) *GameServer {
	logx.NewLogger()

	tokenService := services.NewTokenService(config.TokensSecret)

	validator := services.PositionValidator{
		Threshold: config.DistanceThreshold,
	}

	publisherService := services.NewPublisherService(
		config.Redis.Host,
		config.Redis.Port,
		config.Redis.Password,
	)

	gamesManager := services.NewGamesManager(
		tokenService,
		validator,
		publisherService,
		services.GamesManagerOptions{
			ClientsUpdaterOptions: services.ClientsUpdaterOptions{
				UpdateInterval: config.ClientsUpdateInterval,
			},
			BackgroundCharacterOptions: services.BackgroundCharacterOptions{
				CharacterCount:   config.BgCharacterCount,
				MovementInterval: config.BgMovementInterval,
			},
		},
	)

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	handlers.NewGameHandler(router, gamesManager, config.AllowedOrigins)

	return &GameServer{
		router:       router,
		gamesManager: gamesManager,
	}
}

// GetRouter returns the configured router.
func (gs *GameServer) GetRouter() *chi.Mux {
	return gs.router
}

// GetGamesManager returns the session manager instance.
func (gs *GameServer) GetGamesManager() *services.GamesManager {
	return gs.gamesManager
}
