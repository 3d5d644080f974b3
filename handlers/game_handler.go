package handlers

import (
	"errors"
	"net/http"
	"slices"

	"github.com/amirrezam75/terrahunt/entities"
	"github.com/amirrezam75/terrahunt/pkg/logx"
	"github.com/amirrezam75/terrahunt/schemas"
	"github.com/amirrezam75/terrahunt/services"
	"github.com/go-chi/chi/v5"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// GameHandler maps the HTTP surface 1:1 onto the session manager's
// operations. It contains no game logic of its own: structural errors
// become 404s, everything else the core absorbs.
type GameHandler struct {
	gamesManager *services.GamesManager
	upgrader     websocket.Upgrader
}

func NewGameHandler(router *chi.Mux, gamesManager *services.GamesManager, allowedOrigins []string) {
	gameHandler := GameHandler{
		gamesManager: gamesManager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if slices.Contains(allowedOrigins, "*") {
					return true
				}
				return slices.Contains(allowedOrigins, r.Header.Get("Origin"))
			},
		},
	}

	router.Post("/games", gameHandler.create)
	router.Get("/games", gameHandler.getByCode)
	router.Get("/games/{id}", gameHandler.getById)
	router.Delete("/games/{id}", gameHandler.end)
	router.Get("/games/{id}/join", gameHandler.join)

	router.Post("/games/{id}/viewers", gameHandler.addViewer)
	router.Post("/games/{id}/players", gameHandler.addPlayer)
	router.Post("/games/{id}/players/{playerId}/ready", gameHandler.ready)
	router.Put("/games/{id}/players/{playerId}/state", gameHandler.updateState)
	router.Put("/games/{id}/players/{playerId}/position", gameHandler.updatePosition)
	router.Post("/games/{id}/players/{playerId}/control", gameHandler.takeControl)
	router.Delete("/games/{id}/players/{playerId}/control", gameHandler.removeControl)
	router.Post("/games/{id}/players/{playerId}/kill", gameHandler.notifyKill)
	router.Post("/games/{id}/players/{playerId}/shot", gameHandler.notifyShot)
	router.Post("/games/{id}/players/{playerId}/been-shot", gameHandler.notifyBeenShot)
}

func gameResponse(game *entities.Game) schemas.GameResponse {
	return schemas.GameResponse{
		Id:    game.Id,
		Code:  game.Code,
		State: game.State(),
	}
}

func playerResponse(player *entities.Player) schemas.PlayerResponse {
	snapshot := player.Snapshot()

	return schemas.PlayerResponse{
		Id:        snapshot.Id,
		Token:     player.Token,
		Character: snapshot.Character,
		Username:  snapshot.Username,
		Team:      snapshot.Team,
		Type:      snapshot.Type,
		State:     snapshot.State,
		Location:  snapshot.Location,
		Heading:   snapshot.Heading,
		SyncState: snapshot.SyncState,
	}
}

func (gameHandler GameHandler) notFound(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotFound)
	encode(schemas.ErrorResponse{Message: "Game not found."}, w)
}

func (gameHandler GameHandler) create(w http.ResponseWriter, r *http.Request) {
	game := gameHandler.gamesManager.CreateGame()

	w.WriteHeader(http.StatusCreated)
	encode(gameResponse(game), w)
}

func (gameHandler GameHandler) getById(w http.ResponseWriter, r *http.Request) {
	game, err := gameHandler.gamesManager.GetGameById(r.PathValue("id"))

	if err != nil {
		gameHandler.notFound(w)
		return
	}

	encode(gameResponse(game), w)
}

func (gameHandler GameHandler) getByCode(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")

	if code == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		encode(schemas.ErrorResponse{Message: "Query parameter 'code' is required."}, w)
		return
	}

	game, err := gameHandler.gamesManager.GetGameByCode(code)

	if err != nil {
		gameHandler.notFound(w)
		return
	}

	encode(gameResponse(game), w)
}

func (gameHandler GameHandler) end(w http.ResponseWriter, r *http.Request) {
	err := gameHandler.gamesManager.EndGame(r.PathValue("id"))

	if err != nil {
		gameHandler.notFound(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (gameHandler GameHandler) addViewer(w http.ResponseWriter, r *http.Request) {
	var payload schemas.JoinAsViewerRequest

	if err := decode(&payload, r); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		logx.Logger.Info(err.Error(), zap.String("desc", "could not decode payload"))
		return
	}

	viewer, err := gameHandler.gamesManager.AddViewerToGame(r.PathValue("id"), payload.Username)

	if err != nil {
		if errors.Is(err, services.GameNotFound) {
			gameHandler.notFound(w)
			return
		}

		w.WriteHeader(http.StatusUnprocessableEntity)
		encode(schemas.ErrorResponse{Message: "Something goes wrong!"}, w)
		return
	}

	w.WriteHeader(http.StatusCreated)
	encode(schemas.ViewerResponse{
		Id:       viewer.Id,
		Token:    viewer.Token,
		Username: viewer.Username,
	}, w)
}

func (gameHandler GameHandler) addPlayer(w http.ResponseWriter, r *http.Request) {
	var payload schemas.AddPlayerRequest

	if err := decode(&payload, r); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		logx.Logger.Info(err.Error(), zap.String("desc", "could not decode payload"))
		return
	}

	player, err := gameHandler.gamesManager.AddRealPlayerToGame(
		r.PathValue("id"),
		payload.Character,
		payload.Username,
		payload.Team,
	)

	if err != nil {
		if errors.Is(err, services.GameNotFound) {
			gameHandler.notFound(w)
			return
		}

		w.WriteHeader(http.StatusUnprocessableEntity)
		encode(schemas.ErrorResponse{Message: "Something goes wrong!"}, w)
		return
	}

	w.WriteHeader(http.StatusCreated)
	encode(playerResponse(player), w)
}

func (gameHandler GameHandler) ready(w http.ResponseWriter, r *http.Request) {
	err := gameHandler.gamesManager.PlayerReady(r.PathValue("id"), r.PathValue("playerId"))

	if err != nil {
		gameHandler.notFound(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (gameHandler GameHandler) updateState(w http.ResponseWriter, r *http.Request) {
	var payload schemas.UpdateStateRequest

	if err := decode(&payload, r); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		logx.Logger.Info(err.Error(), zap.String("desc", "could not decode payload"))
		return
	}

	err := gameHandler.gamesManager.UpdatePlayerState(r.PathValue("id"), r.PathValue("playerId"), payload.State)

	if err != nil {
		gameHandler.notFound(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (gameHandler GameHandler) updatePosition(w http.ResponseWriter, r *http.Request) {
	var payload schemas.UpdatePositionRequest

	if err := decode(&payload, r); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		logx.Logger.Info(err.Error(), zap.String("desc", "could not decode payload"))
		return
	}

	err := gameHandler.gamesManager.UpdatePlayerPosition(
		r.PathValue("id"),
		r.PathValue("playerId"),
		payload.Position,
		payload.Heading,
		payload.SkipValidation,
	)

	if err != nil {
		gameHandler.notFound(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (gameHandler GameHandler) takeControl(w http.ResponseWriter, r *http.Request) {
	err := gameHandler.gamesManager.TakeControlOverPlayer(r.PathValue("id"), r.PathValue("playerId"))

	if err != nil {
		gameHandler.notFound(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (gameHandler GameHandler) removeControl(w http.ResponseWriter, r *http.Request) {
	err := gameHandler.gamesManager.RemoveControlOverPlayer(r.PathValue("id"), r.PathValue("playerId"))

	if err != nil {
		gameHandler.notFound(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (gameHandler GameHandler) notifyKill(w http.ResponseWriter, r *http.Request) {
	var payload schemas.NotifyKillRequest

	if err := decode(&payload, r); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		logx.Logger.Info(err.Error(), zap.String("desc", "could not decode payload"))
		return
	}

	err := gameHandler.gamesManager.NotifyKill(r.PathValue("id"), r.PathValue("playerId"), payload.TargetId)

	if err != nil {
		gameHandler.notFound(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (gameHandler GameHandler) notifyShot(w http.ResponseWriter, r *http.Request) {
	err := gameHandler.gamesManager.NotifyShot(r.PathValue("id"), r.PathValue("playerId"))

	if err != nil {
		gameHandler.notFound(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (gameHandler GameHandler) notifyBeenShot(w http.ResponseWriter, r *http.Request) {
	err := gameHandler.gamesManager.NotifyBeenShot(r.PathValue("id"), r.PathValue("playerId"))

	if err != nil {
		gameHandler.notFound(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (gameHandler GameHandler) join(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	if token == "" {
		logx.Logger.Info("token is not provided")
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}

	connection, err := gameHandler.upgrader.Upgrade(w, r, nil)

	if err != nil {
		logx.Logger.Error(
			err.Error(),
			zap.String("desc", "could not upgrade http request"),
		)
		return
	}

	reader, err := gameHandler.gamesManager.Attach(r.PathValue("id"), token, connection)

	if err != nil {
		logx.Logger.Info(
			err.Error(),
			zap.String("desc", "could not attach client to game"),
			zap.String("gameId", r.PathValue("id")),
		)

		closeErr := connection.Close()
		if closeErr != nil {
			logx.Logger.Error(
				closeErr.Error(),
				zap.String("desc", "could not close rejected connection"),
			)
		}
		return
	}

	reader()
}
