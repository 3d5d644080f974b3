package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirrezam75/terrahunt/entities"
	"github.com/amirrezam75/terrahunt/schemas"
	"github.com/amirrezam75/terrahunt/services"
	"github.com/go-chi/chi/v5"
)

type nopPublisher struct{}

func (nopPublisher) Publish(message string) error { return nil }

func newTestServer(t *testing.T) (*httptest.Server, *services.GamesManager) {
	t.Helper()

	manager := services.NewGamesManager(
		services.NewTokenService("handler-test-secret"),
		services.PositionValidator{Threshold: 10},
		nopPublisher{},
		services.GamesManagerOptions{
			ClientsUpdaterOptions: services.ClientsUpdaterOptions{
				UpdateInterval: time.Hour,
			},
			BackgroundCharacterOptions: services.BackgroundCharacterOptions{
				CharacterCount:   1,
				MovementInterval: time.Hour,
			},
		},
	)

	router := chi.NewRouter()
	NewGameHandler(router, manager, []string{"*"})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server, manager
}

func do(t *testing.T, method, url string, payload any) *http.Response {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}

	request, err := http.NewRequest(method, url, &body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	response, err := http.DefaultClient.Do(request)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}

	t.Cleanup(func() { response.Body.Close() })

	return response
}

func decodeBody[T any](t *testing.T, response *http.Response) T {
	t.Helper()

	var value T
	if err := json.NewDecoder(response.Body).Decode(&value); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	return value
}

func createGame(t *testing.T, server *httptest.Server, manager *services.GamesManager) schemas.GameResponse {
	t.Helper()

	response := do(t, http.MethodPost, server.URL+"/games", nil)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("POST /games returned %d", response.StatusCode)
	}

	game := decodeBody[schemas.GameResponse](t, response)
	t.Cleanup(func() { _ = manager.EndGame(game.Id) })

	return game
}

func TestCreateAndLookupGame(t *testing.T) {
	server, manager := newTestServer(t)

	game := createGame(t, server, manager)

	if game.Id == "" || len(game.Code) != 4 {
		t.Fatalf("created game = %+v", game)
	}

	byId := do(t, http.MethodGet, server.URL+"/games/"+game.Id, nil)
	if byId.StatusCode != http.StatusOK {
		t.Fatalf("GET /games/{id} returned %d", byId.StatusCode)
	}

	byCode := do(t, http.MethodGet, server.URL+"/games?code="+game.Code, nil)
	if byCode.StatusCode != http.StatusOK {
		t.Fatalf("GET /games?code= returned %d", byCode.StatusCode)
	}

	if found := decodeBody[schemas.GameResponse](t, byCode); found.Id != game.Id {
		t.Fatalf("code lookup found %s; want %s", found.Id, game.Id)
	}
}

func TestLookupUnknownGameIs404(t *testing.T) {
	server, _ := newTestServer(t)

	if response := do(t, http.MethodGet, server.URL+"/games/unknown", nil); response.StatusCode != http.StatusNotFound {
		t.Fatalf("GET unknown game returned %d; want 404", response.StatusCode)
	}

	if response := do(t, http.MethodGet, server.URL+"/games?code=0000", nil); response.StatusCode != http.StatusNotFound {
		t.Fatalf("GET unknown code returned %d; want 404", response.StatusCode)
	}

	if response := do(t, http.MethodGet, server.URL+"/games", nil); response.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("GET without code returned %d; want 422", response.StatusCode)
	}
}

func TestAddPlayerAndMutateThroughApi(t *testing.T) {
	server, manager := newTestServer(t)

	game := createGame(t, server, manager)

	created := do(t, http.MethodPost, server.URL+"/games/"+game.Id+"/players", schemas.AddPlayerRequest{
		Character: "soldier",
		Username:  "alice",
		Team:      entities.TeamRed,
	})
	if created.StatusCode != http.StatusCreated {
		t.Fatalf("POST players returned %d", created.StatusCode)
	}

	player := decodeBody[schemas.PlayerResponse](t, created)
	if player.Token == "" || player.State != entities.PlayerWaiting {
		t.Fatalf("created player = %+v", player)
	}

	ready := do(t, http.MethodPost, server.URL+"/games/"+game.Id+"/players/"+player.Id+"/ready", nil)
	if ready.StatusCode != http.StatusNoContent {
		t.Fatalf("ready returned %d", ready.StatusCode)
	}

	near := player.Location
	near.X += 2

	moved := do(t, http.MethodPut, server.URL+"/games/"+game.Id+"/players/"+player.Id+"/position", schemas.UpdatePositionRequest{
		Position: &near,
		Heading:  15,
	})
	if moved.StatusCode != http.StatusNoContent {
		t.Fatalf("position update returned %d", moved.StatusCode)
	}

	live, err := manager.GetGameById(game.Id)
	if err != nil {
		t.Fatalf("GetGameById: %v", err)
	}

	record, exists := live.Players.Load(player.Id)
	if !exists {
		t.Fatalf("player missing from game")
	}

	if record.State() != entities.PlayerReady {
		t.Fatalf("state = %s; want READY", record.State())
	}

	if location, heading := record.Location(); location != near || heading != 15 {
		t.Fatalf("location = %+v heading %f; want %+v heading 15", location, heading, near)
	}
}

func TestMutationsOnUnknownGameAre404(t *testing.T) {
	server, _ := newTestServer(t)

	position := entities.Cartesian3{X: 1}

	checks := []struct {
		method  string
		path    string
		payload any
	}{
		{http.MethodPost, "/games/unknown/viewers", schemas.JoinAsViewerRequest{Username: "w"}},
		{http.MethodPost, "/games/unknown/players", schemas.AddPlayerRequest{Character: "c", Username: "u", Team: entities.TeamNone}},
		{http.MethodPost, "/games/unknown/players/p/ready", nil},
		{http.MethodPut, "/games/unknown/players/p/state", schemas.UpdateStateRequest{State: entities.PlayerReady}},
		{http.MethodPut, "/games/unknown/players/p/position", schemas.UpdatePositionRequest{Position: &position}},
		{http.MethodDelete, "/games/unknown", nil},
	}

	for _, check := range checks {
		response := do(t, check.method, server.URL+check.path, check.payload)
		if response.StatusCode != http.StatusNotFound {
			t.Fatalf("%s %s returned %d; want 404", check.method, check.path, response.StatusCode)
		}
	}
}

func TestUnknownPlayerMutationsAreSilent(t *testing.T) {
	server, manager := newTestServer(t)

	game := createGame(t, server, manager)

	ready := do(t, http.MethodPost, server.URL+"/games/"+game.Id+"/players/ghost/ready", nil)
	if ready.StatusCode != http.StatusNoContent {
		t.Fatalf("ready for unknown player returned %d; want 204", ready.StatusCode)
	}

	position := entities.Cartesian3{X: 1}
	moved := do(t, http.MethodPut, server.URL+"/games/"+game.Id+"/players/ghost/position", schemas.UpdatePositionRequest{
		Position: &position,
	})
	if moved.StatusCode != http.StatusNoContent {
		t.Fatalf("position for unknown player returned %d; want 204", moved.StatusCode)
	}
}

func TestEndGameThroughApi(t *testing.T) {
	server, manager := newTestServer(t)

	game := createGame(t, server, manager)

	ended := do(t, http.MethodDelete, server.URL+"/games/"+game.Id, nil)
	if ended.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE game returned %d", ended.StatusCode)
	}

	again := do(t, http.MethodDelete, server.URL+"/games/"+game.Id, nil)
	if again.StatusCode != http.StatusNotFound {
		t.Fatalf("second DELETE returned %d; want 404", again.StatusCode)
	}

	lookup := do(t, http.MethodGet, server.URL+"/games/"+game.Id, nil)
	if lookup.StatusCode != http.StatusNotFound {
		t.Fatalf("lookup after end returned %d; want 404", lookup.StatusCode)
	}
}

func TestAddViewerThroughApi(t *testing.T) {
	server, manager := newTestServer(t)

	game := createGame(t, server, manager)

	response := do(t, http.MethodPost, server.URL+"/games/"+game.Id+"/viewers", schemas.JoinAsViewerRequest{Username: "watcher"})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("POST viewers returned %d", response.StatusCode)
	}

	viewer := decodeBody[schemas.ViewerResponse](t, response)
	if viewer.Id == "" || viewer.Token == "" || viewer.Username != "watcher" {
		t.Fatalf("created viewer = %+v", viewer)
	}
}
