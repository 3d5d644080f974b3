package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amirrezam75/terrahunt/entities"
	"github.com/amirrezam75/terrahunt/schemas"
	"github.com/amirrezam75/terrahunt/services"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

func newBroadcastingServer(t *testing.T) (*httptest.Server, *services.GamesManager) {
	t.Helper()

	manager := services.NewGamesManager(
		services.NewTokenService("join-test-secret"),
		services.PositionValidator{Threshold: 10},
		nopPublisher{},
		services.GamesManagerOptions{
			ClientsUpdaterOptions: services.ClientsUpdaterOptions{
				UpdateInterval: 50 * time.Millisecond,
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

func wsURL(server *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + path
}

func TestJoinStreamsGameSnapshots(t *testing.T) {
	server, manager := newBroadcastingServer(t)

	game := manager.CreateGame()
	t.Cleanup(func() { _ = manager.EndGame(game.Id) })

	player, err := manager.AddRealPlayerToGame(game.Id, "soldier", "alice", entities.TeamRed)
	if err != nil {
		t.Fatalf("AddRealPlayerToGame: %v", err)
	}

	connection, _, err := websocket.DefaultDialer.Dial(
		wsURL(server, "/games/"+game.Id+"/join?token="+player.Token),
		nil,
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { connection.Close() })

	connection.SetReadDeadline(time.Now().Add(2 * time.Second))

	_, raw, err := connection.ReadMessage()
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}

	var envelope schemas.ClientMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Type != schemas.MessageGameUpdated {
		t.Fatalf("first message type = %q; want %q", envelope.Type, schemas.MessageGameUpdated)
	}

	var snapshot schemas.GameSnapshot
	if err := json.Unmarshal(envelope.Payload, &snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}

	found := false
	for _, entry := range snapshot.Players {
		if entry.Id == player.Id {
			found = true
		}
	}
	if !found {
		t.Fatalf("snapshot does not include the joined player")
	}
}

func TestJoinRejectsForeignToken(t *testing.T) {
	server, manager := newBroadcastingServer(t)

	game := manager.CreateGame()
	t.Cleanup(func() { _ = manager.EndGame(game.Id) })

	otherIssuer := services.NewTokenService("some-other-secret")
	forged, err := otherIssuer.Sign(game.Id, "player-1", "mallory")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	connection, _, err := websocket.DefaultDialer.Dial(
		wsURL(server, "/games/"+game.Id+"/join?token="+forged),
		nil,
	)
	if err != nil {
		// The server may reject before completing the handshake.
		return
	}
	t.Cleanup(func() { connection.Close() })

	connection.SetReadDeadline(time.Now().Add(2 * time.Second))

	if _, _, err := connection.ReadMessage(); err == nil {
		t.Fatalf("expected the connection to be closed for a forged token")
	}
}
