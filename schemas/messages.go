package schemas

import (
	"encoding/json"

	"github.com/amirrezam75/terrahunt/entities"
)

// ClientMessage is the envelope for everything pushed over a game
// websocket: periodic state snapshots and one-shot notifications.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

const (
	MessageGameUpdated = "gameUpdated"
	MessageShotFired   = "shotFired"
	MessageBeenShot    = "beenShot"
	MessagePlayerKill  = "playerKilled"
)

type GameSnapshot struct {
	Id      string                    `json:"id"`
	Code    string                    `json:"gameCode"`
	State   entities.GameState        `json:"state"`
	Players []entities.PlayerSnapshot `json:"players"`
	Viewers []entities.ViewerSnapshot `json:"viewers"`
}

func GameUpdatedMessage(snapshot GameSnapshot) ([]byte, error) {
	return encodeMessage(MessageGameUpdated, snapshot)
}

type ShotNotification struct {
	PlayerId string `json:"playerId"`
}

func ShotFiredMessage(playerId string) ([]byte, error) {
	return encodeMessage(MessageShotFired, ShotNotification{PlayerId: playerId})
}

func BeenShotMessage(playerId string) ([]byte, error) {
	return encodeMessage(MessageBeenShot, ShotNotification{PlayerId: playerId})
}

type KillNotification struct {
	KillerId string `json:"killerId"`
	TargetId string `json:"targetId"`
}

func PlayerKilledMessage(killerId, targetId string) ([]byte, error) {
	return encodeMessage(MessagePlayerKill, KillNotification{KillerId: killerId, TargetId: targetId})
}

func encodeMessage(messageType string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(ClientMessage{
		Type:    messageType,
		Payload: body,
	})
}
