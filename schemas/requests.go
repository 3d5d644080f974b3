package schemas

import "github.com/amirrezam75/terrahunt/entities"

type JoinAsViewerRequest struct {
	Username string `json:"username"`
}

type AddPlayerRequest struct {
	Character string        `json:"character"`
	Username  string        `json:"username"`
	Team      entities.Team `json:"team"`
}

type UpdateStateRequest struct {
	State entities.PlayerState `json:"state"`
}

type UpdatePositionRequest struct {
	Position       *entities.Cartesian3 `json:"position"`
	Heading        float64              `json:"heading"`
	SkipValidation bool                 `json:"skipValidation"`
}

type NotifyKillRequest struct {
	TargetId string `json:"targetId"`
}

type GameResponse struct {
	Id    string             `json:"id"`
	Code  string             `json:"gameCode"`
	State entities.GameState `json:"state"`
}

type PlayerResponse struct {
	Id        string                 `json:"id"`
	Token     string                 `json:"token"`
	Character string                 `json:"character"`
	Username  string                 `json:"username"`
	Team      entities.Team          `json:"team"`
	Type      entities.CharacterType `json:"type"`
	State     entities.PlayerState   `json:"state"`
	Location  entities.Cartesian3    `json:"currentLocation"`
	Heading   float64                `json:"heading"`
	SyncState entities.SyncState     `json:"syncState"`
}

type ViewerResponse struct {
	Id       string `json:"id"`
	Token    string `json:"token"`
	Username string `json:"username"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
