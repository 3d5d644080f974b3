package services

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var InvalidToken = errors.New("token is not valid")

// TokenClaims is what a game credential proves: membership of a
// participant in a specific game. The core never inspects tokens it
// stores on players and viewers; only the websocket attach path
// verifies them.
type TokenClaims struct {
	jwt.RegisteredClaims
	GameId   string `json:"gameId"`
	PlayerId string `json:"playerId"`
	Username string `json:"username"`
}

type TokenService struct {
	secret []byte
}

// NewTokenService builds the credential issuer. The signing secret is
// injected configuration, never a compiled-in constant.
func NewTokenService(secret string) TokenService {
	return TokenService{secret: []byte(secret)}
}

func (tokenService TokenService) Sign(gameId, playerId, username string) (string, error) {
	claims := TokenClaims{
		GameId:   gameId,
		PlayerId: playerId,
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(tokenService.secret)
}

func (tokenService TokenService) Verify(signed string) (*TokenClaims, error) {
	claims := &TokenClaims{}

	token, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, InvalidToken
		}
		return tokenService.secret, nil
	})

	if err != nil || !token.Valid {
		return nil, InvalidToken
	}

	return claims, nil
}
