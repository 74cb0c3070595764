package utils

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// --- JWT Helpers ---

// GeneratePlayerToken signs a token identifying a player on the command
// surface. Guests carry an is_guest claim.
func GeneratePlayerToken(userID string, guest bool, jwtSecret []byte) (string, error) {
	claims := jwt.MapClaims{
		"userId":   userID,
		"is_guest": guest,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParsePlayerToken validates the signature and returns the player id.
func ParsePlayerToken(tokenStr string, jwtSecret []byte) (string, bool, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", false, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false, ErrInvalidToken
	}
	userID, _ := claims["userId"].(string)
	if userID == "" {
		return "", false, ErrInvalidToken
	}
	guest, _ := claims["is_guest"].(bool)
	return userID, guest, nil
}

// CallerID extracts the player id from the Authorization header, falling
// back to the userId query parameter for the websocket handshake.
func CallerID(r *http.Request, jwtSecret []byte) (string, bool, error) {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return ParsePlayerToken(strings.TrimPrefix(header, "Bearer "), jwtSecret)
	}
	if id := r.URL.Query().Get("userId"); id != "" {
		return id, false, nil
	}
	return "", false, ErrInvalidToken
}
