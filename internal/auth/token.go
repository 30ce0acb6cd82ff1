// Package auth is the identity side of the system: it registers accounts,
// verifies login credentials and issues the bearer tokens the gateway
// authenticates with. Token identity is independent of the transaction PIN
// check in the ledger core.
package auth

import (
	"time"

	"github.com/Tanvirgit07/TK-Anii-server/configs"
	"github.com/Tanvirgit07/TK-Anii-server/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = time.Hour

// IssueToken signs a bearer token carrying the account id, mobile and role.
func IssueToken(acc *models.Account) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    acc.ID,
		"mobile": acc.Mobile,
		"role":   acc.Role,
		"exp":    now.Add(tokenTTL).Unix(),
		"iat":    now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(configs.AppConfig.JWT.SECRET))
}
