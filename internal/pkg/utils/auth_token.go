package utils

import (
	"fmt"

	"github.com/golang-jwt/jwt"
	"github.com/spf13/viper"

	"github.com/ougirez/cenytepla/internal/pkg/constants"
)

type AuthToken struct {
	Secret string
	jwt.StandardClaims
}

// ParseAuthToken verifies the admin cookie token signed with the
// configured secret.
func ParseAuthToken(tokenStr string) (*AuthToken, error) {
	token := new(AuthToken)

	_, err := jwt.ParseWithClaims(tokenStr, token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(viper.GetString(constants.ViperSecretKey)), nil
	})
	if err != nil {
		return nil, constants.ErrUnauthorized
	}

	return token, nil
}
