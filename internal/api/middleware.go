package api

import (
	"github.com/labstack/echo/v4"
	"github.com/spf13/viper"

	"github.com/ougirez/cenytepla/internal/pkg/constants"
	"github.com/ougirez/cenytepla/internal/pkg/utils"
)

// AdminMiddleware gates the ingest trigger behind the signed admin
// cookie token.
func (svc *APIService) AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		cookie, err := ctx.Cookie(constants.CookieKeySecretToken)
		if err != nil {
			return constants.ErrUnauthorized
		}

		token, err := utils.ParseAuthToken(cookie.Value)
		if err != nil {
			return err
		}

		if token.Secret != viper.GetString(constants.ViperSecretKey) {
			return constants.ErrUnauthorized
		}

		return next(ctx)
	}
}
