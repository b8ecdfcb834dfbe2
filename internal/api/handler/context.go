package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhaven/library-system/internal/api/middleware"
	"github.com/bookhaven/library-system/internal/core/domain"
)

// ctxActor extracts the caller injected by the Auth middleware. A missing
// actor means the route was mounted without Auth; reject with 401 rather
// than let the engine treat the call as anonymous.
func ctxActor(c echo.Context) (domain.Actor, error) {
	actor, ok := c.Get(middleware.KeyActor).(domain.Actor)
	if !ok || actor.ID == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return actor, nil
}

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if c.Echo().Validator != nil {
		if err := c.Validate(req); err != nil {
			return err
		}
	}
	return nil
}
