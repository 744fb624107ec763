package controllers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "repair-office/pkg/errors"
)

// bindAndValidate binds the request body into payload and runs the validator.
func bindAndValidate(ctx echo.Context, payload interface{}) error {
	if err := ctx.Bind(payload); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil)
	}
	return ctx.Validate(payload)
}

func pathID(ctx echo.Context) (string, error) {
	id := strings.TrimSpace(ctx.Param("id"))
	if id == "" {
		return "", apperrors.NewBadRequestError("id is required")
	}
	return id, nil
}
