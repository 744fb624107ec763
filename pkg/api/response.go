package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"repair-office/pkg/types"
)

type Response[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Body    T      `json:"body,omitempty"`
}

type ListBody[T any] struct {
	List       []T               `json:"list"`
	Pagination *types.Pagination `json:"pagination,omitempty"`
	HasMore    *bool             `json:"hasMore,omitempty"`
}

// SuccessOne returns a single object.
func SuccessOne[T any](c echo.Context, code int, message string, data T) error {
	return c.JSON(code, Response[T]{
		Status:  true,
		Message: message,
		Body:    data,
	})
}

func SuccessList[T any](c echo.Context, message string, result types.ListResult[T]) error {
	list := result.Rows
	if list == nil {
		list = make([]T, 0)
	}

	body := ListBody[T]{List: list, HasMore: result.HasMore}
	if result.Total != nil {
		p := types.NewPagination(*result.Total, result.Page, result.Limit)
		body.Pagination = &p
	}

	return c.JSON(http.StatusOK, Response[ListBody[T]]{
		Status:  true,
		Message: message,
		Body:    body,
	})
}
