package api

import (
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"github.com/ougirez/cenytepla/internal/pkg/constants"
)

// Binder decodes JSON request bodies with sonic.
type Binder struct{}

func NewBinder() *Binder {
	return &Binder{}
}

func (b *Binder) Bind(i interface{}, c echo.Context) error {
	req := c.Request()
	if req.ContentLength == 0 || req.Method == http.MethodGet {
		return nil
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return constants.ErrBadRequest
	}

	if err = sonic.Unmarshal(body, i); err != nil {
		return constants.NewCodedError(err.Error(), http.StatusBadRequest)
	}

	return nil
}
