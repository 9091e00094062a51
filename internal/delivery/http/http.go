package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"invest-tracker/internal/dto"
	"invest-tracker/internal/repository"
	"invest-tracker/internal/service"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
}

func NewHttpAPIHandler(ctx context.Context, echo *echo.Echo, validator *goValidator.Validate, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      echo,
		validator: validator,
		service:   service,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	base := h.echo.Group("/api")
	h.SetupTA(base)
	h.SetupCompanies(base)
	h.SetupStrategies(base)
	h.SetupBriefcase(base)
}

// bindAndValidate decodes the request body and runs struct validation.
func (h *HttpAPIHandler) bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return h.validator.Struct(req)
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// userID reads the acting user from the query string. Real authentication
// sits in front of this API; the handlers only need the identity.
func userID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.QueryParam("user_id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func errorResponse(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, dto.NewBaseResponse(http.StatusNotFound, err.Error(), nil))
	}
	if errors.Is(err, repository.ErrDuplicateStop) {
		return c.JSON(http.StatusConflict, dto.NewBaseResponse(http.StatusConflict, err.Error(), nil))
	}
	return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
}
