package http

import (
	"net/http"

	"invest-tracker/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupStrategies(base *echo.Group) {
	v1 := base.Group("/v1/strategies")
	{
		v1.GET("", h.ListStrategies)
		v1.POST("", h.CreateStrategy)
		v1.DELETE("/:id", h.DeleteStrategy)
	}
}

func (h *HttpAPIHandler) ListStrategies(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}

	strategies, err := h.service.StrategyService.List(c.Request().Context(), uid)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("strategies", strategies))
}

func (h *HttpAPIHandler) CreateStrategy(c echo.Context) error {
	var req dto.CreateStrategyRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	strategy, err := h.service.StrategyService.Create(c.Request().Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "strategy created", strategy))
}

func (h *HttpAPIHandler) DeleteStrategy(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid id"))
	}

	if err := h.service.StrategyService.Delete(c.Request().Context(), uid, id); err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
