package http

import (
	"net/http"

	"invest-tracker/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupBriefcase(base *echo.Group) {
	v1 := base.Group("/v1/briefcase")
	{
		v1.GET("", h.GetBriefcase)
		v1.GET("/shares", h.GetShares)
		v1.GET("/registry", h.GetRegistry)
		v1.POST("/registry", h.CreateRegistry)
		v1.PATCH("/registry/:id", h.UpdateRegistry)
		v1.DELETE("/registry/:id", h.DeleteRegistry)
	}
}

func (h *HttpAPIHandler) GetBriefcase(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}

	briefcase, err := h.service.BriefcaseService.GetBriefcase(c.Request().Context(), uid)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("briefcase", briefcase))
}

func (h *HttpAPIHandler) GetShares(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}

	shares, err := h.service.BriefcaseService.GetShares(c.Request().Context(), uid)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("shares", shares))
}

func (h *HttpAPIHandler) GetRegistry(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}

	records, err := h.service.BriefcaseService.GetRegistry(c.Request().Context(), uid, dto.GetRegistryParam{})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("registry", records))
}

func (h *HttpAPIHandler) CreateRegistry(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}

	var req dto.CreateRegistryRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	record, err := h.service.BriefcaseService.CreateRegistry(c.Request().Context(), uid, req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "registry record created", record))
}

func (h *HttpAPIHandler) UpdateRegistry(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid id"))
	}

	var req dto.UpdateRegistryRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	record, err := h.service.BriefcaseService.UpdateRegistry(c.Request().Context(), uid, id, req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("registry record updated", record))
}

func (h *HttpAPIHandler) DeleteRegistry(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid id"))
	}

	if err := h.service.BriefcaseService.DeleteRegistry(c.Request().Context(), uid, id); err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
