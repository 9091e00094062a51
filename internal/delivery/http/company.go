package http

import (
	"net/http"

	"invest-tracker/internal/dto"
	"invest-tracker/internal/model"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupCompanies(base *echo.Group) {
	v1 := base.Group("/v1/companies")
	{
		v1.GET("", h.ListCompanies)
		v1.GET("/:id", h.GetCompany)
		v1.POST("", h.CreateCompany)
		v1.PATCH("/:id", h.UpdateCompany)
		v1.DELETE("/:id", h.DeleteCompany)
		v1.POST("/:id/stops", h.CreateStop)
		v1.DELETE("/:id/stops/:period", h.DeleteStop)
	}
}

func (h *HttpAPIHandler) ListCompanies(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}

	companies, err := h.service.CompanyService.List(c.Request().Context(), uid)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("companies", companies))
}

func (h *HttpAPIHandler) GetCompany(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid id"))
	}

	company, err := h.service.CompanyService.Get(c.Request().Context(), uid, id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("company", company))
}

func (h *HttpAPIHandler) CreateCompany(c echo.Context) error {
	var req dto.CreateCompanyRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	company, err := h.service.CompanyService.Create(c.Request().Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "company created", company))
}

func (h *HttpAPIHandler) UpdateCompany(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid id"))
	}

	var req dto.UpdateCompanyRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	company, err := h.service.CompanyService.Update(c.Request().Context(), uid, id, req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("company updated", company))
}

func (h *HttpAPIHandler) DeleteCompany(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid id"))
	}

	if err := h.service.CompanyService.Delete(c.Request().Context(), uid, id); err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *HttpAPIHandler) CreateStop(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}
	companyID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid id"))
	}

	var req dto.CreateStopRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	stop, err := h.service.CompanyService.CreateStop(c.Request().Context(), uid, companyID, req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "stop created", stop))
}

func (h *HttpAPIHandler) DeleteStop(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}
	companyID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid id"))
	}

	period := model.Period(c.Param("period"))
	if !period.Valid() {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid period"))
	}

	if err := h.service.CompanyService.DeleteStop(c.Request().Context(), uid, companyID, period); err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
