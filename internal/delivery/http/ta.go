package http

import (
	"net/http"

	"invest-tracker/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupTA(base *echo.Group) {
	v1 := base.Group("/v1/ta")
	{
		v1.GET("", h.GetDecisions)
		v1.POST("/generate", h.StartGenerate)
		v1.POST("/generate/:company_id", h.GenerateCompany)
		v1.GET("/tasks/:task_id", h.TaskStatus)
	}
}

// GetDecisions lists the persisted decisions for the user's companies.
func (h *HttpAPIHandler) GetDecisions(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid user_id"))
	}

	decisions, err := h.service.TAService.GetDecisions(c.Request().Context(), uid)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("decisions", decisions))
}

// StartGenerate dispatches a batch: one task per company plus a finalizer.
// The returned task ID is the poll handle for the whole batch.
func (h *HttpAPIHandler) StartGenerate(c echo.Context) error {
	var req dto.GenerateRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	resp, err := h.service.Orchestrator.StartGenerate(c.Request().Context(), dto.StartGenerateParams{
		UserID:          req.UserID,
		Period:          req.Period,
		SendMessage:     req.SendMessage,
		UpdateDB:        req.UpdateDB,
		SendTestMessage: req.SendTestMessage,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusAccepted, dto.NewBaseResponse(http.StatusAccepted, "batch dispatched", resp))
}

// GenerateCompany computes decisions for one company synchronously.
func (h *HttpAPIHandler) GenerateCompany(c echo.Context) error {
	companyID, err := pathID(c, "company_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid company_id"))
	}

	var req dto.GenerateCompanyRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	decisions, err := h.service.TAService.DecideCompanyByID(c.Request().Context(), req.UserID, companyID, req.Period)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("decisions generated", decisions))
}

func (h *HttpAPIHandler) TaskStatus(c echo.Context) error {
	resp, err := h.service.Orchestrator.TaskStatus(c.Request().Context(), c.Param("task_id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("task status", resp))
}
