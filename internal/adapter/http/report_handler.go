package http

import (
	"net/http"

	"toolshare-backend/internal/usecase/report"

	"github.com/labstack/echo/v4"
)

type ReportHandler struct{ uc *report.Usecase }

func NewReportHandler(uc *report.Usecase) *ReportHandler { return &ReportHandler{uc: uc} }

func (h *ReportHandler) Stats(c echo.Context) error {
	dto, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ReportHandler) Overdue(c echo.Context) error {
	list, err := h.uc.ListOverdue(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}
