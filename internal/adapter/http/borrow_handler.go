package http

import (
	"context"
	"net/http"
	"time"

	"toolshare-backend/internal/adapter/middleware"
	ucBorrow "toolshare-backend/internal/usecase/borrow"

	"github.com/labstack/echo/v4"
)

type BorrowHandler struct{ uc *ucBorrow.Usecase }

func NewBorrowHandler(uc *ucBorrow.Usecase) *BorrowHandler { return &BorrowHandler{uc: uc} }

type createBorrowReq struct {
	ItemID string `json:"item_id" validate:"required,hex32"`
	// Both dates or neither; otherwise duration_days (or the default) applies.
	StartDate    *time.Time `json:"start_date" validate:"required_with=EndDate"`
	EndDate      *time.Time `json:"end_date"   validate:"required_with=StartDate"`
	DurationDays int        `json:"duration_days" validate:"gte=0,lte=365"`
}

type extensionReq struct {
	Days int `json:"days" validate:"required,gte=1,lte=30"`
}

func (h *BorrowHandler) Create(c echo.Context) error {
	var req createBorrowReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), ucBorrow.CreateInput{
		BorrowerID:   middleware.UserID(c),
		ItemID:       req.ItemID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		DurationDays: req.DurationDays,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *BorrowHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("request_id"), middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BorrowHandler) ListSent(c echo.Context) error {
	list, err := h.uc.ListSent(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *BorrowHandler) ListIncoming(c echo.Context) error {
	list, err := h.uc.ListIncoming(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

type actionFunc func(ctx context.Context, requestID, callerID string) (*ucBorrow.BorrowRequestDTO, error)

// action adapts a caller-scoped lifecycle operation into a handler.
func action(fn actionFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Param("request_id")
		if requestID == "" {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing request_id path param"})
		}
		dto, err := fn(c.Request().Context(), requestID, middleware.UserID(c))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, dto)
	}
}

func (h *BorrowHandler) Approve() echo.HandlerFunc          { return action(h.uc.Approve) }
func (h *BorrowHandler) Decline() echo.HandlerFunc          { return action(h.uc.Decline) }
func (h *BorrowHandler) Cancel() echo.HandlerFunc           { return action(h.uc.Cancel) }
func (h *BorrowHandler) RequestReturn() echo.HandlerFunc    { return action(h.uc.RequestReturn) }
func (h *BorrowHandler) ConfirmReturn() echo.HandlerFunc    { return action(h.uc.ConfirmReturn) }
func (h *BorrowHandler) ApproveExtension() echo.HandlerFunc { return action(h.uc.ApproveExtension) }
func (h *BorrowHandler) DeclineExtension() echo.HandlerFunc { return action(h.uc.DeclineExtension) }

func (h *BorrowHandler) RequestExtension(c echo.Context) error {
	var req extensionReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.RequestExtension(c.Request().Context(), c.Param("request_id"), middleware.UserID(c), req.Days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
