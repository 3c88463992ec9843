package http

import (
	"toolshare-backend/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
)

// Register mounts every route. idem guards the mutating borrow routes and may be nil.
func Register(e *echo.Echo, h *Handler, b *BorrowHandler, r *ReportHandler, idem echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	mws := []echo.MiddlewareFunc{middleware.Actor()}
	if idem != nil {
		mws = append(mws, idem)
	}
	g := e.Group("/borrow-requests", mws...)
	g.POST("", b.Create)
	g.GET("/sent", b.ListSent)
	g.GET("/incoming", b.ListIncoming)
	g.GET("/:request_id", b.Get)
	g.POST("/:request_id/approve", b.Approve())
	g.POST("/:request_id/decline", b.Decline())
	g.POST("/:request_id/cancel", b.Cancel())
	g.POST("/:request_id/return", b.RequestReturn())
	g.POST("/:request_id/confirm-return", b.ConfirmReturn())
	g.POST("/:request_id/extension", b.RequestExtension)
	g.POST("/:request_id/extension/approve", b.ApproveExtension())
	g.POST("/:request_id/extension/decline", b.DeclineExtension())

	admin := e.Group("/admin/borrow-requests")
	admin.GET("/stats", r.Stats)
	admin.GET("/overdue", r.Overdue)
}
