package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhaven/library-system/internal/api/metrics"
	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/core/ports"
)

// RecordHandler serves the borrow log.
type RecordHandler struct {
	records ports.RecordService
	sweeper ports.Sweeper
	clock   ports.Clock
}

func NewRecordHandler(records ports.RecordService, sweeper ports.Sweeper, clock ports.Clock) *RecordHandler {
	return &RecordHandler{records: records, sweeper: sweeper, clock: clock}
}

// List returns borrow records, newest first.
//
// @Summary      List borrow records
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "active, returned or overdue"
// @Success      200     {object}  listResponse[recordResponse]
// @Failure      422     {object}  errorResponse
// @Router       /v1/records [get]
func (h *RecordHandler) List(c echo.Context) error {
	status := domain.BorrowStatus(c.QueryParam("status"))

	records, err := h.records.ListBorrowRecords(c.Request().Context(), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapList(records, recordOut))
}

// Get returns a single borrow record.
//
// @Summary      Get a borrow record
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Record id"
// @Success      200  {object}  recordResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/records/{id} [get]
func (h *RecordHandler) Get(c echo.Context) error {
	record, err := h.records.GetBorrowRecord(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRecordResponse(record))
}

// History returns every loan of a user, newest first.
//
// @Summary      Borrowing history of a user
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  listResponse[recordResponse]
// @Failure      403  {object}  errorResponse
// @Router       /v1/users/{id}/history [get]
func (h *RecordHandler) History(c echo.Context) error {
	records, err := h.records.GetUserHistory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapList(records, recordOut))
}

// Sweep marks past-due active records overdue right away.
//
// @Summary      Run the overdue sweep
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sweepResponse
// @Router       /v1/records/sweep [post]
func (h *RecordHandler) Sweep(c echo.Context) error {
	now := h.clock.Now()
	n, err := h.sweeper.Sweep(c.Request().Context(), now)
	if err != nil {
		return err
	}
	metrics.RecordsMarkedOverdueTotal.Add(float64(n))
	return c.JSON(http.StatusOK, sweepResponse{Updated: n, At: now.UTC()})
}

func recordOut(r *domain.BorrowRecord) recordResponse { return toRecordResponse(r) }
