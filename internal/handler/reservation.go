package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reservation-desk/backend/internal/model"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// reservationService - 서비스 인터페이스
type reservationService interface {
	CreateReservations(ctx context.Context, groups []model.DateGroup) (string, error)
	UpdateReservation(ctx context.Context, date, slotTime string, patch model.SlotPatch) (model.SlotKey, error)
	ListReservations(ctx context.Context) ([]model.DateGroup, error)
	GetReservationsByDate(ctx context.Context, date string) (model.DateGroup, error)
	GetReservation(ctx context.Context, date, slotTime string) (model.DateGroup, error)
	ExportReservations(ctx context.Context) ([]byte, error)
}

// ReservationHandler - 예약 타임테이블 핸들러
type ReservationHandler struct {
	svc reservationService
}

func NewReservationHandler(svc reservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

// CreateReservations godoc
// @Summary Replace the reservation timetable
// @Description Replaces every slot in one transaction. Booked slots need name, tel and remarks.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body []model.DateGroup true "Timetable grouped by date"
// @Success 201 {object} model.ReservationMutationResponse
// @Failure 400,401,500 {object} model.ErrorResponse
// @Router /api/v1/reservations [post]
func (h *ReservationHandler) CreateReservations(c *gin.Context) {
	var groups []model.DateGroup
	if err := c.ShouldBindJSON(&groups); err != nil {
		writeBadRequest(c, "invalid request body")
		return
	}

	message, err := h.svc.CreateReservations(c.Request.Context(), groups)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.ReservationMutationResponse{Status: "success", Message: message})
}

// UpdateReservation godoc
// @Summary Update a single slot
// @Description Merges the patch onto the stored slot. Unbooking clears guest info.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param time path string true "Time (HH:mm)"
// @Param request body model.SlotPatch true "Slot patch"
// @Success 200 {object} model.ReservationMutationResponse
// @Failure 400,401,404,500 {object} model.ErrorResponse
// @Router /api/v1/reservations/{date}/{time} [patch]
func (h *ReservationHandler) UpdateReservation(c *gin.Context) {
	var patch model.SlotPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeBadRequest(c, "invalid request body")
		return
	}

	key, err := h.svc.UpdateReservation(c.Request.Context(), c.Param("date"), c.Param("time"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.ReservationMutationResponse{
		Status:  "success",
		Message: "Reservation updated successfully",
		Date:    key.Date,
		Time:    key.Time,
	})
}

// ListReservations godoc
// @Summary List the reservation timetable
// @Tags reservations
// @Produce json
// @Success 200 {array} model.DateGroup
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/reservations [get]
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	groups, err := h.svc.ListReservations(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// GetReservationsByDate godoc
// @Summary Get the timetable of one date
// @Tags reservations
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} model.DateGroupEnvelope
// @Failure 400,500 {object} model.ErrorResponse
// @Router /api/v1/reservations/{date} [get]
func (h *ReservationHandler) GetReservationsByDate(c *gin.Context) {
	group, err := h.svc.GetReservationsByDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.DateGroupEnvelope{Status: "success", Data: &group})
}

// GetReservation godoc
// @Summary Get a single slot
// @Tags reservations
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param time path string true "Time (HH:mm)"
// @Success 200 {object} model.DateGroupEnvelope
// @Failure 400,404,500 {object} model.ErrorResponse
// @Router /api/v1/reservations/{date}/{time} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	group, err := h.svc.GetReservation(c.Request.Context(), c.Param("date"), c.Param("time"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.DateGroupEnvelope{Status: "success", Data: &group})
}

// ExportReservations godoc
// @Summary Export the timetable as xlsx
// @Tags reservations
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 401,500 {object} model.ErrorResponse
// @Router /api/v1/reservations/export [get]
func (h *ReservationHandler) ExportReservations(c *gin.Context) {
	data, err := h.svc.ExportReservations(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="reservations.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
