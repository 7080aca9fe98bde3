package http

import (
	"net/http"

	"go.uber.org/zap"

	domappointment "example.com/storefront/internal/domain/appointment"
	appointmentuc "example.com/storefront/internal/usecase/appointment"
)

type createAppointmentRequest struct {
	CustomerName  string  `json:"customerName" validate:"required"`
	CustomerPhone string  `json:"customerPhone" validate:"required"`
	CustomerEmail *string `json:"customerEmail" validate:"omitempty,email"`
	StoreID       int64   `json:"storeId" validate:"required,gt=0"`
	ServiceType   string  `json:"serviceType" validate:"required"`
	Date          string  `json:"date" validate:"required"`
	TimeSlot      string  `json:"timeSlot" validate:"required"`
	Notes         *string `json:"notes"`
}

func (a *API) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "fill in all required fields")
		return
	}

	created, err := a.appointmentSvc.Create(r.Context(), appointmentuc.CreateInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		StoreID:       req.StoreID,
		ServiceType:   req.ServiceType,
		Date:          req.Date,
		TimeSlot:      req.TimeSlot,
		Notes:         req.Notes,
	})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, envelope{
		Success: true,
		Message: "appointment created",
		Data:    mapAppointment(created),
	})
}

func (a *API) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r.URL.Query())
	filter := domappointment.ListFilter{
		StoreID: q.Int64Ptr("storeId"),
		Date:    q.String("date"),
	}
	if status := q.String("status"); status != nil {
		s := domappointment.Status(*status)
		filter.Status = &s
	}
	if err := q.Err(); err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	items, err := a.appointmentSvc.List(r.Context(), filter)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	if staff := staffFromContext(r.Context()); staff != nil {
		a.logger.Info("appointments listed",
			zap.String("staff", staff.Subject),
			zap.Int("count", len(items)),
		)
	}

	out := make([]appointmentView, 0, len(items))
	for _, it := range items {
		out = append(out, mapAppointment(it))
	}
	respondData(w, http.StatusOK, map[string]any{
		"appointments": out,
		"total":        len(out),
	})
}
