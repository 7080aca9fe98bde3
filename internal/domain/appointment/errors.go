package appointment

import "errors"

var (
	ErrSlotConflict   = errors.New("this time slot is already booked")
	ErrInvalidDate    = errors.New("date must be formatted as YYYY-MM-DD")
	ErrInvalidTime    = errors.New("time slot must be formatted as HH:MM")
	ErrInvalidStatus  = errors.New("invalid appointment status")
	ErrMissingDetails = errors.New("customer name, phone, store, service, date and time are required")
)
