package appointment

import "context"

type Repository interface {
	// Create inserts a pending appointment unless its slot is already held,
	// in which case it returns ErrSlotConflict.
	Create(ctx context.Context, a *Appointment) (*Appointment, error)
	List(ctx context.Context, filter ListFilter) ([]*Appointment, error)
}
