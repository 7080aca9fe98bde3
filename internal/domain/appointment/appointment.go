package appointment

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Appointment struct {
	ID            int64
	CustomerName  string
	CustomerPhone string
	CustomerEmail *string
	StoreID       int64
	StoreName     string
	StoreAddress  string
	ServiceType   string
	Date          string
	TimeSlot      string
	Status        Status
	Notes         *string
	CreatedAt     time.Time
}

// Slot is the (store, date, time) triple that at most one non-cancelled
// appointment may hold.
type Slot struct {
	StoreID  int64
	Date     string
	TimeSlot string
}

func (a *Appointment) Slot() Slot {
	return Slot{StoreID: a.StoreID, Date: a.Date, TimeSlot: a.TimeSlot}
}

type ListFilter struct {
	StoreID *int64
	Date    *string
	Status  *Status
}
