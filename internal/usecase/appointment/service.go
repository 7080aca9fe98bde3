package appointment

import (
	"context"
	"strings"
	"time"

	dom "example.com/storefront/internal/domain/appointment"
	domstore "example.com/storefront/internal/domain/store"
)

type StoreLookup interface {
	GetActiveByID(ctx context.Context, id int64) (*domstore.Store, error)
}

type Service struct {
	repo   dom.Repository
	stores StoreLookup
}

func NewService(repo dom.Repository, stores StoreLookup) *Service {
	return &Service{repo: repo, stores: stores}
}

type CreateInput struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail *string
	StoreID       int64
	ServiceType   string
	Date          string
	TimeSlot      string
	Notes         *string
}

// Create books a pending appointment at an active store.
func (s *Service) Create(ctx context.Context, in CreateInput) (*dom.Appointment, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.ServiceType = strings.TrimSpace(in.ServiceType)
	if in.CustomerName == "" || in.CustomerPhone == "" || in.ServiceType == "" ||
		in.StoreID <= 0 || in.Date == "" || in.TimeSlot == "" {
		return nil, dom.ErrMissingDetails
	}
	if _, err := time.Parse(dom.DateLayout, in.Date); err != nil {
		return nil, dom.ErrInvalidDate
	}
	if _, err := time.Parse(dom.TimeLayout, in.TimeSlot); err != nil {
		return nil, dom.ErrInvalidTime
	}

	store, err := s.stores.GetActiveByID(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}

	a := &dom.Appointment{
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		CustomerEmail: blankToNil(in.CustomerEmail),
		StoreID:       store.ID,
		StoreName:     store.Name,
		StoreAddress:  store.Address,
		ServiceType:   in.ServiceType,
		Date:          in.Date,
		TimeSlot:      in.TimeSlot,
		Status:        dom.StatusPending,
		Notes:         blankToNil(in.Notes),
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) List(ctx context.Context, filter dom.ListFilter) ([]*dom.Appointment, error) {
	if filter.Date != nil {
		if _, err := time.Parse(dom.DateLayout, *filter.Date); err != nil {
			return nil, dom.ErrInvalidDate
		}
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, dom.ErrInvalidStatus
	}
	return s.repo.List(ctx, filter)
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
