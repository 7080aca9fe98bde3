package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	domappointment "example.com/storefront/internal/domain/appointment"
)

type appointmentRow struct {
	ID            int64     `db:"id"`
	CustomerName  string    `db:"customer_name"`
	CustomerPhone string    `db:"customer_phone"`
	CustomerEmail *string   `db:"customer_email"`
	StoreID       int64     `db:"store_id"`
	StoreName     string    `db:"store_name"`
	StoreAddress  string    `db:"store_address"`
	ServiceType   string    `db:"service_type"`
	Date          string    `db:"appointment_date"`
	TimeSlot      string    `db:"appointment_time"`
	Status        string    `db:"status"`
	Notes         *string   `db:"notes"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r appointmentRow) toDomain() *domappointment.Appointment {
	return &domappointment.Appointment{
		ID:            r.ID,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		StoreID:       r.StoreID,
		StoreName:     r.StoreName,
		StoreAddress:  r.StoreAddress,
		ServiceType:   r.ServiceType,
		Date:          r.Date,
		TimeSlot:      r.TimeSlot,
		Status:        domappointment.Status(r.Status),
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
	}
}

type AppointmentRepository struct {
	db *DB
}

func NewAppointmentRepository(db *DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Create checks the slot and inserts in one transaction. The partial unique
// index on active slots settles races between concurrent bookings.
func (r *AppointmentRepository) Create(ctx context.Context, a *domappointment.Appointment) (*domappointment.Appointment, error) {
	err := r.db.InTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var taken bool
		err := tx.GetContext(ctx, &taken, `
            SELECT EXISTS (
                SELECT 1 FROM appointments
                WHERE store_id = $1
                  AND appointment_date = $2::text::date
                  AND appointment_time = $3::text::time
                  AND status <> 'cancelled'
            )
        `, a.StoreID, a.Date, a.TimeSlot)
		if err != nil {
			return err
		}
		if taken {
			return domappointment.ErrSlotConflict
		}

		var inserted struct {
			ID        int64     `db:"id"`
			CreatedAt time.Time `db:"created_at"`
		}
		err = tx.GetContext(ctx, &inserted, `
            INSERT INTO appointments (
                customer_name, customer_phone, customer_email, store_id, service_type,
                appointment_date, appointment_time, status, notes
            )
            VALUES ($1, $2, $3, $4, $5, $6::text::date, $7::text::time, $8, $9)
            RETURNING id, created_at
        `, a.CustomerName, a.CustomerPhone, a.CustomerEmail, a.StoreID, a.ServiceType,
			a.Date, a.TimeSlot, a.Status, a.Notes)
		if err != nil {
			return err
		}
		a.ID = inserted.ID
		a.CreatedAt = inserted.CreatedAt
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domappointment.ErrSlotConflict
		}
		return nil, err
	}
	return a, nil
}

func (r *AppointmentRepository) List(ctx context.Context, filter domappointment.ListFilter) ([]*domappointment.Appointment, error) {
	query, args := buildAppointmentList(filter)

	var rows []appointmentRow
	if err := r.db.Select(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	appointments := make([]*domappointment.Appointment, 0, len(rows))
	for _, row := range rows {
		appointments = append(appointments, row.toDomain())
	}
	return appointments, nil
}

func buildAppointmentList(f domappointment.ListFilter) (string, []any) {
	var q Query
	if f.StoreID != nil {
		q.Where(Eq("a.store_id", *f.StoreID))
	}
	if f.Date != nil {
		q.Where(Expr("a.appointment_date = ?::text::date", *f.Date))
	}
	if f.Status != nil {
		q.Where(Eq("a.status", string(*f.Status)))
	}
	return fmt.Sprintf(`
        SELECT
            a.id, a.customer_name, a.customer_phone, a.customer_email, a.store_id,
            s.name AS store_name, s.address AS store_address, a.service_type,
            to_char(a.appointment_date, 'YYYY-MM-DD') AS appointment_date,
            to_char(a.appointment_time, 'HH24:MI') AS appointment_time,
            a.status, a.notes, a.created_at
        FROM appointments a
        JOIN stores s ON s.id = a.store_id
        %s
        ORDER BY a.appointment_date DESC, a.appointment_time DESC, a.id DESC
    `, q.WhereSQL()), q.Args()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
