package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/shelter-booking/internal/domain"
	"github.com/m04kA/shelter-booking/pkg/dbmetrics"
	"github.com/m04kA/shelter-booking/pkg/psqlbuilder"
	"github.com/m04kA/shelter-booking/pkg/ptr"
)

const uniqueViolation = "23505"

var bookingColumns = []string{
	"id",
	"confirmation_code",
	"service_id",
	"participant_id",
	"shelter_id",
	"appointment_datetime",
	"duration_minutes",
	"status",
	"attendee_name",
	"attendee_contact",
	"emergency_contact",
	"notes",
	"provider_notes",
	"reminder_sent",
	"created_at",
	"updated_at",
}

// SlotFilter выборка бронирований одного слота
type SlotFilter struct {
	ServiceID  int64
	Datetime   time.Time
	ActiveOnly bool // только pending и confirmed
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет бронирование и заполняет ID, CreatedAt, UpdatedAt.
// При конфликте кода подтверждения возвращает ErrDuplicateCode.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"confirmation_code",
			"service_id",
			"participant_id",
			"shelter_id",
			"appointment_datetime",
			"duration_minutes",
			"status",
			"attendee_name",
			"attendee_contact",
			"emergency_contact",
			"notes",
			"provider_notes",
			"reminder_sent",
		).
		Values(
			booking.ConfirmationCode,
			booking.ServiceID,
			booking.ParticipantID,
			booking.ShelterID,
			wallClock(booking.AppointmentDatetime),
			booking.DurationMinutes,
			booking.Status,
			booking.Attendee.Name,
			booking.Attendee.Contact,
			booking.Attendee.EmergencyContact,
			booking.Notes,
			booking.ProviderNotes,
			booking.ReminderSent,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: Create - %s", ErrDuplicateCode, pqErr.Constraint)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	// Внутри транзакции блокируем строку для последующего обновления статуса
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// ListByParticipant возвращает бронирования участника, новые первыми
func (r *Repository) ListByParticipant(ctx context.Context, participantID int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"participant_id": participantID}).
		OrderBy("appointment_datetime DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByParticipant - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByParticipant - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListBySlot возвращает бронирования слота (service_id, appointment_datetime).
// Внутри транзакции строки блокируются FOR UPDATE, чтобы проверка вместимости
// и вставка выполнялись атомарно.
func (r *Repository) ListBySlot(ctx context.Context, filter SlotFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{
			"service_id":           filter.ServiceID,
			"appointment_datetime": wallClock(filter.Datetime),
		}).
		OrderBy("id ASC")

	if filter.ActiveOnly {
		active := make([]string, len(domain.ActiveStatuses))
		for i, s := range domain.ActiveStatuses {
			active[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": active})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySlot - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySlot - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus меняет статус с from на to.
// Если текущий статус уже не from, возвращает ErrStatusChanged.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt time.Time
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrStatusChanged
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	return updatedAt, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b                    domain.Booking
		notes, providerNotes sql.NullString
		contact, emergency   sql.NullString
	)

	err := row.Scan(
		&b.ID,
		&b.ConfirmationCode,
		&b.ServiceID,
		&b.ParticipantID,
		&b.ShelterID,
		&b.AppointmentDatetime,
		&b.DurationMinutes,
		&b.Status,
		&b.Attendee.Name,
		&contact,
		&emergency,
		&notes,
		&providerNotes,
		&b.ReminderSent,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Attendee.Contact = contact.String
	b.Attendee.EmergencyContact = emergency.String
	if notes.Valid {
		b.Notes = ptr.Ptr(notes.String)
	}
	if providerNotes.Valid {
		b.ProviderNotes = ptr.Ptr(providerNotes.String)
	}

	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan booking: %w", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

// wallClock отбрасывает часовой пояс, чтобы колонка TIMESTAMP хранила время приюта
func wallClock(t time.Time) time.Time {
	return domain.InLocation(t, time.UTC)
}
