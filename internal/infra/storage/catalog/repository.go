package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/shelter-booking/internal/domain"
	"github.com/m04kA/shelter-booking/pkg/dbmetrics"
	"github.com/m04kA/shelter-booking/pkg/psqlbuilder"
	"github.com/m04kA/shelter-booking/pkg/types"
)

var serviceColumns = []string{
	"id",
	"category_id",
	"shelter_id",
	"name",
	"description",
	"provider",
	"location",
	"duration_minutes",
	"capacity",
	"cost",
	"requirements",
	"active",
	"requires_confirmation",
}

// Repository читает каталог услуг из PostgreSQL
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetService возвращает услугу вместе с расписанием.
// Внутри транзакции строка услуги блокируется FOR SHARE, чтобы вместимость
// не изменилась до вставки бронирования.
func (r *Repository) GetService(ctx context.Context, id int64) (*domain.ServiceDefinition, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR SHARE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	service, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %w", ErrScanRow, err)
	}

	schedules, err := r.loadSchedules(ctx, []int64{service.ID})
	if err != nil {
		return nil, err
	}
	service.Schedule = schedules[service.ID]

	return service, nil
}

// ListByCategory возвращает активные услуги категории в приюте
func (r *Repository) ListByCategory(ctx context.Context, shelterID int64, categoryID string) ([]*domain.ServiceDefinition, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{
			"shelter_id":  shelterID,
			"category_id": categoryID,
			"active":      true,
		}).
		OrderBy("name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCategory - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCategory - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.ServiceDefinition, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByCategory - scan service: %w", ErrScanRow, err)
		}
		services = append(services, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByCategory - rows error: %w", ErrScanRow, err)
	}

	if len(ids) == 0 {
		return services, nil
	}

	schedules, err := r.loadSchedules(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, s := range services {
		s.Schedule = schedules[s.ID]
	}

	return services, nil
}

// loadSchedules загружает окна расписания для набора услуг
func (r *Repository) loadSchedules(ctx context.Context, serviceIDs []int64) (map[int64][]domain.WeeklyWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"service_id",
		"day_of_week",
		"start_time",
		"end_time",
		"break_start",
		"break_end",
	).
		From("service_schedules").
		Where("service_id = ANY(?)", pq.Array(serviceIDs)).
		OrderBy("service_id ASC", "position ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: loadSchedules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadSchedules - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.WeeklyWindow, len(serviceIDs))
	for rows.Next() {
		var (
			serviceID            int64
			w                    domain.WeeklyWindow
			breakStart, breakEnd types.TimeString
		)
		if err := rows.Scan(&serviceID, &w.DayOfWeek, &w.StartTime, &w.EndTime, &breakStart, &breakEnd); err != nil {
			return nil, fmt.Errorf("%w: loadSchedules - scan window: %w", ErrScanRow, err)
		}
		if !breakStart.IsZero() || !breakEnd.IsZero() {
			w.Break = &domain.BreakWindow{Start: breakStart, End: breakEnd}
		}
		result[serviceID] = append(result[serviceID], w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadSchedules - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner) (*domain.ServiceDefinition, error) {
	var s domain.ServiceDefinition
	err := row.Scan(
		&s.ID,
		&s.CategoryID,
		&s.ShelterID,
		&s.Name,
		&s.Description,
		&s.Provider,
		&s.Location,
		&s.DurationMinutes,
		&s.Capacity,
		&s.Cost,
		pq.Array(&s.Requirements),
		&s.Active,
		&s.RequiresConfirmation,
	)
	if err != nil {
		return nil, err
	}
	s.Origin = domain.OriginAuthoritative
	return &s, nil
}
