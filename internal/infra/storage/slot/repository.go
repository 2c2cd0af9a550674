package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/infra/storage/pgerr"
	"github.com/m04kA/SMC-GroundBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-GroundBooking/pkg/psqlbuilder"
)

var slotColumns = []string{
	"id",
	"slot_date",
	"start_time",
	"end_time",
	"capacity",
	"booked_count",
	"disabled",
	"created_at",
	"updated_at",
}

// Repository репозиторий слотов. Источник истины для booked_count
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает слот. Дубликат (дата, начало, конец) -> ErrSlotAlreadyExists
func (r *Repository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slots").
		Columns("slot_date", "start_time", "end_time", "capacity", "disabled").
		Values(domain.DateOnly(slot.Date), slot.StartTime, slot.EndTime, slot.Capacity, slot.Disabled).
		Suffix("RETURNING id, booked_count, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&slot.BookedCount,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrSlotAlreadyExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return slot, nil
}

// CreateIfNotExists создает слот, пропуская уже существующий (дата, начало, конец).
// Возвращает false, если слот уже был
func (r *Repository) CreateIfNotExists(ctx context.Context, slot *domain.Slot) (*domain.Slot, bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slots").
		Columns("slot_date", "start_time", "end_time", "capacity", "disabled").
		Values(domain.DateOnly(slot.Date), slot.StartTime, slot.EndTime, slot.Capacity, slot.Disabled).
		Suffix("ON CONFLICT ON CONSTRAINT slots_window_unique DO NOTHING RETURNING id, booked_count, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("%w: CreateIfNotExists - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&slot.BookedCount,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		// ON CONFLICT DO NOTHING не возвращает строк
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: CreateIfNotExists - execute insert: %v", ErrExecQuery, err)
	}

	return slot, true, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	return r.getByID(ctx, id, false, "GetByID")
}

// GetByIDForUpdate получает слот по ID с блокировкой строки (FOR UPDATE).
// Вне транзакции работает как GetByID
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Slot, error) {
	return r.getByID(ctx, id, dbmetrics.IsInTransaction(ctx), "GetByIDForUpdate")
}

func (r *Repository) getByID(ctx context.Context, id int64, forUpdate bool, op string) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan slot: %v", ErrScanRow, op, err)
	}

	return slot, nil
}

// ListByDate возвращает слоты на дату, отсортированные по времени начала
func (r *Repository) ListByDate(ctx context.Context, date time.Time) ([]*domain.Slot, error) {
	return r.ListByDateRange(ctx, date, date)
}

// ListByDateRange возвращает слоты в диапазоне дат включительно
func (r *Repository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.GtOrEq{"slot_date": domain.DateOnly(from)}).
		Where(squirrel.LtOrEq{"slot_date": domain.DateOnly(to)}).
		OrderBy("slot_date ASC", "start_time ASC", "end_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDateRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDateRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByDateRange - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByDateRange - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// IncrementBookedCount условно увеличивает booked_count.
// Обновление проходит, только если booked_count < capacity
func (r *Repository) IncrementBookedCount(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("booked_count", squirrel.Expr("booked_count + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where("booked_count < capacity").
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: IncrementBookedCount - build update query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCapacityExceeded
	}
	if err != nil {
		return nil, fmt.Errorf("%w: IncrementBookedCount - execute update: %v", ErrExecQuery, err)
	}

	return slot, nil
}

// DecrementBookedCount условно уменьшает booked_count (только если booked_count > 0)
func (r *Repository) DecrementBookedCount(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("booked_count", squirrel.Expr("booked_count - 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where("booked_count > 0").
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: DecrementBookedCount - build update query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCounterUnderflow
	}
	if err != nil {
		return nil, fmt.Errorf("%w: DecrementBookedCount - execute update: %v", ErrExecQuery, err)
	}

	return slot, nil
}

// Update обновляет дату, время, вместимость и флаг disabled.
// booked_count не трогается: им владеет движок бронирования
func (r *Repository) Update(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("slot_date", domain.DateOnly(slot.Date)).
		Set("start_time", slot.StartTime).
		Set("end_time", slot.EndTime).
		Set("capacity", slot.Capacity).
		Set("disabled", slot.Disabled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slot.ID}).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	updated, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrSlotAlreadyExists
		}
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return updated, nil
}

// SetDisabledByDate выставляет disabled всем слотам на дату.
// Возвращает количество затронутых слотов
func (r *Repository) SetDisabledByDate(ctx context.Context, date time.Time, disabled bool) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("disabled", disabled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"slot_date": domain.DateOnly(date)}).
		Where(squirrel.NotEq{"disabled": disabled}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: SetDisabledByDate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: SetDisabledByDate - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: SetDisabledByDate - get rows affected: %v", ErrExecQuery, err)
	}

	return affected, nil
}

// Delete удаляет слот, только если на нём нет подтверждённых бронирований
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slots").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"booked_count": 0}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Различаем "нет слота" и "есть бронирования"
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrSlotHasBookings
	}

	return nil
}

// FindCountMismatches ищет слоты, у которых booked_count не совпадает
// с количеством подтверждённых бронирований
func (r *Repository) FindCountMismatches(ctx context.Context) ([]domain.CountMismatch, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("s.id", "s.booked_count", "COUNT(b.id) AS confirmed").
		From("slots s").
		LeftJoin("bookings b ON b.slot_id = s.id AND b.status = ?", domain.StatusConfirmed).
		GroupBy("s.id", "s.booked_count").
		Having("s.booked_count <> COUNT(b.id)").
		OrderBy("s.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindCountMismatches - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindCountMismatches - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	mismatches := make([]domain.CountMismatch, 0)
	for rows.Next() {
		var m domain.CountMismatch
		if err := rows.Scan(&m.SlotID, &m.BookedCount, &m.ConfirmedCount); err != nil {
			return nil, fmt.Errorf("%w: FindCountMismatches - scan row: %v", ErrScanRow, err)
		}
		mismatches = append(mismatches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FindCountMismatches - rows error: %v", ErrScanRow, err)
	}

	return mismatches, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var slot domain.Slot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&slot.ID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Capacity,
		&slot.BookedCount,
		&slot.Disabled,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.Date = domain.DateOnly(slot.Date)
	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

func joinColumns() string {
	return strings.Join(slotColumns, ", ")
}
