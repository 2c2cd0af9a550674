package booking

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

var bookingColumns = []string{
	"id",
	"slot_id",
	"team_id",
	"team_name",
	"status",
	"payment_status",
	"cancelled_at",
	"cancelled_by",
	"created_at",
	"updated_at",
}

// Repository журнал бронирований. Записи не удаляются физически
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование.
// Если в контексте передана активная транзакция (через context.Value), использует её.
// Частичный уникальный индекс (slot_id, team_id) WHERE status = 'confirmed'
// превращается в ErrDuplicateConfirmed
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns("slot_id", "team_id", "team_name", "status", "payment_status").
		Values(booking.SlotID, booking.TeamID, booking.TeamName, booking.Status, booking.PaymentStatus).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID, &createdAt, &updatedAt)
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrDuplicateConfirmed
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, false, "GetByID")
}

// GetByIDForUpdate получает бронирование с блокировкой строки, если есть транзакция
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, dbmetrics.IsInTransaction(ctx), "GetByIDForUpdate")
}

func (r *Repository) getByID(ctx context.Context, id int64, forUpdate bool, op string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
	}

	return booking, nil
}

// HasConfirmed проверяет, есть ли у команды подтверждённое бронирование слота
func (r *Repository) HasConfirmed(ctx context.Context, slotID, teamID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"slot_id": slotID, "team_id": teamID, "status": domain.StatusConfirmed}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasConfirmed - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasConfirmed - execute query: %v", ErrExecQuery, err)
	}

	return true, nil
}

// ListConfirmedBySlotIDs возвращает подтверждённые бронирования указанных слотов
// в порядке создания
func (r *Repository) ListConfirmedBySlotIDs(ctx context.Context, slotIDs []int64) ([]*domain.Booking, error) {
	if len(slotIDs) == 0 {
		return []*domain.Booking{}, nil
	}

	return r.list(ctx, "ListConfirmedBySlotIDs",
		psqlbuilder.Select(bookingColumns...).
			From("bookings").
			Where(squirrel.Eq{"slot_id": slotIDs, "status": domain.StatusConfirmed}).
			OrderBy("created_at ASC", "id ASC"),
	)
}

// ListByTeam возвращает историю бронирований команды, опционально по статусу
func (r *Repository) ListByTeam(ctx context.Context, teamID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"team_id": teamID}).
		OrderBy("created_at DESC", "id DESC")

	// Фильтрация по статусу, если указан
	if status != nil {
		builder = builder.Where(squirrel.Eq{"status": *status})
	}

	return r.list(ctx, "ListByTeam", builder)
}

// ListBySlot возвращает бронирования слота, включая отменённые по запросу
func (r *Repository) ListBySlot(ctx context.Context, slotID int64, includeCancelled bool) ([]*domain.Booking, error) {
	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"slot_id": slotID}).
		OrderBy("created_at ASC", "id ASC")

	if !includeCancelled {
		builder = builder.Where(squirrel.Eq{"status": domain.StatusConfirmed})
	}

	return r.list(ctx, "ListBySlot", builder)
}

// Cancel переводит подтверждённое бронирование в cancelled.
// Повторная отмена не проходит условие status = 'confirmed' и возвращает ErrNotConfirmed
func (r *Repository) Cancel(ctx context.Context, id int64, by domain.CancelledBy, at time.Time) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancelled_at", at).
		Set("cancelled_by", by).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusConfirmed}).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotConfirmed
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// UpdatePaymentStatus обновляет статус оплаты. Не влияет на вместимость
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdatePaymentStatus - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdatePaymentStatus - execute update: %v", ErrExecQuery, err)
	}

	return booking, nil
}

func (r *Repository) list(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует строку в бронирование
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var cancelledAt, createdAt, updatedAt sql.NullTime
	var cancelledBy sql.NullString

	err := row.Scan(
		&booking.ID,
		&booking.SlotID,
		&booking.TeamID,
		&booking.TeamName,
		&booking.Status,
		&booking.PaymentStatus,
		&cancelledAt,
		&cancelledBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cancelledAt.Valid {
		t := cancelledAt.Time
		booking.CancelledAt = &t
	}
	if cancelledBy.Valid {
		by := domain.CancelledBy(cancelledBy.String)
		booking.CancelledBy = &by
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func joinColumns() string {
	return strings.Join(bookingColumns, ", ")
}
