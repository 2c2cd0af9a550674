package cancel_booking

import (
	"context"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/service/reservation"
)

// Engine движок бронирования
type Engine interface {
	Cancel(ctx context.Context, req reservation.CancelRequest) (*reservation.CancelResult, error)
}

// TeamServiceClient интерфейс клиента для TeamService
type TeamServiceClient interface {
	GetCaptainTeam(ctx context.Context, userID int64) (*domain.Team, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
