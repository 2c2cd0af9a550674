package teamservice

import "github.com/m04kA/SMC-GroundBooking/internal/domain"

// Team модель команды из TeamService
type Team struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	CaptainUserID int64  `json:"captainUserId"`
	RosterSize    int    `json:"rosterSize"` // текущее число игроков в составе
}

// ToDomain конвертирует ответ в доменную модель
func (t *Team) ToDomain() *domain.Team {
	return &domain.Team{
		ID:            t.ID,
		Name:          t.Name,
		CaptainUserID: t.CaptainUserID,
		RosterSize:    t.RosterSize,
	}
}
