package book_slot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/infra/lock"
	"github.com/m04kA/SMC-GroundBooking/internal/infra/storage/memory"
	teamClient "github.com/m04kA/SMC-GroundBooking/internal/integrations/teamservice"
	"github.com/m04kA/SMC-GroundBooking/internal/service/reservation"
	"github.com/m04kA/SMC-GroundBooking/pkg/logger"
)

type fakeTeams struct {
	team *domain.Team
	err  error
}

func (f *fakeTeams) GetCaptainTeam(context.Context, int64) (*domain.Team, error) {
	return f.team, f.err
}

type recordingEngine struct {
	got reservation.BookRequest
	err error
}

func (e *recordingEngine) Book(_ context.Context, req reservation.BookRequest) (*reservation.BookResult, error) {
	e.got = req
	if e.err != nil {
		return nil, e.err
	}
	return &reservation.BookResult{
		Booking: &domain.Booking{ID: 5, SlotID: req.SlotID, TeamID: req.TeamID, TeamName: req.TeamName, Status: domain.StatusConfirmed, PaymentStatus: domain.PaymentPending},
		Slot:    domain.SlotAvailability{SlotID: req.SlotID, Capacity: 2, BookedCount: 1, Remaining: 1},
	}, nil
}

func TestExecute_PassesTeamToEngine(t *testing.T) {
	engine := &recordingEngine{}
	teams := &fakeTeams{team: &domain.Team{ID: 3, Name: "Falcons", RosterSize: 8}}
	uc := NewUseCase(engine, teams, logger.NewNop())

	resp, err := uc.Execute(context.Background(), &Request{UserID: 10, SlotID: 4})
	require.NoError(t, err)
	assert.Equal(t, reservation.BookRequest{SlotID: 4, TeamID: 3, TeamName: "Falcons", RosterSize: 8}, engine.got)
	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "pending", resp.PaymentStatus)
	assert.Equal(t, 1, resp.Remaining)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		teams   *fakeTeams
		engine  *recordingEngine
		wantErr error
	}{
		{
			name:    "invalid slot",
			req:     &Request{UserID: 1},
			teams:   &fakeTeams{},
			engine:  &recordingEngine{},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "not a captain",
			req:     &Request{UserID: 1, SlotID: 1},
			teams:   &fakeTeams{err: teamClient.ErrTeamNotFound},
			engine:  &recordingEngine{},
			wantErr: domain.ErrTeamNotFound,
		},
		{
			name:    "team service down",
			req:     &Request{UserID: 1, SlotID: 1},
			teams:   &fakeTeams{err: errors.New("timeout")},
			engine:  &recordingEngine{},
			wantErr: ErrInternal,
		},
		{
			name:    "engine rejection passes through",
			req:     &Request{UserID: 1, SlotID: 1},
			teams:   &fakeTeams{team: &domain.Team{ID: 1, RosterSize: 7}},
			engine:  &recordingEngine{err: domain.ErrSlotFull},
			wantErr: domain.ErrSlotFull,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewUseCase(tt.engine, tt.teams, logger.NewNop())
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestExecute_RosterGrowsToMinimum(t *testing.T) {
	store := memory.NewStore()
	slot, err := store.Slots().Create(context.Background(), &domain.Slot{
		Date: time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC), StartTime: "18:00", EndTime: "20:00", Capacity: 2,
	})
	require.NoError(t, err)

	engine := reservation.NewEngine(reservation.Config{}, store.Slots(), store.Bookings(), store, lock.NewLocal(), nil, logger.NewNop()).
		WithTimeProvider(fixedClock{now: time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)})
	teams := &fakeTeams{team: &domain.Team{ID: 1, Name: "Falcons", CaptainUserID: 10, RosterSize: 5}}
	uc := NewUseCase(engine, teams, logger.NewNop())

	_, err = uc.Execute(context.Background(), &Request{UserID: 10, SlotID: slot.ID})
	assert.ErrorIs(t, err, domain.ErrInsufficientRoster)

	teams.team.RosterSize = 7
	resp, err := uc.Execute(context.Background(), &Request{UserID: 10, SlotID: slot.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.BookedCount)
}
