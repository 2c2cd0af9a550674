package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/infra/storage/memory"
	teamClient "github.com/m04kA/SMC-GroundBooking/internal/integrations/teamservice"
	"github.com/m04kA/SMC-GroundBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-GroundBooking/pkg/logger"
	"github.com/m04kA/SMC-GroundBooking/pkg/ptr"
)

type fakeTeams struct {
	byCaptain map[int64]*domain.Team
	err       error
}

func (f *fakeTeams) GetCaptainTeam(_ context.Context, userID int64) (*domain.Team, error) {
	if f.err != nil {
		return nil, f.err
	}
	team, ok := f.byCaptain[userID]
	if !ok {
		return nil, teamClient.ErrTeamNotFound
	}
	return team, nil
}

type fixture struct {
	store *memory.Store
	teams *fakeTeams
	svc   *Service
	slot  *domain.Slot
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	teams := &fakeTeams{byCaptain: map[int64]*domain.Team{
		100: {ID: 1, Name: "Falcons", CaptainUserID: 100, RosterSize: 9},
		200: {ID: 2, Name: "Wolves", CaptainUserID: 200, RosterSize: 7},
	}}

	slot, err := store.Slots().Create(context.Background(), &domain.Slot{
		Date: time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC), StartTime: "18:00", EndTime: "20:00", Capacity: 4,
	})
	require.NoError(t, err)

	return &fixture{
		store: store,
		teams: teams,
		svc:   NewService(store.Bookings(), store.Slots(), teams, logger.NewNop()),
		slot:  slot,
	}
}

func (f *fixture) booking(t *testing.T, teamID int64, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b, err := f.store.Bookings().Create(context.Background(), &domain.Booking{
		SlotID: f.slot.ID, TeamID: teamID, TeamName: "team", Status: status, PaymentStatus: domain.PaymentPending,
	})
	require.NoError(t, err)
	return b
}

func TestGetByID_Access(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.booking(t, 1, domain.StatusConfirmed)

	resp, err := f.svc.GetByID(ctx, b.ID, models.Caller{UserID: 100})
	require.NoError(t, err)
	assert.Equal(t, b.ID, resp.ID)
	require.NotNil(t, resp.Slot)
	assert.Equal(t, "2030-06-01", resp.Slot.Date)
	assert.Equal(t, "18:00", resp.Slot.StartTime)

	_, err = f.svc.GetByID(ctx, b.ID, models.Caller{UserID: 200})
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	_, err = f.svc.GetByID(ctx, b.ID, models.Caller{UserID: 300})
	assert.ErrorIs(t, err, domain.ErrTeamNotFound)

	_, err = f.svc.GetByID(ctx, b.ID, models.Caller{UserID: 999, IsAdmin: true})
	assert.NoError(t, err)

	_, err = f.svc.GetByID(ctx, 12345, models.Caller{IsAdmin: true})
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestGetByID_TeamServiceDown(t *testing.T) {
	f := newFixture(t)
	b := f.booking(t, 1, domain.StatusConfirmed)
	f.teams.err = errors.New("connection refused")

	_, err := f.svc.GetByID(context.Background(), b.ID, models.Caller{UserID: 100})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestGetTeamBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.booking(t, 1, domain.StatusCancelled)
	f.booking(t, 1, domain.StatusConfirmed)
	f.booking(t, 2, domain.StatusConfirmed)

	all, err := f.svc.GetTeamBookings(ctx, &models.GetTeamBookingsRequest{UserID: 100})
	require.NoError(t, err)
	assert.Len(t, all.Bookings, 2)
	for _, b := range all.Bookings {
		assert.Equal(t, int64(1), b.TeamID)
	}

	confirmed, err := f.svc.GetTeamBookings(ctx, &models.GetTeamBookingsRequest{UserID: 100, Status: ptr.Ptr("confirmed")})
	require.NoError(t, err)
	require.Len(t, confirmed.Bookings, 1)
	assert.Equal(t, "confirmed", confirmed.Bookings[0].Status)

	_, err = f.svc.GetTeamBookings(ctx, &models.GetTeamBookingsRequest{UserID: 100, Status: ptr.Ptr("pending")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetSlotBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.booking(t, 1, domain.StatusCancelled)
	f.booking(t, 2, domain.StatusConfirmed)

	active, err := f.svc.GetSlotBookings(ctx, f.slot.ID, false)
	require.NoError(t, err)
	assert.Len(t, active.Bookings, 1)

	all, err := f.svc.GetSlotBookings(ctx, f.slot.ID, true)
	require.NoError(t, err)
	assert.Len(t, all.Bookings, 2)

	_, err = f.svc.GetSlotBookings(ctx, 999, false)
	assert.ErrorIs(t, err, domain.ErrSlotNotFound)
}

func TestUpdatePaymentStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.booking(t, 1, domain.StatusConfirmed)

	resp, err := f.svc.UpdatePaymentStatus(ctx, b.ID, &models.UpdatePaymentStatusRequest{PaymentStatus: "verified"})
	require.NoError(t, err)
	assert.Equal(t, "verified", resp.PaymentStatus)
	assert.Equal(t, "confirmed", resp.Status)

	_, err = f.svc.UpdatePaymentStatus(ctx, b.ID, &models.UpdatePaymentStatusRequest{PaymentStatus: "paid"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.UpdatePaymentStatus(ctx, 999, &models.UpdatePaymentStatusRequest{PaymentStatus: "verified"})
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}
