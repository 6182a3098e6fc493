package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reservation-desk/backend/internal/model"
)

func seededLedger() *fakeLedger {
	return &fakeLedger{rows: []model.ReservationSlot{
		{Date: "2024-01-01", Time: "10:00", IsBooked: true, Name: "Kim", Tel: "010", Remarks: "window"},
		{Date: "2024-01-01", Time: "11:00"},
		{Date: "2024-01-02", Time: "09:00"},
	}}
}

func TestCreateReservations_EmptyBatch(t *testing.T) {
	ledger := &fakeLedger{}
	svc := NewReservationService(ledger)

	_, err := svc.CreateReservations(context.Background(), nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateReservations(context.Background(), []model.DateGroup{})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, ledger.replaced)
}

func TestCreateReservations_MissingGuestInfoWritesNothing(t *testing.T) {
	ledger := seededLedger()
	svc := NewReservationService(ledger)

	_, err := svc.CreateReservations(context.Background(), []model.DateGroup{{
		Date:     "2024-01-01",
		TimeList: []model.TimeSlot{{Time: "10:00", IsBooked: true}},
	}})
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, ledger.replaced)
	assert.Len(t, ledger.rows, 3)
}

func TestCreateReservations_ReplacesLedger(t *testing.T) {
	ledger := seededLedger()
	svc := NewReservationService(ledger)

	ack, err := svc.CreateReservations(context.Background(), []model.DateGroup{{
		Date:     "2024-02-01",
		TimeList: []model.TimeSlot{booked("12:00", "Lee", "011", "quiet"), free("13:00")},
	}})
	require.NoError(t, err)
	assert.Equal(t, "Reservation saved successfully", ack)
	assert.Equal(t, []model.ReservationSlot{
		{Date: "2024-02-01", Time: "12:00", IsBooked: true, Name: "Lee", Tel: "011", Remarks: "quiet"},
		{Date: "2024-02-01", Time: "13:00"},
	}, ledger.rows)
}

func TestCreateReservations_StoreFailureIsWrapped(t *testing.T) {
	ledger := &fakeLedger{fail: errStoreDown}
	svc := NewReservationService(ledger)

	_, err := svc.CreateReservations(context.Background(), []model.DateGroup{{Date: "2024-02-01", TimeList: []model.TimeSlot{free("13:00")}}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errStoreDown))
	_, typed := AsError(err)
	assert.False(t, typed)
}

func TestUpdateReservation_UnbookClearsGuestInfo(t *testing.T) {
	ledger := seededLedger()
	svc := NewReservationService(ledger)

	key, err := svc.UpdateReservation(context.Background(), "2024-01-01", "10:00", model.SlotPatch{IsBooked: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, model.SlotKey{Date: "2024-01-01", Time: "10:00"}, key)

	row, err := ledger.GetSlot(context.Background(), "2024-01-01", "10:00")
	require.NoError(t, err)
	assert.Equal(t, model.ReservationSlot{Date: "2024-01-01", Time: "10:00"}, *row)
}

func TestUpdateReservation_UnbookIgnoresOversizedInfo(t *testing.T) {
	ledger := seededLedger()
	svc := NewReservationService(ledger)

	patch := model.SlotPatch{IsBooked: boolPtr(false), Info: model.GuestInfo{Remarks: strings.Repeat("x", 201)}}
	_, err := svc.UpdateReservation(context.Background(), "2024-01-01", "10:00", patch)
	require.NoError(t, err)

	row, err := ledger.GetSlot(context.Background(), "2024-01-01", "10:00")
	require.NoError(t, err)
	assert.Equal(t, model.ReservationSlot{Date: "2024-01-01", Time: "10:00"}, *row)
}

func TestUpdateReservation_NotFound(t *testing.T) {
	svc := NewReservationService(seededLedger())

	_, err := svc.UpdateReservation(context.Background(), "2030-01-01", "10:00", model.SlotPatch{IsBooked: boolPtr(false)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateReservation_BookingWithoutInfoIsRejected(t *testing.T) {
	ledger := seededLedger()
	svc := NewReservationService(ledger)

	_, err := svc.UpdateReservation(context.Background(), "2024-01-01", "11:00", model.SlotPatch{IsBooked: boolPtr(true), Info: model.GuestInfo{Name: "Lee"}})
	require.ErrorIs(t, err, ErrValidation)

	row, _ := ledger.GetSlot(context.Background(), "2024-01-01", "11:00")
	assert.False(t, row.IsBooked)
}

func TestUpdateReservation_InvalidKey(t *testing.T) {
	svc := NewReservationService(seededLedger())

	_, err := svc.UpdateReservation(context.Background(), "2024-1-1", "10am", model.SlotPatch{})
	require.ErrorIs(t, err, ErrValidation)
	domainErr, _ := AsError(err)
	assert.Contains(t, domainErr.Fields, "date")
	assert.Contains(t, domainErr.Fields, "time")
}

func TestUpdateReservation_ConcurrentPatchesKeepInvariant(t *testing.T) {
	ledger := seededLedger()
	svc := NewReservationService(ledger)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			patch := model.SlotPatch{IsBooked: boolPtr(i%2 == 0), Info: model.GuestInfo{Name: "N", Tel: "T", Remarks: "R"}}
			_, _ = svc.UpdateReservation(context.Background(), "2024-01-01", "11:00", patch)
		}(i)
	}
	wg.Wait()

	row, err := ledger.GetSlot(context.Background(), "2024-01-01", "11:00")
	require.NoError(t, err)
	if row.IsBooked {
		assert.Equal(t, "N", row.Name)
	} else {
		assert.Empty(t, row.Name+row.Tel+row.Remarks)
	}
}

func TestListReservations(t *testing.T) {
	svc := NewReservationService(seededLedger())

	groups, err := svc.ListReservations(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "2024-01-01", groups[0].Date)
	assert.Len(t, groups[0].TimeList, 2)
	assert.Equal(t, "Kim", groups[0].TimeList[0].Info.Name)
}

func TestListReservations_Empty(t *testing.T) {
	svc := NewReservationService(&fakeLedger{})

	groups, err := svc.ListReservations(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestGetReservationsByDate(t *testing.T) {
	svc := NewReservationService(seededLedger())

	group, err := svc.GetReservationsByDate(context.Background(), "2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, []model.TimeSlot{free("09:00")}, group.TimeList)

	empty, err := svc.GetReservationsByDate(context.Background(), "2024-05-05")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-05", empty.Date)
	assert.NotNil(t, empty.TimeList)
	assert.Empty(t, empty.TimeList)
}

func TestGetReservation(t *testing.T) {
	svc := NewReservationService(seededLedger())

	group, err := svc.GetReservation(context.Background(), "2024-01-01", "10:00")
	require.NoError(t, err)
	assert.Equal(t, []model.TimeSlot{booked("10:00", "Kim", "010", "window")}, group.TimeList)

	_, err = svc.GetReservation(context.Background(), "2024-01-01", "23:00")
	assert.ErrorIs(t, err, ErrNotFound)
}
