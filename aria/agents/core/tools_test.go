package core

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"aria/aria/config"
	"aria/aria/sources/psql/models"
	"aria/aria/utils/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClock = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T, store Store) *Session {
	t.Helper()
	logging.InitLogger()
	s := NewSession("call-test", store, config.DefaultRates())
	s.now = func() time.Time { return testClock }
	s.start = testClock
	return s
}

func identify(t *testing.T, s *Session, phone string) {
	t.Helper()
	res := s.IdentifyUser(context.Background(), phone, "")
	require.True(t, res.OK(), "identify failed: %s", res.Message)
}

func TestIdentifyUserAdoptsStoredName(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	first := newTestSession(t, store)
	res := first.IdentifyUser(ctx, "+15551234567", "Dana")
	require.True(t, res.OK())
	assert.Equal(t, "Dana", first.Name())

	// A later session with no name picks up the stored one.
	second := newTestSession(t, store)
	res = second.IdentifyUser(ctx, "+15551234567", "")
	require.True(t, res.OK())
	assert.Equal(t, "Dana", second.Name())
}

func TestIdentifyUserIgnoresNullName(t *testing.T) {
	s := newTestSession(t, newMemStore())
	res := s.IdentifyUser(context.Background(), "+15551230000", "null")
	require.True(t, res.OK())
	assert.Empty(t, s.Name())
}

func TestIdentifyUserSucceedsWhenStoreDown(t *testing.T) {
	store := newMemStore()
	store.failWrites = true
	s := newTestSession(t, store)

	res := s.IdentifyUser(context.Background(), "+15551234567", "Dana")
	require.True(t, res.OK())
	assert.True(t, s.Identified())
	assert.Equal(t, 1, s.Usage().DegradedWrites)
}

func TestBookRequiresIdentity(t *testing.T) {
	s := newTestSession(t, newMemStore())
	res := s.BookAppointment(context.Background(), "tomorrow", "2 PM", "")
	require.False(t, res.OK())
	assert.Equal(t, ErrNotIdentified, res.Kind)
}

func TestBookNormalizesDateAndTime(t *testing.T) {
	store := newMemStore()
	s := newTestSession(t, store)
	identify(t, s, "+15551234567")

	res := s.BookAppointment(context.Background(), "tomorrow", "2 PM", "")
	require.True(t, res.OK())
	appt := res.Data.(*models.Appointment)
	assert.Equal(t, "2024-01-02", appt.Date)
	assert.Equal(t, "14:00", appt.Time)
	assert.Equal(t, "General consultation", appt.Purpose)
	assert.Equal(t, models.AppointmentConfirmed, appt.Status)
}

func TestBookSameSlotTwice(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	s1 := newTestSession(t, store)
	identify(t, s1, "+15551111111")
	s2 := newTestSession(t, store)
	identify(t, s2, "+15552222222")

	first := s1.BookAppointment(ctx, "2024-02-01", "10 AM", "checkup")
	second := s2.BookAppointment(ctx, "2024-02-01", "10 AM", "cleaning")

	require.True(t, first.OK())
	require.False(t, second.OK())
	assert.Equal(t, ErrSlotTaken, second.Kind)
	assert.Equal(t, 1, store.confirmedCount())
}

func TestConcurrentBookingYieldsOneWinner(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	const sessions = 8
	results := make([]ToolResult, sessions)
	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		s := newTestSession(t, store)
		identify(t, s, fmt.Sprintf("+1555%07d", i))
		wg.Add(1)
		go func(i int, s *Session) {
			defer wg.Done()
			results[i] = s.BookAppointment(ctx, "2024-02-01", "10 AM", "")
		}(i, s)
	}
	wg.Wait()

	wins := 0
	for _, r := range results {
		if r.OK() {
			wins++
		} else {
			assert.Equal(t, ErrSlotTaken, r.Kind)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, store.confirmedCount())
}

func TestFetchSlotsExcludesBooked(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	s := newTestSession(t, store)
	identify(t, s, "+15551234567")
	res := s.BookAppointment(ctx, "tomorrow", "2 PM", "")
	require.True(t, res.OK())

	res = s.FetchSlots(ctx, "tomorrow")
	require.True(t, res.OK())
	data := res.Data.(map[string]interface{})
	slots := data["slots"].([]Slot)

	times := make([]string, 0, len(slots))
	for _, slot := range slots {
		assert.Equal(t, "2024-01-02", slot.Date)
		assert.True(t, slot.Available)
		times = append(times, slot.Time)
	}
	assert.Equal(t, []string{"09:00", "10:00", "11:00", "15:00", "16:00"}, times)
	assert.Equal(t, "2024-01-02", data["date_searched"])
}

func TestFetchSlotsDefaultWindow(t *testing.T) {
	s := newTestSession(t, newMemStore())
	res := s.FetchSlots(context.Background(), "")
	require.True(t, res.OK())
	data := res.Data.(map[string]interface{})
	slots := data["slots"].([]Slot)

	// 7 days x 6 slots available, capped at 10, generation order.
	require.Len(t, slots, 10)
	assert.Equal(t, Slot{Date: "2024-01-02", Time: "09:00", Available: true}, slots[0])
	assert.Equal(t, Slot{Date: "2024-01-03", Time: "14:00", Available: true}, slots[9])
	assert.Nil(t, data["date_searched"])
}

func TestFetchSlotsFailsOpenOnStoreError(t *testing.T) {
	store := newMemStore()
	store.failReads = true
	s := newTestSession(t, store)

	res := s.FetchSlots(context.Background(), "tomorrow")
	require.True(t, res.OK())
	slots := res.Data.(map[string]interface{})["slots"].([]Slot)
	assert.Len(t, slots, 6)
}

func TestRetrieveAppointmentsFiltersAndCaches(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	s := newTestSession(t, store)
	identify(t, s, "+15551234567")

	require.True(t, s.BookAppointment(ctx, "2024-02-01", "9 AM", "").OK())
	booked := s.BookAppointment(ctx, "2024-02-01", "10 AM", "")
	require.True(t, booked.OK())
	cancelRes := s.CancelAppointment(ctx, booked.Data.(*models.Appointment).ID.String())
	require.True(t, cancelRes.OK())

	res := s.RetrieveAppointments(ctx, models.AppointmentConfirmed)
	require.True(t, res.OK())
	appts := res.Data.(map[string]interface{})["appointments"].([]models.Appointment)
	require.Len(t, appts, 1)
	assert.Equal(t, "09:00", appts[0].Time)

	res = s.RetrieveAppointments(ctx, "all")
	require.True(t, res.OK())
	appts = res.Data.(map[string]interface{})["appointments"].([]models.Appointment)
	assert.Len(t, appts, 2)
}

func TestCancelForeignAppointmentFails(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	owner := newTestSession(t, store)
	identify(t, owner, "+15551111111")
	booked := owner.BookAppointment(ctx, "2024-02-01", "10 AM", "")
	require.True(t, booked.OK())
	id := booked.Data.(*models.Appointment).ID

	intruder := newTestSession(t, store)
	identify(t, intruder, "+15559999999")
	res := intruder.CancelAppointment(ctx, id.String())
	require.False(t, res.OK())
	assert.Equal(t, ErrNotFound, res.Kind)

	stored, err := store.GetAppointment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentConfirmed, stored.Status)
}

func TestCancelUnknownID(t *testing.T) {
	s := newTestSession(t, newMemStore())
	identify(t, s, "+15551234567")
	res := s.CancelAppointment(context.Background(), "not-a-uuid")
	require.False(t, res.OK())
	assert.Equal(t, ErrNotFound, res.Kind)
}

func TestModifyConflictsAndSelfExclusion(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	s := newTestSession(t, store)
	identify(t, s, "+15551234567")

	first := s.BookAppointment(ctx, "2024-02-01", "10 AM", "")
	require.True(t, first.OK())
	second := s.BookAppointment(ctx, "2024-02-01", "11 AM", "")
	require.True(t, second.OK())
	firstID := first.Data.(*models.Appointment).ID.String()
	secondID := second.Data.(*models.Appointment).ID.String()

	// Moving onto a slot someone else holds is a conflict.
	res := s.ModifyAppointment(ctx, secondID, "", "10 AM")
	require.False(t, res.OK())
	assert.Equal(t, ErrSlotTaken, res.Kind)

	// Re-confirming the current slot succeeds (self-exclusion).
	res = s.ModifyAppointment(ctx, firstID, "2024-02-01", "10 AM")
	require.True(t, res.OK())

	// Moving to a free slot succeeds and keeps the date.
	res = s.ModifyAppointment(ctx, secondID, "", "3 PM")
	require.True(t, res.OK())
	appt := res.Data.(*models.Appointment)
	assert.Equal(t, "2024-02-01", appt.Date)
	assert.Equal(t, "15:00", appt.Time)
}

func TestModifyUnknownAppointment(t *testing.T) {
	s := newTestSession(t, newMemStore())
	identify(t, s, "+15551234567")
	res := s.ModifyAppointment(context.Background(), "5f9b9b0e-7a39-4b43-b338-1f2b6e0a8a11", "tomorrow", "")
	require.False(t, res.OK())
	assert.Equal(t, ErrNotFound, res.Kind)
}

func TestCapturePreferenceBeforeIdentity(t *testing.T) {
	store := newMemStore()
	s := newTestSession(t, store)

	res := s.CapturePreference(context.Background(), "prefers mornings", "timing")
	require.True(t, res.OK())
	assert.Equal(t, "Noted: prefers mornings", res.Message)
	// Nothing persisted without a phone, but the session remembers it.
	assert.Empty(t, store.prefs)
}

func TestCapturePreferenceDegradesWhenStoreDown(t *testing.T) {
	store := newMemStore()
	s := newTestSession(t, store)
	identify(t, s, "+15551234567")

	store.failWrites = true
	res := s.CapturePreference(context.Background(), "call after 5pm", "weird-category")
	require.True(t, res.OK())
	assert.Equal(t, 1, s.Usage().DegradedWrites)
}
