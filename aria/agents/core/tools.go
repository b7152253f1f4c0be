package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"aria/aria/sources/psql/dao"
	"aria/aria/sources/psql/models"
	"aria/aria/utils/datetime"
	"aria/aria/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrorKind tags a ToolResult error so callers can branch without parsing
// messages. These are business outcomes, not Go errors: the conversation
// continues after every one of them.
type ErrorKind string

const (
	ErrNotIdentified         ErrorKind = "not_identified"
	ErrSlotTaken             ErrorKind = "slot_taken"
	ErrNotFound              ErrorKind = "not_found"
	ErrStoreUnavailable      ErrorKind = "store_unavailable"
	ErrSummarizerUnavailable ErrorKind = "summarizer_unavailable"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ToolResult is the envelope every tool returns. Data is shaped per tool;
// Kind is set only on errors.
type ToolResult struct {
	Tool    string      `json:"tool"`
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
	Kind    ErrorKind   `json:"error_kind,omitempty"`
}

// OK reports whether the tool succeeded.
func (r ToolResult) OK() bool { return r.Status == StatusSuccess }

func success(tool string, data interface{}, message string) ToolResult {
	return ToolResult{Tool: tool, Status: StatusSuccess, Data: data, Message: message}
}

func failure(tool string, kind ErrorKind, message string) ToolResult {
	return ToolResult{Tool: tool, Status: StatusError, Message: message, Kind: kind}
}

// Slot is one bookable (date, time) window.
type Slot struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// Daily schedule: six bookable hours per day.
var slotHours = []int{9, 10, 11, 14, 15, 16}

const maxSlotsReturned = 10

const defaultPurpose = "General consultation"

// IdentifyUser binds a phone number (and optional name) to the session and
// syncs the user row. The store write is best-effort: identification succeeds
// locally even when the store is down.
func (s *Session) IdentifyUser(ctx context.Context, phone, name string) ToolResult {
	defer logging.LogDuration(ctx, "tool_identify_user")()

	phone = strings.TrimSpace(phone)
	if phone == "" {
		return failure("identify_user", ErrNotIdentified, "A phone number is required to identify you")
	}
	if strings.EqualFold(strings.TrimSpace(name), "null") {
		name = ""
	}
	name = strings.TrimSpace(name)

	s.mu.Lock()
	s.phone = phone
	if name != "" {
		s.name = name
	}
	s.mu.Unlock()

	var namePtr *string
	if name != "" {
		namePtr = &name
	}
	if err := s.store.UpsertUser(ctx, phone, namePtr); err != nil {
		s.noteDegradedWrite("upsert_user", err)
	} else if name == "" {
		stored, err := s.store.GetUserName(ctx, phone)
		if err != nil {
			logging.ErrorLogger.Error("user name lookup failed",
				zap.String("session_id", s.ID), zap.Error(err))
		} else if stored != nil {
			s.mu.Lock()
			s.name = *stored
			s.mu.Unlock()
		}
	}

	logging.SessionLogger.Info("User identified",
		zap.String("session_id", s.ID),
		zap.String("phone", phone),
	)

	message := fmt.Sprintf("User identified with phone %s", phone)
	if name != "" {
		message += fmt.Sprintf(" and name %s", name)
	}
	return success("identify_user", map[string]interface{}{
		"phone": phone,
		"name":  s.Name(),
	}, message)
}

// FetchSlots lists available slots. With a date expression the window is that
// single day; otherwise the next seven days starting tomorrow. Store-read
// failures fail open: the schedule is shown as free and the error is logged.
func (s *Session) FetchSlots(ctx context.Context, dateExpr string) ToolResult {
	defer logging.LogDuration(ctx, "tool_fetch_slots")()

	today := datetime.DateOnly(s.now())
	target, hasTarget := datetime.ResolveDate(dateExpr, today)

	start, end := today.AddDate(0, 0, 1), today.AddDate(0, 0, 7)
	if hasTarget {
		start, end = target, target
	}

	var candidates []Slot
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		dateStr := day.Format(datetime.ISODate)
		for _, hour := range slotHours {
			candidates = append(candidates, Slot{Date: dateStr, Time: datetime.FormatTime(hour, 0)})
		}
	}

	filter := dao.AppointmentFilter{Status: models.AppointmentConfirmed}
	if hasTarget {
		filter.Date = target.Format(datetime.ISODate)
	} else {
		filter.DateFrom = start.Format(datetime.ISODate)
		filter.DateTo = end.Format(datetime.ISODate)
	}
	booked := map[[2]string]bool{}
	appts, err := s.store.QueryAppointments(ctx, filter)
	if err != nil {
		logging.ErrorLogger.Error("failed to fetch booked slots",
			zap.String("session_id", s.ID), zap.Error(err))
	} else {
		for _, a := range appts {
			booked[[2]string{a.Date, a.Time}] = true
		}
	}

	available := make([]Slot, 0, maxSlotsReturned)
	for _, c := range candidates {
		if booked[[2]string{c.Date, c.Time}] {
			continue
		}
		c.Available = true
		available = append(available, c)
		if len(available) == maxSlotsReturned {
			break
		}
	}

	var dateSearched interface{}
	if hasTarget {
		dateSearched = target.Format(datetime.ISODate)
	}
	return success("fetch_slots", map[string]interface{}{
		"slots":         available,
		"date_searched": dateSearched,
	}, fmt.Sprintf("Found %d available slots", len(available)))
}

// BookAppointment creates a confirmed appointment at the normalized slot.
// The slot-conflict check is atomic with the insert (see Store).
func (s *Session) BookAppointment(ctx context.Context, dateExpr, timeExpr, purpose string) ToolResult {
	defer logging.LogDuration(ctx, "tool_book_appointment")()

	if purpose == "" {
		purpose = defaultPurpose
	}
	phone := s.Phone()
	if phone == "" {
		return failure("book_appointment", ErrNotIdentified,
			"Please provide your phone number first to book an appointment")
	}

	today := datetime.DateOnly(s.now())
	targetDate := datetime.NormalizeDate(dateExpr, today).Format(datetime.ISODate)
	hour, minute := datetime.NormalizeTime(timeExpr)
	targetTime := datetime.FormatTime(hour, minute)

	appt := &models.Appointment{
		UserPhone: phone,
		Date:      targetDate,
		Time:      targetTime,
		Purpose:   purpose,
		Status:    models.AppointmentConfirmed,
	}
	conflict, err := s.store.CreateAppointment(ctx, appt)
	if err != nil {
		logging.ErrorLogger.Error("booking failed",
			zap.String("session_id", s.ID), zap.Error(err))
		return failure("book_appointment", ErrStoreUnavailable,
			"Sorry, I encountered an error while booking your appointment. Please try again.")
	}
	if conflict {
		return failure("book_appointment", ErrSlotTaken,
			fmt.Sprintf("Sorry, the slot on %s at %s is already booked. Please choose another time.",
				targetDate, targetTime))
	}

	s.mu.Lock()
	s.appointments = append(s.appointments, *appt)
	s.mu.Unlock()

	logging.SessionLogger.Info("Appointment booked",
		zap.String("session_id", s.ID),
		zap.String("date", targetDate),
		zap.String("time", targetTime),
	)
	return success("book_appointment", appt,
		fmt.Sprintf("Appointment confirmed for %s at %s. Purpose: %s", targetDate, targetTime, purpose))
}

// RetrieveAppointments lists the caller's appointments, optionally filtered
// by status, and refreshes the session cache.
func (s *Session) RetrieveAppointments(ctx context.Context, status string) ToolResult {
	defer logging.LogDuration(ctx, "tool_retrieve_appointments")()

	phone := s.Phone()
	if phone == "" {
		return failure("retrieve_appointments", ErrNotIdentified,
			"Please provide your phone number first to retrieve appointments")
	}
	if status == "" {
		status = "all"
	}

	appts, err := s.store.QueryAppointments(ctx, dao.AppointmentFilter{
		UserPhone: phone,
		Status:    status,
	})
	if err != nil {
		logging.ErrorLogger.Error("failed to retrieve appointments",
			zap.String("session_id", s.ID), zap.Error(err))
		return failure("retrieve_appointments", ErrStoreUnavailable,
			"I couldn't retrieve your appointments right now.")
	}

	s.mu.Lock()
	s.appointments = appts
	s.mu.Unlock()

	message := "No appointments found"
	if len(appts) > 0 {
		message = fmt.Sprintf("Found %d appointment(s)", len(appts))
	}
	return success("retrieve_appointments", map[string]interface{}{
		"appointments": appts,
	}, message)
}

// CancelAppointment marks an appointment cancelled, scoped to the caller's
// own phone number. Someone else's appointment reads as not found.
func (s *Session) CancelAppointment(ctx context.Context, appointmentID string) ToolResult {
	defer logging.LogDuration(ctx, "tool_cancel_appointment")()

	phone := s.Phone()
	if phone == "" {
		return failure("cancel_appointment", ErrNotIdentified,
			"Please provide your phone number first to cancel an appointment")
	}
	id, err := uuid.Parse(appointmentID)
	if err != nil {
		return failure("cancel_appointment", ErrNotFound,
			fmt.Sprintf("Appointment %s not found or doesn't belong to you", appointmentID))
	}

	appt, err := s.store.CancelAppointment(ctx, id, phone)
	if err != nil {
		logging.ErrorLogger.Error("cancellation failed",
			zap.String("session_id", s.ID), zap.Error(err))
		return failure("cancel_appointment", ErrStoreUnavailable, "Failed to cancel appointment.")
	}
	if appt == nil {
		return failure("cancel_appointment", ErrNotFound,
			fmt.Sprintf("Appointment %s not found or doesn't belong to you", appointmentID))
	}

	s.mu.Lock()
	for i := range s.appointments {
		if s.appointments[i].ID == appt.ID {
			s.appointments[i].Status = models.AppointmentCancelled
		}
	}
	s.mu.Unlock()

	logging.SessionLogger.Info("Appointment cancelled",
		zap.String("session_id", s.ID),
		zap.String("appointment_id", appointmentID),
	)
	return success("cancel_appointment", appt,
		fmt.Sprintf("Appointment on %s at %s has been cancelled", appt.Date, appt.Time))
}

// ModifyAppointment reschedules an appointment. Omitted fields keep their
// current values; the conflict check excludes the appointment itself, so
// re-confirming the current slot succeeds.
func (s *Session) ModifyAppointment(ctx context.Context, appointmentID, newDateExpr, newTimeExpr string) ToolResult {
	defer logging.LogDuration(ctx, "tool_modify_appointment")()

	phone := s.Phone()
	if phone == "" {
		return failure("modify_appointment", ErrNotIdentified, "Phone number required.")
	}
	id, err := uuid.Parse(appointmentID)
	if err != nil {
		return failure("modify_appointment", ErrNotFound, "Appointment not found.")
	}

	existing, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		logging.ErrorLogger.Error("modification failed",
			zap.String("session_id", s.ID), zap.Error(err))
		return failure("modify_appointment", ErrStoreUnavailable, "Update failed.")
	}
	if existing == nil {
		return failure("modify_appointment", ErrNotFound, "Appointment not found.")
	}

	today := datetime.DateOnly(s.now())
	targetDate := existing.Date
	if newDateExpr != "" {
		targetDate = datetime.NormalizeDate(newDateExpr, today).Format(datetime.ISODate)
	}
	targetTime := existing.Time
	if newTimeExpr != "" {
		hour, minute := datetime.NormalizeTime(newTimeExpr)
		targetTime = datetime.FormatTime(hour, minute)
	}

	appt, conflict, err := s.store.RescheduleAppointment(ctx, id, targetDate, targetTime)
	if err != nil {
		logging.ErrorLogger.Error("modification failed",
			zap.String("session_id", s.ID), zap.Error(err))
		return failure("modify_appointment", ErrStoreUnavailable, "Update failed.")
	}
	if conflict {
		return failure("modify_appointment", ErrSlotTaken, "That new slot is already taken.")
	}
	if appt == nil {
		return failure("modify_appointment", ErrNotFound, "Appointment not found.")
	}

	s.mu.Lock()
	for i := range s.appointments {
		if s.appointments[i].ID == appt.ID {
			s.appointments[i] = *appt
		}
	}
	s.mu.Unlock()

	logging.SessionLogger.Info("Appointment modified",
		zap.String("session_id", s.ID),
		zap.String("appointment_id", appointmentID),
	)
	return success("modify_appointment", appt,
		fmt.Sprintf("Appointment rescheduled to %s at %s", targetDate, targetTime))
}

var preferenceCategories = map[string]bool{
	"timing":        true,
	"communication": true,
	"service":       true,
	"general":       true,
}

// CapturePreference appends a free-text note. The session cache always gets
// it; the store write is best-effort and never blocks the conversation.
func (s *Session) CapturePreference(ctx context.Context, preference, category string) ToolResult {
	defer logging.LogDuration(ctx, "tool_capture_preference")()

	category = strings.ToLower(strings.TrimSpace(category))
	if !preferenceCategories[category] {
		category = "general"
	}

	phone := s.Phone()
	pref := models.Preference{
		Preference: preference,
		Category:   category,
	}
	if phone != "" {
		pref.UserPhone = &phone
	}

	s.mu.Lock()
	s.preferences = append(s.preferences, pref)
	s.mu.Unlock()

	if phone != "" {
		if err := s.store.InsertPreference(ctx, &pref); err != nil {
			s.noteDegradedWrite("insert_preference", err)
		}
	}
	return success("capture_preference", nil, fmt.Sprintf("Noted: %s", preference))
}

// SummaryData is the end_conversation payload: the full session record.
type SummaryData struct {
	UserPhone          string               `json:"user_phone,omitempty"`
	DurationSeconds    int                  `json:"duration_seconds"`
	AppointmentsBooked []models.Appointment `json:"appointments_booked"`
	Preferences        []models.Preference  `json:"preferences"`
	Transcript         []TranscriptEntry    `json:"transcript"`
	CostBreakdown      CostBreakdown        `json:"cost_breakdown"`
	SummaryText        string               `json:"summary_text"`
}

// EndConversation produces the end-of-session record: duration, cost
// breakdown, an LLM-generated summary (with a deterministic fallback), and a
// best-effort CallSummary persist plus transcript archive. Safe to call
// twice; everything is recomputed from current state and the summary row is
// upserted by session id.
func (s *Session) EndConversation(ctx context.Context, confirmation string) ToolResult {
	defer logging.LogDuration(ctx, "tool_end_conversation")()

	duration := int(s.now().Sub(s.start).Seconds())
	transcript := s.Transcript()

	summaryText := "No interaction recorded."
	if len(transcript) > 0 {
		summaryText = s.generateSummary(ctx, transcript, duration)
	}

	costs := s.Costs()

	s.mu.Lock()
	phone := s.phone
	var booked []models.Appointment
	for _, a := range s.appointments {
		if a.Status == models.AppointmentConfirmed {
			booked = append(booked, a)
		}
	}
	prefs := make([]models.Preference, len(s.preferences))
	copy(prefs, s.preferences)
	s.mu.Unlock()

	transcriptJSON, _ := json.Marshal(transcript)
	costJSON, _ := json.Marshal(costs)

	record := &models.CallSummary{
		SessionID:       s.ID,
		DurationSeconds: duration,
		Transcript:      string(transcriptJSON),
		SummaryText:     summaryText,
		CostBreakdown:   string(costJSON),
	}
	if phone != "" {
		record.UserPhone = &phone
	}
	if err := s.store.SaveCallSummary(ctx, record); err != nil {
		s.noteDegradedWrite("save_call_summary", err)
	}
	if s.archive != nil {
		if err := s.archive.ArchiveTranscript(ctx, s.ID, transcriptJSON); err != nil {
			s.noteDegradedWrite("archive_transcript", err)
		}
	}

	logging.SessionLogger.Info("Session ended",
		zap.String("session_id", s.ID),
		zap.Int("duration_seconds", duration),
		zap.Float64("total_cost", costs.Total),
	)

	return success("end_conversation", SummaryData{
		UserPhone:          phone,
		DurationSeconds:    duration,
		AppointmentsBooked: booked,
		Preferences:        prefs,
		Transcript:         transcript,
		CostBreakdown:      costs,
		SummaryText:        summaryText,
	}, "Thank you! Your session is ending.")
}

func (s *Session) generateSummary(ctx context.Context, transcript []TranscriptEntry, duration int) string {
	fallback := fmt.Sprintf("Conversational summary could not be generated, but your call lasted %ds.", duration)
	if s.summarizer == nil {
		return fallback
	}

	var b strings.Builder
	for _, t := range transcript {
		fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Text)
	}
	prompt := fmt.Sprintf(`Summarize this appointment booking conversation.
Include:
1. Main purpose of the call
2. Actions taken (bookings, cancellations)
3. User preferences mentioned
4. Any follow-up needed

Transcript:
%s

Keep it professional and concise (max 150 words).`, b.String())

	s.AddInputTokens(len(prompt) / 4)

	text, err := s.summarizer.Summarize(ctx, prompt)
	if err != nil {
		logging.ErrorLogger.Error("summary generation failed",
			zap.String("session_id", s.ID), zap.Error(err))
		return fallback
	}
	return text
}
