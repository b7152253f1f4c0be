package core

import (
	"sync"
	"time"

	"aria/aria/config"
	"aria/aria/sources/psql/models"
	"aria/aria/utils/logging"

	"go.uber.org/zap"
)

// Greeting is spoken once when a session starts.
const Greeting = "Hello! I'm your appointment booking assistant. How can I help you today?"

const (
	RoleCaller = "caller"
	RoleAgent  = "agent"
)

// TranscriptEntry is one recognized or spoken utterance.
type TranscriptEntry struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	Time time.Time `json:"time"`
}

// Session is the per-conversation aggregate: identity, appointment and
// preference caches, transcript and usage counters. Each call owns exactly
// one Session; the store is the only thing shared across calls.
//
// Tool calls within a session are turn-taken, but transcript events arrive
// from the media gateway's read loop while a tool may be in flight, so state
// is guarded by a mutex.
type Session struct {
	ID    string
	start time.Time

	store       Store
	rates       config.RateTable
	summarizer  Summarizer
	archive     TranscriptArchive
	broadcaster Broadcaster

	now func() time.Time

	mu           sync.Mutex
	phone        string
	name         string
	appointments []models.Appointment
	preferences  []models.Preference
	transcript   []TranscriptEntry
	usage        Usage
}

func NewSession(sessionID string, store Store, rates config.RateTable) *Session {
	s := &Session{
		ID:    sessionID,
		store: store,
		rates: rates,
		now:   time.Now,
	}
	s.start = s.now()
	logging.AppLogger.Info("Session started",
		zap.String("session_id", sessionID),
	)
	return s
}

// AttachSummarizer wires the external summarization capability. Without one,
// end_conversation always uses the fallback summary.
func (s *Session) AttachSummarizer(sum Summarizer) { s.summarizer = sum }

// AttachArchive wires the best-effort transcript archive.
func (s *Session) AttachArchive(a TranscriptArchive) { s.archive = a }

// AttachBroadcaster wires the front-end observer channel.
func (s *Session) AttachBroadcaster(b Broadcaster) { s.broadcaster = b }

// OnCallerText records a final caller utterance: transcript append plus the
// speech-seconds estimate.
func (s *Session) OnCallerText(text string) {
	s.mu.Lock()
	s.transcript = append(s.transcript, TranscriptEntry{Role: RoleCaller, Text: text, Time: s.now()})
	s.usage.STTSeconds += float64(len(text)) / 15.0
	s.mu.Unlock()
	s.broadcast(RoleCaller, text)
}

// OnAgentText records a spoken agent utterance: transcript append plus the
// synthesis and output-token estimates.
func (s *Session) OnAgentText(text string) {
	s.mu.Lock()
	s.transcript = append(s.transcript, TranscriptEntry{Role: RoleAgent, Text: text, Time: s.now()})
	s.usage.TTSChars += len(text)
	s.usage.LLMOutputTokens += len(text) / 4
	s.mu.Unlock()
	s.broadcast(RoleAgent, text)
}

// AddInputTokens accumulates prompt-side token usage reported by the LLM
// layer.
func (s *Session) AddInputTokens(n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	s.usage.LLMInputTokens += n
	s.mu.Unlock()
}

func (s *Session) broadcast(role, text string) {
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(role, text)
	}
}

// Identified reports whether identify_user has run.
func (s *Session) Identified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phone != ""
}

// Phone returns the caller's phone number, empty until identified.
func (s *Session) Phone() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phone
}

// Name returns the caller's display name, empty when unknown.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// Transcript returns a copy of the transcript so far.
func (s *Session) Transcript() []TranscriptEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TranscriptEntry, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Usage returns a snapshot of the counters.
func (s *Session) Usage() Usage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usage
}

// Costs prices the current usage snapshot.
func (s *Session) Costs() CostBreakdown {
	return s.Usage().CostBreakdown(s.rates)
}

// noteDegradedWrite makes a swallowed best-effort write failure observable:
// counted on the usage snapshot and logged at warn level.
func (s *Session) noteDegradedWrite(op string, err error) {
	s.mu.Lock()
	s.usage.DegradedWrites++
	s.mu.Unlock()
	logging.SessionLogger.Warn("Degraded write",
		zap.String("session_id", s.ID),
		zap.String("op", op),
		zap.Error(err),
	)
}
