package types

// SessionEvent is one inbound frame on the live session channel. The media
// gateway sends transcript events as they are recognized/spoken and tool
// frames when the conversation layer decides to act.
type SessionEvent struct {
	Type string   `json:"type"` // caller_text | agent_text | tool
	Text string   `json:"text,omitempty"`
	Tool string   `json:"tool,omitempty"`
	Args ToolArgs `json:"args,omitempty"`
}

// ToolArgs is the union of every tool's parameters; each tool reads only its
// own fields.
type ToolArgs struct {
	Phone         string `json:"phone,omitempty"`
	Name          string `json:"name,omitempty"`
	Date          string `json:"date,omitempty"`
	Time          string `json:"time,omitempty"`
	Purpose       string `json:"purpose,omitempty"`
	Status        string `json:"status,omitempty"`
	AppointmentID string `json:"appointment_id,omitempty"`
	NewDate       string `json:"new_date,omitempty"`
	NewTime       string `json:"new_time,omitempty"`
	Preference    string `json:"preference,omitempty"`
	Category      string `json:"category,omitempty"`
	Confirmation  string `json:"confirmation,omitempty"`
}

// TranscriptBroadcast is the outbound transcript frame observers receive.
type TranscriptBroadcast struct {
	Type string `json:"type"` // transcript
	Role string `json:"role"`
	Text string `json:"text"`
}
