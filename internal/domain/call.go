package domain

import "time"

type CallType string

const (
	CallAudio CallType = "audio"
	CallVideo CallType = "video"
)

func (t CallType) Valid() bool {
	return t == CallAudio || t == CallVideo
}

type CallStatus string

const (
	CallRinging CallStatus = "ringing"
	CallOngoing CallStatus = "ongoing"
	CallEnded   CallStatus = "ended"
	CallMissed  CallStatus = "missed"
)

// CallSession links the caller (payer) and receiver (payee) of one call.
type CallSession struct {
	ID              int64      `db:"id" json:"id"`
	CallerID        int64      `db:"caller_id" json:"caller_id"`
	ReceiverID      int64      `db:"receiver_id" json:"receiver_id"`
	Type            CallType   `db:"type" json:"type"`
	Status          CallStatus `db:"status" json:"status"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	StartedAt       time.Time  `db:"started_at" json:"started_at"`
	EndedAt         *time.Time `db:"ended_at" json:"ended_at,omitempty"`
}
