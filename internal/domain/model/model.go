// Package model contains domain entities passed between layers.
package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// ActivityType discriminates how an activity is scored.
type ActivityType int

// Closed set of activity types.
const (
	TypeTeam ActivityType = iota
	TypeIndividual
)

// String returns the wire representation of the activity type.
func (t ActivityType) String() string {
	switch t {
	case TypeTeam:
		return "team"
	case TypeIndividual:
		return "individual"
	default:
		return "unknown"
	}
}

// ParseActivityType converts a wire string into an ActivityType.
func ParseActivityType(s string) (ActivityType, error) {
	switch s {
	case "team":
		return TypeTeam, nil
	case "individual":
		return TypeIndividual, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownActivityType, s)
	}
}

// MarshalJSON encodes the type as its wire string.
func (t ActivityType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes the type from its wire string.
func (t *ActivityType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("activity type: %w", err)
	}
	parsed, err := ParseActivityType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// RecordKind discriminates whether a point record is attributed to a team
// or to an individual participant.
type RecordKind int

// Closed set of record kinds.
const (
	KindTeam RecordKind = iota
	KindIndividual
)

// String returns the wire representation of the record kind.
func (k RecordKind) String() string {
	switch k {
	case KindTeam:
		return "team"
	case KindIndividual:
		return "individual"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the kind as its wire string.
func (k RecordKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes the kind from its wire string.
func (k *RecordKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("record kind: %w", err)
	}
	switch s {
	case "team":
		*k = KindTeam
	case "individual":
		*k = KindIndividual
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRecordKind, s)
	}
	return nil
}

// Competition groups two teams and their activities.
type Competition struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Team is one side of a competition. TotalScore is derived; the sum of the
// team's team-kind point records is authoritative and TotalScore must match
// it after every recomputation.
type Team struct {
	ID            string `json:"id"`
	CompetitionID string `json:"competition_id"`
	Name          string `json:"name"`
	Captain       string `json:"captain"`
	TotalScore    int    `json:"total_score"`
}

// Participant belongs to exactly one team. Captaincy is a name match against
// Team.Captain and is a display concern only.
type Participant struct {
	ID            string `json:"id"`
	CompetitionID string `json:"competition_id"`
	TeamID        string `json:"team_id"`
	Name          string `json:"name"`
}

// Activity is a single competitive event. Type is fixed at creation.
type Activity struct {
	ID            string       `json:"id"`
	CompetitionID string       `json:"competition_id"`
	Name          string       `json:"name"`
	Type          ActivityType `json:"type"`
	Unit          string       `json:"unit,omitempty"`
	Completed     bool         `json:"completed"`
	WinnerName    string       `json:"winner_name,omitempty"`
}

// PointRecord is the authoritative, persisted unit of points attributed to a
// team or participant for one activity. Records for an activity are replaced
// wholesale on every re-save, never edited in place.
//
// RawValue keeps the entered raw input so that a rules change can re-derive
// points without the original submission: team records from win/loss saves
// carry no raw value, team records from custom-score saves carry the entered
// number, and individual records always carry the participant's raw value
// (with Points zero, since individual bonuses are folded into the owning
// team's record).
type PointRecord struct {
	ID            string     `json:"id"`
	ActivityID    string     `json:"activity_id"`
	TeamID        string     `json:"team_id,omitempty"`
	ParticipantID string     `json:"participant_id,omitempty"`
	RawValue      *float64   `json:"raw_value,omitempty"`
	Points        int        `json:"points"`
	Kind          RecordKind `json:"kind"`
}

// HasRawValue reports whether the record carries an entered raw input.
func (r PointRecord) HasRawValue() bool {
	return r.RawValue != nil
}

// Float64Ptr is a small helper for populating optional raw values.
func Float64Ptr(v float64) *float64 {
	return &v
}
