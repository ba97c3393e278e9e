package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Lecture status states.
const (
	StateUnscheduled = "unscheduled"
	StatePending     = "pending"
	StateInProgress  = "in-progress"
	StateComplete    = "complete"
)

// ShiftScope selects which subset of a pass schedule a push/pull shift
// applies to.
type ShiftScope string

const (
	ScopeSingle      ShiftScope = "single"
	ScopeChainAfter  ShiftScope = "chain-after"
	ScopeChainBefore ShiftScope = "chain-before"
)

// LecturePass is a materialized instance of a PassStep for one lecture.
// Due and CompletedAt are epoch milliseconds; nil means unset.
type LecturePass struct {
	Order         int               `json:"order"`
	Label         string            `json:"label"`
	OffsetMinutes float64           `json:"offsetMinutes"`
	Anchor        string            `json:"anchor"`
	Due           *int64            `json:"due"`
	CompletedAt   *int64            `json:"completedAt"`
	Attachments   []json.RawMessage `json:"attachments"`
	Action        string            `json:"action"`
}

// Completed reports whether the pass has a completion timestamp.
func (p LecturePass) Completed() bool {
	return p.CompletedAt != nil
}

// LectureStatus is derived from a lecture's pass list, never hand-edited.
type LectureStatus struct {
	State           string `json:"state"`
	CompletedPasses int    `json:"completedPasses"`
	LastCompletedAt *int64 `json:"lastCompletedAt"`
}

// LectureRecord is the persisted scheduling state of one lecture.
// All timestamps are epoch milliseconds.
type LectureRecord struct {
	Key             string           `json:"key"`
	BlockID         string           `json:"blockId"`
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Week            *int             `json:"week"`
	Tags            []string         `json:"tags"`
	Passes          []LecturePass    `json:"passes"`
	PassPlan        PassPlan         `json:"passPlan"`
	PlannerDefaults *PlannerDefaults `json:"plannerDefaults,omitempty"`
	Status          LectureStatus    `json:"status"`
	NextDueAt       *int64           `json:"nextDueAt"`
	StartAt         *int64           `json:"startAt"`
	CreatedAt       int64            `json:"createdAt"`
	UpdatedAt       int64            `json:"updatedAt"`
}

// LectureKey builds the storage key for a lecture.
func LectureKey(blockID, lectureID string) string {
	return blockID + "|" + lectureID
}

// LectureFilter narrows a lecture listing.
type LectureFilter struct {
	BlockID   string
	State     string
	DueBefore *int64
	Limit     int
	Offset    int
}

// QueueEntry is one lecture's next actionable pass, as bucketed by the
// queue grouper.
type QueueEntry struct {
	Lecture LectureRecord `json:"lecture"`
	Pass    *LecturePass  `json:"pass"`
	Due     *int64        `json:"due"`
}

// LectureQueues holds the dashboard buckets, each sorted ascending by due.
type LectureQueues struct {
	Overdue  []QueueEntry `json:"overdue"`
	Today    []QueueEntry `json:"today"`
	Tomorrow []QueueEntry `json:"tomorrow"`
	Upcoming []QueueEntry `json:"upcoming"`
}

// Week accepts a JSON number, a numeric string or null and parses it to a
// nullable int at the boundary. Anything else parses to null rather than
// failing the enclosing document.
type Week struct {
	Value *int
}

func (w *Week) UnmarshalJSON(data []byte) error {
	w.Value = nil
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			v := int(n)
			w.Value = &v
		}
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return nil
	}
	v := int(n)
	w.Value = &v
	return nil
}

func (w Week) MarshalJSON() ([]byte, error) {
	if w.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*w.Value)
}

// LectureInput is the wire form of a lecture save request. Nil slices and
// nested documents mean "keep the stored value"; the service layer merges it
// with any existing record before normalizing.
type LectureInput struct {
	BlockID         string                `json:"blockId"`
	ID              string                `json:"id"`
	Name            *string               `json:"name"`
	Week            Week                  `json:"week"`
	Tags            []string              `json:"tags"`
	Passes          []LecturePass         `json:"passes"`
	PassPlan        *PassPlanInput        `json:"passPlan"`
	PlannerDefaults *PlannerDefaultsInput `json:"plannerDefaults"`
	StartAt         *int64                `json:"startAt"`
	NextDueAt       *int64                `json:"nextDueAt"`
}
