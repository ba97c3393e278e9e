package models

// Rating is a review grade for a content section.
type Rating string

const (
	RatingAgain  Rating = "again"
	RatingHard   Rating = "hard"
	RatingGood   Rating = "good"
	RatingEasy   Rating = "easy"
	RatingRetire Rating = "retire"
)

// RetiredDue is the explicit "retired, never due again" sentinel. It is the
// largest integer that survives a JSON round trip intact (2^53-1), so it is
// stored as-is rather than as infinity.
const RetiredDue int64 = 9007199254740991

// SRVersion is the current section review record layout version.
const SRVersion = 2

// SectionState is the spaced-repetition state of one content section.
type SectionState struct {
	Streak        int      `json:"streak"`
	LastRating    Rating   `json:"lastRating,omitempty"`
	Last          int64    `json:"last"`
	Due           int64    `json:"due"`
	Retired       bool     `json:"retired"`
	ContentDigest string   `json:"contentDigest,omitempty"`
	LectureScope  []string `json:"lectureScope"`
}

// SRRecord groups the section states stored on an item.
type SRRecord struct {
	Version  int                      `json:"version"`
	Sections map[string]*SectionState `json:"sections"`
}

// LectureRef identifies a lecture an item is attached to.
type LectureRef struct {
	BlockID string `json:"blockId"`
	ID      string `json:"id"`
}

// Item is a reviewable study item. Sections maps section key to raw content;
// SR carries the per-section review state.
type Item struct {
	ID        string            `json:"id"`
	Kind      string            `json:"kind"`
	Name      string            `json:"name"`
	Sections  map[string]string `json:"sections"`
	Lectures  []LectureRef      `json:"lectures"`
	SR        SRRecord          `json:"sr"`
	CreatedAt int64             `json:"createdAt"`
	UpdatedAt int64             `json:"updatedAt"`
}

// ItemInput is the wire form of an item save request. A nil Name, Sections
// or Lectures keeps the stored value; an empty ID asks the service to mint
// one.
type ItemInput struct {
	ID       string            `json:"id"`
	Kind     string            `json:"kind"`
	Name     *string           `json:"name"`
	Sections map[string]string `json:"sections"`
	Lectures []LectureRef      `json:"lectures"`
}

// ReviewEntry is one due or upcoming section produced by the queue
// collectors.
type ReviewEntry struct {
	ItemID       string `json:"itemId"`
	ItemName     string `json:"itemName"`
	Kind         string `json:"kind"`
	SectionKey   string `json:"sectionKey"`
	SectionLabel string `json:"sectionLabel"`
	Due          int64  `json:"due"`
}
