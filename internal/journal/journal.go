// Package journal defines the timeline domain types consumed by the
// review engine: media entries, completed milestones, and child
// profiles. The journaling side of the app owns these records; the
// review engine reads them and never writes them back.
package journal

import "time"

// EntryType identifies the kind of media a journal entry holds.
type EntryType string

const (
	TypePhoto EntryType = "photo"
	TypeVideo EntryType = "video"
	TypeText  EntryType = "text"
	TypeVoice EntryType = "voice"
)

// MediaEntry is a single timeline entry for a child.
type MediaEntry struct {
	ID          string    `json:"id"`
	ChildID     string    `json:"childId"`
	Date        time.Time `json:"date"`
	Type        EntryType `json:"type"`
	MediaURIs   []string  `json:"mediaUris"`
	Caption     string    `json:"caption,omitempty"`
	AILabels    []string  `json:"aiLabels,omitempty"`
	AudioURI    string    `json:"audioUri,omitempty"`
	MilestoneID string    `json:"milestoneId,omitempty"`
}

// Milestone is a completed developmental milestone, optionally linked
// back to the entry that recorded it.
type Milestone struct {
	ID          string    `json:"id"`
	ChildID     string    `json:"childId"`
	Title       string    `json:"title"`
	CompletedAt time.Time `json:"completedAt"`
	EntryID     string    `json:"entryId,omitempty"`
}

// Child is the profile of a tracked child. Only the active child
// receives year-in-review prompts.
type Child struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
	IsActive  bool       `json:"isActive"`
}
