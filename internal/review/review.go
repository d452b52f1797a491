// Package review implements year-in-review and monthly-recap
// generation, customization, and lifecycle state on top of the
// curation engine.
package review

import (
	"errors"
	"fmt"
	"time"

	"github.com/JunMun28/littleJourney-sub003/internal/curation"
)

// ErrNotFound is returned when a review, recap, or original-clips
// snapshot does not exist.
var ErrNotFound = errors.New("review not found")

// Status is the lifecycle state of a review or recap.
type Status string

const (
	// StatusPending and StatusGenerating are reserved for an
	// asynchronous rendering pipeline. Synchronous curation jumps
	// straight from creation to StatusReady.
	StatusPending    Status = "pending"
	StatusGenerating Status = "generating"
	StatusReady      Status = "ready"
	StatusExported   Status = "exported"
)

// Transition styles offered by the editor.
const (
	TransitionFade  = "fade"
	TransitionSlide = "slide"
	TransitionZoom  = "zoom"
)

// Export qualities offered by the editor.
const (
	Quality720p  = "720p"
	Quality1080p = "1080p"
	Quality4K    = "4k"
)

// YearInReview is a curated yearly highlight reel for one child.
// Exactly one exists per (childID, year). Clips stays sorted ascending
// by source entry date through every mutation, and a clip id never
// appears in both Clips and RemovedClipIDs at the same time.
type YearInReview struct {
	ID              string          `json:"id"`
	ChildID         string          `json:"childId"`
	Year            int             `json:"year"`
	Status          Status          `json:"status"`
	Clips           []curation.Clip `json:"clips"`
	RemovedClipIDs  []string        `json:"removedClipIds"`
	SelectedMusicID string          `json:"selectedMusicId"`
	TransitionStyle string          `json:"transitionStyle"`
	ExportQuality   string          `json:"exportQuality"`
	ExportedURI     string          `json:"exportedUri,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// MonthlyRecap is the single-month analogue of a YearInReview. Recaps
// carry no customization state and are never mutated after creation.
type MonthlyRecap struct {
	ID        string          `json:"id"`
	ChildID   string          `json:"childId"`
	Year      int             `json:"year"`
	Month     int             `json:"month"`
	Status    Status          `json:"status"`
	Clips     []curation.Clip `json:"clips"`
	CreatedAt time.Time       `json:"createdAt"`
}

// RecapID derives the deterministic id for a monthly recap, which
// makes recap generation idempotent by construction.
func RecapID(childID string, year, month int) string {
	return fmt.Sprintf("recap-%s-%d-%02d", childID, year, month)
}
