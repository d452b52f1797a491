package curation

import (
	"cmp"
	"slices"
	"strings"

	"github.com/JunMun28/littleJourney-sub003/internal/journal"
)

// Config holds highlight selection limits.
type Config struct {
	MaxTotal    int // Maximum clips selected overall
	MaxPerMonth int // Maximum clips per calendar month (variety cap)
}

// YearlyConfig returns the limits used for year-in-review curation.
func YearlyConfig() Config {
	return Config{MaxTotal: 50, MaxPerMonth: 5}
}

// MonthlyConfig returns the limits used for monthly recaps. The
// candidate pool is already a single month, so the variety cap is
// effectively disabled.
func MonthlyConfig() Config {
	return Config{MaxTotal: 15, MaxPerMonth: 15}
}

// Clip is one selected highlight: a source entry paired with its
// computed score and derived display metadata. Clips are recomputed
// from entries on every curation run and never outlive the review
// that selected them.
type Clip struct {
	ID          string             `json:"id"`
	Entry       journal.MediaEntry `json:"entry"`
	PhotoURI    string             `json:"photoUri"`
	Score       int                `json:"score"`
	Month       int                `json:"month"`
	IsMilestone bool               `json:"isMilestone"`
	Milestone   *journal.Milestone `json:"milestone,omitempty"`
}

// ClipID derives the stable clip id for an entry. Curation runs must
// produce the same id for the same entry every time, otherwise the
// removed-clip ledger would stop matching.
func ClipID(entryID string) string {
	return "clip-" + entryID
}

// Curate selects an ordered, size-bounded, temporally varied set of
// clips from the candidate entries. The walk is greedy over the pool
// sorted best-first; a month that already hit MaxPerMonth only blocks
// a candidate once half of MaxTotal has been filled, so clustered
// content cannot starve the quota. The returned clips are in
// chronological playback order. Total over its inputs: an empty pool
// yields an empty result.
func Curate(entries []journal.MediaEntry, milestones []journal.Milestone, cfg Config) []Clip {
	byID := indexMilestones(milestones)

	candidates := make([]Clip, 0, len(entries))
	for _, entry := range entries {
		// A photo entry without an image cannot render as a highlight.
		// Other types stay eligible with an empty PhotoURI.
		if entry.Type == journal.TypePhoto && len(entry.MediaURIs) == 0 {
			continue
		}
		candidates = append(candidates, newClip(entry, byID))
	}

	// Best first; ties go to the earlier entry, then to the entry id,
	// so equal-score pools curate reproducibly.
	slices.SortFunc(candidates, func(a, b Clip) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := a.Entry.Date.Compare(b.Entry.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Entry.ID, b.Entry.ID)
	})

	halfQuota := cfg.MaxTotal / 2
	perMonth := make(map[int]int)
	accepted := make([]Clip, 0, min(cfg.MaxTotal, len(candidates)))
	for _, c := range candidates {
		if len(accepted) >= cfg.MaxTotal {
			break
		}
		if perMonth[c.Month] >= cfg.MaxPerMonth && len(accepted) >= halfQuota {
			continue
		}
		perMonth[c.Month]++
		accepted = append(accepted, c)
	}

	SortChronological(accepted)
	return accepted
}

// SortChronological orders clips ascending by source entry date,
// breaking date ties by entry id. Playback order, not selection order.
func SortChronological(clips []Clip) {
	slices.SortFunc(clips, func(a, b Clip) int {
		if c := a.Entry.Date.Compare(b.Entry.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Entry.ID, b.Entry.ID)
	})
}

func newClip(entry journal.MediaEntry, byID map[string]journal.Milestone) Clip {
	photoURI := ""
	if len(entry.MediaURIs) > 0 {
		photoURI = entry.MediaURIs[0]
	}
	clip := Clip{
		ID:       ClipID(entry.ID),
		Entry:    entry,
		PhotoURI: photoURI,
		Score:    scoreEntry(entry, byID),
		Month:    int(entry.Date.Month()),
	}
	if entry.MilestoneID != "" {
		if m, ok := byID[entry.MilestoneID]; ok {
			clip.IsMilestone = true
			clip.Milestone = &m
		}
	}
	return clip
}
