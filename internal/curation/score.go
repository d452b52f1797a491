// Package curation implements scoring and highlight selection over a
// child's media history.
package curation

import (
	"strings"

	"github.com/JunMun28/littleJourney-sub003/internal/journal"
)

// Score weights. Signals are additive: one entry can earn several.
const (
	milestoneWeight  = 100
	captionWeight    = 40
	labelWeight      = 20
	multiMediaWeight = 15
	voiceWeight      = 30
)

// Score returns the desirability score for a single entry, used only
// for ranking during curation. Pure and total: identical input always
// yields the same non-negative result.
func Score(entry journal.MediaEntry, milestones []journal.Milestone) int {
	return scoreEntry(entry, indexMilestones(milestones))
}

func scoreEntry(entry journal.MediaEntry, byID map[string]journal.Milestone) int {
	score := 0
	if entry.MilestoneID != "" {
		if _, ok := byID[entry.MilestoneID]; ok {
			score += milestoneWeight
		}
	}
	if strings.TrimSpace(entry.Caption) != "" {
		score += captionWeight
	}
	if len(entry.AILabels) > 0 {
		score += labelWeight
	}
	if len(entry.MediaURIs) > 1 {
		score += multiMediaWeight
	}
	if entry.Type == journal.TypeVoice && entry.AudioURI != "" {
		score += voiceWeight
	}
	return score
}

// indexMilestones keys milestones by id for constant-time matching.
func indexMilestones(milestones []journal.Milestone) map[string]journal.Milestone {
	byID := make(map[string]journal.Milestone, len(milestones))
	for _, m := range milestones {
		byID[m.ID] = m
	}
	return byID
}
