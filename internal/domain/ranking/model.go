package ranking

import (
	"math"
	"sort"

	"github.com/riskibarqy/squad-tracker/internal/domain/player"
	"github.com/riskibarqy/squad-tracker/internal/domain/powerscore"
)

// ChangeThreshold is the smallest score change reported as a delta.
const ChangeThreshold = 0.01

// SnapshotEntry is the compact per-player record kept for each recorded day.
type SnapshotEntry struct {
	PlayerID   player.ID `json:"playerId"`
	PowerScore float64   `json:"powerScore"`
}

// Baseline is the last recorded full ranking, best first.
type Baseline []powerscore.Breakdown

// TimeSeries maps a 1-based season day to its ranking projection. Recording
// the same day again replaces the earlier entries.
type TimeSeries map[int][]SnapshotEntry

func (ts TimeSeries) Record(day int, ranked []powerscore.Breakdown) {
	entries := make([]SnapshotEntry, len(ranked))
	for i, b := range ranked {
		entries[i] = SnapshotEntry{PlayerID: b.PlayerID, PowerScore: b.PowerScore}
	}
	ts[day] = entries
}

// Days returns the recorded days ascending.
func (ts TimeSeries) Days() []int {
	days := make([]int, 0, len(ts))
	for day := range ts {
		days = append(days, day)
	}
	sort.Ints(days)
	return days
}

func (ts TimeSeries) Clone() TimeSeries {
	if ts == nil {
		return nil
	}
	out := make(TimeSeries, len(ts))
	for day, entries := range ts {
		out[day] = append([]SnapshotEntry(nil), entries...)
	}
	return out
}

func (b Baseline) Clone() Baseline {
	if b == nil {
		return nil
	}
	return append(Baseline(nil), b...)
}

// CurrentDay is one past the highest progress slot set across the roster,
// or 1 when no reading exists.
func CurrentDay(players []player.Player) int {
	highest := -1
	for i := range players {
		if idx := players[i].LastReadingIndex(); idx > highest {
			highest = idx
		}
	}
	if highest < 0 {
		return 1
	}
	return highest + 1
}

// Delta compares one player's current breakdown with the baseline.
type Delta struct {
	PowerScore      *float64 `json:"powerScore,omitempty"`
	AdjustedGAScore *float64 `json:"adjustedGaScore,omitempty"`
	UsageScore      *float64 `json:"usageScore,omitempty"`
	// Rank is oldRank - newRank: positive means the player moved up.
	Rank *int `json:"rank,omitempty"`
	// New is set when the player is absent from the baseline.
	New bool `json:"new,omitempty"`
}

// RankedEntry is a breakdown annotated with its 1-based rank and delta.
type RankedEntry struct {
	Rank int `json:"rank"`
	powerscore.Breakdown
	Delta Delta `json:"delta"`
}

func scoreDelta(current, previous float64) *float64 {
	d := current - previous
	if math.Abs(d) < ChangeThreshold {
		return nil
	}
	return &d
}

// Compare annotates a current ranking with deltas against baseline.
func Compare(current []powerscore.Breakdown, baseline Baseline) []RankedEntry {
	previous := make(map[player.ID]int, len(baseline))
	for i, b := range baseline {
		if _, seen := previous[b.PlayerID]; !seen {
			previous[b.PlayerID] = i
		}
	}

	out := make([]RankedEntry, len(current))
	for i, b := range current {
		entry := RankedEntry{Rank: i + 1, Breakdown: b}
		idx, ok := previous[b.PlayerID]
		if !ok {
			entry.Delta.New = len(baseline) > 0
			out[i] = entry
			continue
		}
		old := baseline[idx]
		entry.Delta.PowerScore = scoreDelta(b.PowerScore, old.PowerScore)
		entry.Delta.AdjustedGAScore = scoreDelta(b.AdjustedGAScore, old.AdjustedGAScore)
		entry.Delta.UsageScore = scoreDelta(b.UsageScore, old.UsageScore)
		rankDelta := (idx + 1) - (i + 1)
		entry.Delta.Rank = &rankDelta
		out[i] = entry
	}
	return out
}
