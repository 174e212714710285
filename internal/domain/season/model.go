package season

import (
	"time"

	"github.com/bytedance/sonic"

	"github.com/riskibarqy/squad-tracker/internal/domain/player"
	"github.com/riskibarqy/squad-tracker/internal/domain/ranking"
)

// Archive is a frozen copy of a completed season. Archives are append-only
// and numbered contiguously from 1.
type Archive struct {
	SeasonNumber int                `json:"seasonNumber"`
	EndDate      time.Time          `json:"endDate"`
	Players      []player.Player    `json:"players"`
	Baseline     ranking.Baseline   `json:"powerRankingHistory"`
	TimeSeries   ranking.TimeSeries `json:"powerRankingTimeSeries"`
}

// Summary is the list view of an archive.
type Summary struct {
	SeasonNumber int       `json:"seasonNumber"`
	EndDate      time.Time `json:"endDate"`
	PlayerCount  int       `json:"playerCount"`
	HasRanking   bool      `json:"hasRanking"`
	RecordedDays int       `json:"recordedDays"`
}

func (a Archive) Clone() Archive {
	out := a
	out.Players = player.CloneAll(a.Players)
	out.Baseline = a.Baseline.Clone()
	out.TimeSeries = a.TimeSeries.Clone()
	return out
}

func (a Archive) Summary() Summary {
	return Summary{
		SeasonNumber: a.SeasonNumber,
		EndDate:      a.EndDate,
		PlayerCount:  len(a.Players),
		HasRanking:   len(a.Baseline) > 0,
		RecordedDays: len(a.TimeSeries),
	}
}

func CloneAll(archives []Archive) []Archive {
	if archives == nil {
		return nil
	}
	out := make([]Archive, len(archives))
	for i := range archives {
		out[i] = archives[i].Clone()
	}
	return out
}

// NextNumber is the season number the live season will get when archived.
func NextNumber(archives []Archive) int {
	return len(archives) + 1
}

// Rollover is the outcome of closing the live season.
type Rollover struct {
	Archives []Archive
	Players  []player.Player
}

// Close archives the live season and returns the reset roster. Inputs are
// not modified.
func Close(archives []Archive, players []player.Player, baseline ranking.Baseline, series ranking.TimeSeries, endDate time.Time) Rollover {
	archive := Archive{
		SeasonNumber: NextNumber(archives),
		EndDate:      endDate,
		Players:      player.CloneAll(players),
		Baseline:     baseline.Clone(),
		TimeSeries:   series.Clone(),
	}
	if archive.Players == nil {
		archive.Players = []player.Player{}
	}
	if archive.Baseline == nil {
		archive.Baseline = ranking.Baseline{}
	}
	if archive.TimeSeries == nil {
		archive.TimeSeries = ranking.TimeSeries{}
	}

	nextArchives := append(CloneAll(archives), archive)
	nextPlayers := player.CloneAll(players)
	for i := range nextPlayers {
		nextPlayers[i].ResetSeason()
	}

	return Rollover{Archives: nextArchives, Players: nextPlayers}
}

// legacyArchive accepts archives written without an endDate or with a
// date-only string.
type legacyArchive struct {
	SeasonNumber int                `json:"seasonNumber"`
	EndDate      string             `json:"endDate"`
	Players      []player.Player    `json:"players"`
	Baseline     ranking.Baseline   `json:"powerRankingHistory"`
	TimeSeries   ranking.TimeSeries `json:"powerRankingTimeSeries"`
}

func (a *Archive) UnmarshalJSON(data []byte) error {
	var raw legacyArchive
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.SeasonNumber = raw.SeasonNumber
	a.Players = raw.Players
	a.Baseline = raw.Baseline
	a.TimeSeries = raw.TimeSeries
	a.EndDate = parseEndDate(raw.EndDate)
	return nil
}

func parseEndDate(raw string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02", "1/2/2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
