package career

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/riskibarqy/squad-tracker/internal/domain/player"
	"github.com/riskibarqy/squad-tracker/internal/domain/season"
)

const (
	LeaderboardSize = 10
	MinQueryLength  = 2
)

var (
	ErrUnknownMetric = errors.New("unknown career metric")
	ErrUnknownJoin   = errors.New("unknown join mode")
	ErrShortQuery    = errors.New("search query too short")
)

type Metric string

const (
	MetricMatchesPlayed Metric = "matchesPlayed"
	MetricTotalMinutes  Metric = "totalMinutes"
	MetricGoals         Metric = "goals"
	MetricAssists       Metric = "assists"
	MetricGAPer90       Metric = "gaPer90"
)

func ParseMetric(raw string) (Metric, error) {
	switch m := Metric(strings.TrimSpace(raw)); m {
	case "":
		return MetricMatchesPlayed, nil
	case MetricMatchesPlayed, MetricTotalMinutes, MetricGoals, MetricAssists, MetricGAPer90:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, raw)
	}
}

// Join selects how records from different sources are matched. Name is the
// historical behaviour: two different players sharing a display name are
// merged.
type Join string

const (
	JoinName Join = "name"
	JoinID   Join = "id"
)

func ParseJoin(raw string) (Join, error) {
	switch j := Join(strings.ToLower(strings.TrimSpace(raw))); j {
	case "":
		return JoinName, nil
	case JoinName, JoinID:
		return j, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownJoin, raw)
	}
}

func (j Join) key(p player.Player) string {
	if j == JoinID {
		return string(p.ID)
	}
	return p.Name
}

// Totals are summed season statistics.
type Totals struct {
	MatchesPlayed int     `json:"matchesPlayed"`
	TotalMinutes  int     `json:"totalMinutes"`
	Goals         int     `json:"goals"`
	Assists       int     `json:"assists"`
	GAPer90       float64 `json:"gaPer90"`
}

func seasonTotals(p player.Player) Totals {
	return Totals{
		MatchesPlayed: p.MatchesPlayed,
		TotalMinutes:  p.TotalMinutes,
		Goals:         p.SeasonGoals(),
		Assists:       p.SeasonAssists(),
	}
}

func (t Totals) add(other Totals) Totals {
	t.MatchesPlayed += other.MatchesPlayed
	t.TotalMinutes += other.TotalMinutes
	t.Goals += other.Goals
	t.Assists += other.Assists
	return t
}

func (t Totals) withRate() Totals {
	t.GAPer90 = player.Per90(t.Goals+t.Assists, t.TotalMinutes)
	return t
}

func (t Totals) value(m Metric) float64 {
	switch m {
	case MetricTotalMinutes:
		return float64(t.TotalMinutes)
	case MetricGoals:
		return float64(t.Goals)
	case MetricAssists:
		return float64(t.Assists)
	case MetricGAPer90:
		return t.GAPer90
	default:
		return float64(t.MatchesPlayed)
	}
}

// Status marks whether a leaderboard row belongs to the live roster.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Row is one leaderboard or search entry.
type Row struct {
	Rank         int               `json:"rank,omitempty"`
	PlayerID     player.ID         `json:"playerId"`
	Name         string            `json:"name"`
	Positions    []player.Position `json:"positions"`
	Age          int               `json:"age"`
	Status       Status            `json:"status,omitempty"`
	Seasons      []int             `json:"seasons"`
	SeasonsLabel string            `json:"seasonsLabel"`
	Totals
	Value float64 `json:"value"`
}

func newRow(p player.Player, totals Totals, seasons map[int]struct{}) Row {
	list := sortedSeasons(seasons)
	return Row{
		PlayerID:     p.ID,
		Name:         p.Name,
		Positions:    append([]player.Position(nil), p.Positions...),
		Age:          p.Age,
		Seasons:      list,
		SeasonsLabel: FormatSeasons(list),
		Totals:       totals.withRate(),
	}
}

func top(rows []Row, metric Metric) []Row {
	for i := range rows {
		rows[i].Value = rows[i].Totals.value(metric)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Value > rows[j].Value
	})
	if len(rows) > LeaderboardSize {
		rows = rows[:LeaderboardSize]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// HallOfFame ranks individually archived players. A player's seasons are the
// season they were archived in plus every season archive containing them.
func HallOfFame(archived []player.Player, archives []season.Archive, metric Metric, join Join) []Row {
	rows := make([]Row, 0, len(archived))
	for _, p := range archived {
		seasons := make(map[int]struct{})
		if p.ArchivedInSeason > 0 {
			seasons[p.ArchivedInSeason] = struct{}{}
		}
		key := join.key(p)
		for _, a := range archives {
			for _, sp := range a.Players {
				if join.key(sp) == key {
					seasons[a.SeasonNumber] = struct{}{}
					break
				}
			}
		}
		rows = append(rows, newRow(p, seasonTotals(p), seasons))
	}
	return top(rows, metric)
}

// AllTimeLeaders ranks active players by career totals (every archived
// season plus the live one) together with individually archived players.
func AllTimeLeaders(active, archived []player.Player, archives []season.Archive, metric Metric, join Join) []Row {
	rows := make([]Row, 0, len(active)+len(archived))
	for _, p := range active {
		key := join.key(p)
		totals := seasonTotals(p)
		seasons := make(map[int]struct{})
		for _, a := range archives {
			for _, sp := range a.Players {
				if join.key(sp) == key {
					totals = totals.add(seasonTotals(sp))
					seasons[a.SeasonNumber] = struct{}{}
					break
				}
			}
		}
		row := newRow(p, totals, seasons)
		row.Status = StatusActive
		rows = append(rows, row)
	}
	for _, p := range archived {
		seasons := make(map[int]struct{})
		if p.ArchivedInSeason > 0 {
			seasons[p.ArchivedInSeason] = struct{}{}
		}
		row := newRow(p, seasonTotals(p), seasons)
		row.Status = StatusArchived
		rows = append(rows, row)
	}
	return top(rows, metric)
}

// Search finds archived history by case-insensitive name substring. Season
// snapshots are summed per name; individually archived players are added
// when their name has no season history.
func Search(query string, archived []player.Player, archives []season.Archive) ([]Row, error) {
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(query))
	if len([]rune(needle)) < MinQueryLength {
		return nil, fmt.Errorf("%w: need at least %d characters", ErrShortQuery, MinQueryLength)
	}

	type history struct {
		first   player.Player
		totals  Totals
		seasons map[int]struct{}
	}
	order := make([]string, 0)
	byName := make(map[string]*history)

	for _, a := range archives {
		for _, p := range a.Players {
			if !strings.Contains(folder.String(p.Name), needle) {
				continue
			}
			h, ok := byName[p.Name]
			if !ok {
				h = &history{first: p, seasons: make(map[int]struct{})}
				byName[p.Name] = h
				order = append(order, p.Name)
			}
			h.seasons[a.SeasonNumber] = struct{}{}
			h.totals = h.totals.add(seasonTotals(p))
		}
	}
	for _, p := range archived {
		if !strings.Contains(folder.String(p.Name), needle) {
			continue
		}
		if _, ok := byName[p.Name]; ok {
			continue
		}
		byName[p.Name] = &history{first: p, totals: seasonTotals(p), seasons: map[int]struct{}{}}
		order = append(order, p.Name)
	}

	rows := make([]Row, 0, len(order))
	for _, name := range order {
		h := byName[name]
		rows = append(rows, newRow(h.first, h.totals, h.seasons))
	}
	return rows, nil
}

func sortedSeasons(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

// FormatSeasons renders sorted season numbers as compact ranges, for
// example "1-3, 5". An empty list renders as "N/A".
func FormatSeasons(seasons []int) string {
	if len(seasons) == 0 {
		return "N/A"
	}
	var parts []string
	start, end := seasons[0], seasons[0]
	flush := func() {
		if start == end {
			parts = append(parts, strconv.Itoa(start))
			return
		}
		parts = append(parts, strconv.Itoa(start)+"-"+strconv.Itoa(end))
	}
	for _, s := range seasons[1:] {
		if s == end+1 {
			end = s
			continue
		}
		flush()
		start, end = s, s
	}
	flush()
	return strings.Join(parts, ", ")
}
