package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/squad-tracker/internal/domain/player"
	"github.com/riskibarqy/squad-tracker/internal/domain/season"
	"github.com/riskibarqy/squad-tracker/internal/domain/slotstore"
	"github.com/riskibarqy/squad-tracker/internal/platform/logging"
)

// IntRange is an inclusive filter; a nil bound is open.
type IntRange struct {
	Min *int
	Max *int
}

func (r IntRange) contains(v int) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// ArchivedFilter narrows the archived-players list. An empty Category keeps
// every position.
type ArchivedFilter struct {
	Category player.Category
	Age      IntRange
	Minutes  IntRange
	Matches  IntRange
	Goals    IntRange
	Assists  IntRange
}

func (f ArchivedFilter) match(p player.Player) bool {
	if f.Category != "" && p.PrimaryPosition().Category() != f.Category {
		return false
	}
	return f.Age.contains(p.Age) &&
		f.Minutes.contains(p.TotalMinutes) &&
		f.Matches.contains(p.MatchesPlayed) &&
		f.Goals.contains(p.SeasonGoals()) &&
		f.Assists.contains(p.SeasonAssists())
}

// ArchivedRow is an archived player with the derived table columns.
type ArchivedRow struct {
	player.Player
	CurrentQuality     int     `json:"currentQuality"`
	Improvement        int     `json:"improvement"`
	ImprovementPercent float64 `json:"improvementPercent"`
	Goals              int     `json:"goals"`
	Assists            int     `json:"assists"`
	GAPer90            float64 `json:"gaPer90"`
	AvgMinPerMatch     float64 `json:"avgMinPerMatch"`
}

func newArchivedRow(p player.Player) ArchivedRow {
	return ArchivedRow{
		Player:             p,
		CurrentQuality:     p.CurrentQuality(),
		Improvement:        p.Improvement(),
		ImprovementPercent: p.ImprovementPercent(),
		Goals:              p.SeasonGoals(),
		Assists:            p.SeasonAssists(),
		GAPer90:            p.GAPer90(),
		AvgMinPerMatch:     p.AverageMinutesPerMatch(),
	}
}

var archivedNumericKeys = map[string]func(r ArchivedRow) float64{
	"age":            func(r ArchivedRow) float64 { return float64(r.Age) },
	"minutes":        func(r ArchivedRow) float64 { return float64(r.TotalMinutes) },
	"matches":        func(r ArchivedRow) float64 { return float64(r.MatchesPlayed) },
	"goals":          func(r ArchivedRow) float64 { return float64(r.Goals) },
	"assists":        func(r ArchivedRow) float64 { return float64(r.Assists) },
	"gaPer90":        func(r ArchivedRow) float64 { return r.GAPer90 },
	"avgMinPerMatch": func(r ArchivedRow) float64 { return r.AvgMinPerMatch },
}

var archivedTextKeys = map[string]func(r ArchivedRow) string{
	"name":          func(r ArchivedRow) string { return r.Name },
	"archiveReason": func(r ArchivedRow) string { return string(r.ArchiveReason) },
}

// ArchivedPatch edits an archived record. Goals and Assists collapse into the
// league counters and zero the cup and champions league ones.
type ArchivedPatch struct {
	Age           *int
	TotalMinutes  *int
	MatchesPlayed *int
	Goals         *int
	Assists       *int
	ArchiveReason *string
}

func (p ArchivedPatch) apply(target *player.Player) error {
	for name, v := range map[string]*int{
		"totalMinutes":  p.TotalMinutes,
		"matchesPlayed": p.MatchesPlayed,
		"goals":         p.Goals,
		"assists":       p.Assists,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: %s must be >= 0", ErrInvalidInput, name)
		}
	}
	if p.Age != nil && *p.Age < 1 {
		return fmt.Errorf("%w: age must be positive", ErrInvalidInput)
	}
	if p.ArchiveReason != nil {
		reason, err := player.ParseArchiveReason(*p.ArchiveReason)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		target.ArchiveReason = reason
	}

	if p.Age != nil {
		target.Age = *p.Age
	}
	if p.TotalMinutes != nil {
		target.TotalMinutes = *p.TotalMinutes
	}
	if p.MatchesPlayed != nil {
		target.MatchesPlayed = *p.MatchesPlayed
	}
	if p.Goals != nil {
		target.LeagueGoals, target.CLGoals, target.CupGoals = *p.Goals, 0, 0
	}
	if p.Assists != nil {
		target.LeagueAssists, target.CLAssists, target.CupAssists = *p.Assists, 0, 0
	}
	return nil
}

type ArchiveService struct {
	workspace *Workspace
	logger    *logging.Logger
}

func NewArchiveService(workspace *Workspace, logger *logging.Logger) *ArchiveService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ArchiveService{workspace: workspace, logger: logger}
}

// ArchivePlayer moves a roster member into the archived-players collection,
// stamped with the season it left in. Both collections are written in one
// batch.
func (s *ArchiveService) ArchivePlayer(ctx context.Context, id player.ID) (out player.Player, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ArchiveService.ArchivePlayer")
	defer func() { endUsecaseSpan(span, err) }()

	names := []slotstore.Name{slotstore.Players, slotstore.ArchivedPlayers}
	err = s.workspace.mutate(ctx, names, func(next *state) error {
		idx, err := findPlayer(next.players, id)
		if err != nil {
			return err
		}
		moved := next.players[idx]
		moved.ArchivedInSeason = season.NextNumber(next.archives)
		moved.ArchiveReason = player.ReasonOther

		next.players = append(next.players[:idx], next.players[idx+1:]...)
		next.archived = append(next.archived, moved)
		out = moved.Clone()
		return nil
	})
	if err != nil {
		return player.Player{}, err
	}

	s.logger.InfoContext(ctx, "player archived", "player_id", id, "season_number", out.ArchivedInSeason)
	return out, nil
}

// ListArchived filters and sorts the archived players. sortBy defaults to
// name, order to asc.
func (s *ArchiveService) ListArchived(ctx context.Context, filter ArchivedFilter, sortBy, order string) ([]ArchivedRow, error) {
	desc := false
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "asc":
	case "desc":
		desc = true
	default:
		return nil, fmt.Errorf("%w: %w, got %q", ErrInvalidInput, errUnknownOrder, order)
	}
	sortBy = strings.TrimSpace(sortBy)
	if sortBy == "" {
		sortBy = "name"
	}
	numeric, isNumeric := archivedNumericKeys[sortBy]
	text, isText := archivedTextKeys[sortBy]
	if !isNumeric && !isText {
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, sortBy)
	}

	var rows []ArchivedRow
	s.workspace.view(func(st *state) {
		rows = make([]ArchivedRow, 0, len(st.archived))
		for _, p := range st.archived {
			if filter.match(p) {
				rows = append(rows, newArchivedRow(p.Clone()))
			}
		}
	})

	sort.SliceStable(rows, func(i, j int) bool {
		if isText {
			a, b := text(rows[i]), text(rows[j])
			if desc {
				return a > b
			}
			return a < b
		}
		if desc {
			return numeric(rows[i]) > numeric(rows[j])
		}
		return numeric(rows[i]) < numeric(rows[j])
	})
	return rows, nil
}

func (s *ArchiveService) EditArchived(ctx context.Context, id player.ID, patch ArchivedPatch) (out player.Player, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ArchiveService.EditArchived")
	defer func() { endUsecaseSpan(span, err) }()

	err = s.workspace.mutate(ctx, []slotstore.Name{slotstore.ArchivedPlayers}, func(next *state) error {
		idx, err := findPlayer(next.archived, id)
		if err != nil {
			return err
		}
		if err := patch.apply(&next.archived[idx]); err != nil {
			return err
		}
		out = next.archived[idx].Clone()
		return nil
	})
	return out, err
}

func (s *ArchiveService) DeleteArchived(ctx context.Context, id player.ID) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ArchiveService.DeleteArchived")
	defer func() { endUsecaseSpan(span, err) }()

	err = s.workspace.mutate(ctx, []slotstore.Name{slotstore.ArchivedPlayers}, func(next *state) error {
		idx, err := findPlayer(next.archived, id)
		if err != nil {
			return err
		}
		next.archived = append(next.archived[:idx], next.archived[idx+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "archived player deleted", "player_id", id)
	return nil
}
