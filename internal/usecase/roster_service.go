package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/squad-tracker/internal/domain/player"
	"github.com/riskibarqy/squad-tracker/internal/domain/slotstore"
	idgen "github.com/riskibarqy/squad-tracker/internal/platform/id"
	"github.com/riskibarqy/squad-tracker/internal/platform/logging"
)

// PlayerInput is the user-editable identity of a roster member.
type PlayerInput struct {
	Name      string
	Positions []string
	Age       int
	Quality   int
}

const (
	SortByPosition = "position"
	SortByQuality  = "quality"
)

type RosterService struct {
	workspace *Workspace
	idGen     idgen.Generator
	logger    *logging.Logger
}

func NewRosterService(workspace *Workspace, idGen idgen.Generator, logger *logging.Logger) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RosterService{
		workspace: workspace,
		idGen:     idGen,
		logger:    logger,
	}
}

func parsePositions(raw []string) ([]player.Position, error) {
	positions := make([]player.Position, 0, len(raw))
	for _, value := range raw {
		pos, err := player.ParsePosition(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

func (in PlayerInput) validate() ([]player.Position, error) {
	positions, err := parsePositions(in.Positions)
	if err != nil {
		return nil, err
	}
	if err := player.ValidateProfile(in.Name, positions, in.Age, in.Quality); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return positions, nil
}

func (s *RosterService) AddPlayer(ctx context.Context, in PlayerInput) (out player.Player, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.AddPlayer")
	defer func() { endUsecaseSpan(span, err) }()

	positions, err := in.validate()
	if err != nil {
		return player.Player{}, err
	}
	rawID, err := s.idGen.NewID()
	if err != nil {
		return player.Player{}, fmt.Errorf("generate player id: %w", err)
	}

	created := player.New(player.ID(rawID), in.Name, positions, in.Age, in.Quality)
	err = s.workspace.mutate(ctx, []slotstore.Name{slotstore.Players}, func(next *state) error {
		next.players = append(next.players, created)
		return nil
	})
	if err != nil {
		return player.Player{}, err
	}

	s.logger.InfoContext(ctx, "player added", "player_id", created.ID, "name", created.Name)
	return created.Clone(), nil
}

// EditPlayer updates identity fields and quality. The initial quality of the
// running season is kept.
func (s *RosterService) EditPlayer(ctx context.Context, id player.ID, in PlayerInput) (out player.Player, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.EditPlayer")
	defer func() { endUsecaseSpan(span, err) }()

	positions, err := in.validate()
	if err != nil {
		return player.Player{}, err
	}
	err = s.updatePlayer(ctx, id, func(p *player.Player) error {
		p.Name = strings.TrimSpace(in.Name)
		p.Positions = positions
		p.Age = in.Age
		p.Quality = in.Quality
		out = p.Clone()
		return nil
	})
	return out, err
}

func (s *RosterService) DeletePlayer(ctx context.Context, id player.ID) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.DeletePlayer")
	defer func() { endUsecaseSpan(span, err) }()

	err = s.workspace.mutate(ctx, []slotstore.Name{slotstore.Players}, func(next *state) error {
		idx, err := findPlayer(next.players, id)
		if err != nil {
			return err
		}
		next.players = append(next.players[:idx], next.players[idx+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "player deleted", "player_id", id)
	return nil
}

// SetProgress writes or clears (value nil) the reading for a 1-based day.
func (s *RosterService) SetProgress(ctx context.Context, id player.ID, day int, value *int) (out player.Player, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.SetProgress")
	defer func() { endUsecaseSpan(span, err) }()

	idx, err := player.DayIndex(day)
	if err != nil {
		return player.Player{}, fmt.Errorf("%w: %w", ErrOutOfRange, err)
	}
	if value != nil {
		if err := player.ValidateReading(*value); err != nil {
			return player.Player{}, fmt.Errorf("%w: %w", ErrOutOfRange, err)
		}
	}
	err = s.updatePlayer(ctx, id, func(p *player.Player) error {
		if value == nil {
			p.Progress[idx] = nil
		} else {
			p.Progress[idx] = player.IntPtr(*value)
		}
		out = p.Clone()
		return nil
	})
	return out, err
}

func (s *RosterService) SetComment(ctx context.Context, id player.ID, comment string) (out player.Player, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.SetComment")
	defer func() { endUsecaseSpan(span, err) }()

	err = s.updatePlayer(ctx, id, func(p *player.Player) error {
		p.Comment = strings.TrimSpace(comment)
		out = p.Clone()
		return nil
	})
	return out, err
}

func (s *RosterService) SetTags(ctx context.Context, id player.ID, tags player.Tags) (out player.Player, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.SetTags")
	defer func() { endUsecaseSpan(span, err) }()

	err = s.updatePlayer(ctx, id, func(p *player.Player) error {
		p.Tags = tags
		out = p.Clone()
		return nil
	})
	return out, err
}

func (s *RosterService) ToggleTag(ctx context.Context, id player.ID, tag string) (out player.Player, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ToggleTag")
	defer func() { endUsecaseSpan(span, err) }()

	err = s.updatePlayer(ctx, id, func(p *player.Player) error {
		if err := p.Tags.Toggle(player.Tag(strings.TrimSpace(tag))); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		out = p.Clone()
		return nil
	})
	return out, err
}

// ResetMinutes zeroes one player's minutes for the season. It does not touch
// the undo log.
func (s *RosterService) ResetMinutes(ctx context.Context, id player.ID) (out player.Player, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ResetMinutes")
	defer func() { endUsecaseSpan(span, err) }()

	err = s.updatePlayer(ctx, id, func(p *player.Player) error {
		p.Minutes = player.Minutes{}
		p.TotalMinutes = 0
		p.MatchesPlayed = 0
		out = p.Clone()
		return nil
	})
	if err == nil {
		s.logger.InfoContext(ctx, "player minutes reset", "player_id", id)
	}
	return out, err
}

// AgeAll adds a year to every player younger than player.MaxAgingAge and
// returns how many were aged.
func (s *RosterService) AgeAll(ctx context.Context) (aged int, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.AgeAll")
	defer func() { endUsecaseSpan(span, err) }()

	err = s.workspace.mutate(ctx, []slotstore.Name{slotstore.Players}, func(next *state) error {
		for i := range next.players {
			if next.players[i].Age < player.MaxAgingAge {
				next.players[i].Age++
				aged++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "squad aged", "players_aged", aged)
	return aged, nil
}

func (s *RosterService) updatePlayer(ctx context.Context, id player.ID, fn func(p *player.Player) error) error {
	return s.workspace.mutate(ctx, []slotstore.Name{slotstore.Players}, func(next *state) error {
		idx, err := findPlayer(next.players, id)
		if err != nil {
			return err
		}
		return fn(&next.players[idx])
	})
}

func (s *RosterService) GetPlayer(ctx context.Context, id player.ID) (out player.Player, err error) {
	s.workspace.view(func(st *state) {
		var idx int
		idx, err = findPlayer(st.players, id)
		if err == nil {
			out = st.players[idx].Clone()
		}
	})
	return out, err
}

// ListPlayers returns the roster ordered by position (category, then
// position code) or by current quality descending.
func (s *RosterService) ListPlayers(ctx context.Context, sortBy string) ([]player.Player, error) {
	sortBy = strings.ToLower(strings.TrimSpace(sortBy))
	if sortBy == "" {
		sortBy = SortByPosition
	}
	if sortBy != SortByPosition && sortBy != SortByQuality {
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, sortBy)
	}

	var players []player.Player
	s.workspace.view(func(st *state) {
		players = player.CloneAll(st.players)
	})

	if sortBy == SortByQuality {
		sort.SliceStable(players, func(i, j int) bool {
			return players[i].CurrentQuality() > players[j].CurrentQuality()
		})
		return players, nil
	}
	sort.SliceStable(players, func(i, j int) bool {
		a, b := players[i].PrimaryPosition(), players[j].PrimaryPosition()
		if a.Category() != b.Category() {
			return a.Category().Order() < b.Category().Order()
		}
		return a.Order() < b.Order()
	})
	return players, nil
}

// SquadSummary is the roster header: size plus average quality and age.
type SquadSummary struct {
	Count          int      `json:"count"`
	AverageQuality *float64 `json:"averageQuality"`
	AverageAge     *float64 `json:"averageAge"`
}

func (s *RosterService) SquadSummary(ctx context.Context) SquadSummary {
	var summary SquadSummary
	s.workspace.view(func(st *state) {
		summary.Count = len(st.players)
		if summary.Count == 0 {
			return
		}
		quality, age := 0, 0
		for _, p := range st.players {
			quality += p.Quality
			age += p.Age
		}
		avgQuality := float64(quality) / float64(summary.Count)
		avgAge := float64(age) / float64(summary.Count)
		summary.AverageQuality = &avgQuality
		summary.AverageAge = &avgAge
	})
	return summary
}

// DayAverage is the mean of every reading present on one day. Change is the
// difference to the previous day when both days have readings.
type DayAverage struct {
	Day      int      `json:"day"`
	Readings int      `json:"readings"`
	Average  *float64 `json:"average"`
	Change   *float64 `json:"change,omitempty"`
}

func (s *RosterService) DayAverages(ctx context.Context) []DayAverage {
	out := make([]DayAverage, player.SeasonDays)
	s.workspace.view(func(st *state) {
		for day := 0; day < player.SeasonDays; day++ {
			sum, count := 0, 0
			for _, p := range st.players {
				if v := p.Progress[day]; v != nil {
					sum += *v
					count++
				}
			}
			out[day] = DayAverage{Day: day + 1, Readings: count}
			if count > 0 {
				avg := float64(sum) / float64(count)
				out[day].Average = &avg
			}
		}
	})
	for day := 1; day < len(out); day++ {
		prev, cur := out[day-1].Average, out[day].Average
		if prev != nil && cur != nil {
			change := *cur - *prev
			out[day].Change = &change
		}
	}
	return out
}

// ImprovementRow is one line of the most-improved table.
type ImprovementRow struct {
	Rank               int               `json:"rank"`
	PlayerID           player.ID         `json:"playerId"`
	Name               string            `json:"name"`
	Positions          []player.Position `json:"positions"`
	Age                int               `json:"age"`
	InitialQuality     int               `json:"initialQuality"`
	CurrentQuality     int               `json:"currentQuality"`
	Improvement        int               `json:"improvement"`
	ImprovementPercent float64           `json:"improvementPercent"`
	TotalMinutes       int               `json:"totalMinutes"`
	MatchesPlayed      int               `json:"matchesPlayed"`
	AvgMinPerMatch     float64           `json:"avgMinPerMatch"`
	Goals              int               `json:"goals"`
	Assists            int               `json:"assists"`
}

var improvementSortKeys = map[string]func(r ImprovementRow) float64{
	"age":                func(r ImprovementRow) float64 { return float64(r.Age) },
	"initialQuality":     func(r ImprovementRow) float64 { return float64(r.InitialQuality) },
	"currentQuality":     func(r ImprovementRow) float64 { return float64(r.CurrentQuality) },
	"minutes":            func(r ImprovementRow) float64 { return float64(r.TotalMinutes) },
	"matches":            func(r ImprovementRow) float64 { return float64(r.MatchesPlayed) },
	"g":                  func(r ImprovementRow) float64 { return float64(r.Goals) },
	"a":                  func(r ImprovementRow) float64 { return float64(r.Assists) },
	"avgMinPerMatch":     func(r ImprovementRow) float64 { return r.AvgMinPerMatch },
	"improvementPercent": func(r ImprovementRow) float64 { return r.ImprovementPercent },
	"improvement":        func(r ImprovementRow) float64 { return float64(r.Improvement) },
}

var errUnknownOrder = errors.New("order must be asc or desc")

func parseDescending(order string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "desc":
		return true, nil
	case "asc":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w, got %q", ErrInvalidInput, errUnknownOrder, order)
	}
}

// MostImproved lists the roster with improvement metrics, sorted by sortBy
// (default improvement) in order (default desc). "player" sorts by name.
func (s *RosterService) MostImproved(ctx context.Context, sortBy, order string) ([]ImprovementRow, error) {
	desc, err := parseDescending(order)
	if err != nil {
		return nil, err
	}
	sortBy = strings.TrimSpace(sortBy)
	if sortBy == "" {
		sortBy = "improvement"
	}
	key, numeric := improvementSortKeys[sortBy]
	if !numeric && sortBy != "player" {
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, sortBy)
	}

	var rows []ImprovementRow
	s.workspace.view(func(st *state) {
		rows = make([]ImprovementRow, 0, len(st.players))
		for _, p := range st.players {
			rows = append(rows, ImprovementRow{
				PlayerID:           p.ID,
				Name:               p.Name,
				Positions:          append([]player.Position(nil), p.Positions...),
				Age:                p.Age,
				InitialQuality:     p.InitialQuality,
				CurrentQuality:     p.CurrentQuality(),
				Improvement:        p.Improvement(),
				ImprovementPercent: p.ImprovementPercent(),
				TotalMinutes:       p.TotalMinutes,
				MatchesPlayed:      p.MatchesPlayed,
				AvgMinPerMatch:     p.AverageMinutesPerMatch(),
				Goals:              p.SeasonGoals(),
				Assists:            p.SeasonAssists(),
			})
		}
	})

	sort.SliceStable(rows, func(i, j int) bool {
		if !numeric {
			if desc {
				return rows[i].Name > rows[j].Name
			}
			return rows[i].Name < rows[j].Name
		}
		if desc {
			return key(rows[i]) > key(rows[j])
		}
		return key(rows[i]) < key(rows[j])
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}
