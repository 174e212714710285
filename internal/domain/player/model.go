package player

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// SeasonDays is the fixed number of day slots in a season.
const SeasonDays = 28

const (
	MaxPositions = 3
	MinQuality   = 0
	MaxQuality   = 100
	// MaxAgingAge caps AgeAll: players at or above it are not aged further.
	MaxAgingAge = 45
)

var (
	ErrInvalidPlayer   = errors.New("invalid player")
	ErrInvalidPosition = errors.New("invalid player position")
	ErrInvalidTag      = errors.New("invalid player tag")
	ErrInvalidReason   = errors.New("invalid archive reason")
	ErrInvalidDay      = errors.New("invalid season day")
)

// ID is an opaque player identifier. Legacy backups stored numeric ids, so
// decoding accepts JSON numbers as well as strings.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return fmt.Errorf("player id must be a string or number, got %s", raw)
	}
	*id = ID(raw)
	return nil
}

// Progress holds one optional quality reading per season day.
type Progress [SeasonDays]*int

// Minutes holds minutes played per season day.
type Minutes [SeasonDays]int

func (m Minutes) Sum() int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

type Tag string

const (
	TagKeep        Tag = "keep"
	TagSell        Tag = "sell"
	TagSlowTrainer Tag = "slowTrainer"
	TagHotProspect Tag = "hotProspect"
)

type Tags struct {
	Keep        bool `json:"keep"`
	Sell        bool `json:"sell"`
	SlowTrainer bool `json:"slowTrainer"`
	HotProspect bool `json:"hotProspect"`
}

func (t *Tags) Toggle(tag Tag) error {
	switch tag {
	case TagKeep:
		t.Keep = !t.Keep
	case TagSell:
		t.Sell = !t.Sell
	case TagSlowTrainer:
		t.SlowTrainer = !t.SlowTrainer
	case TagHotProspect:
		t.HotProspect = !t.HotProspect
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTag, tag)
	}
	return nil
}

type ArchiveReason string

const (
	ReasonSold          ArchiveReason = "sold"
	ReasonRetired       ArchiveReason = "retired"
	ReasonEndOfContract ArchiveReason = "end_of_contract"
	ReasonNotGoodEnough ArchiveReason = "not_good_enough"
	ReasonOther         ArchiveReason = "other"
)

func ParseArchiveReason(raw string) (ArchiveReason, error) {
	switch r := ArchiveReason(strings.TrimSpace(raw)); r {
	case ReasonSold, ReasonRetired, ReasonEndOfContract, ReasonNotGoodEnough, ReasonOther:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidReason, raw)
	}
}

// GoalAssistField names one of the six per-competition season counters.
type GoalAssistField string

const (
	FieldLeagueGoals   GoalAssistField = "leagueGoals"
	FieldLeagueAssists GoalAssistField = "leagueAssists"
	FieldCLGoals       GoalAssistField = "clGoals"
	FieldCLAssists     GoalAssistField = "clAssists"
	FieldCupGoals      GoalAssistField = "cupGoals"
	FieldCupAssists    GoalAssistField = "cupAssists"
)

func ParseGoalAssistField(raw string) (GoalAssistField, error) {
	switch f := GoalAssistField(strings.TrimSpace(raw)); f {
	case FieldLeagueGoals, FieldLeagueAssists, FieldCLGoals, FieldCLAssists, FieldCupGoals, FieldCupAssists:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown goal/assist field %q", ErrInvalidPlayer, raw)
	}
}

// Player is a roster member with season-scoped and lifetime statistics.
type Player struct {
	ID             ID         `json:"id"`
	Name           string     `json:"name"`
	Positions      []Position `json:"positions"`
	Age            int        `json:"age"`
	Quality        int        `json:"quality"`
	InitialQuality int        `json:"initialQuality"`
	Progress       Progress   `json:"progress"`
	Minutes        Minutes    `json:"minutes"`
	TotalMinutes   int        `json:"totalMinutes"`
	MatchesPlayed  int        `json:"matchesPlayed"`

	LeagueGoals   int `json:"leagueGoals"`
	LeagueAssists int `json:"leagueAssists"`
	CLGoals       int `json:"clGoals"`
	CLAssists     int `json:"clAssists"`
	CupGoals      int `json:"cupGoals"`
	CupAssists    int `json:"cupAssists"`

	LifetimeMinutes int `json:"lifetimeMinutes"`
	LifetimeMatches int `json:"lifetimeMatches"`
	LifetimeGoals   int `json:"lifetimeGoals"`
	LifetimeAssists int `json:"lifetimeAssists"`

	Comment string `json:"comment"`
	Tags    Tags   `json:"tags"`

	ArchiveReason    ArchiveReason `json:"archiveReason,omitempty"`
	ArchivedInSeason int           `json:"archivedInSeason,omitempty"`
}

// New builds a fresh roster entry whose initial quality equals quality.
func New(id ID, name string, positions []Position, age, quality int) Player {
	return Player{
		ID:             id,
		Name:           strings.TrimSpace(name),
		Positions:      append([]Position(nil), positions...),
		Age:            age,
		Quality:        quality,
		InitialQuality: quality,
	}
}

func (p Player) Validate() error {
	if strings.TrimSpace(string(p.ID)) == "" {
		return fmt.Errorf("%w: player id is required", ErrInvalidPlayer)
	}
	return ValidateProfile(p.Name, p.Positions, p.Age, p.Quality)
}

// ValidateProfile checks the user-editable identity fields.
func ValidateProfile(name string, positions []Position, age, quality int) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: player name is required", ErrInvalidPlayer)
	}
	if len(positions) == 0 || len(positions) > MaxPositions {
		return fmt.Errorf("%w: expected 1 to %d positions, got %d", ErrInvalidPlayer, MaxPositions, len(positions))
	}
	seen := make(map[Position]struct{}, len(positions))
	for _, pos := range positions {
		if !pos.Known() {
			return fmt.Errorf("%w: %q", ErrInvalidPosition, pos)
		}
		if _, dup := seen[pos]; dup {
			return fmt.Errorf("%w: duplicate position %s", ErrInvalidPosition, pos)
		}
		seen[pos] = struct{}{}
	}
	if age < 1 {
		return fmt.Errorf("%w: age must be positive", ErrInvalidPlayer)
	}
	if quality < MinQuality || quality > MaxQuality {
		return fmt.Errorf("%w: quality must be between %d and %d", ErrInvalidPlayer, MinQuality, MaxQuality)
	}
	return nil
}

// ValidateReading checks a single progress reading.
func ValidateReading(value int) error {
	if value < MinQuality || value > MaxQuality {
		return fmt.Errorf("%w: progress must be between %d and %d", ErrInvalidPlayer, MinQuality, MaxQuality)
	}
	return nil
}

// DayIndex converts a 1-based season day into a slot index.
func DayIndex(day int) (int, error) {
	if day < 1 || day > SeasonDays {
		return 0, fmt.Errorf("%w: day must be between 1 and %d, got %d", ErrInvalidDay, SeasonDays, day)
	}
	return day - 1, nil
}

func (p Player) PrimaryPosition() Position {
	if len(p.Positions) == 0 {
		return ""
	}
	return p.Positions[0]
}

func (p *Player) GoalAssist(field GoalAssistField) *int {
	switch field {
	case FieldLeagueGoals:
		return &p.LeagueGoals
	case FieldLeagueAssists:
		return &p.LeagueAssists
	case FieldCLGoals:
		return &p.CLGoals
	case FieldCLAssists:
		return &p.CLAssists
	case FieldCupGoals:
		return &p.CupGoals
	case FieldCupAssists:
		return &p.CupAssists
	default:
		return nil
	}
}

// Clone returns a deep copy; progress readings are copied, not shared.
func (p Player) Clone() Player {
	out := p
	out.Positions = append([]Position(nil), p.Positions...)
	for i, v := range p.Progress {
		if v != nil {
			value := *v
			out.Progress[i] = &value
		}
	}
	return out
}

func CloneAll(players []Player) []Player {
	if players == nil {
		return nil
	}
	out := make([]Player, len(players))
	for i := range players {
		out[i] = players[i].Clone()
	}
	return out
}

// IndexByID returns the roster position of id or -1.
func IndexByID(players []Player, id ID) int {
	for i := range players {
		if players[i].ID == id {
			return i
		}
	}
	return -1
}

// ResetSeason accumulates lifetime counters and clears season-scoped state.
// The new initial quality is the last recorded reading.
func (p *Player) ResetSeason() {
	p.LifetimeMinutes += p.TotalMinutes
	p.LifetimeMatches += p.MatchesPlayed
	p.LifetimeGoals += p.SeasonGoals()
	p.LifetimeAssists += p.SeasonAssists()

	p.InitialQuality = p.CurrentQuality()
	p.Progress = Progress{}
	p.Minutes = Minutes{}
	p.TotalMinutes = 0
	p.MatchesPlayed = 0
	p.LeagueGoals, p.LeagueAssists = 0, 0
	p.CLGoals, p.CLAssists = 0, 0
	p.CupGoals, p.CupAssists = 0, 0
}

func IntPtr(v int) *int {
	return &v
}
