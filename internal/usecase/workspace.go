package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/squad-tracker/internal/domain/player"
	"github.com/riskibarqy/squad-tracker/internal/domain/ranking"
	"github.com/riskibarqy/squad-tracker/internal/domain/season"
	"github.com/riskibarqy/squad-tracker/internal/domain/slotstore"
	"github.com/riskibarqy/squad-tracker/internal/domain/training"
	"github.com/riskibarqy/squad-tracker/internal/domain/undo"
	"github.com/riskibarqy/squad-tracker/internal/platform/logging"
)

const (
	DefaultMinutesMax = 90
	maxLoadWorkers    = 4
)

// state is the full live data set. Every field is owned by the workspace
// and replaced wholesale on commit.
type state struct {
	players  []player.Player
	archived []player.Player
	archives []season.Archive
	baseline ranking.Baseline
	series   ranking.TimeSeries
	times    []string
	bonuses  training.Bonuses
	// matchDay is the 0-based minutes slot AddMinutes writes to.
	matchDay int
}

func defaultState() state {
	return state{
		players:  []player.Player{},
		archived: []player.Player{},
		archives: []season.Archive{},
		baseline: ranking.Baseline{},
		series:   ranking.TimeSeries{},
		times:    training.DefaultTimes(),
		bonuses:  training.Bonuses{},
	}
}

func (s state) clone() state {
	return state{
		players:  player.CloneAll(s.players),
		archived: player.CloneAll(s.archived),
		archives: season.CloneAll(s.archives),
		baseline: s.baseline.Clone(),
		series:   s.series.Clone(),
		times:    append([]string(nil), s.times...),
		bonuses:  s.bonuses.Clone(),
		matchDay: s.matchDay,
	}
}

func (s *state) encode(name slotstore.Name) ([]byte, error) {
	switch name {
	case slotstore.Players:
		return sonic.Marshal(nonNilPlayers(s.players))
	case slotstore.ArchivedPlayers:
		return sonic.Marshal(nonNilPlayers(s.archived))
	case slotstore.SeasonArchives:
		if s.archives == nil {
			return []byte("[]"), nil
		}
		return sonic.Marshal(s.archives)
	case slotstore.RankingBaseline:
		if s.baseline == nil {
			return []byte("[]"), nil
		}
		return sonic.Marshal(s.baseline)
	case slotstore.RankingSeries:
		if s.series == nil {
			return []byte("{}"), nil
		}
		return sonic.Marshal(s.series)
	case slotstore.TrainingTimes:
		return sonic.Marshal(s.times)
	case slotstore.TrainingBonuses:
		if s.bonuses == nil {
			return []byte("{}"), nil
		}
		return sonic.Marshal(s.bonuses)
	case slotstore.MatchDayCursor:
		return sonic.Marshal(s.matchDay)
	default:
		return nil, fmt.Errorf("unknown slot %q", name)
	}
}

// decode replaces one field from its persisted payload. The field is left
// untouched when the payload does not parse.
func (s *state) decode(name slotstore.Name, raw []byte) error {
	switch name {
	case slotstore.Players:
		var players []player.Player
		if err := sonic.Unmarshal(raw, &players); err != nil {
			return err
		}
		s.players = normalizeLoaded(nonNilPlayers(players), false)
	case slotstore.ArchivedPlayers:
		var players []player.Player
		if err := sonic.Unmarshal(raw, &players); err != nil {
			return err
		}
		s.archived = normalizeLoaded(nonNilPlayers(players), true)
	case slotstore.SeasonArchives:
		var archives []season.Archive
		if err := sonic.Unmarshal(raw, &archives); err != nil {
			return err
		}
		if archives == nil {
			archives = []season.Archive{}
		}
		s.archives = archives
	case slotstore.RankingBaseline:
		var baseline ranking.Baseline
		if err := sonic.Unmarshal(raw, &baseline); err != nil {
			return err
		}
		if baseline == nil {
			baseline = ranking.Baseline{}
		}
		s.baseline = baseline
	case slotstore.RankingSeries:
		var series ranking.TimeSeries
		if err := sonic.Unmarshal(raw, &series); err != nil {
			return err
		}
		if series == nil {
			series = ranking.TimeSeries{}
		}
		s.series = series
	case slotstore.TrainingTimes:
		var times []string
		if err := sonic.Unmarshal(raw, &times); err != nil {
			return err
		}
		normalized, err := training.NormalizeTimes(times)
		if err != nil {
			return err
		}
		s.times = normalized
	case slotstore.TrainingBonuses:
		var bonuses training.Bonuses
		if err := sonic.Unmarshal(raw, &bonuses); err != nil {
			return err
		}
		if bonuses == nil {
			bonuses = training.Bonuses{}
		}
		s.bonuses = bonuses
	case slotstore.MatchDayCursor:
		var day int
		if err := sonic.Unmarshal(raw, &day); err != nil {
			return err
		}
		if day < 0 || day > player.SeasonDays {
			return fmt.Errorf("match day cursor %d out of range", day)
		}
		s.matchDay = day
	default:
		return fmt.Errorf("unknown slot %q", name)
	}
	return nil
}

func nonNilPlayers(players []player.Player) []player.Player {
	if players == nil {
		return []player.Player{}
	}
	return players
}

// normalizeLoaded fills fields that older payloads did not carry.
func normalizeLoaded(players []player.Player, archived bool) []player.Player {
	for i := range players {
		p := &players[i]
		if p.InitialQuality == 0 {
			p.InitialQuality = p.Quality
		}
		if archived && p.ArchiveReason == "" {
			p.ArchiveReason = player.ReasonOther
		}
	}
	return players
}

// legacyMatchDay derives the cursor the way payloads without a persisted
// cursor implied it: the first zero-minutes slot of the first roster member.
func legacyMatchDay(players []player.Player) int {
	if len(players) == 0 {
		return 0
	}
	return players[0].FirstUnplayedDay()
}

// LoadReport describes what Load had to repair.
type LoadReport struct {
	Fallbacks       []slotstore.Name `json:"fallbacks"`
	DerivedMatchDay bool             `json:"derivedMatchDay"`
}

type WorkspaceOptions struct {
	MinutesMax int
	Logger     *logging.Logger
}

// Workspace is the single logical actor over the live data set. Every
// operation holds mu for its full duration, and in-memory state is only
// swapped after the store accepted the write.
type Workspace struct {
	mu         sync.Mutex
	store      slotstore.Store
	logger     *logging.Logger
	now        func() time.Time
	minutesMax int

	state       state
	minutesUndo undo.Stack[undo.MinutesEntry]
	gaUndo      undo.Stack[undo.GoalAssistEntry]
}

func NewWorkspace(store slotstore.Store, opts WorkspaceOptions) *Workspace {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	minutesMax := opts.MinutesMax
	if minutesMax <= 0 {
		minutesMax = DefaultMinutesMax
	}
	return &Workspace{
		store:      store,
		logger:     logger.Named("workspace"),
		now:        time.Now,
		minutesMax: minutesMax,
		state:      defaultState(),
	}
}

// Load hydrates every slot from the store. Payloads that fail to parse fall
// back to their empty default and are reported, not returned as errors.
func (w *Workspace) Load(ctx context.Context) (report LoadReport, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Workspace.Load")
	defer func() { endUsecaseSpan(span, err) }()

	next, report, err := w.hydrate(ctx)
	if err != nil {
		return LoadReport{}, err
	}
	if report.DerivedMatchDay {
		w.logger.InfoContext(ctx, "match day cursor derived from roster", "match_day", next.matchDay+1)
	}
	w.swap(next)

	w.logger.InfoContext(ctx, "workspace loaded",
		"players", len(next.players),
		"archived_players", len(next.archived),
		"season_archives", len(next.archives),
		"fallbacks", len(report.Fallbacks),
	)
	return report, nil
}

// Refresh re-reads the store and replaces the live state. It serves
// processes that only read while another process owns the writes; both undo
// logs are dropped with the old state.
func (w *Workspace) Refresh(ctx context.Context) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Workspace.Refresh")
	defer func() { endUsecaseSpan(span, err) }()

	next, report, err := w.hydrate(ctx)
	if err != nil {
		return err
	}
	w.swap(next)

	w.logger.DebugContext(ctx, "workspace refreshed",
		"players", len(next.players),
		"fallbacks", len(report.Fallbacks),
	)
	return nil
}

func (w *Workspace) swap(next state) {
	w.mu.Lock()
	w.state = next
	w.minutesUndo.Clear()
	w.gaUndo.Clear()
	w.mu.Unlock()
}

func (w *Workspace) hydrate(ctx context.Context) (state, LoadReport, error) {
	var report LoadReport
	raws := make([][]byte, len(slotstore.All))
	found := make([]bool, len(slotstore.All))

	p := pool.New().WithMaxGoroutines(maxLoadWorkers).WithErrors().WithContext(ctx)
	for i, name := range slotstore.All {
		p.Go(func(ctx context.Context) error {
			raw, err := w.store.Get(ctx, name)
			if errors.Is(err, slotstore.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("get slot %s: %w", name, err)
			}
			raws[i] = raw
			found[i] = true
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return state{}, LoadReport{}, fmt.Errorf("%w: load workspace: %w", ErrDependencyUnavailable, err)
	}

	next := defaultState()
	cursorFound := false
	for i, name := range slotstore.All {
		if !found[i] {
			continue
		}
		if err := next.decode(name, raws[i]); err != nil {
			report.Fallbacks = append(report.Fallbacks, name)
			w.logger.WarnContext(ctx, "slot payload unreadable, using default",
				"slot", name,
				"error", fmt.Errorf("%w: %w", ErrPersistedStateParse, err),
			)
			continue
		}
		if name == slotstore.MatchDayCursor {
			cursorFound = true
		}
	}
	if !cursorFound {
		next.matchDay = legacyMatchDay(next.players)
		report.DerivedMatchDay = true
	}
	return next, report, nil
}

// commitLocked persists the named slots of next and, on success, makes next
// the live state. A single slot is written with Set; several go through one
// atomic Apply. Callers hold mu.
func (w *Workspace) commitLocked(ctx context.Context, next state, names ...slotstore.Name) error {
	mutations := make([]slotstore.Mutation, 0, len(names))
	for _, name := range names {
		raw, err := next.encode(name)
		if err != nil {
			return fmt.Errorf("encode slot %s: %w", name, err)
		}
		mutations = append(mutations, slotstore.Put(name, raw))
	}

	var err error
	switch len(mutations) {
	case 0:
	case 1:
		err = w.store.Set(ctx, mutations[0].Name, mutations[0].Value)
	default:
		err = w.store.Apply(ctx, mutations)
	}
	if err != nil {
		w.logger.WarnContext(ctx, "persist slots failed", "slots", names, "error", err)
		return fmt.Errorf("%w: persist %v: %w", ErrDependencyUnavailable, names, err)
	}

	w.state = next
	return nil
}

// mutate runs fn against a copy of the live state and commits the named
// slots when fn succeeds.
func (w *Workspace) mutate(ctx context.Context, names []slotstore.Name, fn func(next *state) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.state.clone()
	if err := fn(&next); err != nil {
		return err
	}
	return w.commitLocked(ctx, next, names...)
}

// view runs fn against the live state under the lock. fn must copy anything
// it keeps.
func (w *Workspace) view(fn func(s *state)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(&w.state)
}

func findPlayer(players []player.Player, id player.ID) (int, error) {
	idx := player.IndexByID(players, id)
	if idx < 0 {
		return -1, fmt.Errorf("%w: player %s", ErrNotFound, id)
	}
	return idx, nil
}
