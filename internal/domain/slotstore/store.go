package slotstore

import (
	"context"
	"errors"
)

// Name identifies a persisted collection.
type Name string

const (
	Players         Name = "players"
	ArchivedPlayers Name = "archivedPlayers"
	SeasonArchives  Name = "seasonArchives"
	RankingBaseline Name = "powerRankingBaseline"
	RankingSeries   Name = "powerRankingTimeSeries"
	TrainingTimes   Name = "trainingTimes"
	TrainingBonuses Name = "trainingBonuses"
	MatchDayCursor  Name = "matchDayCursor"
)

// All lists every slot in load order.
var All = []Name{
	Players,
	ArchivedPlayers,
	SeasonArchives,
	RankingBaseline,
	RankingSeries,
	TrainingTimes,
	TrainingBonuses,
	MatchDayCursor,
}

var (
	ErrNotFound    = errors.New("slot not found")
	ErrUnavailable = errors.New("slot store unavailable")
)

// Mutation writes or removes one slot as part of an atomic batch.
type Mutation struct {
	Name   Name
	Value  []byte
	Remove bool
}

func Put(name Name, value []byte) Mutation {
	return Mutation{Name: name, Value: value}
}

func Delete(name Name) Mutation {
	return Mutation{Name: name, Remove: true}
}

// Store persists opaque JSON payloads keyed by slot name. Every write is a
// whole-value replacement.
type Store interface {
	Get(ctx context.Context, name Name) ([]byte, error)
	Set(ctx context.Context, name Name, value []byte) error
	Remove(ctx context.Context, name Name) error
	// Apply commits every mutation or none of them.
	Apply(ctx context.Context, mutations []Mutation) error
}
