package player

import (
	"fmt"
	"strings"
)

// Position is a pitch role code. The first entry of Player.Positions is the
// primary position.
type Position string

const (
	PositionGK  Position = "GK"
	PositionDL  Position = "DL"
	PositionDC  Position = "DC"
	PositionDR  Position = "DR"
	PositionDMC Position = "DMC"
	PositionML  Position = "ML"
	PositionMC  Position = "MC"
	PositionMR  Position = "MR"
	PositionAML Position = "AML"
	PositionAMC Position = "AMC"
	PositionAMR Position = "AMR"
	PositionST  Position = "ST"
)

// Category groups positions for filters and roster ordering.
type Category string

const (
	CategoryGoalkeeper   Category = "goalkeeper"
	CategoryDefense      Category = "defense"
	CategoryMidfield     Category = "midfield"
	CategoryAttack       Category = "attack"
	CategoryUnclassified Category = "unclassified"
)

// positionOrder is the roster display order; unknown codes sort last.
var positionOrder = map[Position]int{
	PositionGK:  0,
	PositionDL:  1,
	PositionDC:  2,
	PositionDR:  3,
	PositionDMC: 4,
	PositionML:  5,
	PositionMC:  6,
	PositionMR:  7,
	PositionAML: 8,
	PositionAMC: 9,
	PositionAMR: 10,
	PositionST:  11,
}

var categoryOrder = map[Category]int{
	CategoryGoalkeeper: 0,
	CategoryDefense:    1,
	CategoryMidfield:   2,
	CategoryAttack:     3,
}

const unknownOrder = 99

func ParsePosition(raw string) (Position, error) {
	pos := Position(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := positionOrder[pos]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidPosition, raw)
	}
	return pos, nil
}

func (p Position) Known() bool {
	_, ok := positionOrder[p]
	return ok
}

func (p Position) Category() Category {
	switch p {
	case PositionGK:
		return CategoryGoalkeeper
	case PositionDL, PositionDC, PositionDR:
		return CategoryDefense
	case PositionDMC, PositionML, PositionMC, PositionMR, PositionAMC, PositionAML, PositionAMR:
		return CategoryMidfield
	case PositionST:
		return CategoryAttack
	default:
		return CategoryUnclassified
	}
}

// Order returns the display index of the position, 99 when unknown.
func (p Position) Order() int {
	if order, ok := positionOrder[p]; ok {
		return order
	}
	return unknownOrder
}

func (c Category) Order() int {
	if order, ok := categoryOrder[c]; ok {
		return order
	}
	return unknownOrder
}

func ParseCategory(raw string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(raw))); c {
	case CategoryGoalkeeper, CategoryDefense, CategoryMidfield, CategoryAttack, CategoryUnclassified:
		return c, nil
	}
	// Short forms used by the roster filters.
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gk":
		return CategoryGoalkeeper, nil
	case "def":
		return CategoryDefense, nil
	case "mid":
		return CategoryMidfield, nil
	case "att", "fwd":
		return CategoryAttack, nil
	}
	return "", fmt.Errorf("%w: unknown position category %q", ErrInvalidPlayer, raw)
}

// NormalizePositions drops blank and repeated codes and keeps at most
// MaxPositions entries. Unknown codes are kept; they sort as unclassified.
// changed reports whether the result differs from the input.
func NormalizePositions(positions []Position) (out []Position, changed bool) {
	out = make([]Position, 0, min(len(positions), MaxPositions))
	seen := make(map[Position]struct{}, len(positions))
	for _, raw := range positions {
		pos := Position(strings.ToUpper(strings.TrimSpace(string(raw))))
		if pos == "" {
			continue
		}
		if _, dup := seen[pos]; dup {
			continue
		}
		seen[pos] = struct{}{}
		if len(out) == MaxPositions {
			break
		}
		out = append(out, pos)
	}
	changed = len(out) != len(positions)
	for i := range out {
		if !changed && out[i] != positions[i] {
			changed = true
		}
	}
	return out, changed
}
