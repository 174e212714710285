package powerscore

import (
	"sort"

	"github.com/riskibarqy/squad-tracker/internal/domain/player"
)

// Breakdown is the power score of one player with its components.
type Breakdown struct {
	PlayerID         player.ID       `json:"playerId"`
	PlayerName       string          `json:"playerName"`
	PrimaryPosition  player.Position `json:"primaryPosition"`
	CurrentQuality   int             `json:"currentQuality"`
	QualityScore     float64         `json:"qualityScore"`
	ImprovementScore float64         `json:"improvementScore"`
	AdjustedGAScore  float64         `json:"adjustedGaScore"`
	UsageScore       float64         `json:"usageScore"`
	AgeValue         float64         `json:"ageValue"`
	PowerScore       float64         `json:"powerScore"`
}

type weights struct {
	goal   float64
	assist float64
}

var (
	attackWeights  = weights{goal: 1.1, assist: 0.8}
	midWeights     = weights{goal: 1.8, assist: 1.5}
	defenceWeights = weights{goal: 2.7, assist: 2.3}
)

// improvementTable maps a positive improvement (capped at 30) to its score.
var improvementTable = [31]float64{
	0, // unused: improvement <= 0 scores 0
	0, 0, 0, 0, 1, 1, 2, 2, 2, 2,
	3, 3, 4, 5, 5, 6, 7, 8, 8, 9,
	9, 9, 10, 10, 10, 11, 13, 15, 17, 20,
}

const (
	maxTabledImprovement = 30
	usageMultiplier      = 3
)

// QualityScore is the cubic quality curve.
func QualityScore(quality int) float64 {
	x := float64(quality)
	return 0.000175825*x*x*x - 0.05092985*x*x + 4.9956096*x - 156.471597
}

func ImprovementScore(improvement int) float64 {
	if improvement <= 0 {
		return 0
	}
	if improvement > maxTabledImprovement {
		improvement = maxTabledImprovement
	}
	return improvementTable[improvement]
}

func weightsFor(primary player.Position) weights {
	switch primary {
	case player.PositionST, player.PositionAML, player.PositionAMR, player.PositionAMC:
		return attackWeights
	case player.PositionMC, player.PositionML, player.PositionMR, player.PositionDMC:
		return midWeights
	case player.PositionDL, player.PositionDR, player.PositionDC, player.PositionGK:
		return defenceWeights
	default:
		return weights{}
	}
}

func AdjustedGAScore(primary player.Position, goals, assists int) float64 {
	w := weightsFor(primary)
	return float64(goals)*w.goal + float64(assists)*w.assist
}

func UsageScore(goals, assists, minutes int) float64 {
	return player.Per90(goals+assists, minutes) * usageMultiplier
}

func AgeValue(age int) float64 {
	switch {
	case age >= 18 && age <= 21:
		return 5
	case age >= 22 && age <= 25:
		return 3
	case age >= 26:
		return 2
	default:
		return 0
	}
}

func Compute(p player.Player) Breakdown {
	goals, assists := p.SeasonGoals(), p.SeasonAssists()
	current := p.CurrentQuality()
	primary := p.PrimaryPosition()

	b := Breakdown{
		PlayerID:         p.ID,
		PlayerName:       p.Name,
		PrimaryPosition:  primary,
		CurrentQuality:   current,
		QualityScore:     QualityScore(current),
		ImprovementScore: ImprovementScore(current - p.InitialQuality),
		AdjustedGAScore:  AdjustedGAScore(primary, goals, assists),
		UsageScore:       UsageScore(goals, assists, p.TotalMinutes),
		AgeValue:         AgeValue(p.Age),
	}
	b.PowerScore = b.QualityScore + b.ImprovementScore + b.AdjustedGAScore + b.UsageScore + b.AgeValue
	return b
}

// Rank computes every breakdown and orders them by power score descending.
// Equal scores keep roster order.
func Rank(players []player.Player) []Breakdown {
	out := make([]Breakdown, len(players))
	for i := range players {
		out[i] = Compute(players[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PowerScore > out[j].PowerScore
	})
	return out
}
