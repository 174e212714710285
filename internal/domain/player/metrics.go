package player

// CurrentQuality is the latest progress reading, or InitialQuality when the
// season has no readings yet.
func (p Player) CurrentQuality() int {
	for i := SeasonDays - 1; i >= 0; i-- {
		if p.Progress[i] != nil {
			return *p.Progress[i]
		}
	}
	return p.InitialQuality
}

func (p Player) SeasonGoals() int {
	return p.LeagueGoals + p.CLGoals + p.CupGoals
}

func (p Player) SeasonAssists() int {
	return p.LeagueAssists + p.CLAssists + p.CupAssists
}

func (p Player) Improvement() int {
	return p.CurrentQuality() - p.InitialQuality
}

func (p Player) ImprovementPercent() float64 {
	if p.InitialQuality <= 0 {
		return 0
	}
	return float64(p.Improvement()) / float64(p.InitialQuality) * 100
}

func (p Player) AverageMinutesPerMatch() float64 {
	if p.MatchesPlayed <= 0 {
		return 0
	}
	return float64(p.TotalMinutes) / float64(p.MatchesPlayed)
}

func (p Player) GAPer90() float64 {
	return Per90(p.SeasonGoals()+p.SeasonAssists(), p.TotalMinutes)
}

// LastReadingIndex is the highest slot holding a reading, -1 if none.
func (p Player) LastReadingIndex() int {
	for i := SeasonDays - 1; i >= 0; i-- {
		if p.Progress[i] != nil {
			return i
		}
	}
	return -1
}

// FirstUnplayedDay is the first slot with zero minutes, SeasonDays if every
// slot has minutes.
func (p Player) FirstUnplayedDay() int {
	for i, v := range p.Minutes {
		if v == 0 {
			return i
		}
	}
	return SeasonDays
}

func Per90(count, minutes int) float64 {
	if minutes <= 0 {
		return 0
	}
	return float64(count) * 90 / float64(minutes)
}
