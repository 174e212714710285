package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerRosterRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("POST /v1/players", handler.AddPlayer)
	mux.HandleFunc("POST /v1/players/age", handler.AgeAll)
	mux.HandleFunc("PUT /v1/players/{playerID}", handler.EditPlayer)
	mux.HandleFunc("DELETE /v1/players/{playerID}", handler.DeletePlayer)
	mux.HandleFunc("PUT /v1/players/{playerID}/progress/{day}", handler.SetProgress)
	mux.HandleFunc("PUT /v1/players/{playerID}/comment", handler.SetComment)
	mux.HandleFunc("PUT /v1/players/{playerID}/tags", handler.SetTags)
	mux.HandleFunc("POST /v1/players/{playerID}/tags/{tag}/toggle", handler.ToggleTag)
	mux.HandleFunc("POST /v1/players/{playerID}/minutes/reset", handler.ResetMinutes)
	mux.HandleFunc("POST /v1/players/{playerID}/archive", handler.ArchivePlayer)

	mux.HandleFunc("GET /v1/squad/summary", handler.SquadSummary)
	mux.HandleFunc("GET /v1/squad/day-averages", handler.DayAverages)
	mux.HandleFunc("GET /v1/squad/most-improved", handler.MostImproved)
}

func registerMinutesRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/minutes/match-day", handler.GetMatchDay)
	mux.HandleFunc("PUT /v1/minutes/match-day", handler.SetMatchDay)
	mux.HandleFunc("POST /v1/minutes/match-day/advance", handler.AdvanceMatchDay)
	mux.HandleFunc("POST /v1/minutes", handler.AddMinutes)
	mux.HandleFunc("POST /v1/minutes/undo", handler.UndoMinutes)

	mux.HandleFunc("POST /v1/goals-assists", handler.ChangeGoalAssist)
	mux.HandleFunc("POST /v1/goals-assists/undo", handler.UndoGoalAssist)
}

func registerRankingRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/rankings/current", handler.CurrentRanking)
	mux.HandleFunc("GET /v1/rankings/baseline", handler.RankingBaseline)
	mux.HandleFunc("GET /v1/rankings/timeseries", handler.RankingTimeSeries)
	mux.HandleFunc("POST /v1/rankings/snapshots", handler.RecordSnapshot)
}

func registerSeasonRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/seasons", handler.ListSeasons)
	mux.HandleFunc("GET /v1/seasons/current", handler.CurrentSeason)
	mux.HandleFunc("GET /v1/seasons/{seasonNumber}", handler.GetSeason)
	mux.HandleFunc("POST /v1/seasons/rollover", handler.RolloverSeason)

	mux.HandleFunc("GET /v1/archived-players", handler.ListArchived)
	mux.HandleFunc("PATCH /v1/archived-players/{playerID}", handler.EditArchived)
	mux.HandleFunc("DELETE /v1/archived-players/{playerID}", handler.DeleteArchived)
}

func registerCareerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/career/hall-of-fame", handler.HallOfFame)
	mux.HandleFunc("GET /v1/career/all-time-leaders", handler.AllTimeLeaders)
	mux.HandleFunc("GET /v1/career/search", handler.SearchPlayers)
}

func registerTrainingRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/training", handler.TrainingSummary)
	mux.HandleFunc("PUT /v1/training/times", handler.SetTrainingTimes)
	mux.HandleFunc("PUT /v1/training/bonuses", handler.SetTrainingBonuses)
	mux.HandleFunc("POST /v1/training/bonuses/reset", handler.ResetTrainingBonuses)
}

func registerBackupRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/backup", handler.ExportBackup)
	mux.HandleFunc("POST /v1/backup", handler.ImportBackup)
}
