// Package mcpserver exposes read-only squad views as MCP tools.
package mcpserver

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/riskibarqy/squad-tracker/internal/platform/logging"
	"github.com/riskibarqy/squad-tracker/internal/usecase"
)

const serverName = "squad-tracker-mcp"

// Refresher re-reads shared storage. The API process owns the writes, so
// every tool call refreshes before it answers.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Services are the read paths the tools call. Source may be nil when the
// workspace is not shared with another process.
type Services struct {
	Source  Refresher
	Ranking *usecase.RankingService
	Career  *usecase.CareerService
	Seasons *usecase.SeasonService
}

type PowerRankingArgs struct{}

type LeaderboardArgs struct {
	Metric string `json:"metric,omitempty" jsonschema:"ranking metric: matchesPlayed (default), totalMinutes, goals, assists or gaPer90"`
	Join   string `json:"join,omitempty" jsonschema:"how seasons are matched to one player: name (default) or id"`
}

type SearchPlayersArgs struct {
	Query string `json:"query" jsonschema:"case-insensitive name fragment, at least 2 characters"`
}

type SeasonArchiveArgs struct {
	Season int `json:"season,omitempty" jsonschema:"season number; omit to list every archived season"`
}

// NewServer registers every tool on a fresh MCP server.
func NewServer(services Services, version string, logger *logging.Logger) *mcp.Server {
	if logger == nil {
		logger = logging.Default()
	}

	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "power_ranking",
		Description: "Current power ranking of the active roster with movement against the last recorded snapshot",
	}, fresh(services.Source, func(ctx context.Context, _ PowerRankingArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(services.Ranking.Current(ctx), nil)
	}))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "all_time_leaders",
		Description: "Career leaderboard across every archived season plus the current one",
	}, fresh(services.Source, func(ctx context.Context, args LeaderboardArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(services.Career.AllTimeLeaders(ctx, args.Metric, args.Join))
	}))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "hall_of_fame",
		Description: "Leaderboard of individually archived players",
	}, fresh(services.Source, func(ctx context.Context, args LeaderboardArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(services.Career.HallOfFame(ctx, args.Metric, args.Join))
	}))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_players",
		Description: "Find players by name across season snapshots and archived players",
	}, fresh(services.Source, func(ctx context.Context, args SearchPlayersArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(services.Career.SearchPlayers(ctx, args.Query))
	}))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "season_archive",
		Description: "One archived season in full, or the list of archived seasons when no season is given",
	}, fresh(services.Source, func(ctx context.Context, args SeasonArchiveArgs) (*mcp.CallToolResult, any, error) {
		if args.Season <= 0 {
			return toolJSON(services.Seasons.ListSeasons(ctx), nil)
		}
		return toolJSON(services.Seasons.GetSeason(ctx, args.Season))
	}))

	logger.Info("mcp tools registered", "server", serverName, "version", version)
	return server
}

func fresh[In any](source Refresher, fn func(context.Context, In) (*mcp.CallToolResult, any, error)) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, args In) (*mcp.CallToolResult, any, error) {
		if source != nil {
			if err := source.Refresh(ctx); err != nil {
				return toolError(err), nil, nil
			}
		}
		return fn(ctx, args)
	}
}

func toolJSON[T any](value T, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	raw, err := sonic.Marshal(value)
	if err != nil {
		return nil, nil, fmt.Errorf("encode tool result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)}},
	}
}
