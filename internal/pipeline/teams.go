package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/renaqd/team1-ADS507/internal/models"
	"github.com/renaqd/team1-ADS507/internal/nba"
)

// RunTeams refreshes the team table: one detail fetch per team id in the
// fixed universe, then a single batched upsert. A team whose fetch or
// normalization fails is skipped; the rest of the universe still runs.
func (p *Pipeline) RunTeams(ctx context.Context) Report {
	report := Report{Kind: KindTeams, Stage: StagePending}
	start := time.Now()
	defer func() { observe(&report, start) }()

	teamIDs := p.client.TeamIDs()
	log.Info().Int("count", len(teamIDs)).Msg("Refreshing teams")

	report.Stage = StageFetching
	records := make([]nba.RawRecord, 0, len(teamIDs))
	for _, teamID := range teamIDs {
		if ctx.Err() != nil {
			report.Stage = StageFailed
			report.Err = ctx.Err()
			return report
		}

		rec, err := p.client.FetchTeamInfo(ctx, teamID)
		if err != nil {
			report.Skipped++
			skip(KindTeams, fmt.Sprintf("team %d", teamID), err)
			continue
		}
		records = append(records, rec)
		report.Fetched++
	}

	report.Stage = StageNormalizing
	teams := make([]*models.Team, 0, len(records))
	for _, rec := range records {
		team, err := models.TeamFromRecord(rec)
		if err != nil {
			report.Skipped++
			skip(KindTeams, fmt.Sprintf("team %d", rec.Int("TEAM_ID")), err)
			continue
		}
		teams = append(teams, team)
	}

	if len(teams) == 0 {
		report.Stage = StageFailed
		report.Err = fmt.Errorf("no team records survived fetch and normalization")
		return report
	}

	report.Stage = StageWriting
	written, err := p.db.Teams.UpsertBatch(ctx, teams)
	report.Written = written
	if err != nil {
		report.Stage = StageFailed
		report.Err = err
		return report
	}

	report.Stage = StageDone
	return report
}
