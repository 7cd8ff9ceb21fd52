package models

// Table is the canonical schema descriptor for one entity kind: table name,
// ordered column list and the natural-key columns used for conflict
// resolution. The normalizer's Row methods and the batch writer's insert
// statements both derive from these descriptors, so column order can never
// drift between the two.
type Table struct {
	Name    string
	Columns []string
	Key     []string
}

// ValueColumns returns the non-key columns updated on conflict
func (t Table) ValueColumns() []string {
	keys := make(map[string]bool, len(t.Key))
	for _, k := range t.Key {
		keys[k] = true
	}

	cols := make([]string, 0, len(t.Columns)-len(t.Key))
	for _, c := range t.Columns {
		if !keys[c] {
			cols = append(cols, c)
		}
	}
	return cols
}

var (
	// TeamsTable keys on the provider-assigned team id. team_name precedes
	// team_abbreviation; earlier schema revisions disagreed on this order.
	TeamsTable = Table{
		Name: "teams",
		Columns: []string{
			"team_id", "season_year", "team_city", "team_name",
			"team_abbreviation", "team_conference", "wins", "losses", "win_pct",
		},
		Key: []string{"team_id"},
	}

	// PlayersTable keys on the provider-assigned player id
	PlayersTable = Table{
		Name: "players",
		Columns: []string{
			"player_id", "full_name", "position", "team_id", "team_name",
		},
		Key: []string{"player_id"},
	}

	// HustleStatsTable keys on (game, player); rows are append-mostly but
	// upsert-safe for late stat corrections
	HustleStatsTable = Table{
		Name: "hustle_stats",
		Columns: []string{
			"game_id", "player_id", "team_id", "game_date", "matchup",
			"minutes", "pts",
			"contested_shots", "contested_shots_2pt", "contested_shots_3pt",
			"deflections", "charges_drawn", "screen_assists", "screen_ast_pts",
			"off_loose_balls_recovered", "def_loose_balls_recovered",
			"loose_balls_recovered", "off_boxouts", "def_boxouts", "boxouts",
		},
		Key: []string{"game_id", "player_id"},
	}

	// AvailabilityTable is the pipeline's only persisted cursor: which games
	// already had hustle stats fetched
	AvailabilityTable = Table{
		Name:    "hustle_stats_available",
		Columns: []string{"game_id", "hustle_status"},
		Key:     []string{"game_id"},
	}
)
