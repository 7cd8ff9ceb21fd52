package models

import (
	"strconv"

	"github.com/renaqd/team1-ADS507/internal/nba"
)

// HustleStat is one player's hustle line for one game: effort counters the
// provider tracks outside the traditional box score. Identity is
// (game_id, player_id); counters default to zero when absent so aggregate
// queries stay correct.
type HustleStat struct {
	GameID   int   `db:"game_id"`
	PlayerID int   `db:"player_id"`
	TeamID   int   `db:"team_id"`
	Game     *Game // carries game_date and matchup
	Minutes  int   `db:"minutes"` // seconds played, from MM:SS
	Points   int   `db:"pts"`

	ContestedShots    int `db:"contested_shots"`
	ContestedShots2PT int `db:"contested_shots_2pt"`
	ContestedShots3PT int `db:"contested_shots_3pt"`
	Deflections       int `db:"deflections"`
	ChargesDrawn      int `db:"charges_drawn"`
	ScreenAssists     int `db:"screen_assists"`
	ScreenAssistPts   int `db:"screen_ast_pts"`

	OffLooseBallsRecovered int `db:"off_loose_balls_recovered"`
	DefLooseBallsRecovered int `db:"def_loose_balls_recovered"`
	LooseBallsRecovered    int `db:"loose_balls_recovered"`

	OffBoxouts int `db:"off_boxouts"`
	DefBoxouts int `db:"def_boxouts"`
	Boxouts    int `db:"boxouts"`
}

// HustleStatFromRecord normalizes one PlayerStats record from a hustle box
// score. The game provides date and matchup context not present on the
// per-player rows.
func HustleStatFromRecord(rec nba.RawRecord, game *Game) (*HustleStat, error) {
	if !rec.Has("PLAYER_ID") {
		return nil, &SchemaError{Kind: "hustle stat", Field: "PLAYER_ID"}
	}

	gameID := rec.Int("GAME_ID")
	if gameID == 0 {
		// Older payloads omit GAME_ID on the player rows; the parent game
		// supplies it. A non-numeric id would key every such row at
		// (0, player_id), so it is a schema failure, not a zero default.
		id, err := strconv.Atoi(game.GameID)
		if err != nil {
			return nil, &SchemaError{Kind: "hustle stat", Field: "GAME_ID"}
		}
		gameID = id
	}

	return &HustleStat{
		GameID:   gameID,
		PlayerID: rec.Int("PLAYER_ID"),
		TeamID:   rec.Int("TEAM_ID"),
		Game:     game,
		Minutes:  rec.ClockSeconds("MINUTES"),
		Points:   rec.Int("PTS"),

		ContestedShots:    rec.Int("CONTESTED_SHOTS"),
		ContestedShots2PT: rec.Int("CONTESTED_SHOTS_2PT"),
		ContestedShots3PT: rec.Int("CONTESTED_SHOTS_3PT"),
		Deflections:       rec.Int("DEFLECTIONS"),
		ChargesDrawn:      rec.Int("CHARGES_DRAWN"),
		ScreenAssists:     rec.Int("SCREEN_ASSISTS"),
		ScreenAssistPts:   rec.Int("SCREEN_AST_PTS"),

		OffLooseBallsRecovered: rec.Int("OFF_LOOSE_BALLS_RECOVERED"),
		DefLooseBallsRecovered: rec.Int("DEF_LOOSE_BALLS_RECOVERED"),
		LooseBallsRecovered:    rec.Int("LOOSE_BALLS_RECOVERED"),

		OffBoxouts: rec.Int("OFF_BOXOUTS"),
		DefBoxouts: rec.Int("DEF_BOXOUTS"),
		Boxouts:    rec.Int("BOX_OUTS"),
	}, nil
}

// Row emits values in HustleStatsTable column order
func (h *HustleStat) Row() []any {
	return []any{
		h.GameID, h.PlayerID, h.TeamID, h.Game.DateValue(), h.Game.Matchup,
		h.Minutes, h.Points,
		h.ContestedShots, h.ContestedShots2PT, h.ContestedShots3PT,
		h.Deflections, h.ChargesDrawn, h.ScreenAssists, h.ScreenAssistPts,
		h.OffLooseBallsRecovered, h.DefLooseBallsRecovered,
		h.LooseBallsRecovered, h.OffBoxouts, h.DefBoxouts, h.Boxouts,
	}
}
