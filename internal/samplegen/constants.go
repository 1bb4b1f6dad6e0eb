package samplegen

import (
	"time"

	"github.com/okian/rugbylens/internal/domain/model"
)

// Header is the column order of every generated file.
var Header = []string{
	model.ColActionName,
	model.ColActionResultName,
	model.ColActionTypeName,
	model.ColTeamName,
	model.ColPlayerName,
	model.ColPlayerShirtNumber,
	model.ColMatchTime,
	model.ColXCoord,
	model.ColYCoord,
	model.ColXCoordEnd,
	model.ColYCoordEnd,
}

// Pitch dimensions in metres, matching the chart axes.
const (
	pitchLength = 100.0
	pitchWidth  = 70.0
)

// Match clock.
const (
	halfLength  = 40.0
	matchLength = 2 * halfLength
	squadSize   = 23
	starters    = 15
)

// Run defaults.
const (
	DefaultMatches        = 4
	DefaultEventsPerMatch = 400
	DefaultTimeout        = 30 * time.Second
	dirPermission         = 0o750
	filePermission        = 0o640
)

// Teams is the pool fixtures are drawn from.
var Teams = []string{
	"Harlequins", "Saracens", "Leicester Tigers", "Bath",
	"Northampton Saints", "Exeter Chiefs", "Sale Sharks", "Gloucester",
}

var surnames = []string{
	"Adams", "Barnes", "Clarke", "Davies", "Evans", "Fisher", "Grant", "Hughes",
	"Irving", "Jones", "King", "Lewis", "Morgan", "Nash", "Owens", "Price",
	"Quinn", "Reed", "Shaw", "Turner", "Underhill", "Vaughan", "Walsh", "Young",
}

// actionProfile shapes the rows emitted for one action label.
type actionProfile struct {
	name    string
	weight  int
	results []string
	types   []string
	travels bool    // travelling actions carry an end location
	reach   float64 // typical travel in metres
}

var profiles = []actionProfile{
	{name: "Tackle", weight: 22, results: []string{"Won", "Lost", "Neutral"}, types: []string{"Front On", "Side On", "Behind", "Chop"}},
	{name: "Missed Tackle", weight: 5, results: []string{"Lost"}, types: []string{"Front On", "Side On"}},
	{name: "Carry", weight: 18, results: []string{"Won", "Lost", "Neutral"}, types: []string{"Pick And Go", "Crash Ball", "Wide"}, travels: true, reach: 8},
	{name: "Pass", weight: 16, results: []string{"Complete", "Incomplete"}, types: []string{"Standard", "Offload", "Pop"}, travels: true, reach: 10},
	{name: "Ruck", weight: 14, results: []string{"Won", "Lost"}, types: []string{"Attacking", "Defensive"}},
	{name: "Kick", weight: 6, results: []string{"Won", "Lost", "Out Of Play"}, types: []string{"Box", "Territorial", "Grubber", "Chip"}, travels: true, reach: 35},
	{name: "Goal Kick", weight: 2, results: []string{"Success", "Fail"}, types: []string{"Penalty", "Conversion"}, travels: true, reach: 30},
	{name: "Restart", weight: 2, results: []string{"Won", "Lost"}, types: []string{"Kick Off", "22 Drop Out"}, travels: true, reach: 40},
	{name: "Scrum", weight: 3, results: []string{"Won", "Lost", "Penalty"}, types: []string{"Own Feed", "Opposition Feed"}},
	{name: "Lineout Throw", weight: 3, results: []string{"Won", "Lost"}, types: []string{"Front", "Middle", "Back"}},
	{name: "Penalty Conceded", weight: 3, results: []string{"Conceded"}, types: []string{"Offside", "Ruck Infringement", "High Tackle"}},
	{name: "Turnover", weight: 2, results: []string{"Won"}, types: []string{"Jackal", "Interception"}},
	{name: "Try", weight: 1, results: []string{"Scored"}, types: []string{"Open Play", "Maul"}},
	{name: "Maul", weight: 1, results: []string{"Won", "Lost"}, types: []string{"Lineout Maul"}},
	{name: "Sub In", weight: 1, results: []string{""}, types: []string{""}},
	{name: "Card", weight: 1, results: []string{"Yellow"}, types: []string{""}},
}
