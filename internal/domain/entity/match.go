package entity

import (
	"strconv"
	"strings"
	"time"
)

// Side is the half of a match a user plays for.
type Side string

const (
	SideNone Side = ""
	SideHome Side = "home"
	SideAway Side = "away"
)

func (s Side) CanChat() bool {
	return s == SideHome || s == SideAway
}

// Schedule holds the candidate start times of a match. Values are unix
// timestamps or date strings, as entered by tournament admins.
type Schedule struct {
	Updated  interface{} `json:"updated,omitempty" firestore:"updated,omitempty" yaml:"updated,omitempty"`
	Original interface{} `json:"original,omitempty" firestore:"original,omitempty" yaml:"original,omitempty"`
	Home     interface{} `json:"home,omitempty" firestore:"home,omitempty" yaml:"home,omitempty"`
	Away     interface{} `json:"away,omitempty" firestore:"away,omitempty" yaml:"away,omitempty"`
}

// StartTime picks the first usable time in admin-confirmed order:
// updated, original, home proposal, away proposal. Zero when none parse.
func (s Schedule) StartTime() time.Time {
	for _, v := range []interface{}{s.Updated, s.Original, s.Home, s.Away} {
		if ts := parseDateTimeValue(v); ts > 0 {
			return time.Unix(ts, 0)
		}
	}
	return time.Time{}
}

type Match struct {
	ID           int64       `json:"id" firestore:"id" yaml:"id"`
	TournamentID int64       `json:"tournament_id" firestore:"tournamentId" yaml:"tournament_id"`
	Schedule     Schedule    `json:"schedule" firestore:"schedule" yaml:"schedule"`
	HomeScore    interface{} `json:"home_score,omitempty" firestore:"homeScore" yaml:"home_score"`
	AwayScore    interface{} `json:"away_score,omitempty" firestore:"awayScore" yaml:"away_score"`
	HomePlayers  []int64     `json:"home_players,omitempty" firestore:"homePlayers" yaml:"home_players"`
	AwayPlayers  []int64     `json:"away_players,omitempty" firestore:"awayPlayers" yaml:"away_players"`
	HomeTeam     int64       `json:"home_team,omitempty" firestore:"homeTeam" yaml:"home_team"`
	AwayTeam     int64       `json:"away_team,omitempty" firestore:"awayTeam" yaml:"away_team"`
}

func (m *Match) StartTime() time.Time {
	return m.Schedule.StartTime()
}

// ResultEntered reports whether either score has been written.
func (m *Match) ResultEntered() bool {
	return IsScoreEntered(m.HomeScore) || IsScoreEntered(m.AwayScore)
}

func (m *Match) Roster() *Roster {
	return &Roster{
		HomePlayers: m.HomePlayers,
		AwayPlayers: m.AwayPlayers,
		HomeTeam:    m.HomeTeam,
		AwayTeam:    m.AwayTeam,
	}
}

// Roster lists who plays a match: explicit per-side players, or one team per side.
type Roster struct {
	HomePlayers []int64
	AwayPlayers []int64
	HomeTeam    int64
	AwayTeam    int64
}

type Team struct {
	ID       int64   `json:"id" firestore:"id" yaml:"id"`
	Captains []int64 `json:"captains" firestore:"captains" yaml:"captains"`
	Members  []int64 `json:"members" firestore:"members" yaml:"members"`
}

// UserIDs is the de-duplicated union of captains and members.
func (t *Team) UserIDs() []int64 {
	seen := make(map[int64]struct{}, len(t.Captains)+len(t.Members))
	var ids []int64
	for _, group := range [][]int64{t.Captains, t.Members} {
		for _, id := range group {
			if id <= 0 {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// IsScoreEntered treats an explicit zero as a result (a 0-0 draw is final).
// Nil, empty strings, false and empty collections mean "not entered yet".
func IsScoreEntered(score interface{}) bool {
	switch v := score.(type) {
	case nil:
		return false
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	case string:
		return strings.TrimSpace(v) != ""
	case bool:
		return v
	case []interface{}:
		return len(v) > 0
	case map[string]interface{}:
		return len(v) > 0
	default:
		return true
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDateTimeValue(value interface{}) int64 {
	switch v := value.(type) {
	case nil:
		return 0
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	case time.Time:
		if v.IsZero() {
			return 0
		}
		return v.Unix()
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return 0
		}
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
				return t.Unix()
			}
		}
	}
	return 0
}
