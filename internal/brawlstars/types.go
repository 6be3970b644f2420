package brawlstars

import (
	"errors"
	"strconv"
	"time"
)

// ErrNoData is returned when the API answers with anything other than 200 OK.
// Callers treat it as "absent" rather than as a failure.
var ErrNoData = errors.New("brawl stars api returned no data")

// BattleTimeLayout is the timestamp format used by the battle log endpoint.
const BattleTimeLayout = "20060102T150405.000Z"

// PlayerClub is the club back-reference carried on a player.
type PlayerClub struct {
	Tag  string `bson:"tag" json:"tag"`
	Name string `bson:"name" json:"name"`
}

type Brawler struct {
	ID              int    `bson:"id" json:"id"`
	Name            string `bson:"name" json:"name"`
	Power           int    `bson:"power" json:"power"`
	Rank            int    `bson:"rank" json:"rank"`
	Trophies        int    `bson:"trophies" json:"trophies"`
	HighestTrophies int    `bson:"highest_trophies" json:"highest_trophies"`
}

// Player is a stored player profile, keyed by Tag.
type Player struct {
	Tag                   string      `bson:"tag" json:"tag"`
	Name                  string      `bson:"name" json:"name"`
	NameColor             string      `bson:"name_color" json:"name_color"`
	IconID                int         `bson:"icon" json:"icon"`
	Trophies              int         `bson:"trophies" json:"trophies"`
	HighestTrophies       int         `bson:"highest_trophies" json:"highest_trophies"`
	ExpLevel              int         `bson:"exp_level" json:"exp_level"`
	ExpPoints             int         `bson:"exp_points" json:"exp_points"`
	ThreeVsThreeVictories int         `bson:"three_vs_three_victories" json:"three_vs_three_victories"`
	SoloVictories         int         `bson:"solo_victories" json:"solo_victories"`
	DuoVictories          int         `bson:"duo_victories" json:"duo_victories"`
	BestRoboRumbleTime    int         `bson:"best_robo_rumble_time" json:"best_robo_rumble_time"`
	BestTimeAsBigBrawler  int         `bson:"best_time_as_big_brawler" json:"best_time_as_big_brawler"`
	Club                  *PlayerClub `bson:"club,omitempty" json:"club,omitempty"`
	Brawlers              []Brawler   `bson:"brawlers" json:"brawlers"`
}

// Member is a club member summary in club order.
type Member struct {
	Tag       string `bson:"tag" json:"tag"`
	Name      string `bson:"name" json:"name"`
	Role      string `bson:"role" json:"role"`
	Trophies  int    `bson:"trophies" json:"trophies"`
	NameColor string `bson:"name_color" json:"name_color"`
	IconID    int    `bson:"icon" json:"icon"`
}

// Club is a stored club, keyed by Tag.
type Club struct {
	Tag              string   `bson:"tag" json:"tag"`
	Name             string   `bson:"name" json:"name"`
	Description      string   `bson:"description" json:"description"`
	Type             string   `bson:"type" json:"type"`
	BadgeID          int      `bson:"badge_id" json:"badge_id"`
	RequiredTrophies int      `bson:"required_trophies" json:"required_trophies"`
	Trophies         int      `bson:"trophies" json:"trophies"`
	Members          []Member `bson:"members" json:"members"`
}

type Event struct {
	ID   int    `bson:"id" json:"id"`
	Mode string `bson:"mode" json:"mode"`
	Map  string `bson:"map" json:"map"`
}

type BattleBrawler struct {
	ID       int    `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Power    int    `bson:"power" json:"power"`
	Trophies int    `bson:"trophies" json:"trophies"`
}

// Participant is a player as seen inside a battle.
type Participant struct {
	Tag     string        `bson:"tag" json:"tag"`
	Name    string        `bson:"name" json:"name"`
	Brawler BattleBrawler `bson:"brawler" json:"brawler"`
	// Brawlers is filled instead of Brawler in duel modes.
	Brawlers []BattleBrawler `bson:"brawlers,omitempty" json:"brawlers,omitempty"`
}

// BattleDetail is the "battle" block of a battle log entry. Team modes fill
// Teams, showdown-style modes fill Players; a battle has one or the other.
type BattleDetail struct {
	Mode         string          `bson:"mode" json:"mode"`
	Type         string          `bson:"type" json:"type"`
	Result       string          `bson:"result,omitempty" json:"result,omitempty"`
	Duration     int             `bson:"duration,omitempty" json:"duration,omitempty"`
	TrophyChange int             `bson:"trophy_change,omitempty" json:"trophy_change,omitempty"`
	Rank         *int            `bson:"rank,omitempty" json:"rank,omitempty"`
	StarPlayer   *Participant    `bson:"star_player,omitempty" json:"star_player,omitempty"`
	Teams        [][]Participant `bson:"teams,omitempty" json:"teams,omitempty"`
	Players      []Participant   `bson:"players,omitempty" json:"players,omitempty"`
}

// Battle is a single battle log entry.
type Battle struct {
	BattleTime time.Time    `bson:"battle_time" json:"battle_time"`
	Event      Event        `bson:"event" json:"event"`
	Battle     BattleDetail `bson:"battle" json:"battle"`
}

// ID returns the storage key of the battle: its timestamp in unix seconds.
// Two battles that end in the same second share an ID and the later write wins.
func (b Battle) ID() string {
	return strconv.FormatInt(b.BattleTime.Unix(), 10)
}

// Involves reports whether tag took part in the battle, in either shape.
func (b Battle) Involves(tag string) bool {
	for _, team := range b.Battle.Teams {
		for _, p := range team {
			if p.Tag == tag {
				return true
			}
		}
	}
	for _, p := range b.Battle.Players {
		if p.Tag == tag {
			return true
		}
	}
	return false
}

// EventSlot is one entry of the global event rotation.
type EventSlot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	SlotID    int       `json:"slot_id"`
	Event     Event     `json:"event"`
}

// API response models. These mirror the upstream JSON and are mapped onto the
// domain types above before leaving the package.

type iconResponse struct {
	ID int `json:"id"`
}

type brawlerResponse struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Power           int    `json:"power"`
	Rank            int    `json:"rank"`
	Trophies        int    `json:"trophies"`
	HighestTrophies int    `json:"highestTrophies"`
}

type playerResponse struct {
	Tag                  string            `json:"tag"`
	Name                 string            `json:"name"`
	NameColor            string            `json:"nameColor"`
	Icon                 iconResponse      `json:"icon"`
	Trophies             int               `json:"trophies"`
	HighestTrophies      int               `json:"highestTrophies"`
	ExpLevel             int               `json:"expLevel"`
	ExpPoints            int               `json:"expPoints"`
	ThreeVsThree         int               `json:"3vs3Victories"`
	SoloVictories        int               `json:"soloVictories"`
	DuoVictories         int               `json:"duoVictories"`
	BestRoboRumbleTime   int               `json:"bestRoboRumbleTime"`
	BestTimeAsBigBrawler int               `json:"bestTimeAsBigBrawler"`
	Club                 *PlayerClub       `json:"club"`
	Brawlers             []brawlerResponse `json:"brawlers"`
}

type memberResponse struct {
	Tag       string       `json:"tag"`
	Name      string       `json:"name"`
	Role      string       `json:"role"`
	Trophies  int          `json:"trophies"`
	NameColor string       `json:"nameColor"`
	Icon      iconResponse `json:"icon"`
}

type clubResponse struct {
	Tag              string           `json:"tag"`
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Type             string           `json:"type"`
	BadgeID          int              `json:"badgeId"`
	RequiredTrophies int              `json:"requiredTrophies"`
	Trophies         int              `json:"trophies"`
	Members          []memberResponse `json:"members"`
}

type participantResponse struct {
	Tag      string          `json:"tag"`
	Name     string          `json:"name"`
	Brawler  BattleBrawler   `json:"brawler"`
	Brawlers []BattleBrawler `json:"brawlers"`
}

type battleDetailResponse struct {
	Mode         string                  `json:"mode"`
	Type         string                  `json:"type"`
	Result       string                  `json:"result"`
	Duration     int                     `json:"duration"`
	TrophyChange int                     `json:"trophyChange"`
	Rank         *int                    `json:"rank"`
	StarPlayer   *participantResponse    `json:"starPlayer"`
	Teams        [][]participantResponse `json:"teams"`
	Players      []participantResponse   `json:"players"`
}

type battleResponse struct {
	BattleTime string               `json:"battleTime"`
	Event      Event                `json:"event"`
	Battle     battleDetailResponse `json:"battle"`
}

type battleLogResponse struct {
	Items []battleResponse `json:"items"`
}

type eventSlotResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	SlotID    int    `json:"slotId"`
	Event     Event  `json:"event"`
}
