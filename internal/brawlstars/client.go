package brawlstars

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
)

const DefaultBaseURL = "https://api.brawlstars.com/v1"

// APIClient is the HTTP implementation of Client.
type APIClient struct {
	httpClient *http.Client
	token      string
	BaseURL    string
}

// NewClient creates a new Brawl Stars API client. An empty baseURL selects
// the public endpoint.
func NewClient(token, baseURL string) Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &APIClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		token:      token,
		BaseURL:    baseURL,
	}
}

// Ensure APIClient implements the Client interface.
var _ Client = (*APIClient)(nil)

// get performs an authenticated GET and decodes a 200 body into out.
// Any other status is logged and reported as ErrNoData.
func (c *APIClient) get(ctx context.Context, path string, out any) error {
	endpoint := c.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	log.Debug("Requesting Brawl Stars API", "url", endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Warn("Received non-OK HTTP status from Brawl Stars API", "url", endpoint, "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("%w: status %d", ErrNoData, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// GetClub fetches a club and its member list.
func (c *APIClient) GetClub(ctx context.Context, tag string) (Club, error) {
	var resp clubResponse
	if err := c.get(ctx, "/clubs/"+url.PathEscape(tag), &resp); err != nil {
		return Club{}, err
	}

	club := Club{
		Tag:              resp.Tag,
		Name:             resp.Name,
		Description:      resp.Description,
		Type:             resp.Type,
		BadgeID:          resp.BadgeID,
		RequiredTrophies: resp.RequiredTrophies,
		Trophies:         resp.Trophies,
		Members:          make([]Member, 0, len(resp.Members)),
	}
	for _, m := range resp.Members {
		club.Members = append(club.Members, Member{
			Tag:       m.Tag,
			Name:      m.Name,
			Role:      m.Role,
			Trophies:  m.Trophies,
			NameColor: m.NameColor,
			IconID:    m.Icon.ID,
		})
	}
	log.Debug("Club", "tag", club.Tag, "members", len(club.Members))
	return club, nil
}

// GetPlayer fetches a single player profile.
func (c *APIClient) GetPlayer(ctx context.Context, tag string) (Player, error) {
	var resp playerResponse
	if err := c.get(ctx, "/players/"+url.PathEscape(tag), &resp); err != nil {
		return Player{}, err
	}

	player := Player{
		Tag:                   resp.Tag,
		Name:                  resp.Name,
		NameColor:             resp.NameColor,
		IconID:                resp.Icon.ID,
		Trophies:              resp.Trophies,
		HighestTrophies:       resp.HighestTrophies,
		ExpLevel:              resp.ExpLevel,
		ExpPoints:             resp.ExpPoints,
		ThreeVsThreeVictories: resp.ThreeVsThree,
		SoloVictories:         resp.SoloVictories,
		DuoVictories:          resp.DuoVictories,
		BestRoboRumbleTime:    resp.BestRoboRumbleTime,
		BestTimeAsBigBrawler:  resp.BestTimeAsBigBrawler,
		Brawlers:              make([]Brawler, 0, len(resp.Brawlers)),
	}
	// The API sends an empty object for players without a club.
	if resp.Club != nil && resp.Club.Tag != "" {
		player.Club = resp.Club
	}
	for _, b := range resp.Brawlers {
		player.Brawlers = append(player.Brawlers, Brawler(b))
	}
	return player, nil
}

// GetBattleLog fetches the recent battles of a player.
func (c *APIClient) GetBattleLog(ctx context.Context, tag string) ([]Battle, error) {
	var resp battleLogResponse
	if err := c.get(ctx, "/players/"+url.PathEscape(tag)+"/battlelog", &resp); err != nil {
		return nil, err
	}

	battles := make([]Battle, 0, len(resp.Items))
	for _, item := range resp.Items {
		battleTime, err := ParseBattleTime(item.BattleTime)
		if err != nil {
			return nil, err
		}
		battles = append(battles, Battle{
			BattleTime: battleTime,
			Event:      item.Event,
			Battle:     toBattleDetail(item.Battle),
		})
	}
	return battles, nil
}

// GetEventRotation fetches the currently running events.
func (c *APIClient) GetEventRotation(ctx context.Context) ([]EventSlot, error) {
	var resp []eventSlotResponse
	if err := c.get(ctx, "/events/rotation", &resp); err != nil {
		return nil, err
	}

	slots := make([]EventSlot, 0, len(resp))
	for _, s := range resp {
		slot := EventSlot{SlotID: s.SlotID, Event: s.Event}
		if t, err := ParseBattleTime(s.StartTime); err == nil {
			slot.StartTime = t
		}
		if t, err := ParseBattleTime(s.EndTime); err == nil {
			slot.EndTime = t
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func toBattleDetail(r battleDetailResponse) BattleDetail {
	d := BattleDetail{
		Mode:         r.Mode,
		Type:         r.Type,
		Result:       r.Result,
		Duration:     r.Duration,
		TrophyChange: r.TrophyChange,
		Rank:         r.Rank,
	}
	if r.StarPlayer != nil {
		sp := Participant(*r.StarPlayer)
		d.StarPlayer = &sp
	}
	for _, team := range r.Teams {
		members := make([]Participant, 0, len(team))
		for _, p := range team {
			members = append(members, Participant(p))
		}
		d.Teams = append(d.Teams, members)
	}
	for _, p := range r.Players {
		d.Players = append(d.Players, Participant(p))
	}
	return d
}
