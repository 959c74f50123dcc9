package freebox

import (
	"context"
	"fmt"
)

// DefaultPlayerAPIVersion is the API version spoken by the players.
const DefaultPlayerAPIVersion = "v6"

// DefaultPlayer selects the first player returned by GetPlayers.
const DefaultPlayer = -1

// PlayerInfo is an entry of player.
type PlayerInfo struct {
	ID           int    `json:"id"`
	DeviceName   string `json:"device_name"`
	DeviceModel  string `json:"device_model"`
	Reachable    bool   `json:"reachable"`
	APIAvailable bool   `json:"api_available"`
	APIVersion   string `json:"api_version"`
	Mac          string `json:"mac"`
	UID          string `json:"uid"`
}

// PlayerVolume is the volume state of a player.
type PlayerVolume struct {
	Volume *int  `json:"volume,omitempty"`
	Mute   *bool `json:"mute,omitempty"`
}

// MediaControl is sent to control/mediactrl. Name is a command such as play, pause or stop.
type MediaControl struct {
	Name string `json:"name"`
	Args Object `json:"args,omitempty"`
}

// Player wraps the player/ endpoints, relayed by the Freebox to the players.
type Player struct {
	access     *Access
	apiVersion string
}

// SetAPIVersion changes the API version used to reach the players.
func (p *Player) SetAPIVersion(version string) {
	p.apiVersion = version
}

// GetPlayers lists the players.
func (p *Player) GetPlayers(ctx context.Context) ([]PlayerInfo, error) {
	var players []PlayerInfo
	err := p.access.Get(ctx, "player", &players)
	return players, err
}

func (p *Player) endpoint(ctx context.Context, playerID int, resource string) (string, error) {
	if playerID == DefaultPlayer {
		players, err := p.GetPlayers(ctx)
		if err != nil {
			return "", err
		}
		if len(players) == 0 {
			return "", &Error{Kind: ErrorKindRequest, Message: "no player found"}
		}
		playerID = players[0].ID
	}
	return fmt.Sprintf("player/%d/api/%s/%s", playerID, p.apiVersion, resource), nil
}

// GetStatus returns the status of a player.
func (p *Player) GetStatus(ctx context.Context, playerID int) (Object, error) {
	path, err := p.endpoint(ctx, playerID, "status/")
	if err != nil {
		return nil, err
	}
	var status Object
	err = p.access.Get(ctx, path, &status)
	return status, err
}

// GetVolume returns the volume of a player.
func (p *Player) GetVolume(ctx context.Context, playerID int) (*PlayerVolume, error) {
	path, err := p.endpoint(ctx, playerID, "control/volume")
	if err != nil {
		return nil, err
	}
	var volume PlayerVolume
	if err := p.access.Get(ctx, path, &volume); err != nil {
		return nil, err
	}
	return &volume, nil
}

// SetVolume changes the volume and/or mute state of a player. Nil fields are left unchanged.
func (p *Player) SetVolume(ctx context.Context, playerID int, volume PlayerVolume) error {
	path, err := p.endpoint(ctx, playerID, "control/volume")
	if err != nil {
		return err
	}
	return p.access.Put(ctx, path, volume, nil)
}

// SendMediaControl sends a media command to a player.
func (p *Player) SendMediaControl(ctx context.Context, playerID int, control MediaControl) (Object, error) {
	path, err := p.endpoint(ctx, playerID, "control/mediactrl")
	if err != nil {
		return nil, err
	}
	var result Object
	err = p.access.Post(ctx, path, control, &result)
	return result, err
}

// OpenURL makes a player open a media URL.
func (p *Player) OpenURL(ctx context.Context, playerID int, mediaURL string) (Object, error) {
	path, err := p.endpoint(ctx, playerID, "control/open")
	if err != nil {
		return nil, err
	}
	var result Object
	err = p.access.Post(ctx, path, Object{"url": mediaURL}, &result)
	return result, err
}
