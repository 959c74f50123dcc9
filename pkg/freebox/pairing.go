package freebox

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/benmeehan/freebox-agent/pkg/identity"
)

// AuthorizationStatus is the state of a pending app token request.
type AuthorizationStatus string

const (
	AuthorizationUnknown AuthorizationStatus = "unknown"
	AuthorizationPending AuthorizationStatus = "pending"
	AuthorizationTimeout AuthorizationStatus = "timeout"
	AuthorizationGranted AuthorizationStatus = "granted"
	AuthorizationDenied  AuthorizationStatus = "denied"
)

// DefaultPollInterval is the delay between two authorization status checks.
const DefaultPollInterval = time.Second

type authorizeResult struct {
	AppToken string `json:"app_token"`
	TrackID  int    `json:"track_id"`
}

type trackResult struct {
	Status    AuthorizationStatus `json:"status"`
	Challenge string              `json:"challenge"`
}

// pair requests a new app token and waits until the user accepts or refuses it
// on the Freebox front panel.
func (c *Client) pair(ctx context.Context, httpClient *http.Client, baseURL string) (*identity.Credentials, error) {
	appToken, trackID, err := requestAppToken(ctx, httpClient, baseURL, c.appDesc)
	if err != nil {
		return nil, err
	}
	c.logger.Info().Int("track_id", trackID).Msg("Application authorization requested")

	announced := false
	for {
		status, err := authorizationStatus(ctx, httpClient, baseURL, trackID)
		if err != nil {
			return nil, err
		}

		switch status {
		case AuthorizationGranted:
			c.logger.Info().Msg("Application authorization granted")
			return &identity.Credentials{
				AppDescriptor: c.appDesc,
				AppToken:      appToken,
				TrackID:       trackID,
			}, nil
		case AuthorizationPending:
			if !announced {
				c.logger.Warn().Msg("Please confirm the authentication on the Freebox front panel")
				announced = true
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.pollInterval):
			}
		case AuthorizationDenied:
			return nil, authorizationError("the app token request was denied on the Freebox", nil, nil)
		case AuthorizationTimeout:
			return nil, authorizationError("the app token request timed out on the Freebox", nil, nil)
		default:
			return nil, authorizationError(fmt.Sprintf("the app token is invalid or has been revoked (status %q)", status), nil, nil)
		}
	}
}

func requestAppToken(ctx context.Context, httpClient *http.Client, baseURL string, desc identity.AppDescriptor) (string, int, error) {
	body, err := jsonBody(desc)
	if err != nil {
		return "", 0, err
	}

	res, err := exchange(ctx, httpClient, http.MethodPost, baseURL+"login/authorize/", body, "")
	if err != nil {
		return "", 0, authorizationError("failed to request an app token", nil, err)
	}
	if !res.isJSON() || !res.OK {
		return "", 0, authorizationError("failed to request an app token", res, nil)
	}

	var result authorizeResult
	if err := res.decode(&result); err != nil {
		return "", 0, authorizationError("failed to request an app token", res, err)
	}
	return result.AppToken, result.TrackID, nil
}

func authorizationStatus(ctx context.Context, httpClient *http.Client, baseURL string, trackID int) (AuthorizationStatus, error) {
	res, err := exchange(ctx, httpClient, http.MethodGet, baseURL+"login/authorize/"+strconv.Itoa(trackID), nil, "")
	if err != nil {
		return "", authorizationError("failed to get authorization status", nil, err)
	}
	if !res.isJSON() || !res.OK {
		return "", authorizationError("failed to get authorization status", res, nil)
	}

	var result trackResult
	if err := res.decode(&result); err != nil {
		return "", authorizationError("failed to get authorization status", res, err)
	}
	return result.Status, nil
}
