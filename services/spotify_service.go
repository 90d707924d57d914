package services

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/qahs/toast-board/models"
	"github.com/qahs/toast-board/stores"
)

// SpotifyConfig holds Spotify app credentials.
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	// AccountsURL and APIURL default to the public Spotify endpoints and are
	// overridable in tests.
	AccountsURL string
	APIURL      string
}

const (
	defaultAccountsURL = "https://accounts.spotify.com"
	defaultAPIURL      = "https://api.spotify.com"
)

// SpotifyService wraps the Spotify Web API: token refresh, track search,
// queueing a track on the stand's player and finding its queue position.
// The refresh token lives in the settings store so it survives restarts.
type SpotifyService struct {
	config     SpotifyConfig
	settings   stores.SettingsStore
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewSpotifyService(config SpotifyConfig, settings stores.SettingsStore) *SpotifyService {
	if config.AccountsURL == "" {
		config.AccountsURL = defaultAccountsURL
	}
	if config.APIURL == "" {
		config.APIURL = defaultAPIURL
	}
	return &SpotifyService{
		config:   config,
		settings: settings,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (ss *SpotifyService) ValidateConfig() error {
	if ss.config.ClientID == "" {
		return fmt.Errorf("SPOTIFY_CLIENT_ID is not set")
	}
	if ss.config.ClientSecret == "" {
		return fmt.Errorf("SPOTIFY_CLIENT_SECRET is not set")
	}
	return nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// ensureToken returns a usable access token, refreshing it only when the
// cached one has expired. With a stored refresh token the player-scoped grant
// is used, otherwise client credentials (enough for search).
func (ss *SpotifyService) ensureToken() (string, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.accessToken != "" && time.Now().Before(ss.tokenExpiry) {
		return ss.accessToken, nil
	}

	form := url.Values{}
	refreshToken, err := ss.settings.Get(models.SettingSpotifyRefreshToken)
	if err == nil && refreshToken != "" {
		form.Set("grant_type", "refresh_token")
		form.Set("refresh_token", refreshToken)
	} else {
		form.Set("grant_type", "client_credentials")
	}

	req, err := http.NewRequest(http.MethodPost, ss.config.AccountsURL+"/api/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	basic := base64.StdEncoding.EncodeToString(
		[]byte(ss.config.ClientID + ":" + ss.config.ClientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ss.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request spotify token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("spotify token endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("parse spotify token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("spotify token response had no access token")
	}

	ss.accessToken = token.AccessToken
	// refresh one minute early so a token never expires mid-request
	ss.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - time.Minute)
	return ss.accessToken, nil
}

// Track is the slice of a Spotify track the board cares about.
type Track struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Artists  string `json:"artists"`
	Album    string `json:"album"`
	ArtURL   string `json:"art_url,omitempty"`
	Explicit bool   `json:"-"`
}

type spotifyTrack struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URI      string `json:"uri"`
	Explicit bool   `json:"explicit"`
	Artists  []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name   string `json:"name"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
}

func (t spotifyTrack) toTrack() Track {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	track := Track{
		ID:       t.ID,
		Name:     t.Name,
		Artists:  strings.Join(names, ", "),
		Album:    t.Album.Name,
		Explicit: t.Explicit,
	}
	if len(t.Album.Images) > 0 {
		track.ArtURL = t.Album.Images[0].URL
	}
	return track
}

// SearchTracks fetches the top nine matches, drops explicit ones and returns
// at most five. Those numbers come from the kiosk UI, which shows a 5-row
// result list.
func (ss *SpotifyService) SearchTracks(query string) ([]Track, error) {
	token, err := ss.ensureToken()
	if err != nil {
		return nil, err
	}

	searchURL := fmt.Sprintf("%s/v1/search?q=%s&type=track&limit=9",
		ss.config.APIURL, url.QueryEscape(query))
	req, err := http.NewRequest(http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := ss.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spotify search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("spotify search returned %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Tracks struct {
			Items []spotifyTrack `json:"items"`
		} `json:"tracks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse spotify search response: %w", err)
	}

	tracks := make([]Track, 0, 5)
	for _, item := range result.Tracks.Items {
		if item.Explicit {
			continue
		}
		tracks = append(tracks, item.toTrack())
		if len(tracks) == 5 {
			break
		}
	}
	return tracks, nil
}

// QueueTrack adds one track to the stand player's queue.
func (ss *SpotifyService) QueueTrack(trackID string) error {
	token, err := ss.ensureToken()
	if err != nil {
		return err
	}

	queueURL := fmt.Sprintf("%s/v1/me/player/queue?uri=%s",
		ss.config.APIURL, url.QueryEscape("spotify:track:"+trackID))
	req, err := http.NewRequest(http.MethodPost, queueURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := ss.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("spotify queue: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("spotify queue returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// QueuePosition reports the 1-based position of a track in the player queue,
// or -1 when the track is not queued.
func (ss *SpotifyService) QueuePosition(trackID string) (int, error) {
	token, err := ss.ensureToken()
	if err != nil {
		return -1, err
	}

	req, err := http.NewRequest(http.MethodGet, ss.config.APIURL+"/v1/me/player/queue", nil)
	if err != nil {
		return -1, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := ss.httpClient.Do(req)
	if err != nil {
		return -1, fmt.Errorf("spotify queue lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return -1, fmt.Errorf("spotify queue lookup returned %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Queue []spotifyTrack `json:"queue"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return -1, fmt.Errorf("parse spotify queue response: %w", err)
	}

	for i, item := range result.Queue {
		if item.ID == trackID {
			return i + 1, nil
		}
	}
	return -1, nil
}
