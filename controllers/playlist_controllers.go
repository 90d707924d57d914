package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qahs/toast-board/services"
	"github.com/qahs/toast-board/utils"
)

type PlaylistController struct {
	Spotify *services.SpotifyService
}

func NewPlaylistController(spotify *services.SpotifyService) *PlaylistController {
	return &PlaylistController{Spotify: spotify}
}

func (pc *PlaylistController) available(c *gin.Context) bool {
	if pc.Spotify == nil {
		utils.RespondError(c, http.StatusServiceUnavailable, errors.New("song queue is not configured"))
		return false
	}
	return true
}

// SearchTracks -> top non-explicit matches for the kiosk song picker
func (pc *PlaylistController) SearchTracks(c *gin.Context) {
	if !pc.available(c) {
		return
	}

	query := c.Query("q")
	if query == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("query parameter 'q' is required"))
		return
	}

	tracks, err := pc.Spotify.SearchTracks(query)
	if err != nil {
		utils.ErrorLogger.Printf("spotify search %q: %v", query, err)
		utils.RespondError(c, http.StatusBadGateway, errors.New("song search failed"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Search results", tracks)
}

// AddToPlaylist -> queues the chosen track on the stand player
func (pc *PlaylistController) AddToPlaylist(c *gin.Context) {
	if !pc.available(c) {
		return
	}

	var body struct {
		TrackID string `json:"trackId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := pc.Spotify.QueueTrack(body.TrackID); err != nil {
		utils.ErrorLogger.Printf("queue track %s: %v", body.TrackID, err)
		utils.RespondError(c, http.StatusBadGateway, errors.New("could not queue song"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Song queued", gin.H{"track_id": body.TrackID})
}

// FindPositionInQueue -> where a queued track sits, -1 when not queued
func (pc *PlaylistController) FindPositionInQueue(c *gin.Context) {
	if !pc.available(c) {
		return
	}

	trackID := c.Param("trackId")

	position, err := pc.Spotify.QueuePosition(trackID)
	if err != nil {
		utils.ErrorLogger.Printf("queue position %s: %v", trackID, err)
		utils.RespondError(c, http.StatusBadGateway, errors.New("could not read player queue"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"position": position})
}
