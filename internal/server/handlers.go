package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"tendatree/internal/model"
	"tendatree/internal/scheduler"
	"tendatree/internal/service"
)

type registerRequest struct {
	Email       string `json:"email" binding:"required"`
	DisplayName string `json:"display_name"`
}

type careRequest struct {
	TreeID int64  `json:"tree_id"`
	Action string `json:"action" binding:"required"`
}

// treeResponse is the client view of a tree: record fields plus the
// expanded round metadata and the joined species.
type treeResponse struct {
	ID             int64              `json:"id"`
	OwnerID        int64              `json:"owner_id"`
	SpeciesID      int64              `json:"species_id"`
	GrowthStage    model.GrowthStage  `json:"growth_stage"`
	GrowthPoints   int                `json:"growth_points"`
	Targets        model.Targets      `json:"targets"`
	Health         string             `json:"health"`
	LastEvaluation *time.Time         `json:"last_evaluation"`
	LastActivity   *time.Time         `json:"last_user_activity"`
	CreatedAt      time.Time          `json:"created_at"`
	Species        *model.Species     `json:"tree_species"`
}

func toTreeResponse(tree *model.Tree, species *model.Species) treeResponse {
	resp := treeResponse{
		ID:           tree.ID,
		OwnerID:      tree.OwnerID,
		SpeciesID:    tree.SpeciesID,
		GrowthStage:  tree.Stage,
		GrowthPoints: tree.Meta.GrowthPoints,
		Targets:      tree.Meta.Targets,
		Health:       tree.Meta.Health,
		CreatedAt:    tree.CreatedAt,
		Species:      species,
	}
	if resp.Health == "" {
		resp.Health = model.HealthHealthy
	}
	if !tree.Meta.LastEvaluation.IsZero() {
		t := tree.Meta.LastEvaluation
		resp.LastEvaluation = &t
	}
	if !tree.Meta.LastActivity.IsZero() {
		t := tree.Meta.LastActivity
		resp.LastActivity = &t
	}
	return resp
}

// eventResponse exposes a narrative event with its payload expanded under
// the key the dashboard reads.
type eventResponse struct {
	ID          int64               `json:"id"`
	TreeID      int64               `json:"tree_id"`
	EventType   string              `json:"event_type"`
	Description string              `json:"description"`
	CreatedAt   time.Time           `json:"created_at"`
	RandomEvent *model.EventPayload `json:"random_event,omitempty"`
}

func toEventResponse(ev *model.TreeEvent) eventResponse {
	return eventResponse{
		ID:          ev.ID,
		TreeID:      ev.TreeID,
		EventType:   ev.Kind,
		Description: ev.Description,
		CreatedAt:   ev.CreatedAt,
		RandomEvent: ev.Payload,
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email required"})
		return
	}

	user, tree, err := s.accounts.Register(c.Request.Context(), req.Email, req.DisplayName)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user exists"})
			return
		}
		log.Error().Err(err).Msg("Registration failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":           user.ID,
			"email":        user.Email,
			"display_name": user.DisplayName,
			"role":         user.Role,
		},
		"access_token": user.APIToken,
		"starter_tree": toTreeResponse(tree, nil),
	})
}

func (s *Server) handleCare(c *gin.Context) {
	var req careRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action required"})
		return
	}

	err := s.trees.RecordCareAction(c.Request.Context(), currentUser(c), req.TreeID, req.Action)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAction):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrTreeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "tree not found"})
		default:
			log.Error().Err(err).Msg("Care action failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record care action"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleUserActivity(c *gin.Context) {
	if err := s.trees.BumpActivity(c.Request.Context(), currentUser(c).ID); err != nil {
		log.Error().Err(err).Msg("Activity bump failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update activity"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleMyTree(c *gin.Context) {
	tree, species, err := s.trees.GetMyTree(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		if errors.Is(err, service.ErrTreeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No tree found for user"})
			return
		}
		log.Error().Err(err).Msg("My-tree lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tree"})
		return
	}

	c.JSON(http.StatusOK, toTreeResponse(tree, species))
}

func (s *Server) handleRoundProgress(c *gin.Context) {
	treeID, _ := strconv.ParseInt(c.Query("tree_id"), 10, 64)

	progress, err := s.trees.GetRoundProgress(c.Request.Context(), currentUser(c).ID, treeID)
	if err != nil {
		if errors.Is(err, service.ErrTreeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tree not found"})
			return
		}
		log.Error().Err(err).Msg("Round progress failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute progress"})
		return
	}

	c.JSON(http.StatusOK, progress)
}

func (s *Server) handleEvaluate(c *gin.Context) {
	processed, err := s.sched.Evaluate(c.Request.Context(), scheduler.ModeManual)
	if err != nil {
		if errors.Is(err, scheduler.ErrEvaluationInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": "evaluation already in progress"})
			return
		}
		log.Error().Err(err).Msg("Manual evaluation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "evaluation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "processed": processed})
}

func (s *Server) handleCurrentEvent(c *gin.Context) {
	treeID, err := strconv.ParseInt(c.Query("tree_id"), 10, 64)
	if err != nil || treeID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tree_id required"})
		return
	}

	ev, err := s.trees.GetLatestEvent(c.Request.Context(), treeID)
	if err != nil {
		log.Error().Err(err).Msg("Current event lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load event"})
		return
	}
	if ev == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	c.JSON(http.StatusOK, toEventResponse(ev))
}

func (s *Server) handleTreeEvents(c *gin.Context) {
	treeID, err := strconv.ParseInt(c.Query("tree_id"), 10, 64)
	if err != nil || treeID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tree_id required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	events, err := s.trees.GetRecentEvents(c.Request.Context(), treeID, limit)
	if err != nil {
		log.Error().Err(err).Msg("Tree events lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load events"})
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, toEventResponse(ev))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleSpeciesList(c *gin.Context) {
	species, err := s.params.ListSpecies(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Species list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load species"})
		return
	}
	c.JSON(http.StatusOK, species)
}

func (s *Server) handleGetParams(c *gin.Context) {
	speciesID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || speciesID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid species id"})
		return
	}

	params, err := s.params.GetParams(c.Request.Context(), speciesID)
	if err != nil {
		if errors.Is(err, service.ErrSpeciesNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "species not found"})
			return
		}
		log.Error().Err(err).Msg("Params lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load parameters"})
		return
	}

	c.JSON(http.StatusOK, params)
}

func (s *Server) handlePutParams(c *gin.Context) {
	speciesID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || speciesID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid species id"})
		return
	}

	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parameters"})
		return
	}

	params, err := s.params.UpdateParams(c.Request.Context(), speciesID, values)
	if err != nil {
		if errors.Is(err, service.ErrSpeciesNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "species not found"})
			return
		}
		log.Error().Err(err).Msg("Params update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update parameters"})
		return
	}

	c.JSON(http.StatusOK, params)
}
