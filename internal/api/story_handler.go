package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tales-api/internal/api/shared"
	"github.com/phrazzld/tales-api/internal/platform/logger"
	"github.com/phrazzld/tales-api/internal/service"
)

// StoryHandler handles story-related HTTP requests
type StoryHandler struct {
	storyService service.StoryService
	logger       *slog.Logger
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(storyService service.StoryService, logger *slog.Logger) *StoryHandler {
	if storyService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("storyService cannot be nil for StoryHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StoryHandler")
	}

	return &StoryHandler{
		storyService: storyService,
		logger:       logger.With(slog.String("component", "story_handler")),
	}
}

// CreateStory handles POST /api/stories requests.
// The call blocks until the story has been generated, illustrated and saved.
func (h *StoryHandler) CreateStory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateStoryRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	story, err := h.storyService.CreateStory(r.Context(), req.toDomain())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("story created via API",
		slog.String("story_id", story.ID),
		slog.Int("page_count", len(story.Pages)))

	shared.RespondWithJSON(w, r, http.StatusCreated, storyToResponse(story))
}

// ListStories handles GET /api/stories requests, newest first.
func (h *StoryHandler) ListStories(w http.ResponseWriter, r *http.Request) {
	stories, err := h.storyService.ListStories(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := StoryListResponse{Stories: make([]StoryResponse, 0, len(stories))}
	for _, story := range stories {
		resp.Stories = append(resp.Stories, storyToResponse(story))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetStory handles GET /api/stories/{id} requests
func (h *StoryHandler) GetStory(w http.ResponseWriter, r *http.Request) {
	id, ok := getPathID(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid id: required field")
		return
	}

	story, err := h.storyService.GetStory(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, storyToResponse(story))
}

// DeleteStory handles DELETE /api/stories/{id} requests
func (h *StoryHandler) DeleteStory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := getPathID(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid id: required field")
		return
	}

	if err := h.storyService.DeleteStory(r.Context(), id); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("story deleted via API", slog.String("story_id", id))
	w.WriteHeader(http.StatusNoContent)
}
