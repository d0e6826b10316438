package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mtlprog/teamtasks/docs" // Import generated docs
	"github.com/mtlprog/teamtasks/internal/domain"
	"github.com/mtlprog/teamtasks/internal/handler/dto"
	"github.com/mtlprog/teamtasks/internal/middleware"
	"github.com/mtlprog/teamtasks/internal/repository"
	"github.com/mtlprog/teamtasks/internal/service"
	"github.com/mtlprog/teamtasks/internal/static"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SideEffectHeader is set on successful responses whose follow-up writes
// (history, activity, notifications) partially failed.
const SideEffectHeader = "X-Side-Effect-Failure"

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool            *pgxpool.Pool
	userService     *service.UserService
	teamService     *service.TeamService
	tagService      *service.TagService
	taskService     *service.TaskService
	commentService  *service.CommentService
	watcherService  *service.TaskWatcherService
	activityService *service.ActivityService
	now             func() time.Time
}

// New creates a new Handler instance with all dependencies.
func New(pool *pgxpool.Pool) *Handler {
	// Create repositories
	userRepo := repository.NewUserRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	tagRepo := repository.NewTagRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	historyRepo := repository.NewStatusHistoryRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)
	watcherRepo := repository.NewWatcherRepository(pool)

	// Create services
	activityService := service.NewActivityService(activityRepo)
	watcherService := service.NewTaskWatcherService(watcherRepo, taskRepo, userRepo, teamRepo, activityService)

	return &Handler{
		pool:            pool,
		userService:     service.NewUserService(userRepo),
		teamService:     service.NewTeamService(teamRepo, userRepo, taskRepo, activityService),
		tagService:      service.NewTagService(tagRepo),
		taskService:     service.NewTaskService(taskRepo, userRepo, teamRepo, tagRepo, historyRepo, activityService, watcherService),
		commentService:  service.NewCommentService(commentRepo, taskRepo, userRepo, activityService, watcherService),
		watcherService:  watcherService,
		activityService: activityService,
		now:             time.Now,
	}
}

// Services exposes the wired services for non-HTTP callers such as the seed command.
func (h *Handler) Services() Services {
	return Services{
		Users:    h.userService,
		Teams:    h.teamService,
		Tags:     h.tagService,
		Tasks:    h.taskService,
		Comments: h.commentService,
		Watchers: h.watcherService,
	}
}

// Services groups the application services.
type Services struct {
	Users    *service.UserService
	Teams    *service.TeamService
	Tags     *service.TagService
	Tasks    *service.TaskService
	Comments *service.CommentService
	Watchers *service.TaskWatcherService
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Landing page
	mux.HandleFunc("GET /{$}", h.handleIndex)

	// Swagger UI
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())

	// Users
	mux.HandleFunc("GET /users", h.handleListUsers)
	mux.HandleFunc("POST /users", h.handleCreateUser)
	mux.HandleFunc("GET /users/{id}", h.handleGetUser)
	mux.HandleFunc("PUT /users/{id}", h.handleUpdateUser)
	mux.HandleFunc("DELETE /users/{id}", h.handleDeleteUser)
	mux.HandleFunc("GET /users/{id}/teams", h.handleListUserTeams)

	// Teams
	mux.HandleFunc("GET /teams", h.handleListTeams)
	mux.HandleFunc("POST /teams", h.handleCreateTeam)
	mux.HandleFunc("GET /teams/{id}", h.handleGetTeam)
	mux.HandleFunc("PUT /teams/{id}", h.handleUpdateTeam)
	mux.HandleFunc("DELETE /teams/{id}", h.handleDeleteTeam)
	mux.HandleFunc("GET /teams/{id}/stats", h.handleGetTeamStats)
	mux.HandleFunc("GET /teams/{id}/members", h.handleListMembers)
	mux.HandleFunc("POST /teams/{id}/members", h.handleAddMember)
	mux.HandleFunc("DELETE /teams/{id}/members/{userId}", h.handleRemoveMember)

	// Tags
	mux.HandleFunc("GET /tags", h.handleListTags)
	mux.HandleFunc("POST /tags", h.handleCreateTag)

	// Tasks
	mux.HandleFunc("GET /tasks", h.handleListTasks)
	mux.HandleFunc("POST /tasks", h.handleCreateTask)
	mux.HandleFunc("GET /tasks/{id}", h.handleGetTask)
	mux.HandleFunc("PATCH /tasks/{id}", h.handleUpdateTask)
	mux.HandleFunc("DELETE /tasks/{id}", h.handleDeleteTask)
	mux.HandleFunc("PUT /tasks/{id}/tags", h.handleUpdateTaskTags)
	mux.HandleFunc("GET /tasks/{id}/history", h.handleGetStatusHistory)

	// Comments
	mux.HandleFunc("GET /tasks/{id}/comments", h.handleListTaskComments)
	mux.HandleFunc("POST /tasks/{id}/comments", h.handleCreateComment)
	mux.HandleFunc("GET /comments", h.handleListComments)
	mux.HandleFunc("PUT /comments/{id}", h.handleUpdateComment)
	mux.HandleFunc("DELETE /comments/{id}", h.handleDeleteComment)

	// Watchers
	mux.HandleFunc("GET /tasks/{id}/watchers", h.handleListWatchers)
	mux.HandleFunc("POST /tasks/{id}/watchers", h.handleSubscribe)
	mux.HandleFunc("DELETE /tasks/{id}/watchers/{userId}", h.handleUnsubscribe)
	mux.HandleFunc("GET /watchers/watchlist", h.handleGetWatchlist)
	mux.HandleFunc("GET /watchers/notifications", h.handleGetNotifications)
	mux.HandleFunc("PATCH /watchers/notifications/read", h.handleMarkNotificationsRead)

	// Activity feed
	mux.HandleFunc("GET /activity", h.handleGetActivityFeed)
}

// Routes returns the registered routes wrapped in the middleware chain:
// CORS, panic recovery, request logging, current user.
func (h *Handler) Routes(allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", middleware.UserIDHeader},
		ExposedHeaders: []string{SideEffectHeader},
	})

	var next http.Handler = mux
	next = middleware.CurrentUser(next)
	next = middleware.RequestLogger(next)
	next = middleware.Recoverer(next)
	return c.Handler(next)
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleIndex serves the embedded landing page.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, static.IndexHTML)
}

// Ping checks if the database is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// checkServiceError handles an error returned by a service call.
// Returns true when the caller should go on writing its success response:
// either err is nil, or it only reports failed side effects, in which case
// the response is flagged with SideEffectHeader.
func checkServiceError(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return true
	}

	if service.IsSideEffectFailure(err) {
		w.Header().Set(SideEffectHeader, "true")
		slog.Warn("request completed with failed side effects",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		return true
	}

	status, code, message := dto.MapDomainError(err)
	respondError(w, status, code, message)
	return false
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
// Returns false if decoding failed (error already sent to client).
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", fmt.Sprintf("Invalid request body: %v", err))
		return false
	}
	return true
}

// extractID extracts and validates a UUID path parameter.
// Returns (id, true) if valid, ("", false) if invalid (error already sent to client).
func extractID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := r.PathValue(name)
	if id == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", name+" is required")
		return "", false
	}

	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", name+" must be a valid UUID")
		return "", false
	}

	return id, true
}

// validUUIDs reports whether every id parses as a UUID.
func validUUIDs(ids ...string) bool {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return false
		}
	}
	return true
}

// actorID returns explicit when set, otherwise the X-User-ID of the request.
func actorID(r *http.Request, explicit string) string {
	if explicit != "" {
		return explicit
	}
	userID, _ := middleware.UserIDFromContext(r.Context())
	return userID
}

// queryUUID reads an optional UUID query parameter.
func queryUUID(r *http.Request, name string) (*string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	if _, err := uuid.Parse(v); err != nil {
		return nil, fmt.Errorf("%s must be a valid UUID", name)
	}
	return &v, nil
}

// queryDate reads an optional YYYY-MM-DD query parameter.
func queryDate(r *http.Request, name string) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	d, err := dto.ParseDate(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return d.Ptr(), nil
}

// queryPage reads page and limit. Missing or invalid values take defaults; limit is capped.
func queryPage(r *http.Request) domain.PageRequest {
	var page domain.PageRequest
	for name, dst := range map[string]*int{"page": &page.Page, "limit": &page.Limit} {
		if n, err := strconv.Atoi(r.URL.Query().Get(name)); err == nil {
			*dst = n
		}
	}
	return page.Normalize()
}
