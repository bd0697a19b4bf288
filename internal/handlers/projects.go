package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zenbild/backend/internal/models"
	"github.com/zenbild/backend/internal/services"
	appErrors "github.com/zenbild/backend/pkg/errors"
	"github.com/zenbild/backend/pkg/response"
)

const dateLayout = "2006-01-02"

// ProjectHandler exposes project CRUD plus the nested collaboration
// resources: participants, messages, annotations, daily logs,
// milestones, and payments.
type ProjectHandler struct {
	projects *services.ProjectService
}

// NewProjectHandler constructs the handler.
func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type createProjectPayload struct {
	Title    string `json:"title" validate:"required,max=255"`
	Address  string `json:"address" validate:"max=255"`
	Currency string `json:"currency" validate:"required,min=1,max=8"`
	OwnerID  string `json:"owner_id" validate:"required,uuid"`
	Status   string `json:"status"`
}

// Create handles POST /api/projects.
func (h *ProjectHandler) Create(c *gin.Context) {
	var payload createProjectPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	status := models.ProjectPlanning
	if payload.Status != "" {
		parsed, err := models.ParseProjectStatus(payload.Status)
		if err != nil {
			response.Error(c, appErrors.NewBadRequest(err.Error()))
			return
		}
		status = parsed
	}

	project, err := h.projects.CreateProject(c.Request.Context(), services.CreateProjectInput{
		Title:    payload.Title,
		Address:  payload.Address,
		Currency: payload.Currency,
		OwnerID:  payload.OwnerID,
		Status:   status,
	})
	if err != nil {
		writeProjectError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, project)
}

// List handles GET /api/projects.
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projects.ListProjects(c.Request.Context())
	if err != nil {
		writeProjectError(c, err)
		return
	}
	response.Success(c, http.StatusOK, projects)
}

// Get handles GET /api/projects/:id.
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projects.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeProjectError(c, err)
		return
	}
	response.Success(c, http.StatusOK, project)
}

type updateProjectPayload struct {
	Title    *string `json:"title" validate:"omitempty,max=255"`
	Address  *string `json:"address" validate:"omitempty,max=255"`
	Currency *string `json:"currency" validate:"omitempty,min=1,max=8"`
	Status   *string `json:"status"`
}

// Update handles PUT /api/projects/:id with partial semantics: absent
// fields keep their current values.
func (h *ProjectHandler) Update(c *gin.Context) {
	var payload updateProjectPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	input := services.UpdateProjectInput{
		Title:    payload.Title,
		Address:  payload.Address,
		Currency: payload.Currency,
	}
	if payload.Status != nil {
		status, err := models.ParseProjectStatus(*payload.Status)
		if err != nil {
			response.Error(c, appErrors.NewBadRequest(err.Error()))
			return
		}
		input.Status = &status
	}

	project, err := h.projects.UpdateProject(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		writeProjectError(c, err)
		return
	}
	response.Success(c, http.StatusOK, project)
}

type addParticipantPayload struct {
	Role    string `json:"role" validate:"required,max=100"`
	Name    string `json:"name" validate:"required,max=255"`
	Phone   string `json:"phone" validate:"max=50"`
	CanPost bool   `json:"can_post"`
}

// AddParticipant handles POST /api/projects/:id/participants.
func (h *ProjectHandler) AddParticipant(c *gin.Context) {
	var payload addParticipantPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	participant, err := h.projects.AddParticipant(c.Request.Context(), c.Param("id"), services.AddParticipantInput{
		Role:    payload.Role,
		Name:    payload.Name,
		Phone:   payload.Phone,
		CanPost: payload.CanPost,
	})
	if err != nil {
		writeProjectError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, participant)
}

// ListParticipants handles GET /api/projects/:id/participants.
func (h *ProjectHandler) ListParticipants(c *gin.Context) {
	participants, err := h.projects.ListParticipants(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeProjectError(c, err)
		return
	}
	response.Success(c, http.StatusOK, participants)
}

type postMessagePayload struct {
	SenderID   *string `json:"sender_id" validate:"omitempty,uuid"`
	Type       string  `json:"type" validate:"required"`
	URL        string  `json:"url" validate:"max=2048"`
	Transcript string  `json:"transcript"`
}

// PostMessage handles POST /api/projects/:id/messages.
func (h *ProjectHandler) PostMessage(c *gin.Context) {
	var payload postMessagePayload
	if !bindAndValidate(c, &payload) {
		return
	}

	messageType, err := models.ParseMessageType(payload.Type)
	if err != nil {
		response.Error(c, appErrors.NewBadRequest(err.Error()))
		return
	}

	message, err := h.projects.PostMessage(c.Request.Context(), c.Param("id"), services.PostMessageInput{
		SenderID:   payload.SenderID,
		Type:       messageType,
		URL:        payload.URL,
		Transcript: payload.Transcript,
	})
	if err != nil {
		writeProjectError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, message)
}

// ListMessages handles GET /api/projects/:id/messages.
func (h *ProjectHandler) ListMessages(c *gin.Context) {
	messages, err := h.projects.ListMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeProjectError(c, err)
		return
	}
	response.Success(c, http.StatusOK, messages)
}

type addAnnotationPayload struct {
	Area            string `json:"area" validate:"max=255"`
	Task            string `json:"task" validate:"max=255"`
	Phase           string `json:"phase" validate:"max=255"`
	PercentComplete *int   `json:"percent_complete" validate:"omitempty,gte=0,lte=100"`
	Blocker         string `json:"blocker"`
	NextStep        string `json:"next_step"`
	Confidence      *int   `json:"confidence" validate:"omitempty,gte=0,lte=100"`
}

// AddAnnotation handles POST /api/messages/:id/annotations.
func (h *ProjectHandler) AddAnnotation(c *gin.Context) {
	var payload addAnnotationPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	annotation, err := h.projects.AddAnnotation(c.Request.Context(), c.Param("id"), services.AddAnnotationInput{
		Area:            payload.Area,
		Task:            payload.Task,
		Phase:           payload.Phase,
		PercentComplete: payload.PercentComplete,
		Blocker:         payload.Blocker,
		NextStep:        payload.NextStep,
		Confidence:      payload.Confidence,
	})
	if err != nil {
		writeProjectError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, annotation)
}

type addDailyLogPayload struct {
	Date          string `json:"date" validate:"required"`
	SummaryText   string `json:"summary_text"`
	ScoreSchedule int    `json:"score_schedule" validate:"gte=0,lte=100"`
	ScoreBudget   int    `json:"score_budget" validate:"gte=0,lte=100"`
}

// AddDailyLog handles POST /api/projects/:id/daily-logs.
func (h *ProjectHandler) AddDailyLog(c *gin.Context) {
	var payload addDailyLogPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	date, err := time.Parse(dateLayout, payload.Date)
	if err != nil {
		response.Error(c, appErrors.NewBadRequest("date must use the YYYY-MM-DD format"))
		return
	}

	log, err := h.projects.AddDailyLog(c.Request.Context(), c.Param("id"), services.AddDailyLogInput{
		Date:          date,
		SummaryText:   payload.SummaryText,
		ScoreSchedule: payload.ScoreSchedule,
		ScoreBudget:   payload.ScoreBudget,
	})
	if err != nil {
		writeProjectError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, log)
}

// ListDailyLogs handles GET /api/projects/:id/daily-logs.
func (h *ProjectHandler) ListDailyLogs(c *gin.Context) {
	logs, err := h.projects.ListDailyLogs(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeProjectError(c, err)
		return
	}
	response.Success(c, http.StatusOK, logs)
}

type addMilestonePayload struct {
	Name     string   `json:"name" validate:"required,max=255"`
	Amount   *float64 `json:"amount" validate:"omitempty,gte=0"`
	Criteria string   `json:"criteria"`
	Status   string   `json:"status"`
	DueDate  *string  `json:"due_date"`
}

// AddMilestone handles POST /api/projects/:id/milestones.
func (h *ProjectHandler) AddMilestone(c *gin.Context) {
	var payload addMilestonePayload
	if !bindAndValidate(c, &payload) {
		return
	}

	input := services.AddMilestoneInput{
		Name:     payload.Name,
		Amount:   payload.Amount,
		Criteria: payload.Criteria,
	}
	if payload.Status != "" {
		status, err := models.ParseMilestoneStatus(payload.Status)
		if err != nil {
			response.Error(c, appErrors.NewBadRequest(err.Error()))
			return
		}
		input.Status = status
	}
	if payload.DueDate != nil {
		due, err := time.Parse(dateLayout, *payload.DueDate)
		if err != nil {
			response.Error(c, appErrors.NewBadRequest("due_date must use the YYYY-MM-DD format"))
			return
		}
		input.DueDate = &due
	}

	milestone, err := h.projects.AddMilestone(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		writeProjectError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, milestone)
}

// ListMilestones handles GET /api/projects/:id/milestones.
func (h *ProjectHandler) ListMilestones(c *gin.Context) {
	milestones, err := h.projects.ListMilestones(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeProjectError(c, err)
		return
	}
	response.Success(c, http.StatusOK, milestones)
}

type addPaymentPayload struct {
	MilestoneID string     `json:"milestone_id" validate:"required,uuid"`
	Provider    string     `json:"provider" validate:"required"`
	Link        string     `json:"link" validate:"max=2048"`
	Status      string     `json:"status"`
	PaidAt      *time.Time `json:"paid_at"`
}

// AddPayment handles POST /api/projects/:id/payments.
func (h *ProjectHandler) AddPayment(c *gin.Context) {
	var payload addPaymentPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	provider, err := models.ParsePaymentProvider(payload.Provider)
	if err != nil {
		response.Error(c, appErrors.NewBadRequest(err.Error()))
		return
	}

	input := services.AddPaymentInput{
		MilestoneID: payload.MilestoneID,
		Provider:    provider,
		Link:        payload.Link,
		PaidAt:      payload.PaidAt,
	}
	if payload.Status != "" {
		status, err := models.ParsePaymentStatus(payload.Status)
		if err != nil {
			response.Error(c, appErrors.NewBadRequest(err.Error()))
			return
		}
		input.Status = status
	}

	payment, err := h.projects.AddPayment(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		writeProjectError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, payment)
}

func writeProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		response.Error(c, appErrors.New("NOT_FOUND", "project not found", http.StatusNotFound))
	case errors.Is(err, services.ErrParticipantNotFound):
		response.Error(c, appErrors.New("NOT_FOUND", "participant not found in project", http.StatusNotFound))
	case errors.Is(err, services.ErrMessageNotFound):
		response.Error(c, appErrors.New("NOT_FOUND", "message not found", http.StatusNotFound))
	case errors.Is(err, services.ErrMilestoneNotFound):
		response.Error(c, appErrors.New("NOT_FOUND", "milestone not found in project", http.StatusNotFound))
	default:
		response.Error(c, appErrors.Wrap(err, "request failed"))
	}
}
