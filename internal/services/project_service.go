package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/zenbild/backend/internal/models"
)

var (
	// ErrProjectNotFound signals an unknown project id.
	ErrProjectNotFound = errors.New("project service: project not found")
	// ErrParticipantNotFound signals a participant that does not belong to the project.
	ErrParticipantNotFound = errors.New("project service: participant not found")
	// ErrMessageNotFound signals an unknown message id.
	ErrMessageNotFound = errors.New("project service: message not found")
	// ErrMilestoneNotFound signals a milestone that does not belong to the project.
	ErrMilestoneNotFound = errors.New("project service: milestone not found")
)

// ProjectService owns the collaboration domain: projects and their
// participants, message feed, daily logs, milestones, and payments.
type ProjectService struct {
	db *gorm.DB
}

// NewProjectService constructs the service.
func NewProjectService(db *gorm.DB) (*ProjectService, error) {
	if db == nil {
		return nil, errors.New("project service: db is required")
	}
	return &ProjectService{db: db}, nil
}

// CreateProjectInput carries the fields for a new project.
type CreateProjectInput struct {
	Title    string
	Address  string
	Currency string
	OwnerID  string
	Status   models.ProjectStatus
}

// CreateProject persists a new project. Status defaults to planning.
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	ctx = ensuredContext(ctx)

	status := input.Status
	if status == "" {
		status = models.ProjectPlanning
	}

	project := models.Project{
		Title:    input.Title,
		Address:  input.Address,
		Currency: input.Currency,
		OwnerID:  input.OwnerID,
		Status:   status,
	}
	if err := s.db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, fmt.Errorf("project service: create project: %w", err)
	}
	return &project, nil
}

// ListProjects returns all projects, newest first.
func (s *ProjectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	ctx = ensuredContext(ctx)

	var projects []models.Project
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("project service: list projects: %w", err)
	}
	return projects, nil
}

// GetProject fetches a single project by id.
func (s *ProjectService) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	return s.findProject(ensuredContext(ctx), projectID)
}

// UpdateProjectInput holds partial updates. Nil fields are left untouched.
type UpdateProjectInput struct {
	Title    *string
	Address  *string
	Currency *string
	Status   *models.ProjectStatus
}

// UpdateProject applies a partial update and returns the fresh row.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID string, input UpdateProjectInput) (*models.Project, error) {
	ctx = ensuredContext(ctx)

	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.Currency != nil {
		updates["currency"] = *input.Currency
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if len(updates) == 0 {
		return project, nil
	}

	if err := s.db.WithContext(ctx).Model(project).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("project service: update project: %w", err)
	}
	return s.findProject(ctx, projectID)
}

// AddParticipantInput carries the fields for a new project participant.
type AddParticipantInput struct {
	Role    string
	Name    string
	Phone   string
	CanPost bool
}

// AddParticipant attaches a person to a project.
func (s *ProjectService) AddParticipant(ctx context.Context, projectID string, input AddParticipantInput) (*models.Participant, error) {
	ctx = ensuredContext(ctx)

	if _, err := s.findProject(ctx, projectID); err != nil {
		return nil, err
	}

	participant := models.Participant{
		ProjectID: projectID,
		Role:      input.Role,
		Name:      input.Name,
		Phone:     input.Phone,
		CanPost:   input.CanPost,
	}
	if err := s.db.WithContext(ctx).Create(&participant).Error; err != nil {
		return nil, fmt.Errorf("project service: add participant: %w", err)
	}
	return &participant, nil
}

// ListParticipants returns a project's participants in join order.
func (s *ProjectService) ListParticipants(ctx context.Context, projectID string) ([]models.Participant, error) {
	ctx = ensuredContext(ctx)

	if _, err := s.findProject(ctx, projectID); err != nil {
		return nil, err
	}

	var participants []models.Participant
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&participants).Error
	if err != nil {
		return nil, fmt.Errorf("project service: list participants: %w", err)
	}
	return participants, nil
}

// PostMessageInput carries the fields for a new feed message.
type PostMessageInput struct {
	SenderID   *string
	Type       models.MessageType
	URL        string
	Transcript string
}

// PostMessage appends a message to the project feed. When a sender is
// given it must be a participant of the same project.
func (s *ProjectService) PostMessage(ctx context.Context, projectID string, input PostMessageInput) (*models.Message, error) {
	ctx = ensuredContext(ctx)

	if _, err := s.findProject(ctx, projectID); err != nil {
		return nil, err
	}

	if input.SenderID != nil && *input.SenderID != "" {
		if err := s.checkParticipant(ctx, *input.SenderID, projectID); err != nil {
			return nil, err
		}
	}

	message := models.Message{
		ProjectID:  projectID,
		SenderID:   input.SenderID,
		Type:       input.Type,
		URL:        input.URL,
		Transcript: input.Transcript,
	}
	if err := s.db.WithContext(ctx).Create(&message).Error; err != nil {
		return nil, fmt.Errorf("project service: post message: %w", err)
	}
	return &message, nil
}

// ListMessages returns the project feed oldest first, annotations included.
func (s *ProjectService) ListMessages(ctx context.Context, projectID string) ([]models.Message, error) {
	ctx = ensuredContext(ctx)

	if _, err := s.findProject(ctx, projectID); err != nil {
		return nil, err
	}

	var messages []models.Message
	err := s.db.WithContext(ctx).
		Preload("Annotations").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("project service: list messages: %w", err)
	}
	return messages, nil
}

// AddAnnotationInput carries structured progress data for a message.
type AddAnnotationInput struct {
	Area            string
	Task            string
	Phase           string
	PercentComplete *int
	Blocker         string
	NextStep        string
	Confidence      *int
}

// AddAnnotation attaches structured progress data to a message.
func (s *ProjectService) AddAnnotation(ctx context.Context, messageID string, input AddAnnotationInput) (*models.Annotation, error) {
	ctx = ensuredContext(ctx)

	var message models.Message
	err := s.db.WithContext(ctx).Where("id = ?", messageID).First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("project service: find message: %w", err)
	}

	annotation := models.Annotation{
		MessageID:       messageID,
		Area:            input.Area,
		Task:            input.Task,
		Phase:           input.Phase,
		PercentComplete: input.PercentComplete,
		Blocker:         input.Blocker,
		NextStep:        input.NextStep,
		Confidence:      input.Confidence,
	}
	if err := s.db.WithContext(ctx).Create(&annotation).Error; err != nil {
		return nil, fmt.Errorf("project service: add annotation: %w", err)
	}
	return &annotation, nil
}

// AddDailyLogInput carries a per-day summary with health scores.
type AddDailyLogInput struct {
	Date          time.Time
	SummaryText   string
	ScoreSchedule int
	ScoreBudget   int
}

// AddDailyLog records a daily summary for a project.
func (s *ProjectService) AddDailyLog(ctx context.Context, projectID string, input AddDailyLogInput) (*models.DailyLog, error) {
	ctx = ensuredContext(ctx)

	if _, err := s.findProject(ctx, projectID); err != nil {
		return nil, err
	}

	log := models.DailyLog{
		ProjectID:     projectID,
		Date:          input.Date,
		SummaryText:   input.SummaryText,
		ScoreSchedule: input.ScoreSchedule,
		ScoreBudget:   input.ScoreBudget,
	}
	if err := s.db.WithContext(ctx).Create(&log).Error; err != nil {
		return nil, fmt.Errorf("project service: add daily log: %w", err)
	}
	return &log, nil
}

// ListDailyLogs returns a project's daily logs, most recent day first.
func (s *ProjectService) ListDailyLogs(ctx context.Context, projectID string) ([]models.DailyLog, error) {
	ctx = ensuredContext(ctx)

	if _, err := s.findProject(ctx, projectID); err != nil {
		return nil, err
	}

	var logs []models.DailyLog
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("date DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("project service: list daily logs: %w", err)
	}
	return logs, nil
}

// AddMilestoneInput carries the fields for a new milestone.
type AddMilestoneInput struct {
	Name     string
	Amount   *float64
	Criteria string
	Status   models.MilestoneStatus
	DueDate  *time.Time
}

// AddMilestone creates a payable milestone on a project. Status defaults
// to pending.
func (s *ProjectService) AddMilestone(ctx context.Context, projectID string, input AddMilestoneInput) (*models.Milestone, error) {
	ctx = ensuredContext(ctx)

	if _, err := s.findProject(ctx, projectID); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.MilestonePending
	}

	milestone := models.Milestone{
		ProjectID: projectID,
		Name:      input.Name,
		Amount:    input.Amount,
		Criteria:  input.Criteria,
		Status:    status,
		DueDate:   input.DueDate,
	}
	if err := s.db.WithContext(ctx).Create(&milestone).Error; err != nil {
		return nil, fmt.Errorf("project service: add milestone: %w", err)
	}
	return &milestone, nil
}

// ListMilestones returns a project's milestones with their payments.
func (s *ProjectService) ListMilestones(ctx context.Context, projectID string) ([]models.Milestone, error) {
	ctx = ensuredContext(ctx)

	if _, err := s.findProject(ctx, projectID); err != nil {
		return nil, err
	}

	var milestones []models.Milestone
	err := s.db.WithContext(ctx).
		Preload("Payments").
		Where("project_id = ?", projectID).
		Order("due_date ASC").
		Find(&milestones).Error
	if err != nil {
		return nil, fmt.Errorf("project service: list milestones: %w", err)
	}
	return milestones, nil
}

// AddPaymentInput carries the fields for a payment against a milestone.
type AddPaymentInput struct {
	MilestoneID string
	Provider    models.PaymentProvider
	Link        string
	Status      models.PaymentStatus
	PaidAt      *time.Time
}

// AddPayment records a payment. The milestone must belong to the given
// project or the call fails with ErrMilestoneNotFound.
func (s *ProjectService) AddPayment(ctx context.Context, projectID string, input AddPaymentInput) (*models.Payment, error) {
	ctx = ensuredContext(ctx)

	var milestone models.Milestone
	err := s.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", input.MilestoneID, projectID).
		First(&milestone).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMilestoneNotFound
		}
		return nil, fmt.Errorf("project service: find milestone: %w", err)
	}

	status := input.Status
	if status == "" {
		status = models.PaymentPending
	}

	payment := models.Payment{
		MilestoneID: input.MilestoneID,
		Provider:    input.Provider,
		Link:        input.Link,
		Status:      status,
		PaidAt:      input.PaidAt,
	}
	if err := s.db.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("project service: add payment: %w", err)
	}
	return &payment, nil
}

func (s *ProjectService) findProject(ctx context.Context, projectID string) (*models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).Where("id = ?", projectID).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("project service: find project: %w", err)
	}
	return &project, nil
}

func (s *ProjectService) checkParticipant(ctx context.Context, participantID, projectID string) error {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("id = ? AND project_id = ?", participantID, projectID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("project service: find participant: %w", err)
	}
	if count == 0 {
		return ErrParticipantNotFound
	}
	return nil
}
