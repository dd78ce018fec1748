package service

import (
	"errors"
	"strings"
	"time"

	"github.com/expensio/internal/models"
	"github.com/expensio/internal/repository"
	"github.com/expensio/internal/stream"
)

var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrNotExpenseOwner = errors.New("expense belongs to another user")
	ErrTitleRequired   = errors.New("title is required")
)

// ExpenseStore is the persistence boundary for expense records
type ExpenseStore interface {
	Create(expense *models.Expense) error
	GetByID(id uint) (*models.Expense, error)
	GetByUserID(userID uint) ([]models.Expense, error)
	Update(expense *models.Expense) error
	Delete(id uint) error
}

// EventPublisher pushes expense change events to live subscribers
type EventPublisher interface {
	Publish(userID uint, event stream.Event)
}

// ExpenseService handles owner-scoped expense operations
type ExpenseService struct {
	expenseStore ExpenseStore
	events       EventPublisher
}

// NewExpenseService creates a new ExpenseService. events may be nil
// when no live stream is wired in.
func NewExpenseService(expenseStore ExpenseStore, events EventPublisher) *ExpenseService {
	return &ExpenseService{
		expenseStore: expenseStore,
		events:       events,
	}
}

// CreateExpenseRequest represents the add-expense request. Amount is a
// pointer so a legitimate zero amount still satisfies "required".
type CreateExpenseRequest struct {
	Title    string          `json:"title" binding:"required,max=100"`
	Amount   *float64        `json:"amount" binding:"required,gte=0"`
	Category models.Category `json:"category"`
	Date     *time.Time      `json:"date"`
}

// UpdateExpenseRequest carries a partial update. Only fields present in
// the request body are applied; pointer fields distinguish "absent"
// from zero values, so amount 0 is assignable.
type UpdateExpenseRequest struct {
	Title    *string          `json:"title" binding:"omitempty,max=100"`
	Amount   *float64         `json:"amount" binding:"omitempty,gte=0"`
	Category *models.Category `json:"category"`
	Date     *time.Time       `json:"date"`
}

// List returns the caller's expenses, newest first. Scoping happens at
// the query boundary; no per-record check is needed on this path.
func (s *ExpenseService) List(userID uint) ([]models.Expense, error) {
	return s.expenseStore.GetByUserID(userID)
}

// Create records a new expense. The owner is always the authenticated
// caller; client-supplied owner values are never consulted.
func (s *ExpenseService) Create(userID uint, req *CreateExpenseRequest) (*models.Expense, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	expense := &models.Expense{
		UserID:   userID,
		Title:    title,
		Amount:   *req.Amount,
		Category: models.NormalizeCategory(req.Category),
		Date:     date,
	}

	if err := s.expenseStore.Create(expense); err != nil {
		return nil, err
	}

	s.publish(userID, stream.Event{Type: stream.EventExpenseCreated, Expense: expense})
	return expense, nil
}

// Update applies a partial update after the ownership check
func (s *ExpenseService) Update(userID, expenseID uint, req *UpdateExpenseRequest) (*models.Expense, error) {
	expense, err := s.getOwned(userID, expenseID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		expense.Title = title
	}
	if req.Amount != nil {
		expense.Amount = *req.Amount
	}
	if req.Category != nil {
		expense.Category = models.NormalizeCategory(*req.Category)
	}
	if req.Date != nil {
		expense.Date = *req.Date
	}

	if err := s.expenseStore.Update(expense); err != nil {
		return nil, err
	}

	s.publish(userID, stream.Event{Type: stream.EventExpenseUpdated, Expense: expense})
	return expense, nil
}

// Delete removes an expense after the ownership check
func (s *ExpenseService) Delete(userID, expenseID uint) error {
	expense, err := s.getOwned(userID, expenseID)
	if err != nil {
		return err
	}

	if err := s.expenseStore.Delete(expense.ID); err != nil {
		return err
	}

	s.publish(userID, stream.Event{Type: stream.EventExpenseDeleted, ExpenseID: expense.ID})
	return nil
}

// getOwned loads an expense and verifies the caller owns it
func (s *ExpenseService) getOwned(userID, expenseID uint) (*models.Expense, error) {
	expense, err := s.expenseStore.GetByID(expenseID)
	if err != nil {
		if errors.Is(err, repository.ErrExpenseNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}

	if expense.UserID != userID {
		return nil, ErrNotExpenseOwner
	}

	return expense, nil
}

func (s *ExpenseService) publish(userID uint, event stream.Event) {
	if s.events != nil {
		s.events.Publish(userID, event)
	}
}
