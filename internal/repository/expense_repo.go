package repository

import (
	"errors"

	"github.com/expensio/internal/models"
	"gorm.io/gorm"
)

var (
	ErrExpenseNotFound = errors.New("expense not found")
)

// ExpenseRepository handles expense data access
type ExpenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create creates a new expense
func (r *ExpenseRepository) Create(expense *models.Expense) error {
	return r.db.Create(expense).Error
}

// GetByID retrieves an expense by ID
func (r *ExpenseRepository) GetByID(id uint) (*models.Expense, error) {
	var expense models.Expense
	result := r.db.First(&expense, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, result.Error
	}
	return &expense, nil
}

// GetByUserID retrieves all expenses for a user, newest first
func (r *ExpenseRepository) GetByUserID(userID uint) ([]models.Expense, error) {
	var expenses []models.Expense
	result := r.db.Where("user_id = ?", userID).Order("date DESC").Find(&expenses)
	if result.Error != nil {
		return nil, result.Error
	}
	return expenses, nil
}

// Update updates an expense
func (r *ExpenseRepository) Update(expense *models.Expense) error {
	return r.db.Save(expense).Error
}

// Delete soft deletes an expense
func (r *ExpenseRepository) Delete(id uint) error {
	return r.db.Delete(&models.Expense{}, id).Error
}
