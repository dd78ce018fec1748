package service

import (
	"context"
	"errors"
	"time"

	"github.com/expensio/internal/models"
	"github.com/expensio/internal/repository"
)

// In-memory store fakes shared by the service tests.

type fakeUserStore struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uint]*models.User)}
}

func (s *fakeUserStore) Create(user *models.User) error {
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *fakeUserStore) GetByID(id uint) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) GetByEmail(email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) ExistsByEmail(email string) (bool, error) {
	_, err := s.GetByEmail(email)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrUserNotFound) {
		return false, nil
	}
	return false, err
}

type fakeOtpStore struct {
	records map[string]*models.OtpRecord
}

func newFakeOtpStore() *fakeOtpStore {
	return &fakeOtpStore{records: make(map[string]*models.OtpRecord)}
}

func (s *fakeOtpStore) Upsert(ctx context.Context, record *models.OtpRecord) error {
	copied := *record
	s.records[record.Email] = &copied
	return nil
}

func (s *fakeOtpStore) GetByEmail(ctx context.Context, email string) (*models.OtpRecord, error) {
	if record, ok := s.records[email]; ok {
		copied := *record
		return &copied, nil
	}
	return nil, repository.ErrOtpNotFound
}

func (s *fakeOtpStore) Delete(ctx context.Context, email string) error {
	delete(s.records, email)
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailSender struct {
	sent     []sentMail
	failWith error
}

func (s *fakeMailSender) Send(ctx context.Context, to, subject, body string) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.sent = append(s.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type fakeExpenseStore struct {
	expenses map[uint]*models.Expense
	nextID   uint
}

func newFakeExpenseStore() *fakeExpenseStore {
	return &fakeExpenseStore{expenses: make(map[uint]*models.Expense)}
}

func (s *fakeExpenseStore) Create(expense *models.Expense) error {
	s.nextID++
	expense.ID = s.nextID
	copied := *expense
	s.expenses[expense.ID] = &copied
	return nil
}

func (s *fakeExpenseStore) GetByID(id uint) (*models.Expense, error) {
	if expense, ok := s.expenses[id]; ok {
		copied := *expense
		return &copied, nil
	}
	return nil, repository.ErrExpenseNotFound
}

func (s *fakeExpenseStore) GetByUserID(userID uint) ([]models.Expense, error) {
	var result []models.Expense
	for _, expense := range s.expenses {
		if expense.UserID == userID {
			result = append(result, *expense)
		}
	}
	return result, nil
}

func (s *fakeExpenseStore) Update(expense *models.Expense) error {
	if _, ok := s.expenses[expense.ID]; !ok {
		return repository.ErrExpenseNotFound
	}
	copied := *expense
	s.expenses[expense.ID] = &copied
	return nil
}

func (s *fakeExpenseStore) Delete(id uint) error {
	delete(s.expenses, id)
	return nil
}
