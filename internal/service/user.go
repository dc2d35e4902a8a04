// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/userdesk/userdesk/internal/metrics"
	"github.com/userdesk/userdesk/internal/model"
)

// Service errors.
var (
	ErrUserNotFound = errors.New("user not found")
)

// UserStore is the registry the service reads and mutates.
type UserStore interface {
	Create(fields model.UserFields) model.User
	List() []model.User
	Get(id string) (model.User, bool)
	Update(id string, patch model.UserPatch) (model.User, bool)
	Delete(id string) bool
	Len() int
}

// UserService validates input at the API boundary and delegates to the store.
type UserService struct {
	store    UserStore
	validate *validator.Validate
	metrics  metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		store:    store,
		validate: newValidator(),
		metrics:  recorder,
	}
}

// CreateUserInput defines input for creating a user.
type CreateUserInput struct {
	FirstName string `json:"first_name" validate:"required,notblank,max=100"`
	LastName  string `json:"last_name" validate:"required,notblank,max=100"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Hobby     string `json:"hobby" validate:"max=200"`
}

// CreateUser validates input and adds a user to the registry.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (model.User, error) {
	if err := s.validate.StructCtx(ctx, input); err != nil {
		s.metrics.IncValidationFailed()
		return model.User{}, toValidationError(err)
	}

	user := s.store.Create(model.UserFields{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Hobby:     input.Hobby,
	})
	s.metrics.IncUserCreated()

	return user, nil
}

// ListUsers returns every user in insertion order.
func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.store.List(), nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (model.User, error) {
	user, ok := s.store.Get(id)
	if !ok {
		s.metrics.IncUserNotFound()
		return model.User{}, ErrUserNotFound
	}
	return user, nil
}

// UpdateUserInput defines input for updating a user.
// Nil fields are left untouched.
type UpdateUserInput struct {
	ID        string
	FirstName *string
	LastName  *string
	Email     *string
	Hobby     *string
}

// UpdateUser validates the supplied fields and merges them onto the user.
func (s *UserService) UpdateUser(ctx context.Context, input UpdateUserInput) (model.User, error) {
	if err := s.validatePatch(ctx, input); err != nil {
		s.metrics.IncValidationFailed()
		return model.User{}, err
	}

	user, ok := s.store.Update(input.ID, model.UserPatch{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Hobby:     input.Hobby,
	})
	if !ok {
		s.metrics.IncUserNotFound()
		return model.User{}, ErrUserNotFound
	}
	s.metrics.IncUserUpdated()

	return user, nil
}

// DeleteUser removes a user by ID.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if !s.store.Delete(id) {
		s.metrics.IncUserNotFound()
		return ErrUserNotFound
	}
	s.metrics.IncUserDeleted()
	return nil
}

// Count returns the number of registered users.
func (s *UserService) Count() int {
	return s.store.Len()
}

// validatePatch checks only the fields present in input.
func (s *UserService) validatePatch(ctx context.Context, input UpdateUserInput) error {
	checks := []struct {
		name  string
		value *string
		rule  string
	}{
		{"first_name", input.FirstName, ruleName},
		{"last_name", input.LastName, ruleName},
		{"email", input.Email, ruleEmail},
		{"hobby", input.Hobby, ruleHobby},
	}

	fields := make(map[string]string)
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		err := s.validate.VarCtx(ctx, *c.value, c.rule)
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			return err
		}
		fields[c.name] = verrs[0].Tag()
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
