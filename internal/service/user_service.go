package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gazi-tiles/internal/model"
	"gazi-tiles/internal/repository"
	"gazi-tiles/pkg/validator"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, req *model.User, actor Actor) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	// EnsureAdmin creates or promotes the bootstrap admin account.
	EnsureAdmin(ctx context.Context, email string) error
}

type userService struct {
	repo repository.UserRepository
	log  *zap.Logger
}

func NewUserService(repo repository.UserRepository, log *zap.Logger) UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &userService{repo: repo, log: log}
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", notFound(err, ErrUserNotFound), email)
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, req *model.User, actor Actor) (*model.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Role == "" {
		req.Role = model.RoleSalesman
	}
	if err := validator.Error(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateUser, req.Email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	req.IsActive = true
	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID
	if err := s.repo.Create(ctx, req); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateUser, req.Email)
		}
		return nil, err
	}
	s.log.Info("user created", zap.String("email", req.Email), zap.String("role", req.Role), zap.String("by", actor.Email))
	return req, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *userService) EnsureAdmin(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	user, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		_, err = s.Create(ctx, &model.User{Email: email, Name: "Admin", Role: model.RoleAdmin}, System)
		return err
	case err != nil:
		return err
	}
	if user.Role == model.RoleAdmin && user.IsActive {
		return nil
	}
	user.Role = model.RoleAdmin
	user.IsActive = true
	user.UpdatedBy = System.ID
	s.log.Info("admin role restored", zap.String("email", email))
	return s.repo.Update(ctx, user)
}
