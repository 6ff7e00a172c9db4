package service

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"rentfleet/internal/auth"
	"rentfleet/internal/db"
	"rentfleet/internal/entities"
	"rentfleet/internal/errors"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo     UserStore
	secret   string
	tokenTTL time.Duration
}

func NewUserService(repo UserStore, secret string, tokenTTL time.Duration) *UserService {
	return &UserService{repo: repo, secret: secret, tokenTTL: tokenTTL}
}

func (s *UserService) Register(req entities.RegisterRequest) (*entities.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, errors.BadRequest("username and password are required")
	}
	if len(req.Password) < 6 {
		return nil, errors.BadRequest("password must be at least 6 characters")
	}

	exists, err := s.repo.ExistsByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("checking username: %w", err)
	}
	if exists {
		return nil, errors.BadRequest("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &db.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        strings.TrimSpace(req.Email),
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         db.RoleCustomer,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return s.authResponse(user)
}

func (s *UserService) Login(req entities.LoginRequest) (*entities.AuthResponse, error) {
	user, err := s.repo.GetByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.Unauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, errors.Unauthorized("invalid credentials")
	}
	return s.authResponse(user)
}

func (s *UserService) UpdateProfile(user *db.User, req entities.UpdateProfileRequest) (*entities.UserResponse, error) {
	if strings.TrimSpace(req.FullName) == "" {
		return nil, errors.BadRequest("fullName is required")
	}
	if err := s.repo.UpdateProfile(user.ID, req.FullName, req.Phone); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	user.FullName = req.FullName
	user.Phone = req.Phone
	resp := UserResponse(user)
	return &resp, nil
}

func (s *UserService) ChangePassword(user *db.User, req entities.ChangePasswordRequest) error {
	if req.OldPassword == "" || req.NewPassword == "" {
		return errors.BadRequest("oldPassword and newPassword are required")
	}
	if len(req.NewPassword) < 6 {
		return errors.BadRequest("password must be at least 6 characters")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		return errors.BadRequest("old password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.repo.UpdatePassword(user.ID, string(hash)); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}

func (s *UserService) UsernameExists(username string) (bool, error) {
	return s.repo.ExistsByUsername(strings.TrimSpace(username))
}

func (s *UserService) authResponse(user *db.User) (*entities.AuthResponse, error) {
	token, err := auth.GenerateToken(s.secret, s.tokenTTL, user)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}
	return &entities.AuthResponse{
		Token:    token,
		Type:     "Bearer",
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Phone:    user.Phone,
		Role:     user.Role,
	}, nil
}

// UserResponse shapes a user for the wire without the password hash.
func UserResponse(user *db.User) entities.UserResponse {
	return entities.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Phone:    user.Phone,
		Role:     user.Role,
	}
}
