package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakshiot4/UrbanWatch-plus/internal/authz"
	"github.com/sakshiot4/UrbanWatch-plus/internal/logger"
	"github.com/sakshiot4/UrbanWatch-plus/internal/models"
	"github.com/sakshiot4/UrbanWatch-plus/internal/pkg/apperror"
	"github.com/sakshiot4/UrbanWatch-plus/internal/validation"
)

// UserRepository describes AuthService's dependency on login identities.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLoginAt(ctx context.Context, id uuid.UUID) error
}

// CitizenRepository describes the citizen profile storage dependency.
type CitizenRepository interface {
	Create(ctx context.Context, citizen *models.Citizen) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Citizen, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Citizen, error)
}

// OfficerRepository describes the officer profile storage dependency.
type OfficerRepository interface {
	Create(ctx context.Context, officer *models.Officer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Officer, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Officer, error)
}

// AuthService covers registration, login and principal resolution.
// Registration is two-step: the login identity first, then the role
// profile attached to it. Officers are provisioned by seeding, not
// self-registration.
type AuthService struct {
	users        UserRepository
	citizens     CitizenRepository
	officers     OfficerRepository
	contractors  ContractorStore
	tokenManager *TokenManager
}

// NewAuthService creates the authentication service.
func NewAuthService(users UserRepository, citizens CitizenRepository, officers OfficerRepository, contractors ContractorStore, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		users:        users,
		citizens:     citizens,
		officers:     officers,
		contractors:  contractors,
		tokenManager: tokenManager,
	}
}

// RegisterCitizenInput holds citizen signup data.
type RegisterCitizenInput struct {
	Email    string
	Password string
	Username string
	Name     string
	Phone    string
	Address  string
	Region   string
}

// RegisterContractorInput holds contractor signup data. The contractor
// starts in the pending state until an officer approves them.
type RegisterContractorInput struct {
	Email          string
	Password       string
	Username       string
	Name           string
	Phone          string
	CompanyName    string
	LicenseNumber  string
	Specialization string
	Region         string
}

// LoginInput holds credentials.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is the outcome of registration or login. Profile is the
// role-specific profile matching User.Role.
type AuthResult struct {
	User      *models.User `json:"user"`
	Profile   any          `json:"profile,omitempty"`
	TokenPair *TokenPair   `json:"tokens"`
}

// RegisterCitizen creates a citizen account.
func (s *AuthService) RegisterCitizen(ctx context.Context, in RegisterCitizenInput) (*AuthResult, error) {
	if err := s.validateSignup(in.Email, in.Password, in.Username, in.Name, in.Phone, in.Region); err != nil {
		return nil, err
	}

	user, err := s.createUser(ctx, in.Email, in.Password, in.Username, models.RoleCitizen)
	if err != nil {
		return nil, err
	}

	citizen := &models.Citizen{
		ID:        uuid.New(),
		UserID:    user.ID,
		Name:      in.Name,
		Phone:     in.Phone,
		Address:   in.Address,
		Region:    in.Region,
		CreatedAt: time.Now(),
	}
	if err := s.citizens.Create(ctx, citizen); err != nil {
		return nil, err
	}

	tokenPair, _, _, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Profile: citizen, TokenPair: tokenPair}, nil
}

// RegisterContractor creates a contractor account awaiting approval.
func (s *AuthService) RegisterContractor(ctx context.Context, in RegisterContractorInput) (*AuthResult, error) {
	if err := s.validateSignup(in.Email, in.Password, in.Username, in.Name, in.Phone, in.Region); err != nil {
		return nil, err
	}
	if !models.IsValidCategory(in.Specialization) {
		return nil, apperror.New(apperror.ErrCodeValidation, "unknown specialization")
	}
	if err := validation.ValidateNonEmpty("license_number", in.LicenseNumber); err != nil {
		return nil, err
	}

	user, err := s.createUser(ctx, in.Email, in.Password, in.Username, models.RoleContractor)
	if err != nil {
		return nil, err
	}

	contractor := &models.Contractor{
		ID:             uuid.New(),
		UserID:         user.ID,
		Name:           in.Name,
		Email:          strings.ToLower(in.Email),
		Phone:          in.Phone,
		CompanyName:    in.CompanyName,
		LicenseNumber:  in.LicenseNumber,
		Specialization: in.Specialization,
		Region:         in.Region,
		Status:         models.ApprovalPending,
		CreatedAt:      time.Now(),
	}
	if err := s.contractors.Create(ctx, contractor); err != nil {
		return nil, err
	}

	tokenPair, _, _, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Profile: contractor, TokenPair: tokenPair}, nil
}

// Login checks credentials and returns tokens plus the role profile.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(in.Email))
	if err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperror.New(apperror.ErrCodeForbidden, "account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if err := s.users.UpdateLastLoginAt(ctx, user.ID); err != nil {
		logger.Log.WithFields(map[string]interface{}{
			"user_id": user.ID,
			"error":   err.Error(),
		}).Warn("auth service: failed to update last_login_at")
	}

	tokenPair, _, _, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	profile, err := s.loadProfile(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Profile: profile, TokenPair: tokenPair}, nil
}

// Refresh issues a new token pair from a valid refresh token.
func (s *AuthService) Refresh(ctx context.Context, oldToken string) (*TokenPair, error) {
	claims, err := s.tokenManager.ParseRefresh(oldToken)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "invalid refresh token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "invalid token subject")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperror.New(apperror.ErrCodeForbidden, "account is disabled")
	}

	tokenPair, _, _, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	return tokenPair, nil
}

// ResolvePrincipal turns an authenticated user into the acting principal
// used by every complaint operation. It loads the role profile so the
// principal carries region and specialization.
func (s *AuthService) ResolvePrincipal(ctx context.Context, userID uuid.UUID, role string) (authz.Principal, error) {
	switch role {
	case models.RoleCitizen:
		citizen, err := s.citizens.GetByUserID(ctx, userID)
		if err != nil {
			return authz.Principal{}, err
		}
		return authz.CitizenPrincipal(citizen), nil
	case models.RoleOfficer:
		officer, err := s.officers.GetByUserID(ctx, userID)
		if err != nil {
			return authz.Principal{}, err
		}
		return authz.OfficerPrincipal(officer), nil
	case models.RoleContractor:
		contractor, err := s.contractors.GetByUserID(ctx, userID)
		if err != nil {
			return authz.Principal{}, err
		}
		return authz.ContractorPrincipal(contractor), nil
	default:
		return authz.Principal{}, apperror.New(apperror.ErrCodeForbidden, "unknown role")
	}
}

func (s *AuthService) validateSignup(email, password, username, name, phone, region string) error {
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return err
	}
	if err := validation.ValidateUsername(username); err != nil {
		return err
	}
	if err := validation.ValidateNonEmpty("name", name); err != nil {
		return err
	}
	if err := validation.ValidatePhone(phone); err != nil {
		return err
	}
	if !models.IsValidRegion(region) {
		return apperror.New(apperror.ErrCodeValidation, "unknown region")
	}
	return nil
}

func (s *AuthService) createUser(ctx context.Context, email, password, username, role string) (*models.User, error) {
	if _, err := s.users.GetByEmail(ctx, strings.ToLower(email)); err == nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "email already registered")
	} else if !errors.Is(err, apperror.ErrUserNotFound) {
		return nil, err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "failed to hash password")
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(email),
		Username:     strings.ToLower(username),
		PasswordHash: string(passHash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) loadProfile(ctx context.Context, user *models.User) (any, error) {
	switch user.Role {
	case models.RoleCitizen:
		return s.citizens.GetByUserID(ctx, user.ID)
	case models.RoleOfficer:
		return s.officers.GetByUserID(ctx, user.ID)
	case models.RoleContractor:
		return s.contractors.GetByUserID(ctx, user.ID)
	default:
		return nil, nil
	}
}
