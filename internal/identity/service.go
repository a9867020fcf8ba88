package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
	"github.com/MrJamesThe3rd/outlay/internal/notify"
	"github.com/MrJamesThe3rd/outlay/internal/validation"
)

const invitationTTL = 7 * 24 * time.Hour

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=identity
type Repository interface {
	CreateTenantWithAdmin(ctx context.Context, tenant *Tenant, admin *User) error
	GetTenant(ctx context.Context, id uuid.UUID) (*Tenant, error)

	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByInvitation(ctx context.Context, token string) (*User, error)
	UsersByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]*User, error)
	UpdateUser(ctx context.Context, u *User) error
	TouchLogin(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo        Repository
	sender      notify.Sender
	frontendURL string
}

func NewService(repo Repository, sender notify.Sender, frontendURL string) *Service {
	return &Service{repo: repo, sender: sender, frontendURL: strings.TrimRight(frontendURL, "/")}
}

type SignupParams struct {
	Name         string `json:"name" validate:"required,max=50"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	CompanyName  string `json:"company_name" validate:"required,max=100"`
	BaseCurrency string `json:"base_currency" validate:"required,len=3,uppercase,iso4217"`
}

type UserFilter struct {
	TenantID   uuid.UUID
	Role       *Role
	Department *string
	ManagerID  *uuid.UUID
	Search     string
}

type AddUserParams struct {
	Name       string     `json:"name" validate:"required,max=50"`
	Email      string     `json:"email" validate:"required,email"`
	Password   string     `json:"password" validate:"omitempty,min=6"`
	Role       Role       `json:"role" validate:"required,oneof=admin manager employee"`
	ManagerID  *uuid.UUID `json:"manager_id"`
	Department string     `json:"department" validate:"max=50"`
}

type UpdateUserParams struct {
	Name       *string    `json:"name" validate:"omitempty,max=50"`
	Role       *Role      `json:"role" validate:"omitempty,oneof=admin manager employee"`
	ManagerID  *uuid.UUID `json:"manager_id"`
	Department *string    `json:"department" validate:"omitempty,max=50"`
	IsActive   *bool      `json:"is_active"`
}

// Signup creates a company and its first admin together.
func (s *Service) Signup(ctx context.Context, params SignupParams) (*User, *Tenant, error) {
	params.Email = normalizeEmail(params.Email)
	params.BaseCurrency = strings.ToUpper(strings.TrimSpace(params.BaseCurrency))

	if err := validation.Struct(params); err != nil {
		return nil, nil, err
	}

	if err := s.ensureEmailFree(ctx, params.Email); err != nil {
		return nil, nil, err
	}

	hash, err := hashPassword(params.Password)
	if err != nil {
		return nil, nil, err
	}

	tenant := &Tenant{
		Name:         strings.TrimSpace(params.CompanyName),
		BaseCurrency: params.BaseCurrency,
		Settings:     DefaultSettings(),
		IsActive:     true,
	}

	admin := &User{
		Name:         strings.TrimSpace(params.Name),
		Email:        params.Email,
		PasswordHash: hash,
		Role:         RoleAdmin,
		IsActive:     true,
	}

	if err := s.repo.CreateTenantWithAdmin(ctx, tenant, admin); err != nil {
		return nil, nil, fmt.Errorf("creating company: %w", err)
	}

	return admin, tenant, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if !u.IsActive || u.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.repo.TouchLogin(ctx, u.ID); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) FindUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) FindTenant(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	return s.repo.GetTenant(ctx, id)
}

// UserInTenant loads a user and hides users of other tenants.
func (s *Service) UserInTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if u.TenantID != tenantID {
		return nil, ErrUserNotFound
	}

	return u, nil
}

func (s *Service) UsersByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	return s.repo.UsersByIDs(ctx, tenantID, ids)
}

func (s *Service) ListUsers(ctx context.Context, filter UserFilter) ([]*User, error) {
	return s.repo.ListUsers(ctx, filter)
}

// Team lists the direct reports of a manager.
func (s *Service) Team(ctx context.Context, manager *User) ([]*User, error) {
	return s.repo.ListUsers(ctx, UserFilter{TenantID: manager.TenantID, ManagerID: &manager.ID})
}

// AddUser creates a user in the actor's tenant. Without a password the user
// receives an invitation instead.
func (s *Service) AddUser(ctx context.Context, actor *User, params AddUserParams) (*User, error) {
	if actor.Role != RoleAdmin {
		return nil, ErrAdminOnly
	}

	params.Email = normalizeEmail(params.Email)

	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, params.Email); err != nil {
		return nil, err
	}

	if err := s.checkManager(ctx, actor.TenantID, params.ManagerID); err != nil {
		return nil, err
	}

	u := &User{
		TenantID:   actor.TenantID,
		Name:       strings.TrimSpace(params.Name),
		Email:      params.Email,
		Role:       params.Role,
		ManagerID:  params.ManagerID,
		Department: strings.TrimSpace(params.Department),
		IsActive:   true,
	}

	if params.Password != "" {
		hash, err := hashPassword(params.Password)
		if err != nil {
			return nil, err
		}

		u.PasswordHash = hash
	} else if err := issueInvitation(u); err != nil {
		return nil, err
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	if u.InvitationToken != nil {
		s.invite(ctx, actor, u)
	}

	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, actor *User, id uuid.UUID, params UpdateUserParams) (*User, error) {
	if actor.Role != RoleAdmin {
		return nil, ErrAdminOnly
	}

	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	u, err := s.UserInTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}

	if params.ManagerID != nil {
		if *params.ManagerID == u.ID {
			return nil, apperr.Invalid("manager_id", "user cannot manage themselves")
		}

		if err := s.checkManager(ctx, actor.TenantID, params.ManagerID); err != nil {
			return nil, err
		}

		u.ManagerID = params.ManagerID
	}

	if params.Name != nil {
		u.Name = strings.TrimSpace(*params.Name)
	}

	if params.Role != nil {
		u.Role = *params.Role
	}

	if params.Department != nil {
		u.Department = strings.TrimSpace(*params.Department)
	}

	if params.IsActive != nil {
		if !*params.IsActive && u.ID == actor.ID {
			return nil, apperr.Invalid("is_active", "you cannot deactivate yourself")
		}

		u.IsActive = *params.IsActive
	}

	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// DeactivateUser is a soft delete.
func (s *Service) DeactivateUser(ctx context.Context, actor *User, id uuid.UUID) error {
	_, err := s.UpdateUser(ctx, actor, id, UpdateUserParams{IsActive: new(false)})
	return err
}

// SendInvitation issues a fresh invitation token and emails it.
func (s *Service) SendInvitation(ctx context.Context, actor *User, id uuid.UUID) error {
	if actor.Role != RoleAdmin {
		return ErrAdminOnly
	}

	u, err := s.UserInTenant(ctx, actor.TenantID, id)
	if err != nil {
		return err
	}

	if err := issueInvitation(u); err != nil {
		return err
	}

	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return err
	}

	s.invite(ctx, actor, u)

	return nil
}

func (s *Service) AcceptInvitation(ctx context.Context, token, password string) (*User, error) {
	if len(password) < 6 {
		return nil, apperr.Invalid("password", "must be at least 6 characters")
	}

	u, err := s.repo.GetUserByInvitation(ctx, token)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidInvitation
		}

		return nil, err
	}

	if u.InvitationExpires == nil || time.Now().After(*u.InvitationExpires) {
		return nil, ErrInvalidInvitation
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	u.PasswordHash = hash
	u.InvitationToken = nil
	u.InvitationExpires = nil
	u.IsActive = true

	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return apperr.Invalid("email", "is already registered")
	}

	if errors.Is(err, ErrUserNotFound) {
		return nil
	}

	return err
}

func (s *Service) checkManager(ctx context.Context, tenantID uuid.UUID, managerID *uuid.UUID) error {
	if managerID == nil {
		return nil
	}

	m, err := s.UserInTenant(ctx, tenantID, *managerID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return apperr.Invalid("manager_id", "manager not found in this company")
		}

		return err
	}

	if !m.CanApprove() {
		return apperr.Invalid("manager_id", "manager must be an active admin or manager")
	}

	return nil
}

func (s *Service) invite(ctx context.Context, actor *User, u *User) {
	company := ""
	if t, err := s.repo.GetTenant(ctx, u.TenantID); err == nil {
		company = t.Name
	}

	notify.Async(ctx, s.sender, notify.Event{
		Type:       notify.UserInvited,
		TenantID:   u.TenantID,
		ActorID:    actor.ID,
		Recipients: []notify.Recipient{{UserID: u.ID, Email: u.Email, Name: u.Name}},
		Payload: map[string]any{
			"company":        company,
			"invitation_url": s.frontendURL + "/accept-invitation?token=" + *u.InvitationToken,
		},
	})
}

func issueInvitation(u *User) error {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("generating invitation token: %w", err)
	}

	u.InvitationToken = new(hex.EncodeToString(buf))
	u.InvitationExpires = new(time.Now().Add(invitationTTL))

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
