package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cemcalis/chiptunnig/internal/auth/domain"
	"github.com/cemcalis/chiptunnig/internal/auth/password"
	"go.uber.org/zap"
)

const (
	sessionTokenBytes = 32
	sessionTTL        = 7 * 24 * time.Hour

	minPasswordLength = 8
)

type Service struct {
	log         *zap.Logger
	repo        domain.Repository
	sessionRepo domain.SessionRepository
	genID       *snowflake.Node
}

func New(log *zap.Logger, repo domain.Repository, sessionRepo domain.SessionRepository, genID *snowflake.Node) domain.Service {
	return &Service{
		log:         log.Named("auth.service"),
		repo:        repo,
		sessionRepo: sessionRepo,
		genID:       genID,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if len(strings.TrimSpace(req.Password)) < minPasswordLength {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           s.genID.Generate(),
		Email:        email,
		PasswordHash: hashed,
		Name:         strings.TrimSpace(req.Name),
		CompanyName:  strings.TrimSpace(req.CompanyName),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         domain.RoleDealer,
		Status:       domain.StatusPending,
		Credits:      0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("dealer registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	// Dealers cannot log in until an admin approves the registration,
	// even with valid credentials.
	if user.Role == domain.RoleDealer {
		switch user.Status {
		case domain.StatusPending:
			return nil, domain.ErrAccountPending
		case domain.StatusRejected:
			reason := ""
			if user.RejectionReason != nil {
				reason = *user.RejectionReason
			}
			return nil, &domain.AccountRejectedError{Reason: reason}
		}
	}

	rawToken, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:         s.genID.Generate(),
		UserID:     user.ID,
		TokenHash:  hashToken(rawToken),
		ExpiresAt:  now.Add(sessionTTL),
		LastSeenAt: &now,
		CreatedAt:  now,
	}
	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &domain.LoginResult{
		User:      user,
		RawToken:  rawToken,
		ExpiresAt: session.ExpiresAt,
		SessionID: session.ID,
	}, nil
}

func (s *Service) Logout(ctx context.Context, rawToken string) error {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return domain.ErrInvalidSession
	}

	session, err := s.sessionRepo.GetSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrInvalidSession
		}
		return err
	}

	return s.sessionRepo.RevokeSession(ctx, session.ID, time.Now().UTC())
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (*domain.Session, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return nil, domain.ErrInvalidSession
	}

	session, err := s.sessionRepo.GetSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrInvalidSession
		}
		return nil, err
	}

	now := time.Now().UTC()
	if session.RevokedAt != nil {
		return nil, domain.ErrSessionRevoked
	}
	if now.After(session.ExpiresAt) {
		return nil, domain.ErrSessionExpired
	}

	if err := s.sessionRepo.UpdateLastSeen(ctx, session.ID, now); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *Service) CurrentUser(ctx context.Context, userID snowflake.ID) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID snowflake.ID, req domain.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.CompanyName != nil {
		fields["company_name"] = strings.TrimSpace(*req.CompanyName)
	}
	if req.Phone != nil {
		fields["phone"] = strings.TrimSpace(*req.Phone)
	}

	if req.NewPassword != "" {
		if len(strings.TrimSpace(req.NewPassword)) < minPasswordLength {
			return nil, domain.ErrInvalidInput
		}
		if !password.Verify(req.CurrentPassword, user.PasswordHash) {
			return nil, domain.ErrInvalidCredentials
		}
		hashed, err := password.Hash(req.NewPassword)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hashed
	}

	if len(fields) == 0 {
		return user, nil
	}
	fields["updated_at"] = time.Now().UTC()

	if err := s.repo.UpdateFields(ctx, userID, fields); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, userID)
}

func (s *Service) ListDealersByStatus(ctx context.Context, status string) ([]domain.User, error) {
	return s.repo.ListByRoleAndStatus(ctx, domain.RoleDealer, status)
}

func (s *Service) ResolveRegistration(ctx context.Context, userID snowflake.ID, req domain.ResolveRegistrationRequest) (*domain.User, error) {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	fields := map[string]any{"updated_at": now}
	switch req.Decision {
	case domain.DecisionApprove:
		fields["status"] = domain.StatusApproved
		fields["approved_at"] = now
		fields["rejection_reason"] = nil
	case domain.DecisionReject:
		fields["status"] = domain.StatusRejected
		fields["rejection_reason"] = strings.TrimSpace(req.Reason)
	default:
		return nil, domain.ErrInvalidInput
	}

	if err := s.repo.UpdateFields(ctx, userID, fields); err != nil {
		return nil, err
	}

	s.log.Info("registration resolved",
		zap.String("user_id", userID.String()),
		zap.String("decision", req.Decision),
	)
	return s.repo.FindByID(ctx, userID)
}

func (s *Service) UpdateUser(ctx context.Context, userID snowflake.ID, req domain.UpdateUserRequest) (*domain.User, error) {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.CompanyName != nil {
		fields["company_name"] = strings.TrimSpace(*req.CompanyName)
	}
	if req.Phone != nil {
		fields["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Role != nil {
		role := strings.TrimSpace(*req.Role)
		if role != domain.RoleDealer && role != domain.RoleAdmin {
			return nil, domain.ErrInvalidInput
		}
		fields["role"] = role
	}

	if len(fields) == 0 {
		return s.repo.FindByID(ctx, userID)
	}
	fields["updated_at"] = time.Now().UTC()

	if err := s.repo.UpdateFields(ctx, userID, fields); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, userID)
}

func (s *Service) DeleteUser(ctx context.Context, actorID, userID snowflake.ID) error {
	if actorID == userID {
		return domain.ErrSelfDelete
	}
	if err := s.sessionRepo.RevokeUserSessions(ctx, userID, time.Now().UTC()); err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID)
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(addr.Address)), nil
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
