package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"tabnote-be/internal/dto"
	"tabnote-be/internal/entity"
	"tabnote-be/internal/repository/specification"
	"tabnote-be/internal/repository/unitofwork"
	"tabnote-be/pkg/events"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, sessionId string) error
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	sessionService ISessionService
	eventPublisher EventPublisher
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, sessionService ISessionService, eventPublisher EventPublisher) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		sessionService: sessionService,
		eventPublisher: eventPublisher,
	}
}

// signAccessToken mints the JWT a client presents on REST and websocket
// calls. The session id claim ties the token to the session store entry.
func signAccessToken(userId uuid.UUID, sessionId string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    userId.String(),
		"session_id": sessionId,
		"exp":        time.Now().Add(time.Hour * 24).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_secret"
	}
	return token.SignedString([]byte(secret))
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, _ := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: &hashStr,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{Id: user.Id}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, errors.New("invalid credentials")
	}
	if user == nil {
		return nil, errors.New("invalid credentials")
	}

	if user.PasswordHash == nil {
		return nil, errors.New("account uses google sign-in")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	session, err := s.sessionService.Create(ctx, user.Id, user.Email, "password")
	if err != nil {
		return nil, err
	}

	signedToken, err := signAccessToken(user.Id, session.ID)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		event := events.NewSessionChanged(session.ID, user.Id.String(), true)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish SESSION_CHANGED event: %v\n", err)
		}
	}

	return &dto.LoginResponse{
		AccessToken: signedToken,
		SessionId:   session.ID,
		User: dto.UserDTO{
			Id:       user.Id,
			Email:    user.Email,
			FullName: user.FullName,
		},
	}, nil
}

func (s *authService) Logout(ctx context.Context, sessionId string) error {
	if sessionId == "" {
		return nil
	}
	return s.sessionService.SignOut(ctx, sessionId)
}
