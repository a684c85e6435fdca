package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"tabnote-be/internal/dto"
	"tabnote-be/internal/entity"
	"tabnote-be/internal/repository/specification"
	"tabnote-be/internal/repository/unitofwork"
	"tabnote-be/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type IOAuthService interface {
	GetLoginURL(provider string) (string, error)
	HandleCallback(ctx context.Context, provider string, code string) (*dto.LoginResponse, error)
}

type oauthService struct {
	uowFactory     unitofwork.RepositoryFactory
	sessionService ISessionService
	eventPublisher EventPublisher
	googleConf     *oauth2.Config
}

func NewOAuthService(uowFactory unitofwork.RepositoryFactory, sessionService ISessionService, eventPublisher EventPublisher) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &oauthService{
		uowFactory:     uowFactory,
		sessionService: sessionService,
		eventPublisher: eventPublisher,
		googleConf:     conf,
	}
}

func (s *oauthService) GetLoginURL(provider string) (string, error) {
	if provider != "google" {
		return "", errors.New("unsupported provider")
	}

	b := make([]byte, 16)
	rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)

	return s.googleConf.AuthCodeURL(state), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider string, code string) (*dto.LoginResponse, error) {
	if provider != "google" {
		return nil, errors.New("unsupported provider")
	}

	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	googleUser, err := fetchGoogleUser(token.AccessToken)
	if err != nil {
		return nil, err
	}

	return s.completeSignIn(ctx, googleUser)
}

// completeSignIn turns a verified Google identity into a local user,
// session and access token. Split from HandleCallback so the account
// adoption and event emission can be exercised without the code exchange.
func (s *oauthService) completeSignIn(ctx context.Context, googleUser *googleUserInfo) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: googleUser.Email})
	if err != nil {
		return nil, err
	}

	if user == nil {
		avatar := googleUser.Picture
		user = &entity.User{
			Id:        uuid.New(),
			Email:     googleUser.Email,
			FullName:  googleUser.Name,
			AvatarURL: &avatar,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}

		if err := uow.UserRepository().Create(ctx, user); err != nil {
			uow.Rollback()
			return nil, err
		}

		if err := uow.Commit(); err != nil {
			return nil, err
		}
	} else if user.AvatarURL == nil && googleUser.Picture != "" {
		// First Google sign-in on an existing password account: adopt the
		// Google avatar.
		avatar := googleUser.Picture
		if err := uow.UserRepository().UpdateFields(ctx, user.Id, map[string]interface{}{"avatar_url": avatar}); err != nil {
			return nil, err
		}
		user.AvatarURL = &avatar
	}

	userProvider := &entity.UserProvider{
		Id:             uuid.New(),
		UserId:         user.Id,
		ProviderName:   "google",
		ProviderUserId: googleUser.ID,
		AvatarURL:      googleUser.Picture,
		CreatedAt:      time.Now(),
	}
	if err := uow.UserRepository().SaveUserProvider(ctx, userProvider); err != nil {
		return nil, fmt.Errorf("failed to save provider info: %w", err)
	}

	session, err := s.sessionService.Create(ctx, user.Id, user.Email, "google")
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

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func fetchGoogleUser(accessToken string) (*googleUserInfo, error) {
	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %w", err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading response: %w", err)
	}

	var info googleUserInfo
	if err := json.Unmarshal(content, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
