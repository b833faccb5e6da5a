package services

import (
	"chat-courier/auth"
	"chat-courier/contract"
	"chat-courier/domain"
	"chat-courier/errors"
	"context"
	"fmt"
)

type IAuthService interface {
	Login(ctx context.Context, email, password string) (Session, error)
	Register(ctx context.Context, cmd RegisterCommand) (Session, error)
}

type Token string

// Session is what a successful authentication hands back to the caller.
type Session struct {
	Token  Token
	UserID string
}

type RegisterCommand struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Image     string
	Color     int
}

type AuthService struct {
	userRepository contract.IUserStore
	issuer         *auth.TokenIssuer
}

func NewAuthService(repo contract.IUserStore, issuer *auth.TokenIssuer) *AuthService {
	return &AuthService{userRepository: repo, issuer: issuer}
}

func (s *AuthService) Register(ctx context.Context, cmd RegisterCommand) (Session, error) {
	// Business rules are checked before any expensive cryptographic operation.
	if err := auth.ValidateRegister(auth.RegisterRequest{
		Email:     cmd.Email,
		Password:  cmd.Password,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Image:     cmd.Image,
		Color:     cmd.Color,
	}); err != nil {
		return Session{}, err
	}

	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return Session{}, fmt.Errorf("hashing failed: %w", err)
	}

	userID, err := s.userRepository.CreateUser(ctx, cmd.Email, hashedPassword, domain.Profile{
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Image:     cmd.Image,
		Color:     cmd.Color,
	})
	if err != nil {
		return Session{}, err
	}

	token, err := s.issuer.GenerateToken(userID, []string{"user"})
	if err != nil {
		return Session{}, errors.ErrTokenGeneration
	}
	return Session{Token: Token(token), UserID: userID}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	account, err := s.userRepository.GetUserByEmail(ctx, email)
	if err != nil {
		// Generic error to prevent user enumeration
		return Session{}, errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, account.PasswordHash)
	if err != nil || !match {
		return Session{}, errors.ErrInvalidCredentials
	}

	token, err := s.issuer.GenerateToken(account.ID, account.Roles)
	if err != nil {
		return Session{}, errors.ErrTokenGeneration
	}
	return Session{Token: Token(token), UserID: account.ID}, nil
}
