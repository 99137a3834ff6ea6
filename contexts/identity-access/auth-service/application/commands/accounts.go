package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	application "moringadesk/contexts/identity-access/auth-service/application"
	"moringadesk/contexts/identity-access/auth-service/domain/entities"
	domainerrors "moringadesk/contexts/identity-access/auth-service/domain/errors"
	"moringadesk/contexts/identity-access/auth-service/ports"
)

// RegisterCommand is the write-model input for a new student account.
type RegisterCommand struct {
	Email    string
	FullName string
	Password string
}

// RegisterResult returns the stored user with a ready-to-use access token.
type RegisterResult struct {
	User  entities.User
	Token entities.AccessToken
}

// LoginCommand carries credentials exchanged for an access token.
type LoginCommand struct {
	Email    string
	Password string
}

// AccountUseCase registers users and signs them in.
type AccountUseCase struct {
	Store  ports.UnitOfWork
	Hasher ports.PasswordHasher
	Tokens ports.TokenIssuer
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// Register creates a student account and signs it in.
func (uc AccountUseCase) Register(ctx context.Context, cmd RegisterCommand) (RegisterResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	email, err := validateEmail(cmd.Email)
	if err != nil {
		return RegisterResult{}, err
	}
	fullName := strings.TrimSpace(cmd.FullName)
	if fullName == "" || len(fullName) > maxFullNameLength {
		return RegisterResult{}, fmt.Errorf("%w: full_name is required", domainerrors.ErrInvalidInput)
	}
	if err := validatePassword(cmd.Password); err != nil {
		return RegisterResult{}, err
	}
	passwordHash, err := uc.Hasher.Hash(cmd.Password)
	if err != nil {
		return RegisterResult{}, err
	}
	userID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return RegisterResult{}, err
	}
	now := uc.Clock.Now().UTC()
	user := entities.User{
		UserID:       userID,
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		Role:         entities.RoleStudent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var token entities.AccessToken
	err = uc.Store.Do(ctx, func(repo ports.Repository) error {
		_, exists, err := repo.GetUserByEmail(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return domainerrors.ErrEmailTaken
		}
		if err := repo.CreateUser(ctx, user); err != nil {
			if errors.Is(err, domainerrors.ErrConflict) {
				return domainerrors.ErrEmailTaken
			}
			return err
		}
		// Issued before commit so a signing failure leaves no account behind.
		token, err = uc.Tokens.Issue(user)
		return err
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrEmailTaken) {
			logger.Warn("registration rejected for existing email",
				"event", "auth_register_email_taken",
				"module", "identity-access/auth-service",
				"layer", "application",
			)
		}
		return RegisterResult{}, err
	}

	logger.Info("user registered",
		"event", "auth_user_registered",
		"module", "identity-access/auth-service",
		"layer", "application",
		"user_id", user.UserID,
	)
	return RegisterResult{User: user, Token: token}, nil
}

// Login verifies credentials. Unknown emails and wrong passwords fail the
// same way.
func (uc AccountUseCase) Login(ctx context.Context, cmd LoginCommand) (entities.AccessToken, error) {
	logger := application.ResolveLogger(uc.Logger)
	email := entities.NormalizeEmail(cmd.Email)
	var user entities.User
	err := uc.Store.Do(ctx, func(repo ports.Repository) error {
		found, ok, err := repo.GetUserByEmail(ctx, email)
		if err != nil {
			return err
		}
		if !ok {
			return domainerrors.ErrInvalidCredentials
		}
		user = found
		return nil
	})
	if err != nil {
		return entities.AccessToken{}, err
	}
	if err := uc.Hasher.Compare(user.PasswordHash, cmd.Password); err != nil {
		logger.Warn("login rejected",
			"event", "auth_login_rejected",
			"module", "identity-access/auth-service",
			"layer", "application",
			"user_id", user.UserID,
		)
		return entities.AccessToken{}, domainerrors.ErrInvalidCredentials
	}
	token, err := uc.Tokens.Issue(user)
	if err != nil {
		return entities.AccessToken{}, err
	}
	logger.Info("user logged in",
		"event", "auth_user_logged_in",
		"module", "identity-access/auth-service",
		"layer", "application",
		"user_id", user.UserID,
	)
	return token, nil
}
