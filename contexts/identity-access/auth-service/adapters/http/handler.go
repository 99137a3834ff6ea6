package httpadapter

import (
	"context"
	"log/slog"

	"moringadesk/contexts/identity-access/auth-service/application/commands"
	"moringadesk/contexts/identity-access/auth-service/application/queries"
	"moringadesk/contexts/identity-access/auth-service/domain/entities"
	httptransport "moringadesk/contexts/identity-access/auth-service/transport/http"
)

// Handler maps auth DTOs to application commands and queries.
type Handler struct {
	Accounts   commands.AccountUseCase
	Passwords  commands.PasswordResetUseCase
	AdminUsers commands.AdminUserUseCase
	Identity   queries.IdentityQueries
	Users      queries.UserQueries
	Logger     *slog.Logger
}

func (h Handler) RegisterHandler(
	ctx context.Context,
	req httptransport.RegisterRequest,
) (httptransport.RegisterResponse, error) {
	result, err := h.Accounts.Register(ctx, commands.RegisterCommand{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		return httptransport.RegisterResponse{}, err
	}
	return httptransport.RegisterResponse{
		User:  mapUser(entities.UserSummary{User: result.User}),
		Token: mapToken(result.Token),
	}, nil
}

func (h Handler) LoginHandler(ctx context.Context, req httptransport.LoginRequest) (httptransport.TokenResponse, error) {
	token, err := h.Accounts.Login(ctx, commands.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return httptransport.TokenResponse{}, err
	}
	return mapToken(token), nil
}

func (h Handler) ForgotPasswordHandler(
	ctx context.Context,
	req httptransport.ForgotPasswordRequest,
) (httptransport.DetailResponse, error) {
	if err := h.Passwords.RequestReset(ctx, req.Email); err != nil {
		return httptransport.DetailResponse{}, err
	}
	return httptransport.DetailResponse{Detail: "if the account exists, a reset link has been sent"}, nil
}

func (h Handler) ResetPasswordHandler(
	ctx context.Context,
	req httptransport.ResetPasswordRequest,
) (httptransport.DetailResponse, error) {
	if err := h.Passwords.ResetPassword(ctx, commands.ResetPasswordCommand{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	}); err != nil {
		return httptransport.DetailResponse{}, err
	}
	return httptransport.DetailResponse{Detail: "password updated"}, nil
}

// ResolveIdentityHandler turns a raw bearer token into the caller identity.
func (h Handler) ResolveIdentityHandler(ctx context.Context, token string) (entities.Identity, error) {
	user, err := h.Identity.ResolveIdentity(ctx, token)
	if err != nil {
		return entities.Identity{}, err
	}
	return entities.Identity{UserID: user.UserID, Role: user.Role}, nil
}

func (h Handler) MeHandler(ctx context.Context, actor entities.Identity) (httptransport.UserResponse, error) {
	user, err := h.Identity.Me(ctx, actor)
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return mapUser(entities.UserSummary{User: user}), nil
}

func (h Handler) ListUsersHandler(ctx context.Context, actor entities.Identity) ([]httptransport.UserResponse, error) {
	users, err := h.Users.ListUsers(ctx, actor)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, mapUser(user))
	}
	return items, nil
}

func (h Handler) UpdateRoleHandler(
	ctx context.Context,
	actor entities.Identity,
	userID string,
	req httptransport.UpdateRoleRequest,
) (httptransport.UserResponse, error) {
	user, err := h.AdminUsers.UpdateRole(ctx, commands.UpdateRoleCommand{
		Actor:  actor,
		UserID: userID,
		Role:   entities.Role(req.Role),
	})
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return mapUser(entities.UserSummary{User: user}), nil
}

func (h Handler) DeleteUserHandler(
	ctx context.Context,
	actor entities.Identity,
	userID string,
) (httptransport.DetailResponse, error) {
	if err := h.AdminUsers.DeleteUser(ctx, commands.DeleteUserCommand{Actor: actor, UserID: userID}); err != nil {
		return httptransport.DetailResponse{}, err
	}
	return httptransport.DetailResponse{Detail: "user removed"}, nil
}

func mapUser(summary entities.UserSummary) httptransport.UserResponse {
	return httptransport.UserResponse{
		ID:             summary.User.UserID,
		Email:          summary.User.Email,
		FullName:       summary.User.FullName,
		Role:           string(summary.User.Role),
		QuestionsCount: summary.QuestionsCount,
		AnswersCount:   summary.AnswersCount,
		CreatedAt:      summary.User.CreatedAt,
		UpdatedAt:      summary.User.UpdatedAt,
	}
}

func mapToken(token entities.AccessToken) httptransport.TokenResponse {
	return httptransport.TokenResponse{
		AccessToken: token.Token,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
	}
}
