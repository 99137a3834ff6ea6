package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	auth "moringadesk/contexts/identity-access/auth-service"
	"moringadesk/contexts/identity-access/auth-service/adapters/memory"
	"moringadesk/contexts/identity-access/auth-service/adapters/security"
	"moringadesk/contexts/identity-access/auth-service/domain/entities"
	domainerrors "moringadesk/contexts/identity-access/auth-service/domain/errors"
	httptransport "moringadesk/contexts/identity-access/auth-service/transport/http"
)

const testSecret = "test-secret-with-enough-entropy"

type captureSender struct {
	tokens map[string]string
}

func (s *captureSender) SendResetToken(_ context.Context, user entities.User, rawToken string, _ time.Time) error {
	s.tokens[user.Email] = rawToken
	return nil
}

type movableClock struct {
	now time.Time
}

func (c *movableClock) Now() time.Time {
	return c.now
}

func register(t *testing.T, module auth.Module, email string) httptransport.RegisterResponse {
	t.Helper()
	resp, err := module.Handler.RegisterHandler(context.Background(), httptransport.RegisterRequest{
		Email:    email,
		FullName: "Test Learner",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return resp
}

func TestRegisterLoginAndResolve(t *testing.T) {
	ctx := context.Background()
	module := auth.NewInMemoryModule(nil, testSecret)

	registered := register(t, module, "  Learner@Example.COM ")
	if registered.User.Email != "learner@example.com" {
		t.Fatalf("expected normalized email, got %s", registered.User.Email)
	}
	if registered.User.Role != "student" {
		t.Fatalf("expected student role, got %s", registered.User.Role)
	}
	if registered.Token.TokenType != "bearer" || registered.Token.AccessToken == "" {
		t.Fatalf("expected bearer token, got %+v", registered.Token)
	}

	token, err := module.Handler.LoginHandler(ctx, httptransport.LoginRequest{
		Email:    "learner@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	identity, err := module.Handler.ResolveIdentityHandler(ctx, token.AccessToken)
	if err != nil {
		t.Fatalf("resolve identity failed: %v", err)
	}
	if identity.UserID != registered.User.ID || identity.Role != entities.RoleStudent {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	me, err := module.Handler.MeHandler(ctx, identity)
	if err != nil {
		t.Fatalf("me failed: %v", err)
	}
	if me.Email != "learner@example.com" {
		t.Fatalf("unexpected profile: %+v", me)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	module := auth.NewInMemoryModule(nil, testSecret)
	register(t, module, "dup@example.com")

	_, err := module.Handler.RegisterHandler(context.Background(), httptransport.RegisterRequest{
		Email: "DUP@example.com", FullName: "Another", Password: "another-pass",
	})
	if !errors.Is(err, domainerrors.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
}

func TestRegisterLeavesNoAccountWhenTokenSigningFails(t *testing.T) {
	ctx := context.Background()
	module := auth.NewInMemoryModule(nil, "")
	req := httptransport.RegisterRequest{Email: "unsigned@example.com", FullName: "Unsigned", Password: "correct-horse"}

	if _, err := module.Handler.RegisterHandler(ctx, req); err == nil {
		t.Fatalf("expected registration to fail without a signing secret")
	}
	_, err := module.Handler.RegisterHandler(ctx, req)
	if err == nil || errors.Is(err, domainerrors.ErrEmailTaken) {
		t.Fatalf("expected the retry to fail on signing again, got %v", err)
	}
	_, err = module.Handler.LoginHandler(ctx, httptransport.LoginRequest{Email: req.Email, Password: req.Password})
	if !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected no stored account, got %v", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	module := auth.NewInMemoryModule(nil, testSecret)
	_, err := module.Handler.RegisterHandler(context.Background(), httptransport.RegisterRequest{
		Email: "short@example.com", FullName: "Short", Password: "1234567",
	})
	if !errors.Is(err, domainerrors.ErrWeakPassword) {
		t.Fatalf("expected weak password, got %v", err)
	}
}

func TestLoginFailuresLookAlike(t *testing.T) {
	ctx := context.Background()
	module := auth.NewInMemoryModule(nil, testSecret)
	register(t, module, "login@example.com")

	_, wrongPassword := module.Handler.LoginHandler(ctx, httptransport.LoginRequest{Email: "login@example.com", Password: "wrong-password"})
	_, unknownEmail := module.Handler.LoginHandler(ctx, httptransport.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	if !errors.Is(wrongPassword, domainerrors.ErrInvalidCredentials) || !errors.Is(unknownEmail, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for both, got %v and %v", wrongPassword, unknownEmail)
	}
}

func TestResolveIdentityRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	module := auth.NewInMemoryModule(nil, testSecret)
	registered := register(t, module, "tokens@example.com")

	if _, err := module.Handler.ResolveIdentityHandler(ctx, "not-a-jwt"); !errors.Is(err, domainerrors.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
	other := auth.NewInMemoryModule(nil, "a-different-secret")
	if _, err := other.Handler.ResolveIdentityHandler(ctx, registered.Token.AccessToken); !errors.Is(err, domainerrors.ErrInvalidToken) {
		t.Fatalf("expected signature mismatch to be rejected, got %v", err)
	}

	admin := register(t, module, "admin@example.com")
	if _, err := module.Handler.AdminUsers.PromoteAdmin(ctx, "admin@example.com"); err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	adminIdentity := entities.Identity{UserID: admin.User.ID, Role: entities.RoleAdmin}
	if _, err := module.Handler.DeleteUserHandler(ctx, adminIdentity, registered.User.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	_, err := module.Handler.ResolveIdentityHandler(ctx, registered.Token.AccessToken)
	if !errors.Is(err, domainerrors.ErrTokenUserMissing) || domainerrors.KindOf(err) != domainerrors.KindUnauthorized {
		t.Fatalf("expected unauthorized user not found, got %v", err)
	}
}

func newResetModule(clock *movableClock, sender *captureSender) (auth.Module, *memory.Store) {
	store := memory.NewStore()
	module := auth.NewModule(auth.Dependencies{
		Store:       store,
		Hasher:      security.BcryptHasher{Cost: 4},
		Tokens:      security.JWTIssuer{Secret: []byte(testSecret), Clock: clock},
		ResetTokens: security.RandomResetTokens{},
		Sender:      sender,
		Content:     &memory.ForumContent{},
		Clock:       clock,
		IDGen:       store,
		ResetTTL:    30 * time.Minute,
	})
	return module, store
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	clock := &movableClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	sender := &captureSender{tokens: map[string]string{}}
	module, store := newResetModule(clock, sender)
	registered := register(t, module, "reset@example.com")

	if _, err := module.Handler.ForgotPasswordHandler(ctx, httptransport.ForgotPasswordRequest{Email: "ghost@example.com"}); err != nil {
		t.Fatalf("unknown email should succeed silently, got %v", err)
	}
	if len(sender.tokens) != 0 {
		t.Fatalf("expected no token for unknown email")
	}

	if _, err := module.Handler.ForgotPasswordHandler(ctx, httptransport.ForgotPasswordRequest{Email: "reset@example.com"}); err != nil {
		t.Fatalf("forgot password failed: %v", err)
	}
	raw := sender.tokens["reset@example.com"]
	if raw == "" {
		t.Fatalf("expected a reset token to be delivered")
	}

	if _, err := module.Handler.ResetPasswordHandler(ctx, httptransport.ResetPasswordRequest{Token: "bogus", NewPassword: "new-password"}); !errors.Is(err, domainerrors.ErrInvalidResetToken) {
		t.Fatalf("expected invalid reset token, got %v", err)
	}
	if _, err := module.Handler.ResetPasswordHandler(ctx, httptransport.ResetPasswordRequest{Token: raw, NewPassword: "new-password"}); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if store.ResetTokenCount(registered.User.ID) != 0 {
		t.Fatalf("expected reset tokens to be burned")
	}
	if _, err := module.Handler.LoginHandler(ctx, httptransport.LoginRequest{Email: "reset@example.com", Password: "correct-horse"}); !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected old password to fail, got %v", err)
	}
	if _, err := module.Handler.LoginHandler(ctx, httptransport.LoginRequest{Email: "reset@example.com", Password: "new-password"}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, err := module.Handler.ResetPasswordHandler(ctx, httptransport.ResetPasswordRequest{Token: raw, NewPassword: "third-password"}); !errors.Is(err, domainerrors.ErrInvalidResetToken) {
		t.Fatalf("expected used token to be rejected, got %v", err)
	}
}

func TestPasswordResetTokenExpires(t *testing.T) {
	ctx := context.Background()
	clock := &movableClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	sender := &captureSender{tokens: map[string]string{}}
	module, _ := newResetModule(clock, sender)
	register(t, module, "late@example.com")

	if _, err := module.Handler.ForgotPasswordHandler(ctx, httptransport.ForgotPasswordRequest{Email: "late@example.com"}); err != nil {
		t.Fatalf("forgot password failed: %v", err)
	}
	clock.now = clock.now.Add(31 * time.Minute)
	_, err := module.Handler.ResetPasswordHandler(ctx, httptransport.ResetPasswordRequest{
		Token: sender.tokens["late@example.com"], NewPassword: "new-password",
	})
	if !errors.Is(err, domainerrors.ErrInvalidResetToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestAdminUserManagement(t *testing.T) {
	ctx := context.Background()
	module := auth.NewInMemoryModule(nil, testSecret)
	admin := register(t, module, "boss@example.com")
	student := register(t, module, "student@example.com")
	if promoted, err := module.Handler.AdminUsers.PromoteAdmin(ctx, "BOSS@example.com"); err != nil || !promoted {
		t.Fatalf("expected promotion, got %v %v", promoted, err)
	}
	adminIdentity := entities.Identity{UserID: admin.User.ID, Role: entities.RoleAdmin}
	studentIdentity := entities.Identity{UserID: student.User.ID, Role: entities.RoleStudent}
	module.Content.Stats = entities.ContentStats{
		Questions: map[string]int{student.User.ID: 3},
		Answers:   map[string]int{student.User.ID: 5},
	}

	if _, err := module.Handler.ListUsersHandler(ctx, studentIdentity); !errors.Is(err, domainerrors.ErrAdminOnly) {
		t.Fatalf("expected admin only, got %v", err)
	}
	users, err := module.Handler.ListUsersHandler(ctx, adminIdentity)
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	for _, user := range users {
		if user.ID == student.User.ID && (user.QuestionsCount != 3 || user.AnswersCount != 5) {
			t.Fatalf("expected content counts on student, got %+v", user)
		}
	}

	if _, err := module.Handler.UpdateRoleHandler(ctx, adminIdentity, admin.User.ID, httptransport.UpdateRoleRequest{Role: "student"}); !errors.Is(err, domainerrors.ErrCannotChangeOwnRole) {
		t.Fatalf("expected own role change rejected, got %v", err)
	}
	updated, err := module.Handler.UpdateRoleHandler(ctx, adminIdentity, student.User.ID, httptransport.UpdateRoleRequest{Role: "admin"})
	if err != nil {
		t.Fatalf("update role failed: %v", err)
	}
	if updated.Role != "admin" {
		t.Fatalf("expected admin role, got %s", updated.Role)
	}
	if _, err := module.Handler.UpdateRoleHandler(ctx, adminIdentity, "missing", httptransport.UpdateRoleRequest{Role: "admin"}); !errors.Is(err, domainerrors.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}

	if _, err := module.Handler.DeleteUserHandler(ctx, adminIdentity, admin.User.ID); !errors.Is(err, domainerrors.ErrCannotDeleteSelf) {
		t.Fatalf("expected self delete rejected, got %v", err)
	}
	if _, err := module.Handler.DeleteUserHandler(ctx, adminIdentity, student.User.ID); err != nil {
		t.Fatalf("delete user failed: %v", err)
	}
	if len(module.Content.Purged) != 1 || module.Content.Purged[0] != student.User.ID {
		t.Fatalf("expected forum content purge before delete, got %v", module.Content.Purged)
	}
	if _, err := module.Handler.DeleteUserHandler(ctx, adminIdentity, student.User.ID); !errors.Is(err, domainerrors.ErrUserNotFound) {
		t.Fatalf("expected user not found on repeat delete, got %v", err)
	}
}

func TestDeleteUserKeepsAccountWhenPurgeFails(t *testing.T) {
	ctx := context.Background()
	module := auth.NewInMemoryModule(nil, testSecret)
	admin := register(t, module, "root@example.com")
	target := register(t, module, "target@example.com")
	module.Content.PurgeFn = func(string) error { return errors.New("forum unavailable") }

	_, err := module.Handler.DeleteUserHandler(ctx, entities.Identity{UserID: admin.User.ID, Role: entities.RoleAdmin}, target.User.ID)
	if err == nil {
		t.Fatalf("expected purge failure to surface")
	}
	if _, err := module.Handler.LoginHandler(ctx, httptransport.LoginRequest{Email: "target@example.com", Password: "correct-horse"}); err != nil {
		t.Fatalf("expected account to survive failed purge, got %v", err)
	}
}

func TestDisplayNamesSkipsUnknownIDs(t *testing.T) {
	module := auth.NewInMemoryModule(nil, testSecret)
	learner := register(t, module, "named@example.com")

	names, err := module.Handler.Identity.DisplayNames(context.Background(), []string{learner.User.ID, "ghost", " " + learner.User.ID, ""})
	if err != nil {
		t.Fatalf("display names failed: %v", err)
	}
	if len(names) != 1 || names[learner.User.ID] != "Test Learner" {
		t.Fatalf("expected only the registered learner, got %+v", names)
	}
}
