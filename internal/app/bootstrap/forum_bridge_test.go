package bootstrap

import (
	"context"
	"log/slog"
	"testing"

	forumservice "moringadesk/contexts/community-qa/forum-service"
	"moringadesk/contexts/community-qa/forum-service/application/queries"
	forumentities "moringadesk/contexts/community-qa/forum-service/domain/entities"
	forumhttp "moringadesk/contexts/community-qa/forum-service/transport/http"
	auth "moringadesk/contexts/identity-access/auth-service"
	authentities "moringadesk/contexts/identity-access/auth-service/domain/entities"
	authhttp "moringadesk/contexts/identity-access/auth-service/transport/http"
)

func TestForumContentBridgeDeletesUserContentOnAccountRemoval(t *testing.T) {
	ctx := context.Background()
	forum := forumservice.NewInMemoryModule(slog.Default())
	authModule := auth.NewInMemoryModule(slog.Default(), "bridge-secret")
	bridge := ForumContentBridge{Forum: forum}
	authModule.Handler.AdminUsers.Content = bridge
	authModule.Handler.Users.Content = bridge

	student, err := authModule.Handler.RegisterHandler(ctx, authhttp.RegisterRequest{
		Email: "student@example.com", FullName: "Student", Password: "password123",
	})
	if err != nil {
		t.Fatalf("register student: %v", err)
	}
	admin, err := authModule.Handler.RegisterHandler(ctx, authhttp.RegisterRequest{
		Email: "admin@example.com", FullName: "Admin", Password: "password123",
	})
	if err != nil {
		t.Fatalf("register admin: %v", err)
	}
	if _, err := authModule.Handler.AdminUsers.PromoteAdmin(ctx, "admin@example.com"); err != nil {
		t.Fatalf("promote admin: %v", err)
	}

	actor := forumentities.Actor{UserID: student.User.ID, Role: forumentities.RoleStudent}
	question, err := forum.Handler.CreateQuestionHandler(ctx, actor, forumhttp.CreateQuestionRequest{
		Title: "Why does my migration hang?",
		Body:  "AutoMigrate never returns on the second run.",
	})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}

	adminIdentity := authentities.Identity{UserID: admin.User.ID, Role: authentities.RoleAdmin}
	users, err := authModule.Handler.ListUsersHandler(ctx, adminIdentity)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	var counted bool
	for _, user := range users {
		if user.ID == student.User.ID {
			counted = user.QuestionsCount == 1
		}
	}
	if !counted {
		t.Fatalf("expected student question count 1, got %+v", users)
	}

	if _, err := authModule.Handler.DeleteUserHandler(ctx, adminIdentity, student.User.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := forum.Handler.QuestionDetailHandler(ctx, question.ID, queries.Viewer{}); err == nil {
		t.Fatalf("expected question to be purged with its author")
	}
}

func TestForumContentBridgeStatsEmpty(t *testing.T) {
	bridge := ForumContentBridge{Forum: forumservice.NewInMemoryModule(slog.Default())}
	stats, err := bridge.ContentStats(context.Background())
	if err != nil {
		t.Fatalf("content stats: %v", err)
	}
	if len(stats.Questions) != 0 || len(stats.Answers) != 0 {
		t.Fatalf("expected empty stats, got %+v", stats)
	}
}

func TestNormalizeAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000", " 80 ": ":80"}
	for input, want := range cases {
		if got := normalizeAddr(input); got != want {
			t.Fatalf("normalizeAddr(%q) = %q, want %q", input, got, want)
		}
	}
}
