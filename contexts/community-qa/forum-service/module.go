package forumservice

import (
	"log/slog"

	httpadapter "moringadesk/contexts/community-qa/forum-service/adapters/http"
	"moringadesk/contexts/community-qa/forum-service/adapters/memory"
	application "moringadesk/contexts/community-qa/forum-service/application"
	"moringadesk/contexts/community-qa/forum-service/application/commands"
	"moringadesk/contexts/community-qa/forum-service/application/queries"
	"moringadesk/contexts/community-qa/forum-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Store  ports.UnitOfWork
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
	// Authors is optional; without it question author names stay empty.
	Authors ports.AuthorDirectory
}

func NewModule(deps Dependencies) Module {
	notifier := application.Notifier{
		Store:  deps.Store,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Questions: commands.QuestionUseCase{
				Store:  deps.Store,
				Clock:  deps.Clock,
				IDGen:  deps.IDGen,
				Logger: deps.Logger,
			},
			Answers: commands.AnswerUseCase{
				Store:    deps.Store,
				Notifier: notifier,
				Clock:    deps.Clock,
				IDGen:    deps.IDGen,
				Logger:   deps.Logger,
			},
			Votes: commands.VoteUseCase{
				Store:    deps.Store,
				Notifier: notifier,
				Clock:    deps.Clock,
				IDGen:    deps.IDGen,
				Logger:   deps.Logger,
			},
			Engagement: commands.EngagementUseCase{
				Store:  deps.Store,
				Clock:  deps.Clock,
				IDGen:  deps.IDGen,
				Logger: deps.Logger,
			},
			Flags: commands.FlagUseCase{
				Store:  deps.Store,
				Clock:  deps.Clock,
				IDGen:  deps.IDGen,
				Logger: deps.Logger,
			},
			Moderation: commands.ModerationUseCase{
				Store:  deps.Store,
				Logger: deps.Logger,
			},
			FAQs: commands.FAQUseCase{
				Store:  deps.Store,
				Clock:  deps.Clock,
				IDGen:  deps.IDGen,
				Logger: deps.Logger,
			},
			Notifications: commands.NotificationUseCase{
				Store:  deps.Store,
				Logger: deps.Logger,
			},
			Reads: queries.QuestionQueries{
				Store:  deps.Store,
				Clock:  deps.Clock,
				IDGen:  deps.IDGen,
				Logger: deps.Logger,
			},
			Community: queries.CommunityQueries{
				Store: deps.Store,
			},
			Authors: deps.Authors,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Store:  store,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
