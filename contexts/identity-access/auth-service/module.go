package auth

import (
	"log/slog"
	"time"

	httpadapter "moringadesk/contexts/identity-access/auth-service/adapters/http"
	"moringadesk/contexts/identity-access/auth-service/adapters/memory"
	"moringadesk/contexts/identity-access/auth-service/adapters/notify"
	"moringadesk/contexts/identity-access/auth-service/adapters/security"
	"moringadesk/contexts/identity-access/auth-service/application/commands"
	"moringadesk/contexts/identity-access/auth-service/application/queries"
	"moringadesk/contexts/identity-access/auth-service/ports"
)

// Module is the auth-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
	Content *memory.ForumContent
}

type Dependencies struct {
	Store       ports.UnitOfWork
	Hasher      ports.PasswordHasher
	Tokens      ports.TokenIssuer
	ResetTokens ports.ResetTokenFactory
	Sender      ports.ResetTokenSender
	Content     ports.ForumContent
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	ResetTTL    time.Duration
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Accounts: commands.AccountUseCase{
				Store:  deps.Store,
				Hasher: deps.Hasher,
				Tokens: deps.Tokens,
				Clock:  deps.Clock,
				IDGen:  deps.IDGen,
				Logger: deps.Logger,
			},
			Passwords: commands.PasswordResetUseCase{
				Store:   deps.Store,
				Hasher:  deps.Hasher,
				Factory: deps.ResetTokens,
				Sender:  deps.Sender,
				Clock:   deps.Clock,
				IDGen:   deps.IDGen,
				TTL:     deps.ResetTTL,
				Logger:  deps.Logger,
			},
			AdminUsers: commands.AdminUserUseCase{
				Store:   deps.Store,
				Content: deps.Content,
				Clock:   deps.Clock,
				Logger:  deps.Logger,
			},
			Identity: queries.IdentityQueries{
				Store:  deps.Store,
				Tokens: deps.Tokens,
				Logger: deps.Logger,
			},
			Users: queries.UserQueries{
				Store:   deps.Store,
				Content: deps.Content,
				Logger:  deps.Logger,
			},
			Logger: deps.Logger,
		},
	}
}

// NewInMemoryModule builds a module over in-memory storage and a stand-in
// forum. Passwords use the minimum bcrypt cost to keep tests fast.
func NewInMemoryModule(logger *slog.Logger, secret string) Module {
	store := memory.NewStore()
	content := &memory.ForumContent{}
	module := NewModule(Dependencies{
		Store:       store,
		Hasher:      security.BcryptHasher{Cost: 4},
		Tokens:      security.JWTIssuer{Secret: []byte(secret), Issuer: "moringadesk", TTL: time.Hour, Clock: store},
		ResetTokens: security.RandomResetTokens{},
		Sender:      notify.LogSender{Logger: logger},
		Content:     content,
		Clock:       store,
		IDGen:       store,
		Logger:      logger,
	})
	module.Store = store
	module.Content = content
	return module
}
