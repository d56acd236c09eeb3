// Package app wires repositories, services and the HTTP surface together.
package app

import (
	"log/slog"
	"net/http"

	"github.com/rpggio/retroboard/internal/domain/board"
	"github.com/rpggio/retroboard/internal/domain/confetti"
	"github.com/rpggio/retroboard/internal/domain/folder"
	"github.com/rpggio/retroboard/internal/domain/note"
	"github.com/rpggio/retroboard/internal/domain/participant"
	"github.com/rpggio/retroboard/internal/domain/snapshot"
	"github.com/rpggio/retroboard/internal/domain/user"
	"github.com/rpggio/retroboard/internal/feed"
	"github.com/rpggio/retroboard/internal/mcp"
	"github.com/rpggio/retroboard/internal/realtime"
	"github.com/rpggio/retroboard/internal/rpc"
	"github.com/rpggio/retroboard/internal/sqlite"
	"github.com/rpggio/retroboard/internal/transport"
)

// Options controls optional parts of the wiring.
type Options struct {
	MCPEnabled     bool
	MCPAuthEnabled bool
	MCPDevUserID   string
	// CheckOrigin overrides the websocket same-origin policy.
	CheckOrigin func(r *http.Request) bool
}

// App holds the wired services and HTTP handler.
type App struct {
	Boards       *board.Service
	Snapshots    *snapshot.Service
	Notes        *note.Service
	Participants *participant.Service
	Confetti     *confetti.Service
	Folders      *folder.Service
	Users        *user.Service
	RPC          *rpc.Handler
	Handler      http.Handler
}

// New builds the application on db, publishing changes to broker.
func New(db *sqlite.DB, broker feed.Broker, logger *slog.Logger, opts Options) *App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	boardRepo := sqlite.NewBoardRepository(db)
	sectionRepo := sqlite.NewSectionRepository(db)
	noteRepo := sqlite.NewNoteRepository(db)
	voteRepo := sqlite.NewVoteRepository(db)
	participantRepo := sqlite.NewParticipantRepository(db)
	confettiRepo := sqlite.NewConfettiRepository(db)
	folderRepo := sqlite.NewFolderRepository(db)
	userRepo := sqlite.NewUserRepository(db)

	a := &App{
		Boards: board.NewService(board.Stores{
			Boards:       boardRepo,
			Sections:     sectionRepo,
			Notes:        noteRepo,
			Votes:        voteRepo,
			Participants: participantRepo,
			Confetti:     confettiRepo,
			Users:        userRepo,
		}, db, broker, logger),
		Snapshots: snapshot.NewService(snapshot.Reader{
			Boards:       boardRepo,
			Sections:     sectionRepo,
			Notes:        noteRepo,
			Votes:        voteRepo,
			Participants: participantRepo,
			Users:        userRepo,
		}, db, logger),
		Notes:        note.NewService(noteRepo, voteRepo, boardRepo, sectionRepo, db, broker, logger),
		Participants: participant.NewService(participantRepo, boardRepo, folderRepo, userRepo, db, broker, logger),
		Confetti:     confetti.NewService(confettiRepo, broker, logger),
		Folders:      folder.NewService(folderRepo, participantRepo, db, logger),
		Users:        user.NewService(userRepo, userRepo, db, logger),
	}

	a.RPC = rpc.NewHandler(rpc.Services{
		Boards:       a.Boards,
		Snapshots:    a.Snapshots,
		Notes:        a.Notes,
		Participants: a.Participants,
		Confetti:     a.Confetti,
		Folders:      a.Folders,
		Users:        a.Users,
	})

	hub := realtime.NewHub(realtime.Config{
		Snapshots:   a.Snapshots,
		Presence:    a.Participants,
		Confetti:    a.Confetti,
		Feed:        broker,
		Logger:      logger,
		CheckOrigin: opts.CheckOrigin,
	})

	var mcpHandler http.Handler
	if opts.MCPEnabled {
		mcpHandler = mcp.NewHTTPHandler(mcp.NewServer(mcp.Config{
			Dispatcher:  a.RPC,
			Resolver:    a.Users,
			AuthEnabled: opts.MCPAuthEnabled,
			DevUserID:   opts.MCPDevUserID,
			Logger:      logger,
		}))
	}

	a.Handler = transport.NewServer(transport.Config{
		RPC:       a.RPC,
		Registrar: a.Users,
		Realtime:  hub,
		MCP:       mcpHandler,
		Identity:  transport.IdentityMiddleware(a.Users),
		Logger:    logger,
	})
	return a
}
