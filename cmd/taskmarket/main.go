package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"taskmarket/auth"
	"taskmarket/contract"
	"taskmarket/internal"
	"taskmarket/moderation"
	"taskmarket/projection"
	"taskmarket/repositories"
	"taskmarket/search"
	"taskmarket/services"
	"taskmarket/sink"
	"taskmarket/storage"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the calling shell.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
	exitUsage   = 3
)

func main() {
	code, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "taskmarket: %v\n", err)
	}
	os.Exit(code)
}

// run wires the services and executes one command. Every resource is released
// through defer before the exit code reaches main.
func run(args []string) (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	flags := flag.NewFlagSet("taskmarket", flag.ContinueOnError)
	flags.Usage = func() { usage(flags.Output()) }
	if err := flags.Parse(args); err != nil {
		return exitUsage, err
	}
	if flags.NArg() == 0 {
		usage(os.Stderr)
		return exitUsage, nil
	}
	cmd, ok := findCommand(flags.Arg(0))
	if !ok {
		usage(os.Stderr)
		return exitUsage, fmt.Errorf("unknown command %q", flags.Arg(0))
	}

	// 2. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Storage, index and services
	a, cleanup, err := newApp(ctx, config, logger)
	if err != nil {
		return exitRuntime, err
	}
	defer cleanup()

	if err := a.execute(ctx, cmd, flags.Args()[1:]); err != nil {
		a.out.failure(err, cmd.action)
		return exitRuntime, nil
	}
	a.out.notices(a.activity.Drain())
	return exitOK, nil
}

type app struct {
	auth     *services.AuthService
	posts    *services.PostService
	chats    *services.ChatService
	profiles *services.ProfileService
	activity *projection.Activity
	out      printer
	log      *slog.Logger
}

func newApp(ctx context.Context, config internal.Config, logger *slog.Logger) (*app, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	clock := func() time.Time { return time.Now().UTC() }

	store, closeStore, err := openStore(ctx, config, logger, clock)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeStore)

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	closers = append(closers, func() {
		logger.Debug("Closing Bluge...")
		_ = blugeWriter.Close()
	})

	blobs, err := storage.NewDiskBlobStore(config.BlobDir, logger)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to prepare blob dir: %w", err)
	}

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	censored, err := moderation.NewDefaultLoader().LoadAll("censored")
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to load censored words: %w", err)
	}
	moderator, err := moderation.NewModerator(censored.Words, charReplacement, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	logger.Debug("Moderation ready", "words", len(censored.Words), "languages", censored.Languages)

	tokens, err := auth.NewTokenIssuer(config.AuthSecret, config.AuthTokenDuration, clock)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	opts := config.ServiceOptions()
	index := search.NewPostIndex(blugeWriter, logger)
	postRepository := repositories.NewPostRepository(store)
	chatRepository := repositories.NewChatRepository(store)
	userRepository := repositories.NewUserRepository(store)
	activity := projection.NewActivity(clock)
	sinks := []contract.EventSink{sink.NewSearchSink(index, logger), activity}

	return &app{
		auth:     services.NewAuthService(userRepository, tokens, auth.NewFileSessionStore(config.SessionFile), opts, logger),
		posts:    services.NewPostService(postRepository, index, moderator, sinks, clock, opts, logger),
		chats:    services.NewChatService(postRepository, chatRepository, moderator, opts, logger),
		profiles: services.NewProfileService(userRepository, blobs, clock, opts, logger),
		activity: activity,
		out:      newPrinter(os.Stdout, config.Colours, clock),
		log:      logger,
	}, cleanup, nil
}

func openStore(ctx context.Context, config internal.Config, logger *slog.Logger, clock contract.Clock) (contract.DocumentStore, func(), error) {
	switch config.StoreBackend {
	case internal.BackendMongo:
		client, err := storage.ConnectMongo(ctx, config.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		store := storage.NewMongoStore(client.Database(config.MongoDatabase), logger, clock, config.SubscriptionRestartInterval, config.MongoWatch)
		return store, func() {
			_ = store.Close()
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}, nil
	default:
		db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
		if err != nil {
			return nil, nil, fmt.Errorf("database opening failed: %w", err)
		}
		store := storage.NewBadgerStore(db, logger, clock, config.SubscriptionRestartInterval)
		return store, func() {
			_ = store.Close()
			// Releases the database lock and flushes buffers.
			logger.Debug("Closing BadgerDB...")
			_ = db.Close()
		}, nil
	}
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath).WithLogger(storage.NewBadgerLogger(logger))
	if logger.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG)
	}
	return options.WithLoggingLevel(badger.ERROR)
}
