package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"healthbot/pkg/bot"
	"healthbot/pkg/clock"
	"healthbot/pkg/config"
	"healthbot/pkg/kv"
	"healthbot/pkg/llm"
	"healthbot/pkg/logging"
	"healthbot/pkg/media"
	"healthbot/pkg/metrics"
	"healthbot/pkg/record"
	"healthbot/pkg/surreal"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:          "healthbot",
		Short:        "Discord health assistant",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml", "path to the YAML config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Connect to Discord and serve users",
			RunE:  func(cmd *cobra.Command, args []string) error { return run(cmd.Context()) },
		},
		&cobra.Command{
			Use:   "show <user-id>",
			Short: "Print a stored user record as JSON",
			Args:  cobra.ExactArgs(1),
			RunE:  func(cmd *cobra.Command, args []string) error { return show(cmd.Context(), args[0]) },
		},
		&cobra.Command{
			Use:   "check-config",
			Short: "Validate the config file and required environment",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, _, err := load()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "config ok: backend=%s model=%s timezone=%s\n",
					cfg.Store.Backend, cfg.Model.Name, cfg.Timezone)
				return nil
			},
		},
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// load reads config.yml and the environment. A missing .env is fine.
func load() (*config.Config, config.Secrets, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, config.Secrets{}, fmt.Errorf("load config: %w", err)
	}
	_ = godotenv.Load()

	secrets := config.SecretsFromEnv()
	if err := secrets.Require(cfg.Store.Backend); err != nil {
		return nil, config.Secrets{}, err
	}
	return cfg, secrets, nil
}

// openKV connects the configured record backend. The returned func releases
// it.
func openKV(ctx context.Context, cfg *config.Config, secrets config.Secrets, logger *zap.Logger) (record.KV, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		r, err := kv.NewRedis(cfg.Store.RedisURL, cfg.Store.KeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using redis record store", zap.String("prefix", cfg.Store.KeyPrefix))
		return r, func() { _ = r.Close() }, nil

	case config.BackendSurreal:
		url := cfg.SurrealURL()
		logger.Info("connecting to surrealdb",
			zap.String("url", url),
			zap.String("namespace", cfg.Store.Surreal.Namespace),
			zap.String("database", cfg.Store.Surreal.Database))
		client, err := surreal.NewClient(ctx, url, secrets.SurrealUser, secrets.SurrealPass,
			cfg.Store.Surreal.Namespace, cfg.Store.Surreal.Database)
		if err != nil {
			return nil, nil, err
		}
		s, err := kv.NewSurreal(ctx, client, cfg.Store.Surreal.Table)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		return s, client.Close, nil

	default:
		logger.Warn("using in-memory record store, records are lost on restart")
		return kv.NewMemory(), func() {}, nil
	}
}

func run(ctx context.Context) error {
	cfg, secrets, err := load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backing, closeKV, err := openKV(ctx, cfg, secrets, logger)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer closeKV()

	reg := prometheus.NewRegistry()
	m := metrics.MustNewMetrics(reg)
	if cfg.Metrics.Addr != "" {
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", zap.Error(err))
			}
		}()
		defer srv.Close()
		logger.Info("serving metrics", zap.String("addr", cfg.Metrics.Addr))
	}

	photos := media.NewPhotoProcessor(media.Options{
		Quality:   cfg.Photo.Quality,
		MaxWidth:  cfg.Photo.MaxWidth,
		MaxHeight: cfg.Photo.MaxHeight,
		Threshold: cfg.Photo.ThresholdBytes,
	})
	generator := llm.NewClient(llm.Config{
		BaseURL:     cfg.Model.BaseURL,
		APIKey:      secrets.APIKey,
		Model:       cfg.Model.Name,
		VisionModel: cfg.Model.VisionName,
		Temperature: cfg.Model.Temperature,
		MaxTokens:   cfg.Model.MaxTokens,
		Timeout:     cfg.Timeout(),
	}, photos)

	clk := clock.New(cfg.Location())
	handler := bot.NewHandler(record.NewStore(backing), generator, clk, bot.Awards{
		ProfileFirstTime: cfg.Awards.ProfileFirstTime,
		ProfileUpdate:    cfg.Awards.ProfileUpdate,
		Workout:          cfg.Awards.Workout,
		Mood:             cfg.Awards.Mood,
	}, m, logger)
	// A turn may include several model calls plus the store round trips.
	transport := bot.NewTransport(handler, logger, 3*cfg.Timeout())

	dg, err := discordgo.New("Bot " + secrets.DiscordToken)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsDirectMessages | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	dg.AddHandler(transport.MessageCreate)
	dg.AddHandler(transport.InteractionCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("open discord connection: %w", err)
	}
	defer dg.Close()

	transport.SetBotID(dg.State.User.ID)

	// An empty guild id registers commands globally, which can take up to an
	// hour to propagate.
	registered, err := bot.RegisterSlashCommands(dg, dg.State.User.ID, secrets.GuildID, logger)
	if err != nil {
		return fmt.Errorf("register slash commands: %w", err)
	}
	defer func() {
		if err := bot.UnregisterSlashCommands(dg, dg.State.User.ID, secrets.GuildID, registered, logger); err != nil {
			logger.Warn("unregister slash commands", zap.Error(err))
		}
	}()

	go bot.RunPresence(ctx, dg, clk, 15*time.Minute, logger)

	logger.Info("healthbot is running, press CTRL-C to exit",
		zap.String("backend", cfg.Store.Backend),
		zap.String("model", cfg.Model.Name))
	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

func show(ctx context.Context, userID string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	_ = godotenv.Load()

	logger, err := logging.New("warn", false)
	if err != nil {
		return err
	}
	backing, closeKV, err := openKV(ctx, cfg, config.SecretsFromEnv(), logger)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer closeKV()

	rec, err := record.NewStore(backing).Load(ctx, userID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}
