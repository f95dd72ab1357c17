package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/park285/cheese-chess/internal/adapter/chesspresenter"
	appcfg "github.com/park285/cheese-chess/internal/config"
	"github.com/park285/cheese-chess/internal/irisfast"
	"github.com/park285/cheese-chess/internal/msgcat"
	"github.com/park285/cheese-chess/internal/obslog"
	"github.com/park285/cheese-chess/internal/pvpchan"
	"github.com/park285/cheese-chess/internal/pvpchess"
	"github.com/park285/cheese-chess/internal/render"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("log init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	headers := func() map[string]string {
		return map[string]string{
			"X-User-Id":    cfg.XUserID,
			"X-User-Email": cfg.XUserEmail,
			"X-Session-Id": cfg.XSessionID,
		}
	}
	client := irisfast.NewClient(cfg.IrisBaseURL, irisfast.WithHeaderProvider(headers), irisfast.WithLogger(logger))
	ws := irisfast.NewWebSocket(cfg.IrisWSURL, 5, time.Second)
	ws.SetHeaderProvider(headers)
	ws.SetLogger(logger)
	ws.OnStateChange(func(state irisfast.WebSocketState) {
		logger.Info("ws_state", zap.String("state", string(state)))
	})
	egress := irisfast.NewEgress(cfg.EgressMode, cfg.EgressDryRun, client, ws, logger)

	opts := []pvpchess.Option{
		pvpchess.WithLogger(logger),
		pvpchess.WithSimulation(cfg.Simulation),
		pvpchess.WithTTL(cfg.GameTTL()),
	}
	if cfg.RenderImage {
		opts = append(opts, pvpchess.WithRenderer(render.NewBoardRenderer()))
	}
	var pg *pvpchess.PostgresRepository
	if cfg.DatabaseURL != "" {
		pg, err = pvpchess.NewPostgresRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres init error: %v", err)
		}
		opts = append(opts, pvpchess.WithRepository(pg))
	} else {
		logger.Warn("results_in_memory", zap.String("reason", "DATABASE_URL not set"))
	}
	games, err := pvpchess.NewManager(cfg.RedisURL, opts...)
	if err != nil {
		log.Fatalf("game manager init error: %v", err)
	}

	b := &bot{
		cfg:   cfg,
		games: games,
		lobby: pvpchan.NewManager(games.Redis(), games, cfg.ChallengeTTL()),
		presenter: chesspresenter.NewPresenter(
			func(room, message string) error { return egress.SendText(context.Background(), room, message) },
			func(room, imageBase64 string) error { return egress.SendImage(context.Background(), room, imageBase64) },
		),
		formatter: chesspresenter.NewFormatter(catalog, prefixProvider{prefix: cfg.BotPrefix}),
		log:       logger,
	}
	ws.OnMessage(func(msg *irisfast.Message) {
		if !b.accepts(msg) {
			return
		}
		// keep the read loop free
		go b.handle(context.Background(), msg)
	})

	cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ws.Connect(cctx); err != nil {
		cancel()
		log.Fatalf("ws connect error: %v", err)
	}
	cancel()
	logger.Info("bot_started", zap.String("prefix", cfg.BotPrefix), zap.String("egress", cfg.EgressMode))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer scancel()
	_ = ws.Close(sctx)
	_ = games.Close()
	if pg != nil {
		_ = pg.Close()
	}
}
