// Command irischeck verifies gateway connectivity: it optionally posts a
// probe message to a room, then prints WebSocket traffic for a while.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/park285/cheese-chess/internal/irisfast"
	"github.com/park285/cheese-chess/internal/obslog"
)

func main() {
	room := flag.String("room", "", "post a probe message to this room")
	text := flag.String("text", "chess bot connectivity check", "probe message text")
	watch := flag.Duration("watch", 10*time.Second, "how long to print WebSocket messages")
	flag.Parse()

	baseURL := strings.TrimSpace(os.Getenv("IRIS_BASE_URL"))
	wsURL := strings.TrimSpace(os.Getenv("IRIS_WS_URL"))
	if baseURL == "" {
		log.Fatal("IRIS_BASE_URL is required")
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("log init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	headers := func() map[string]string {
		return map[string]string{
			"X-User-Id":    os.Getenv("X_USER_ID"),
			"X-User-Email": os.Getenv("X_USER_EMAIL"),
			"X-Session-Id": os.Getenv("X_SESSION_ID"),
		}
	}
	client := irisfast.NewClient(baseURL,
		irisfast.WithHeaderProvider(headers),
		irisfast.WithTimeout(8*time.Second),
		irisfast.WithLogger(logger),
	)

	if *room != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := client.SendMessage(ctx, *room, *text)
		cancel()
		if err != nil {
			logger.Error("probe_failed", zap.String("room", *room), zap.Error(err))
		} else {
			logger.Info("probe_sent", zap.String("room", *room))
		}
	}

	if wsURL == "" {
		logger.Info("ws_check_skipped", zap.String("reason", "IRIS_WS_URL not set"))
		return
	}
	ws := irisfast.NewWebSocket(wsURL, 5, time.Second)
	ws.SetHeaderProvider(headers)
	ws.SetLogger(logger)
	ws.OnStateChange(func(state irisfast.WebSocketState) {
		logger.Info("ws_state", zap.String("state", string(state)))
	})
	ws.OnMessage(func(msg *irisfast.Message) {
		fmt.Printf("room=%s user=%s from=%s text=%q\n", msg.Room, msg.UserID(), msg.SenderName(), msg.Msg)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ws.Connect(ctx); err != nil {
		logger.Error("ws_connect_failed", zap.Error(err))
		return
	}
	time.Sleep(*watch)

	cctx, ccancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer ccancel()
	_ = ws.Close(cctx)
}
