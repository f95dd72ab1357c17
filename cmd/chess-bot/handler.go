package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/park285/cheese-chess/internal/adapter/chesspresenter"
	"github.com/park285/cheese-chess/internal/config"
	"github.com/park285/cheese-chess/internal/engine"
	"github.com/park285/cheese-chess/internal/irisfast"
	"github.com/park285/cheese-chess/internal/pvpchan"
	"github.com/park285/cheese-chess/internal/pvpchess"
	"github.com/park285/cheese-chess/pkg/chessdto"
)

const (
	commandTimeout = 15 * time.Second
	historyLimit   = 10
)

type bot struct {
	cfg       *config.AppConfig
	games     *pvpchess.Manager
	lobby     *pvpchan.Manager
	presenter *chesspresenter.Presenter
	formatter *chesspresenter.Formatter
	log       *zap.Logger
}

type prefixProvider struct{ prefix string }

func (p prefixProvider) Prefix() string { return p.prefix }

// accepts filters messages before a goroutine is spent on them.
func (b *bot) accepts(msg *irisfast.Message) bool {
	if msg == nil || strings.TrimSpace(msg.Msg) == "" {
		return false
	}
	if !b.cfg.RoomAllowed(msg.Room) {
		b.log.Debug("room_ignored", zap.String("room", msg.Room))
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(msg.Msg), b.cfg.BotPrefix)
}

func (b *bot) handle(ctx context.Context, msg *irisfast.Message) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(msg.Msg), b.cfg.BotPrefix))
	parts := strings.Fields(raw)
	if len(parts) == 0 {
		return
	}
	switch strings.ToLower(parts[0]) {
	case "chess":
	case "help":
		b.reply(msg.Room, b.formatter.Help())
		return
	default:
		return
	}

	meta := chessdto.RequestMeta{Room: msg.Room, Sender: msg.UserID(), SenderName: msg.SenderName()}
	if meta.SenderName == "" {
		meta.SenderName = meta.Sender
	}
	if meta.Sender == "" {
		b.log.Warn("sender_unknown", zap.String("room", msg.Room))
		return
	}
	args := parts[1:]
	sub := ""
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
	}

	switch sub {
	case "", "help":
		b.reply(msg.Room, b.formatter.Help())
	case "start":
		b.start(ctx, startRequest(meta, args[1:], msg.MentionedUserIDs()))
	case "open":
		color := ""
		if len(args) > 1 {
			color = strings.ToLower(args[1])
		}
		b.open(ctx, meta, pvpchan.ParseColorChoice(color))
	case "join", "accept":
		code := ""
		if len(args) > 1 {
			code = args[1]
		}
		b.join(ctx, meta, code)
	case "cancel":
		b.cancel(ctx, meta)
	case "status":
		b.status(ctx, meta)
	case "moves":
		if len(args) != 2 {
			b.fail(meta, chessdto.DomainError{Code: chessdto.CodeBadNotation})
			return
		}
		b.moves(ctx, chessdto.MovesRequest{Meta: meta, Square: args[1]})
	case "resign":
		b.resign(ctx, meta)
	case "new", "restart":
		b.restart(ctx, meta)
	case "history":
		b.history(ctx, meta)
	default:
		from, to, ok := splitMove(args)
		if !ok {
			b.fail(meta, chessdto.DomainError{Code: chessdto.CodeBadNotation})
			return
		}
		b.move(ctx, chessdto.MoveRequest{Meta: meta, From: from, To: to})
	}
}

// startRequest reads "[@opponent] [white|black|random]". A mention in the
// message payload wins over a typed name.
func startRequest(meta chessdto.RequestMeta, args, mentions []string) chessdto.StartRequest {
	req := chessdto.StartRequest{Meta: meta, Color: "white"}
	for _, a := range args {
		switch v := strings.ToLower(a); {
		case v == "white" || v == "w":
			req.Color = "white"
		case v == "black" || v == "b":
			req.Color = "black"
		case v == "random":
			req.Color = "random"
		case strings.HasPrefix(a, "@") && len(a) > 1:
			req.OpponentName = strings.TrimPrefix(a, "@")
			req.Opponent = req.OpponentName
		}
	}
	if len(mentions) > 0 {
		req.Opponent = mentions[0]
		if req.OpponentName == "" {
			req.OpponentName = mentions[0]
		}
	}
	return req
}

func splitMove(args []string) (string, string, bool) {
	switch {
	case len(args) == 2 && len(args[0]) == 2 && len(args[1]) == 2:
		return args[0], args[1], true
	case len(args) == 1 && len(args[0]) == 4:
		return args[0][:2], args[0][2:], true
	}
	return "", "", false
}

func (b *bot) start(ctx context.Context, req chessdto.StartRequest) {
	me := pvpchess.Player{ID: req.Meta.Sender, Name: req.Meta.SenderName}
	other := me
	if req.Opponent != "" {
		other = pvpchess.Player{ID: req.Opponent, Name: req.OpponentName}
	}
	white, black := me, other
	if req.Color == "black" || (req.Color == "random" && rand.IntN(2) == 1) {
		white, black = other, me
	}
	g, err := b.games.CreateGame(ctx, req.Meta.Room, white, black)
	if err != nil {
		b.fail(req.Meta, chesspresenter.ToDomainError(err, "", ""))
		return
	}
	b.show(ctx, req.Meta, g, nil, func(s *chessdto.GameState) string { return b.formatter.Start(s) })
}

func (b *bot) open(ctx context.Context, meta chessdto.RequestMeta, color pvpchan.ColorChoice) {
	ch, err := b.lobby.Open(ctx, meta.Room, pvpchess.Player{ID: meta.Sender, Name: meta.SenderName}, color)
	if err != nil {
		b.fail(meta, chesspresenter.ToDomainError(err, "", ""))
		return
	}
	b.reply(meta.Room, b.formatter.ChallengeOpened(chesspresenter.ChallengeOf(ch)))
}

func (b *bot) join(ctx context.Context, meta chessdto.RequestMeta, code string) {
	g, err := b.lobby.Join(ctx, meta.Room, code, pvpchess.Player{ID: meta.Sender, Name: meta.SenderName})
	if err != nil {
		b.fail(meta, chesspresenter.ToDomainError(err, "", ""))
		return
	}
	b.show(ctx, meta, g, nil, func(s *chessdto.GameState) string { return b.formatter.Start(s) })
}

func (b *bot) cancel(ctx context.Context, meta chessdto.RequestMeta) {
	ch, err := b.lobby.Cancel(ctx, meta.Room, meta.Sender)
	if err != nil {
		b.fail(meta, chesspresenter.ToDomainError(err, "", ""))
		return
	}
	b.reply(meta.Room, b.formatter.ChallengeCancelled(chesspresenter.ChallengeOf(ch)))
}

func (b *bot) status(ctx context.Context, meta chessdto.RequestMeta) {
	g, err := b.games.ActiveGame(ctx, meta.Room)
	if err != nil {
		b.fail(meta, chesspresenter.ToDomainError(err, "", ""))
		return
	}
	b.show(ctx, meta, g, nil, b.formatter.Status)
}

func (b *bot) moves(ctx context.Context, req chessdto.MovesRequest) {
	g, from, targets, err := b.games.LegalMoves(ctx, req.Meta.Room, req.Square)
	if err == nil && !from.Valid() {
		err = engine.ErrInvalidNotation
	}
	if err != nil {
		b.fail(req.Meta, chesspresenter.ToDomainError(err, req.Square, ""))
		return
	}
	text := b.formatter.Moves(from.Notation(), chesspresenter.SquareNotations(targets))
	b.show(ctx, req.Meta, g, targets, func(*chessdto.GameState) string { return text })
}

func (b *bot) move(ctx context.Context, req chessdto.MoveRequest) {
	g, err := b.games.PlayMove(ctx, req.Meta.Room, req.Meta.Sender, req.From, req.To)
	if err != nil {
		b.fail(req.Meta, chesspresenter.ToDomainError(err, req.From, req.To))
		return
	}
	b.show(ctx, req.Meta, g, nil, func(s *chessdto.GameState) string {
		return b.formatter.Move(chesspresenter.MoveSummaryOf(s, req.Meta.SenderName))
	})
}

func (b *bot) resign(ctx context.Context, meta chessdto.RequestMeta) {
	g, err := b.games.Resign(ctx, meta.Room, meta.Sender)
	if err != nil {
		b.fail(meta, chesspresenter.ToDomainError(err, "", ""))
		return
	}
	b.show(ctx, meta, g, nil, func(s *chessdto.GameState) string { return b.formatter.Resign(s, meta.SenderName) })
}

func (b *bot) restart(ctx context.Context, meta chessdto.RequestMeta) {
	g, err := b.games.Restart(ctx, meta.Room, meta.Sender)
	if err != nil {
		b.fail(meta, chesspresenter.ToDomainError(err, "", ""))
		return
	}
	b.show(ctx, meta, g, nil, b.formatter.Restarted)
}

func (b *bot) history(ctx context.Context, meta chessdto.RequestMeta) {
	list, err := b.games.History(ctx, meta.Room, historyLimit)
	if err != nil {
		b.fail(meta, chesspresenter.ToDomainError(err, "", ""))
		return
	}
	b.reply(meta.Room, b.formatter.History(chesspresenter.HistoryEntries(list)))
}

// show converts g to a DTO and sends text(state) with the board image.
func (b *bot) show(ctx context.Context, meta chessdto.RequestMeta, g *pvpchess.Game, targets []engine.Square, text func(*chessdto.GameState) string) {
	state, err := b.games.ToDTO(ctx, g, targets)
	if err != nil {
		b.fail(meta, chesspresenter.ToDomainError(err, "", ""))
		return
	}
	if err := b.presenter.Board(meta.Room, text(state), state); err != nil {
		b.log.Error("reply_failed", zap.String("room", meta.Room), zap.Error(err))
	}
}

func (b *bot) fail(meta chessdto.RequestMeta, de chessdto.DomainError) {
	if de.Code == chessdto.CodeInternal {
		b.log.Error("command_failed", zap.String("room", meta.Room), zap.String("user", meta.Sender), zap.String("error", de.Message))
	} else {
		b.log.Debug("command_rejected", zap.String("room", meta.Room), zap.String("code", de.Code))
	}
	b.reply(meta.Room, b.formatter.Error(de))
}

func (b *bot) reply(room, text string) {
	if err := b.presenter.Text(room, text); err != nil && !errors.Is(err, context.Canceled) {
		b.log.Error("reply_failed", zap.String("room", room), zap.Error(err))
	}
}
