package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Narasimha1997/ratelimiter"
	"github.com/lightningnetwork/lnd/clock"
	"github.com/puzpuzpuz/xsync/v2"
	"go.uber.org/zap"

	"github.com/arnac-io/meshbtc/pkg/core"
	"github.com/arnac-io/meshbtc/pkg/i18n"
	"github.com/arnac-io/meshbtc/pkg/mesh"
	"github.com/arnac-io/meshbtc/pkg/sentry"
)

const commandPrefix = "!"

type Options struct {
	Lang               string
	HistoryCount       int
	RateLimitPerMinute uint64
}

// Services are the collaborators a Bot drives.
type Services struct {
	Wallet   walletService
	Rates    rateSource
	Preparer paymentPreparer
	Store    pendingStore
	Executor paymentExecutor
	Sender   textSender
	Clock    clock.Clock
}

type commandFunc func(ctx context.Context, user core.UserIdentity, args []string) (string, error)

// Bot turns text commands received over the mesh into wallet operations and replies.
type Bot struct {
	logger   *zap.Logger
	services Services
	options  Options
	commands map[string]commandFunc
	limiters *xsync.MapOf[string, *ratelimiter.DefaultLimiter]
}

func New(logger *zap.Logger, services Services, options Options) *Bot {
	if options.Lang == "" {
		options.Lang = "en"
	}
	if options.HistoryCount <= 0 {
		options.HistoryCount = 5
	}
	if services.Clock == nil {
		services.Clock = clock.NewDefaultClock()
	}
	b := &Bot{
		logger:   logger,
		services: services,
		options:  options,
		limiters: xsync.NewMapOf[*ratelimiter.DefaultLimiter](),
	}
	b.commands = map[string]commandFunc{
		"!help":         b.help,
		"!createwallet": b.createWallet,
		"!balance":      b.balance,
		"!address":      b.address,
		"!history":      b.history,
		"!send":         b.send,
		"!confirm":      b.confirm,
	}
	return b
}

var _ mesh.Handler = (&Bot{}).Handle

// Handle processes one mesh message and sends the reply back to its sender.
// Messages that are not commands are ignored.
func (b *Bot) Handle(ctx context.Context, msg mesh.Message) {
	text := strings.TrimSpace(msg.Text)
	if msg.From == "" || !strings.HasPrefix(text, commandPrefix) {
		return
	}
	if !b.allow(msg.From) {
		rateLimitedCounter.Inc()
		b.logger.Warn("sender is rate limited", zap.String("sender", msg.From))
		b.reply(ctx, msg.From, b.msg("rateLimited", nil))
		return
	}
	b.reply(ctx, msg.From, b.Dispatch(ctx, core.UserIdentity(msg.From), text))
}

// Dispatch runs a single command line for user and returns the reply text.
// It never panics.
func (b *Bot) Dispatch(ctx context.Context, user core.UserIdentity, text string) (reply string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return b.msg("unknownCommand", i18n.Template{"Command": text})
	}
	command, args := strings.ToLower(fields[0]), fields[1:]
	if n := b.services.Store.SweepExpired(b.services.Clock.Now()); n > 0 {
		b.logger.Debug("swept expired confirmations", zap.Int("count", n))
	}
	handler, ok := b.commands[command]
	if !ok {
		commandsCounter.WithLabelValues("unknown", "unknown").Inc()
		return b.msg("unknownCommand", i18n.Template{"Command": command})
	}

	start := time.Now()
	result := "ok"
	defer func() {
		if r := recover(); r != nil {
			result = "panic"
			b.logger.Error("panic while handling command",
				zap.String("command", command),
				zap.String("sender", string(user)),
				zap.Any("panic", r),
				zap.Stack("stack"))
			sentry.Send("command panic", sentry.SentryInfoData{"command": command, "panic": fmt.Sprint(r)}, sentry.LevelError)
			reply = b.msg("unexpectedError", nil)
		}
		commandsCounter.WithLabelValues(command, result).Inc()
		commandDuration.WithLabelValues(command).Observe(time.Since(start).Seconds())
	}()

	b.logger.Info("command received", zap.String("sender", string(user)), zap.String("command", command))
	reply, err := handler(ctx, user, args)
	if err != nil {
		result = "error"
		return b.errorReply(command, user, err)
	}
	return reply
}

func (b *Bot) allow(sender string) bool {
	if b.options.RateLimitPerMinute == 0 {
		return true
	}
	limiter, _ := b.limiters.LoadOrCompute(sender, func() *ratelimiter.DefaultLimiter {
		return ratelimiter.NewDefaultLimiter(b.options.RateLimitPerMinute, time.Minute)
	})
	allowed, err := limiter.ShouldAllow(1)
	if err != nil {
		b.logger.Warn("rate limiter failed", zap.String("sender", sender), zap.Error(err))
		return true
	}
	return allowed
}

func (b *Bot) reply(ctx context.Context, to, text string) {
	if err := b.services.Sender.SendText(ctx, to, text, true); err != nil {
		b.logger.Warn("failed to send reply", zap.String("to", to), zap.Error(err))
	}
}

func (b *Bot) msg(id string, data i18n.Template) string {
	return i18n.Msg(b.options.Lang, id, data)
}

// Close stops the per-sender rate limiters.
func (b *Bot) Close() {
	b.limiters.Range(func(sender string, limiter *ratelimiter.DefaultLimiter) bool {
		if err := limiter.Kill(); err != nil {
			b.logger.Debug("stop rate limiter", zap.String("sender", sender), zap.Error(err))
		}
		return true
	})
}
