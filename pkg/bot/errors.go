package bot

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/arnac-io/meshbtc/pkg/core"
	"github.com/arnac-io/meshbtc/pkg/i18n"
	"github.com/arnac-io/meshbtc/pkg/sentry"
)

const defaultReason = "service unavailable"

var (
	usageMessages = map[string]string{
		"!send":    "sendUsage",
		"!confirm": "confirmUsage",
	}
	// upstream failures of read commands are reported with the node's reason.
	failureMessages = map[string]string{
		"!createwallet": "walletCreateFailed",
		"!balance":      "balanceFailed",
		"!address":      "addressFailed",
		"!history":      "historyFailed",
	}
)

// errorReply maps a command failure to the reply shown to the user.
func (b *Bot) errorReply(command string, user core.UserIdentity, err error) string {
	var (
		insufficient *core.InsufficientFundsError
		execErr      *core.ExecutionError
	)
	switch {
	case errors.Is(err, errUsage):
		if id, ok := usageMessages[command]; ok {
			return b.msg(id, nil)
		}
		return b.msg("help", nil)
	case errors.Is(err, core.ErrAccountNotFound):
		return b.msg("walletNotFound", nil)
	case errors.Is(err, core.ErrRateUnavailable):
		return b.msg("rateUnavailable", nil)
	case errors.Is(err, core.ErrDustAmount):
		return b.msg("amountTooSmall", nil)
	case errors.Is(err, core.ErrInvalidAmount):
		return b.msg("invalidAmount", nil)
	case errors.Is(err, core.ErrInvalidAddress):
		return b.msg("invalidAddress", nil)
	case errors.As(err, &insufficient):
		return b.msg("insufficientFunds", i18n.Template{
			"Required":  i18n.FormatBTC(insufficient.Required),
			"Available": i18n.FormatBTC(insufficient.Available),
		})
	case errors.Is(err, core.ErrTokenNotFound):
		return b.msg("tokenNotFound", nil)
	case errors.Is(err, core.ErrNotOwner):
		return b.msg("notOwner", nil)
	case errors.As(err, &execErr) && errors.Is(err, context.DeadlineExceeded):
		b.logger.Error("payment outcome unknown", zap.String("sender", string(user)), zap.Error(err))
		return b.msg("sendOutcomeUnknown", nil)
	case errors.As(err, &execErr):
		return b.msg("sendFailed", i18n.Template{"Reason": execErr.Message})
	case errors.Is(err, core.ErrUpstreamFailure):
		b.logger.Warn("wallet service failure", zap.String("command", command), zap.Error(err))
		if id, ok := failureMessages[command]; ok {
			return b.msg(id, i18n.Template{"Reason": reason(err)})
		}
		return b.msg("serviceUnavailable", nil)
	}
	b.logger.Error("unexpected error",
		zap.String("command", command),
		zap.String("sender", string(user)),
		zap.Error(err))
	sentry.Send("unexpected command error", sentry.SentryInfoData{"command": command, "error": err.Error()}, sentry.LevelError)
	return b.msg("unexpectedError", nil)
}

// reason extracts the upstream service's own message from err.
func reason(err error) string {
	var m interface{ Message() string }
	if errors.As(err, &m) {
		return m.Message()
	}
	return defaultReason
}
