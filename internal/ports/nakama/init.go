package nakama

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/rs/zerolog"

	"runfast/internal/app"
	"runfast/internal/config"
)

// envConfigPath names the runtime env key holding the game config file.
const envConfigPath = "runfast_config"

// InitModule wires RPCs and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	path := ""
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		path = env[envConfigPath]
	}
	if err := config.LoadGameConfig(path); err != nil {
		logger.Error("InitModule: Failed to load game config %q: %v", path, err)
		return err
	}
	cfg := config.GetGameConfig()

	// Core packages log through zerolog; keep them as quiet as configured.
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	if _, err := cfg.Roster(); err != nil {
		logger.Error("InitModule: Failed to load enemy roster: %v", err)
		return err
	}

	receiptService = app.NewReceiptService(cfg.Receipt.Secret, cfg.Receipt.Issuer, cfg.Receipt.TTL)
	if !receiptService.Enabled() {
		logger.Warn("InitModule: No receipt secret configured, fight receipts disabled.")
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameRunFast, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(), nil
	}); err != nil {
		return err
	}

	logger.Info("RunFast Go module loaded.")
	return nil
}
