package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aleister1102/diffhunter/internal/capture"
	"github.com/aleister1102/diffhunter/internal/config"
	"github.com/aleister1102/diffhunter/internal/logger"
	"github.com/aleister1102/diffhunter/internal/session"
	"github.com/rs/zerolog"
)

func main() {
	flags := ParseFlags()

	bootLogger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile, bootLogger)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not load global config using path '%s': %v", flags.GlobalConfigFile, err)
	}

	// Command line toggles take precedence over the config file
	if flags.CharacterLevel {
		gCfg.DiffConfig.CharacterLevel = true
	}
	if flags.HexMode {
		gCfg.DiffConfig.HexMode = true
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		log.Fatalf("[FATAL] Main: Configuration validation failed: %v", err)
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not initialize logger: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, flags, gCfg, zLogger); err != nil {
		zLogger.Error().Err(err).Msg("DiffHunter failed")
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, flags AppFlags, gCfg *config.GlobalConfig, zLogger zerolog.Logger) error {
	exchanges, err := capture.LoadFile(flags.CapturesFile, zLogger)
	if err != nil {
		return err
	}
	zLogger.Info().Str("file", flags.CapturesFile).Int("exchanges", len(exchanges)).Msg("Captures loaded")

	sess, err := session.New(ctx, gCfg, zLogger)
	if err != nil {
		return err
	}
	defer sess.Close()

	added, _ := sess.AddExchanges(exchanges...)
	if len(added) == 0 {
		zLogger.Warn().Msg("Capture file contains no exchanges")
		return nil
	}

	targetID := flags.TargetID
	if targetID == 0 {
		targetID = added[0].ID
	}
	pass, err := sess.SelectTarget(targetID)
	if err != nil {
		return err
	}

	if len(flags.RequestRules) > 0 || len(flags.ResponseRules) > 0 {
		rules, err := sess.Exclusions()
		if err != nil {
			return err
		}
		for _, p := range flags.RequestRules {
			if !rules.AddRequestRule(p).Valid() {
				zLogger.Warn().Str("pattern", p).Msg("Invalid request exclusion pattern")
			}
		}
		for _, p := range flags.ResponseRules {
			if !rules.AddResponseRule(p).Valid() {
				zLogger.Warn().Str("pattern", p).Msg("Invalid response exclusion pattern")
			}
		}
		pass = sess.Reclassify()
	}

	switch flags.Mode {
	case modeCompare:
		pd, err := sess.CompareWithTarget(ctx, flags.CompareID)
		if err != nil {
			return err
		}
		rules, err := sess.Exclusions()
		if err != nil {
			return err
		}
		return printPairDiff(os.Stdout, pd.Visible(rules.Snapshot()))
	default:
		outcome, err := pass.Wait(ctx)
		if err != nil {
			return err
		}
		return printClassification(os.Stdout, sess, outcome)
	}
}
