package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/swu-engine/swu-server-go/internal/catalog"
	"github.com/swu-engine/swu-server-go/internal/config"
	"github.com/swu-engine/swu-server-go/internal/game"
	"github.com/swu-engine/swu-server-go/internal/game/board"
	"github.com/swu-engine/swu-server-go/internal/game/cards"
	"github.com/swu-engine/swu-server-go/internal/game/deck"
	"github.com/swu-engine/swu-server-go/internal/game/rules"
	"github.com/swu-engine/swu-server-go/internal/game/targeting"
	"github.com/swu-engine/swu-server-go/internal/repository"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	aliceDeck  = flag.String("alice-deck", "", "decklist file for Alice (requires a catalog)")
	bobDeck    = flag.String("bob-deck", "", "decklist file for Bob (requires a catalog)")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting SWU demo",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx := context.Background()
	cat, err := loadCatalog(ctx, cfg.Catalog, logger)
	if err != nil {
		logger.Fatal("failed to load card catalog", zap.Error(err))
	}

	g := game.New(logger, game.WithOptions(cfg.GameOptions()))
	alice, err := g.AddPlayer("alice", "Alice")
	if err != nil {
		logger.Fatal("failed to seat Alice", zap.Error(err))
	}
	bob, err := g.AddPlayer("bob", "Bob")
	if err != nil {
		logger.Fatal("failed to seat Bob", zap.Error(err))
	}

	if *aliceDeck != "" && *bobDeck != "" && len(cat) > 0 {
		if err := runDecks(g, cat, alice, bob); err != nil {
			logger.Fatal("deck game failed", zap.Error(err))
		}
		return
	}
	if err := runBlasterShot(g, alice, bob); err != nil {
		logger.Fatal("scenario failed", zap.Error(err))
	}
}

func loadCatalog(ctx context.Context, cfg config.CatalogConfig, logger *zap.Logger) (deck.Catalog, error) {
	if cfg.DatabaseURL != "" {
		pool, err := repository.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer pool.Close()
		return repository.NewCardStore(pool, logger).Catalog(ctx)
	}
	if len(cfg.Paths) == 0 {
		return deck.Catalog{}, nil
	}
	return catalog.NewLoader(logger).Load(ctx, cfg.Paths...)
}

// runBlasterShot plays the two-player scenario: Alice pays one resource for
// Blaster Shot and deals 2 damage to Bob's base.
func runBlasterShot(g *game.Game, alice, bob *game.Player) error {
	for _, p := range []*game.Player{alice, bob} {
		leader := &cards.Template{ID: "DEMO-L-" + p.ID, Name: p.Name + "'s Leader", Type: cards.TypeLeader, Attack: 3, Health: 6}
		if _, err := g.SetLeader(p, leader); err != nil {
			return err
		}
		g.SetBaseNamed(p, p.Name+"'s Base", g.Options().BaseHealth)
	}

	blaster := &cards.Template{ID: "DEMO-BLASTER", Name: "Blaster Shot", Type: cards.TypeEvent, Cost: 1}
	g.RegisterCardEffect(blaster.ID, game.DamageEffect{Amount: 2, Kind: targeting.TargetTypeBase})
	g.AddResource(alice, &cards.Template{ID: "DEMO-RES", Name: "Resource", Type: cards.TypeResource})
	alice.Zone(board.ZoneHand).Add(cards.NewInstance(alice.ID, blaster))

	fmt.Println(g.Format(alice.ID))
	if phase := g.Advance(); phase != rules.PhaseMain {
		return fmt.Errorf("expected Main phase, got %s", phase)
	}

	actions := g.LegalActions(alice)
	for _, a := range actions {
		fmt.Printf("Alice may: %s\n", a)
	}
	if len(actions) == 0 {
		return fmt.Errorf("alice has no legal actions")
	}
	if err := g.Execute(actions[0], game.Targets{game.DefaultTargetKey: {bob.Base}}); err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(g.Format(alice.ID))
	return nil
}

// runDecks starts a game from two decklists and advances through the first round.
func runDecks(g *game.Game, cat deck.Catalog, alice, bob *game.Player) error {
	for p, path := range map[*game.Player]string{alice: *aliceDeck, bob: *bobDeck} {
		d, err := catalog.LoadDeck(cat, path)
		if err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
		if err := g.LoadDeck(p, d); err != nil {
			return err
		}
	}
	if err := g.Start(); err != nil {
		return err
	}
	for g.Round() == 1 {
		g.Advance()
	}
	fmt.Println(g.Format(alice.ID))
	return nil
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
