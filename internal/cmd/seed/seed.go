// Package seed populates a game database with sample data for local
// development.
package seed

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"

	entrypoint "github.com/aeturnis/aeturnis-online/internal/platform/cmd"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/combat"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/death"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/event"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/pvp"
	"github.com/aeturnis/aeturnis-online/internal/services/game/storage"
	storagesqlite "github.com/aeturnis/aeturnis-online/internal/services/game/storage/sqlite"
	"github.com/aeturnis/aeturnis-online/internal/services/game/tuning"
)

// Config holds seed command configuration.
type Config struct {
	DBPath     string `env:"AETURNIS_GAME_DB_PATH" envDefault:"data/game.db"`
	TuningPath string `env:"AETURNIS_GAME_TUNING_PATH"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "The SQLite database path")
	fs.StringVar(&cfg.TuningPath, "tuning", cfg.TuningPath, "The Lua tuning script path (empty uses embedded defaults)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// sampleCharacters are the characters seeded for local development.
var sampleCharacters = []storage.Character{
	{
		AccountID:  "player1@aeturnis.com",
		Name:       "Dragonslayer",
		Experience: 5000,
		Gold:       1500,
		Alignment:  500,
		Alive:      true,
	},
	{
		AccountID:  "player1@aeturnis.com",
		Name:       "Shadowmage",
		Experience: 1200,
		Gold:       300,
		Alignment:  -200,
		Alive:      true,
	},
	{
		AccountID:  "player2@aeturnis.com",
		Name:       "HolyPaladin",
		Experience: 3500,
		Gold:       800,
		Alignment:  800,
		Alive:      true,
	},
}

// Run seeds sample characters and a sample kill into the game database.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	balance, err := tuning.Load(cfg.TuningPath)
	if err != nil {
		return err
	}
	store, err := storagesqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open sqlite store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	created := make(map[string]storage.Character, len(sampleCharacters))
	for _, character := range sampleCharacters {
		seeded, err := store.CreateCharacter(ctx, character)
		if err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				fmt.Fprintf(out, "character %s already exists, skipping seed\n", character.Name)
				return nil
			}
			return fmt.Errorf("seed character %s: %w", character.Name, err)
		}
		created[seeded.Name] = seeded
		fmt.Fprintf(out, "seeded character %s (%s)\n", seeded.Name, seeded.ID)
	}

	// A sample kill and respawn exercises the full workflow so the kill
	// log, ledgers, and event journal all carry data.
	emitter := event.NewEmitter(store)
	pvpService := pvp.NewService(store, emitter, balance.PK, balance.Penalty, balance.Curve, log.Default())
	combatService := combat.NewService(store, emitter, balance.Penalty, balance.Curve, log.Default())

	killer := created["Shadowmage"]
	victim := created["HolyPaladin"]
	result, err := pvpService.RecordKill(ctx, killer.ID, victim.ID, "pvp_arena")
	if err != nil {
		return fmt.Errorf("seed sample kill: %w", err)
	}
	fmt.Fprintf(out, "seeded kill %s: %s slew %s (alignment %d -> %d)\n",
		result.Kill.ID, killer.Name, victim.Name, result.PreviousAlignment, result.KillerAlignment)

	if _, err := combatService.Respawn(ctx, victim.ID, string(death.LocationGraveyard)); err != nil {
		return fmt.Errorf("seed respawn: %w", err)
	}
	fmt.Fprintf(out, "respawned %s at the graveyard\n", victim.Name)
	return nil
}
