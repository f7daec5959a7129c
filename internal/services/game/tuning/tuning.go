// Package tuning loads game-balance values from a Lua script. Balance lives
// in data rather than code so designers can adjust cooldowns, penalties, and
// curve constants without a rebuild.
package tuning

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/Shopify/go-lua"

	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/alignment"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/death"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/pk"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/xp"
)

//go:embed tuning.lua
var defaultScript string

// Config aggregates the typed balance values for the game service.
type Config struct {
	PK      pk.Config
	Penalty death.PenaltyConfig
	Curve   xp.Curve
}

// Load reads balance values from the Lua script at path. An empty path loads
// the embedded defaults.
func Load(path string) (Config, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	if path != "" {
		if err := lua.LoadFile(state, path, ""); err != nil {
			return Config{}, fmt.Errorf("load tuning script %s: %w", path, err)
		}
	} else {
		if err := lua.LoadString(state, defaultScript); err != nil {
			return Config{}, fmt.Errorf("load embedded tuning script: %w", err)
		}
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return Config{}, fmt.Errorf("run tuning script: %w", err)
	}
	if state.TypeOf(-1) != lua.TypeTable {
		return Config{}, fmt.Errorf("tuning script must return a table")
	}

	var cfg Config
	if err := readSection(state, "pk", func() error {
		var err error
		cfg.PK, err = readPK(state)
		return err
	}); err != nil {
		return Config{}, err
	}
	if err := readSection(state, "death", func() error {
		var err error
		cfg.Penalty, err = readPenalty(state)
		return err
	}); err != nil {
		return Config{}, err
	}
	if err := readSection(state, "xp", func() error {
		var err error
		cfg.Curve, err = readCurve(state)
		return err
	}); err != nil {
		return Config{}, err
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// readSection pushes the named sub-table, runs read, and pops it.
func readSection(state *lua.State, name string, read func() error) error {
	state.Field(-1, name)
	defer state.Pop(1)
	if state.TypeOf(-1) != lua.TypeTable {
		return fmt.Errorf("tuning section %q must be a table", name)
	}
	return read()
}

func readPK(state *lua.State) (pk.Config, error) {
	cfg := pk.Config{}
	fields := []struct {
		name string
		dst  func(float64)
	}{
		{"cooldown_seconds", func(v float64) { cfg.Cooldown = time.Duration(v) * time.Second }},
		{"max_kills_per_hour", func(v float64) { cfg.MaxKillsPerHour = int(v) }},
		{"window_seconds", func(v float64) { cfg.Window = time.Duration(v) * time.Second }},
		{"tag_seconds", func(v float64) { cfg.TagDuration = time.Duration(v) * time.Second }},
		{"kill_good_delta", func(v float64) { cfg.KillGoodDelta = int(v) }},
		{"kill_evil_delta", func(v float64) { cfg.KillEvilDelta = int(v) }},
		{"kill_neutral_delta", func(v float64) { cfg.KillNeutralDelta = int(v) }},
		{"evil_max", func(v float64) { cfg.Alignment.EvilMax = int(v) }},
		{"good_min", func(v float64) { cfg.Alignment.GoodMin = int(v) }},
	}
	for _, field := range fields {
		value, err := numberField(state, field.name)
		if err != nil {
			return pk.Config{}, err
		}
		field.dst(value)
	}
	return cfg, nil
}

func readPenalty(state *lua.State) (death.PenaltyConfig, error) {
	cfg := death.PenaltyConfig{}
	fields := []struct {
		name string
		dst  func(float64)
	}{
		{"xp_loss_percent", func(v float64) { cfg.XPLossPercent = int(v) }},
		{"gold_loss_percent", func(v float64) { cfg.GoldLossPercent = int(v) }},
		{"durability_damage_percent", func(v float64) { cfg.DurabilityDamagePercent = int(v) }},
		{"sickness_seconds", func(v float64) { cfg.SicknessDuration = time.Duration(v) * time.Second }},
		{"sickness_debuff_percent", func(v float64) { cfg.SicknessDebuffPercent = int(v) }},
	}
	for _, field := range fields {
		value, err := numberField(state, field.name)
		if err != nil {
			return death.PenaltyConfig{}, err
		}
		field.dst(value)
	}
	return cfg, nil
}

func readCurve(state *lua.State) (xp.Curve, error) {
	cfg := xp.Curve{}
	fields := []struct {
		name string
		dst  func(float64)
	}{
		{"base_xp_per_level", func(v float64) { cfg.BaseXP = int64(v) }},
		{"scaling_factor", func(v float64) { cfg.Scaling = v }},
		{"max_level", func(v float64) { cfg.MaxLevel = int(v) }},
	}
	for _, field := range fields {
		value, err := numberField(state, field.name)
		if err != nil {
			return xp.Curve{}, err
		}
		field.dst(value)
	}
	return cfg, nil
}

// numberField reads a numeric field from the table at the top of the stack.
func numberField(state *lua.State, name string) (float64, error) {
	state.Field(-1, name)
	defer state.Pop(1)
	value, ok := state.ToNumber(-1)
	if !ok {
		return 0, fmt.Errorf("tuning field %q must be a number", name)
	}
	return value, nil
}

func validate(cfg Config) error {
	if cfg.PK.Cooldown <= 0 {
		return fmt.Errorf("pk.cooldown_seconds must be positive")
	}
	if cfg.PK.MaxKillsPerHour <= 0 {
		return fmt.Errorf("pk.max_kills_per_hour must be positive")
	}
	if cfg.PK.Window <= 0 {
		return fmt.Errorf("pk.window_seconds must be positive")
	}
	if cfg.PK.Alignment.EvilMax >= cfg.PK.Alignment.GoodMin {
		return fmt.Errorf("pk.evil_max must be below pk.good_min")
	}
	if cfg.PK.Alignment.EvilMax < alignment.Min || cfg.PK.Alignment.GoodMin > alignment.Max {
		return fmt.Errorf("alignment thresholds must fit the [%d, %d] axis", alignment.Min, alignment.Max)
	}
	if cfg.Penalty.XPLossPercent < 0 || cfg.Penalty.XPLossPercent > 100 {
		return fmt.Errorf("death.xp_loss_percent must be between 0 and 100")
	}
	if cfg.Penalty.GoldLossPercent < 0 || cfg.Penalty.GoldLossPercent > 100 {
		return fmt.Errorf("death.gold_loss_percent must be between 0 and 100")
	}
	if cfg.Penalty.SicknessDuration < 0 {
		return fmt.Errorf("death.sickness_seconds must not be negative")
	}
	if cfg.Curve.BaseXP <= 0 {
		return fmt.Errorf("xp.base_xp_per_level must be positive")
	}
	if cfg.Curve.Scaling <= 1 {
		return fmt.Errorf("xp.scaling_factor must be greater than 1")
	}
	if cfg.Curve.MaxLevel <= 1 {
		return fmt.Errorf("xp.max_level must be greater than 1")
	}
	return nil
}
