package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/fpsim/internal/character"
	"github.com/udisondev/fpsim/internal/config"
	"github.com/udisondev/fpsim/internal/event"
	"github.com/udisondev/fpsim/internal/ids"
	"github.com/udisondev/fpsim/internal/input"
	"github.com/udisondev/fpsim/internal/physics"
	"github.com/udisondev/fpsim/internal/sim"
	"github.com/udisondev/fpsim/internal/weapon"
)

const ConfigPath = "config/fpsim.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Config first: it carries the log level.
	cfgPath := ConfigPath
	if p := os.Getenv("FPSIM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	sim.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("fpsim starting",
		"config", cfgPath,
		"log_level", cfg.LogLevel,
		"characters", cfg.Simulation.Characters,
		"workers", cfg.Simulation.WorkerCount(),
		"tick_rate", cfg.Simulation.TickRate,
		"duration", cfg.Simulation.Duration)

	world, err := physics.LoadLevel(cfg.Simulation.Level)
	if err != nil {
		return fmt.Errorf("loading level: %w", err)
	}
	slog.Info("level loaded", "path", cfg.Simulation.Level, "colliders", world.ColliderCount())

	drivers, managers, err := spawnCharacters(cfg, world)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, mgr := range managers {
		g.Go(func() error {
			slog.Info("starting tick loop", "worker", i, "drivers", mgr.Count())
			if err := mgr.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("tick loop %d: %w", i, err)
			}
			return nil
		})
	}
	err = g.Wait()

	for _, d := range drivers {
		st := d.Stats()
		pos := d.Snapshot().Locomotion.Position
		slog.Info("character summary",
			"character", d.Character().Name(),
			"ticks", st.Ticks,
			"shots", st.Shots,
			"reloads", st.Reloads,
			"jumps", st.Jumps,
			"footsteps", st.Footsteps,
			"switches", st.Switches,
			"deaths", st.Deaths,
			"x", pos.X(), "y", pos.Y(), "z", pos.Z())
	}

	if err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	slog.Info("fpsim stopped")
	return nil
}

// spawnCharacters builds every character with its own event hub and input
// script, and spreads them round-robin over the tick loops.
func spawnCharacters(cfg config.Config, world *physics.StaticWorld) ([]*sim.Driver, []*sim.Manager, error) {
	sc := cfg.Simulation
	managers := make([]*sim.Manager, sc.WorkerCount())
	for i := range managers {
		managers[i] = sim.NewManager(sc.TickInterval(), sc.Duration)
	}

	scripts := make(map[string]*input.Script)
	gen := ids.NewGenerator()
	drivers := make([]*sim.Driver, 0, sc.Characters)

	for i := range sc.Characters {
		path := sc.Script(i)
		script, ok := scripts[path]
		if !ok {
			s, err := input.LoadScript(path)
			if err != nil {
				return nil, nil, fmt.Errorf("loading script: %w", err)
			}
			scripts[path] = s
			script = s
		}

		defs, err := cfg.StartingDefinitions()
		if err != nil {
			return nil, nil, err
		}

		name := fmt.Sprintf("bot-%d", i+1)
		hub := event.NewHub()
		logEvents(hub, name)

		c := character.New(character.Options{
			Name:            name,
			Locomotion:      cfg.Locomotion,
			Loadout:         cfg.Loadout(),
			Physics:         world,
			Health:          character.NewPool(sc.MaxHealth),
			Spawner:         projectileLogger(gen, name),
			Events:          hub,
			IDs:             gen,
			Seed:            sc.Seed + uint64(i),
			Position:        mgl64.Vec3{float64(i) * sc.Spacing, sc.SpawnY, 0},
			StartingWeapons: defs,
		})

		d := sim.NewDriver(c, sim.NewScriptSource(script, cfg.Input))
		managers[i%len(managers)].Register(d)
		drivers = append(drivers, d)

		slog.Info("character spawned", "character", name, "id", c.ID(), "script", script.Name, "weapons", len(defs))
	}
	return drivers, managers, nil
}

// logEvents reports the discrete gameplay events of one character.
func logEvents(hub *event.Hub, name string) {
	hub.WeaponSwitched.Subscribe(func(e event.WeaponSwitched) {
		id := "none"
		if e.Weapon != nil {
			id = e.Weapon.Definition().ID
		}
		slog.Info("weapon switched", "character", name, "weapon", id, "slot", e.Slot)
	})
	hub.StanceChanged.Subscribe(func(e event.StanceChanged) {
		slog.Debug("stance changed", "character", name, "crouching", e.Crouching)
	})
	hub.ShotFired.Subscribe(func(e event.ShotFired) {
		slog.Debug("shot fired",
			"character", name,
			"weapon", e.Weapon.Definition().ID,
			"projectiles", e.Projectiles,
			"charge", e.Charge,
			"ammo", e.Weapon.Ammo().Charger)
	})
	hub.Reloaded.Subscribe(func(e event.Reloaded) {
		slog.Debug("reloaded", "character", name, "weapon", e.Weapon.Definition().ID, "amount", e.Amount)
	})
	hub.FallDamaged.Subscribe(func(e event.FallDamaged) {
		slog.Info("fall damage", "character", name, "speed", e.FallSpeed, "damage", e.Damage)
	})
	hub.Died.Subscribe(func(e event.Died) {
		slog.Warn("character died", "character", name, "killplane", e.KillPlane, "y", e.Position.Y())
	})
}

// projectileLogger stands in for a presentation layer: it only names the
// projectile and logs it.
func projectileLogger(gen *ids.Generator, name string) weapon.Spawner {
	return weapon.SpawnerFunc(func(p weapon.Projectile) {
		id := gen.NextProjectileID()
		if !sim.IsDebugEnabled() {
			return
		}
		slog.Debug("projectile spawned",
			"character", name,
			"projectile", id,
			"kind", p.Kind,
			"charge", p.Charge,
			"dx", p.Direction.X(), "dy", p.Direction.Y(), "dz", p.Direction.Z())
	})
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
