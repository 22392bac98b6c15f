package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli/v3"

	"github.com/ugaemi/gumchase-server/internal/account"
	"github.com/ugaemi/gumchase-server/internal/config"
	"github.com/ugaemi/gumchase-server/internal/game"
	"github.com/ugaemi/gumchase-server/internal/level"
	"github.com/ugaemi/gumchase-server/internal/store"
	"github.com/ugaemi/gumchase-server/internal/term"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:  "gumchase",
		Usage: "eat every pickup in the maze before the pursuers catch you",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "levels",
				Usage:   "directory holding level001.txt, level002.txt, ... (bundled levels when empty)",
				Value:   cfg.LevelDir,
				Sources: cli.EnvVars("LEVEL_DIR"),
			},
			&cli.StringFlag{
				Name:    "rules",
				Usage:   "YAML file overriding the default rules",
				Value:   cfg.RulesFile,
				Sources: cli.EnvVars("RULES_FILE"),
			},
			&cli.IntFlag{
				Name:  "width",
				Usage: "level width rows are padded to",
				Value: cfg.LevelWidth,
			},
			&cli.IntFlag{
				Name:  "height",
				Usage: "level height files are padded to",
				Value: cfg.LevelHeight,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: cfg.LogLevel,
			},
		},
		Commands: []*cli.Command{
			playCommand(cfg),
			checkCommand(cfg),
			simulateCommand(cfg),
		},
		DefaultCommand: "play",
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// apply copies the global flags onto cfg.
func apply(cfg *config.Config, cmd *cli.Command) {
	cfg.LevelDir = cmd.String("levels")
	cfg.RulesFile = cmd.String("rules")
	cfg.LevelWidth = int(cmd.Int("width"))
	cfg.LevelHeight = int(cmd.Int("height"))
	cfg.LogLevel = cmd.String("log-level")
}

func load(cfg *config.Config) (*level.Set, game.Rules, error) {
	levels, err := cfg.Levels()
	if err != nil {
		return nil, game.Rules{}, fmt.Errorf("load levels: %w", err)
	}
	rules, err := cfg.Rules()
	if err != nil {
		return nil, game.Rules{}, fmt.Errorf("load rules: %w", err)
	}
	return levels, rules, nil
}

func playCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play in the terminal",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "difficulty",
				Usage:   "0 wanders and 1 chases at half speed, 2 chases at full speed",
				Value:   cfg.Difficulty,
				Sources: cli.EnvVars("DIFFICULTY"),
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "write logs here, the screen is taken by the game",
			},
			&cli.StringFlag{
				Name:  "nickname",
				Value: "player",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			apply(cfg, cmd)
			cfg.Difficulty = int(cmd.Int("difficulty"))

			var logOut io.Writer = io.Discard
			if path := cmd.String("log-file"); path != "" {
				f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				logOut = f
			}
			slog.SetDefault(config.NewLogger(cfg.LogLevel, cfg.LogFormat, logOut))

			levels, rules, err := load(cfg)
			if err != nil {
				return err
			}
			return play(ctx, levels, rules, cfg.Difficulty, cmd.String("nickname"))
		},
	}
}

func play(ctx context.Context, levels *level.Set, rules game.Rules, difficulty int, nickname string) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	scores := store.NewMemoryStore()
	defer scores.Close()
	acc := account.NewGuestAccount(nickname)
	if err := scores.Create(ctx, acc); err != nil {
		return err
	}

	events := term.PollEvents(screen)
	palette := term.DefaultPalette()

	for {
		round, err := game.NewRound(levels, rules, game.WithDifficulty(difficulty))
		if err != nil {
			return err
		}
		if err := round.Start(); err != nil {
			return err
		}

		best, err := scores.PersonalBest(ctx, acc.ID)
		if err != nil {
			return err
		}
		app := term.NewApp(screen, palette, round, best)
		res := app.Run(ctx, events)
		difficulty = round.Difficulty()

		if _, err := scores.RecordScore(ctx, acc.ID, res.Score); err != nil {
			return err
		}
		slog.Info("round finished", "score", res.Score, "level", res.Level, "victory", res.Victory)
		if res.Quit {
			return nil
		}
	}
}

func checkCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "parse the level set and report unreachable tiles",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			apply(cfg, cmd)
			levels, _, err := load(cfg)
			if err != nil {
				return err
			}

			out := cmd.Root().Writer
			problems := 0
			for i := 1; i <= levels.Count(); i++ {
				lvl, err := levels.Level(i)
				if err != nil {
					return err
				}
				warnings := level.Lint(lvl)
				fmt.Fprintf(out, "%s: %dx%d, %d pickups, %d teleporters, %d warnings\n",
					level.FileName(i), lvl.Width, lvl.Height, lvl.Pickups, len(lvl.Teleporters), len(warnings))
				for _, w := range warnings {
					fmt.Fprintf(out, "  %s\n", w)
				}
				problems += len(warnings)
			}
			if problems > 0 {
				return cli.Exit(fmt.Sprintf("%d warnings", problems), 2)
			}
			return nil
		},
	}
}

func simulateCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "play a headless round with a random player and print the final state",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "ticks", Value: 3000},
			&cli.IntFlag{Name: "seed", Value: 1},
			&cli.IntFlag{Name: "difficulty", Value: cfg.Difficulty},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			apply(cfg, cmd)
			slog.SetDefault(config.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr))

			levels, rules, err := load(cfg)
			if err != nil {
				return err
			}

			rng := rand.New(rand.NewSource(int64(cmd.Int("seed"))))
			round, err := game.NewRound(levels, rules,
				game.WithDifficulty(int(cmd.Int("difficulty"))),
				game.WithRand(rng))
			if err != nil {
				return err
			}
			if err := round.Start(); err != nil {
				return err
			}

			snap := simulate(ctx, round, int(cmd.Int("ticks")), rng)
			enc := json.NewEncoder(cmd.Root().Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		},
	}
}
