package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ugaemi/gumchase-server/internal/game"
	"github.com/ugaemi/gumchase-server/internal/level"
)

type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	LevelDir    string
	LevelWidth  int
	LevelHeight int
	Difficulty  int
	RulesFile   string
}

// Load reads a .env file if present, then the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnvInt("PORT", 8080),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		LevelDir:    getEnv("LEVEL_DIR", ""),
		LevelWidth:  getEnvInt("LEVEL_WIDTH", level.DefaultWidth),
		LevelHeight: getEnvInt("LEVEL_HEIGHT", level.DefaultHeight),
		Difficulty:  getEnvInt("DIFFICULTY", game.DifficultyChase),
		RulesFile:   getEnv("RULES_FILE", ""),
	}
}

// Dimensions returns the level size levels are padded to.
func (c *Config) Dimensions() level.Dimensions {
	return level.Dimensions{Width: c.LevelWidth, Height: c.LevelHeight}
}

// Levels loads the level set from LevelDir, or the bundled levels when it
// is empty.
func (c *Config) Levels() (*level.Set, error) {
	var fsys fs.FS = level.Bundled()
	if c.LevelDir != "" {
		fsys = os.DirFS(c.LevelDir)
	}
	return level.LoadSet(fsys, c.Dimensions())
}

// Rules loads RulesFile, or returns the default rules when it is empty.
func (c *Config) Rules() (game.Rules, error) {
	if c.RulesFile == "" {
		return game.DefaultRules(), nil
	}
	return LoadRules(c.RulesFile)
}

// LoadRules reads a YAML rules file. Keys left out keep their default value.
func LoadRules(path string) (game.Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return game.Rules{}, fmt.Errorf("read rules %s: %w", path, err)
	}
	rules, err := ParseRules(data)
	if err != nil {
		return game.Rules{}, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// ParseRules decodes YAML over the default rules and validates the result.
// Unknown keys are rejected.
func ParseRules(data []byte) (game.Rules, error) {
	rules := game.DefaultRules()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil && !errors.Is(err, io.EOF) {
		return game.Rules{}, fmt.Errorf("%w: %v", game.ErrInvalidRules, err)
	}
	if err := rules.Validate(); err != nil {
		return game.Rules{}, err
	}
	return rules, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
