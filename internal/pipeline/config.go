package pipeline

import (
	"time"

	"github.com/smallbiznis/demandcast/internal/config"
)

const (
	StageGenerate   = "generate"
	StageTrain      = "train"
	StageProject    = "project"
	StageSynthesize = "synthesize"
)

// Stages lists every stage in execution order.
var Stages = []string{StageGenerate, StageTrain, StageProject, StageSynthesize}

// Config controls which stages run and how long each may take.
type Config struct {
	// Stages selects a subset of Stages. Empty runs all of them.
	Stages       []string
	StageTimeout time.Duration
	LockKey      string
	LockTTL      time.Duration
}

func DefaultConfig() Config {
	return Config{
		StageTimeout: 30 * time.Minute,
		LockKey:      "demandcast:pipeline:lock",
		LockTTL:      2 * time.Hour,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.StageTimeout <= 0 {
		c.StageTimeout = defaults.StageTimeout
	}
	if c.LockKey == "" {
		c.LockKey = defaults.LockKey
	}
	if c.LockTTL <= 0 {
		c.LockTTL = defaults.LockTTL
	}
	return c
}

func ProvideConfig(cfg config.Config) Config {
	return Config{Stages: cfg.Pipeline.Stages}.withDefaults()
}
