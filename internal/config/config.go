package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"RegistryLinker/internal/matching"
)

const (
	configPathEnv   = "REGISTRY_LINKER_CONFIG"
	databaseDSNEnv  = "DATABASE_DSN"
	synonymsPathEnv = "SYNONYMS_PATH"
	outputPathEnv   = "OUTPUT_PATH"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging  LoggingConfig
	Matching MatchingConfig
	Datasets DatasetsConfig
	Synonyms SynonymsConfig
	Database DatabaseConfig
	Output   OutputConfig
}

// LoggingConfig controls console log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// MatchingConfig exposes the run-scoped matching thresholds.
type MatchingConfig struct {
	JaccardThreshold   float64
	AlignmentThreshold float64
	TokenSetThreshold  float64
	EditRatioThreshold float64
	ConsensusCount     int
	Workers            int
}

// Core converts the YAML shape into the engine configuration.
func (m MatchingConfig) Core() matching.Config {
	return matching.Config{
		JaccardThreshold:   m.JaccardThreshold,
		AlignmentThreshold: m.AlignmentThreshold,
		TokenSetThreshold:  m.TokenSetThreshold,
		EditRatioThreshold: m.EditRatioThreshold,
		ConsensusCount:     m.ConsensusCount,
		Workers:            m.Workers,
	}
}

// DatasetsConfig names the two registries being linked.
type DatasetsConfig struct {
	Left  DatasetConfig `yaml:"left"`
	Right DatasetConfig `yaml:"right"`
}

// DatasetConfig describes a single registry dataset and its reader format.
type DatasetConfig struct {
	Name     string            `yaml:"name"`
	Format   string            `yaml:"format"`
	Location string            `yaml:"location"`
	Options  map[string]string `yaml:"options"`
}

// SynonymsConfig points at the curated alias table.
type SynonymsConfig struct {
	Path string `yaml:"path"`
}

// DatabaseConfig describes optional Postgres persistence.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// OutputConfig describes where the overlap table is written.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg fileConfig
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(synonymsPathEnv); v != "" {
		c.Synonyms.Path = v
	}

	if v := os.Getenv(outputPathEnv); v != "" {
		c.Output.Path = v
	}
}

// fileConfig is the YAML decoding shape. Matching thresholds decode into
// pointers so an explicitly written zero (jaccardThreshold: 0 is valid)
// is distinguishable from an absent key.
type fileConfig struct {
	Logging  LoggingConfig      `yaml:"logging"`
	Matching fileMatchingConfig `yaml:"matching"`
	Datasets DatasetsConfig     `yaml:"datasets"`
	Synonyms SynonymsConfig     `yaml:"synonyms"`
	Database DatabaseConfig     `yaml:"database"`
	Output   OutputConfig       `yaml:"output"`
}

type fileMatchingConfig struct {
	JaccardThreshold   *float64 `yaml:"jaccardThreshold"`
	AlignmentThreshold *float64 `yaml:"alignmentThreshold"`
	TokenSetThreshold  *float64 `yaml:"tokenSetThreshold"`
	EditRatioThreshold *float64 `yaml:"editRatioThreshold"`
	ConsensusCount     *int     `yaml:"consensusCount"`
	Workers            *int     `yaml:"workers"`
}

func mergeConfig(base Config, override fileConfig) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Matching.JaccardThreshold != nil {
		base.Matching.JaccardThreshold = *override.Matching.JaccardThreshold
	}
	if override.Matching.AlignmentThreshold != nil {
		base.Matching.AlignmentThreshold = *override.Matching.AlignmentThreshold
	}
	if override.Matching.TokenSetThreshold != nil {
		base.Matching.TokenSetThreshold = *override.Matching.TokenSetThreshold
	}
	if override.Matching.EditRatioThreshold != nil {
		base.Matching.EditRatioThreshold = *override.Matching.EditRatioThreshold
	}
	if override.Matching.ConsensusCount != nil {
		base.Matching.ConsensusCount = *override.Matching.ConsensusCount
	}
	if override.Matching.Workers != nil {
		base.Matching.Workers = *override.Matching.Workers
	}

	if override.Datasets.Left.Location != "" {
		base.Datasets.Left = override.Datasets.Left
	}
	if override.Datasets.Right.Location != "" {
		base.Datasets.Right = override.Datasets.Right
	}

	if override.Synonyms.Path != "" {
		base.Synonyms = override.Synonyms
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Output.Path != "" {
		base.Output = override.Output
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Matching: MatchingConfig{
			JaccardThreshold:   matching.DefaultJaccardThreshold,
			AlignmentThreshold: matching.DefaultAlignmentThreshold,
			TokenSetThreshold:  matching.DefaultTokenSetThreshold,
			EditRatioThreshold: matching.DefaultEditRatioThreshold,
			ConsensusCount:     matching.DefaultConsensusCount,
			Workers:            matching.DefaultWorkers,
		},
		Datasets: DatasetsConfig{
			Left: DatasetConfig{
				Name:     "cdsco",
				Format:   "csv",
				Location: "data/raw/cdsco_clean.csv",
				Options: map[string]string{
					"nameColumn":       "Drug Name",
					"identifierColumn": "RxCUI",
					"dateColumn":       "Date of Approval",
					"indicationColumn": "Indication",
				},
			},
			Right: DatasetConfig{
				Name:     "fda-orphan",
				Format:   "csv",
				Location: "data/raw/fda_clean.csv",
				Options: map[string]string{
					"nameColumn":       "Generic Name",
					"identifierColumn": "RxCUI",
					"dateColumn":       "Date Designated",
					"indicationColumn": "Orphan Designation",
					"sponsorColumn":    "Sponsor",
				},
			},
		},
		Synonyms: SynonymsConfig{Path: "data/synonyms.yaml"},
		Database: DatabaseConfig{DSN: ""},
		Output:   OutputConfig{Path: "data/processed/overlap.csv"},
	}
}
