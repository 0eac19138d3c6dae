// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like PRICING_SESSION_HARD_CAP
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, e.g. config.production.yaml
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig() // ignore error if not found

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the first location that has one. Tests run
// from nested directories, so a few parent levels are probed too.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string config values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// ApplyDefaults fills every planner and pricing tunable that the config
// file left at its zero value. Exported so tests can build a complete
// config without a file.
func ApplyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "aucta-logistics"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Camunda.BrokerAddress == "" {
		cfg.Camunda.BrokerAddress = "localhost:26500"
	}
	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}

	sc := &cfg.Planner.Scoring
	if sc.TimeWeight == 0 && sc.CostWeight == 0 && sc.RiskWeight == 0 {
		sc.TimeWeight, sc.CostWeight, sc.RiskWeight = 0.35, 0.35, 0.30
	}
	if sc.GradeAMin == 0 {
		sc.GradeAMin = 80
	}
	if sc.GradeBMin == 0 {
		sc.GradeBMin = 60
	}
	if sc.BlockingRisk == 0 {
		sc.BlockingRisk = 50
	}
	if sc.WarningRisk == 0 {
		sc.WarningRisk = 25
	}
	if sc.MultiHopRisk == 0 {
		sc.MultiHopRisk = 10
	}
	if sc.IntlRisk == 0 {
		sc.IntlRisk = 10
	}
	if sc.HighValueRisk == 0 {
		sc.HighValueRisk = 15
	}
	if sc.HighValueFloor == 0 {
		sc.HighValueFloor = 10000
	}

	mg := &cfg.Planner.Margins
	if mg.Tier2Multiplier == 0 {
		mg.Tier2Multiplier = 1.35
	}
	if mg.Tier3Multiplier == 0 {
		mg.Tier3Multiplier = 1.40
	}
	if mg.Tier2MinPct == 0 {
		mg.Tier2MinPct = 20
	}
	if mg.Tier3MinPct == 0 {
		mg.Tier3MinPct = 25
	}

	lb := &cfg.Planner.Labor
	if lb.BaseHourlyRate == 0 {
		lb.BaseHourlyRate = 65
	}
	if lb.OvertimeFactor == 0 {
		lb.OvertimeFactor = 1.5
	}
	if lb.RegularHours == 0 {
		lb.RegularHours = 8
	}
	if lb.PerDiem == 0 {
		lb.PerDiem = 150
	}
	if lb.PerDiemHours == 0 {
		lb.PerDiemHours = 12
	}
	if lb.OvernightAllow == 0 {
		lb.OvernightAllow = 220
	}
	if lb.OvernightHours == 0 {
		lb.OvernightHours = 16
	}
	if lb.WGReturnDiscount == 0 {
		lb.WGReturnDiscount = 0.5
	}

	su := &cfg.Planner.Surcharges
	if su.PeakSeasonPct == 0 {
		su.PeakSeasonPct = 15
	}
	if len(su.PeakWindows) == 0 {
		su.PeakWindows = []string{"11-15..12-24", "06-01..07-15"}
	}
	if su.WeekendFlatFee == 0 {
		su.WeekendFlatFee = 75
	}
	if su.FragilePct == 0 {
		su.FragilePct = 1
	}
	if su.FuelPct == 0 {
		su.FuelPct = 5
	}
	if su.InsurancePct == 0 {
		su.InsurancePct = 0.3
	}
	if su.InsuranceFloor == 0 {
		su.InsuranceFloor = 25
	}

	sd := &cfg.Planner.Schedule
	if sd.DefaultPickupDelayHours == 0 {
		sd.DefaultPickupDelayHours = 2
	}
	if sd.PickupBufferMinutes == 0 {
		sd.PickupBufferMinutes = 30
	}
	if sd.DeliveryBufferMinutes == 0 {
		sd.DeliveryBufferMinutes = 45
	}
	if sd.RolloutCutoffHour == 0 {
		sd.RolloutCutoffHour = 14
	}
	if sd.AuthDwellHours == 0 {
		sd.AuthDwellHours = 4
	}
	if sd.SewingDwellHours == 0 {
		sd.SewingDwellHours = 6
	}
	if sd.TaggingDwellHours == 0 {
		sd.TaggingDwellHours = 2
	}
	if sd.DHLBufferHours == 0 {
		sd.DHLBufferHours = 24
	}
	if sd.DHLExpressBufferHours == 0 {
		sd.DHLExpressBufferHours = 12
	}

	se := &cfg.Planner.Selection
	if se.DistanceWeight == 0 {
		se.DistanceWeight = 0.35
	}
	if se.CostWeight == 0 {
		se.CostWeight = 0.30
	}
	if se.CapacityWeight == 0 {
		se.CapacityWeight = 0.25
	}
	if se.StockWeight == 0 {
		se.StockWeight = 0.05
	}
	if se.NoSewingPenalty == 0 {
		se.NoSewingPenalty = 50
	}
	if se.LowCapacityRatio == 0 {
		se.LowCapacityRatio = 0.10
	}
	if se.LowCapacityPen == 0 {
		se.LowCapacityPen = 30
	}
	if se.HighFeeThreshold == 0 {
		se.HighFeeThreshold = 300
	}
	if se.HighFeePenalty == 0 {
		se.HighFeePenalty = 25
	}

	gr := &cfg.Planner.Guardrails
	if gr.SLABufferMinDays == 0 {
		gr.SLABufferMinDays = 2
	}
	if gr.CapacityCriticalPct == 0 {
		gr.CapacityCriticalPct = 10
	}
	if gr.HighValueCustomsEUR == 0 {
		gr.HighValueCustomsEUR = 1000
	}

	pr := &cfg.Pricing
	if pr.SessionHardCap == 0 {
		pr.SessionHardCap = 10
	}
	if pr.ProviderTimeout == 0 {
		pr.ProviderTimeout = 3000
	}
	if pr.TTL == nil {
		pr.TTL = map[string]int{}
	}
	if pr.TTL["flight"] == 0 {
		pr.TTL["flight"] = 4 * 3600
	}
	if pr.TTL["train"] == 0 {
		pr.TTL["train"] = 6 * 3600
	}
	if pr.TTL["ground"] == 0 {
		pr.TTL["ground"] = 12 * 3600
	}
	if pr.TTL["parcel"] == 0 {
		pr.TTL["parcel"] = 24 * 3600
	}
}

func validateConfig(cfg *Config) error {
	sc := cfg.Planner.Scoring
	sum := sc.TimeWeight + sc.CostWeight + sc.RiskWeight
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.2f", sum)
	}
	if cfg.Planner.Margins.Tier2Multiplier < 1 || cfg.Planner.Margins.Tier3Multiplier < 1 {
		return fmt.Errorf("margin multipliers must be >= 1")
	}
	if cfg.Pricing.SessionHardCap < 1 {
		return fmt.Errorf("pricing session hard cap must be >= 1")
	}
	return nil
}

// Default returns a fully defaulted config without touching disk. Used by
// tests and by callers that only need planner tunables.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
