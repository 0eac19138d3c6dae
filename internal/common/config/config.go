// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Database DatabaseConfig          `mapstructure:"database"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Planner  PlannerConfig           `mapstructure:"planner"`
	Pricing  PricingConfig           `mapstructure:"pricing"`
	Logging  LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Planner Configuration ---

// PlannerConfig holds every tunable of the route planner. These values are
// configuration, not hardwired business truth.
type PlannerConfig struct {
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	Margins    MarginConfig     `mapstructure:"margins"`
	Labor      LaborConfig      `mapstructure:"labor"`
	Surcharges SurchargeConfig  `mapstructure:"surcharges"`
	Schedule   ScheduleConfig   `mapstructure:"schedule"`
	Selection  SelectionConfig  `mapstructure:"selection"`
	Guardrails GuardrailsConfig `mapstructure:"guardrails"`
}

type ScoringConfig struct {
	TimeWeight     float64 `mapstructure:"time_weight"`
	CostWeight     float64 `mapstructure:"cost_weight"`
	RiskWeight     float64 `mapstructure:"risk_weight"`
	GradeAMin      float64 `mapstructure:"grade_a_min"`
	GradeBMin      float64 `mapstructure:"grade_b_min"`
	BlockingRisk   float64 `mapstructure:"blocking_risk_penalty"`
	WarningRisk    float64 `mapstructure:"warning_risk_penalty"`
	MultiHopRisk   float64 `mapstructure:"multi_hop_risk_penalty"`
	IntlRisk       float64 `mapstructure:"international_risk_penalty"`
	HighValueRisk  float64 `mapstructure:"high_value_risk_penalty"`
	HighValueFloor float64 `mapstructure:"high_value_floor"` // declared value in EUR
}

type MarginConfig struct {
	Tier2Multiplier float64 `mapstructure:"tier2_multiplier"`
	Tier3Multiplier float64 `mapstructure:"tier3_multiplier"`
	Tier2MinPct     float64 `mapstructure:"tier2_min_pct"`
	Tier3MinPct     float64 `mapstructure:"tier3_min_pct"`
}

// Multiplier returns the client price multiplier for the tier.
func (m MarginConfig) Multiplier(tier3 bool) float64 {
	if tier3 {
		return m.Tier3Multiplier
	}
	return m.Tier2Multiplier
}

type LaborConfig struct {
	BaseHourlyRate   float64 `mapstructure:"base_hourly_rate"`   // EUR/h
	OvertimeFactor   float64 `mapstructure:"overtime_factor"`    // applied past RegularHours
	RegularHours     float64 `mapstructure:"regular_hours"`      // hours billed at base rate
	PerDiem          float64 `mapstructure:"per_diem"`           // flat, total hours > PerDiemHours
	PerDiemHours     float64 `mapstructure:"per_diem_hours"`
	OvernightAllow   float64 `mapstructure:"overnight_allowance"` // accommodation+meals, > OvernightHours
	OvernightHours   float64 `mapstructure:"overnight_hours"`
	WGReturnDiscount float64 `mapstructure:"wg_return_discount"` // cost factor of the return segment
}

type SurchargeConfig struct {
	PeakSeasonPct  float64  `mapstructure:"peak_season_pct"`  // of labor subtotal
	PeakWindows    []string `mapstructure:"peak_windows"`     // "MM-DD..MM-DD"
	WeekendFlatFee float64  `mapstructure:"weekend_flat_fee"` // EUR
	FragilePct     float64  `mapstructure:"fragile_pct"`      // of declared value, fragility=high
	FuelPct        float64  `mapstructure:"fuel_pct"`         // of transport subtotal, applied last
	InsurancePct   float64  `mapstructure:"insurance_pct"`    // of declared value
	InsuranceFloor float64  `mapstructure:"insurance_floor"`  // EUR
}

type ScheduleConfig struct {
	DefaultPickupDelayHours float64 `mapstructure:"default_pickup_delay_hours"`
	PickupBufferMinutes     int     `mapstructure:"pickup_buffer_minutes"`
	DeliveryBufferMinutes   int     `mapstructure:"delivery_buffer_minutes"`
	RolloutCutoffHour       int     `mapstructure:"rollout_cutoff_hour"` // daily inter-hub dispatch
	AuthDwellHours          float64 `mapstructure:"auth_dwell_hours"`
	SewingDwellHours        float64 `mapstructure:"sewing_dwell_hours"`
	TaggingDwellHours       float64 `mapstructure:"tagging_dwell_hours"`
	DHLBufferHours          float64 `mapstructure:"dhl_buffer_hours"`
	DHLExpressBufferHours   float64 `mapstructure:"dhl_express_buffer_hours"`
}

type SelectionConfig struct {
	DistanceWeight   float64 `mapstructure:"distance_weight"`
	CostWeight       float64 `mapstructure:"cost_weight"`
	CapacityWeight   float64 `mapstructure:"capacity_weight"`
	StockWeight      float64 `mapstructure:"stock_weight"`
	NoSewingPenalty  float64 `mapstructure:"no_sewing_penalty"`
	LowCapacityRatio float64 `mapstructure:"low_capacity_ratio"`
	LowCapacityPen   float64 `mapstructure:"low_capacity_penalty"`
	HighFeeThreshold float64 `mapstructure:"high_fee_threshold"` // EUR
	HighFeePenalty   float64 `mapstructure:"high_fee_penalty"`
}

type GuardrailsConfig struct {
	SLABufferMinDays    float64 `mapstructure:"sla_buffer_min_days"`
	CapacityCriticalPct float64 `mapstructure:"capacity_critical_pct"`
	HighValueCustomsEUR float64 `mapstructure:"high_value_customs_eur"`
}

// --- Pricing Configuration ---

type PricingConfig struct {
	SessionHardCap  int                       `mapstructure:"session_hard_cap"`
	ProviderTimeout int                       `mapstructure:"provider_timeout"` // milliseconds
	TTL             map[string]int            `mapstructure:"ttl"`              // seconds per service
	Providers       map[string][]ProviderSpec `mapstructure:"providers"`        // ordered, per service
}

// ProviderSpec configures one live pricing provider endpoint.
type ProviderSpec struct {
	Name    string `mapstructure:"name"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Enabled bool   `mapstructure:"enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
