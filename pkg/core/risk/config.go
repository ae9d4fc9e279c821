package risk

import (
	"errors"
	"fmt"
	"os"

	"github.com/hjson/hjson-go/v4"
	"github.com/shopspring/decimal"
)

var (
	ErrBadWeights     = errors.New("factor weights must sum to 1")
	ErrMissingFactor  = errors.New("factor missing from config")
	ErrInvertedAnchor = errors.New("factor anchors must differ")
)

// FactorConfig defines one factor's weight and scoring anchors. A raw
// value at Best scores 0, at Worst scores 100, linear in between,
// clamped outside. Best may sit above or below Worst; direction falls
// out of the interpolation.
type FactorConfig struct {
	ID          FactorID
	Weight      decimal.Decimal
	Description string
	Best        decimal.Decimal
	Worst       decimal.Decimal
}

// Config is the ordered factor table. Order fixes the order of
// Assessment.Factors.
type Config struct {
	Factors []FactorConfig
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// DefaultConfig returns the built-in factor table.
func DefaultConfig() Config {
	return Config{Factors: []FactorConfig{
		{FactorDSCR, dec("0.20"), "debt service coverage ratio", dec("1.5"), dec("1.0")},
		{FactorCashOnCash, dec("0.15"), "cash-on-cash return, percent", dec("10"), dec("4")},
		{FactorVacancy, dec("0.10"), "vacancy relative to market", dec("-1.0"), dec("1.0")},
		{FactorLTV, dec("0.10"), "loan-to-value, percent", dec("0"), dec("80")},
		{FactorAppreciation, dec("0.10"), "year-over-year appreciation, percent", dec("5"), dec("-2")},
		{FactorRentToPrice, dec("0.10"), "monthly rent over price, percent", dec("1.0"), dec("0.6")},
		{FactorPropertyAge, dec("0.05"), "property age, years", dec("0"), dec("50")},
		{FactorDaysOnMarket, dec("0.05"), "listing days on market", dec("90"), dec("180")},
		{FactorPopGrowth, dec("0.05"), "population growth, percent", dec("2"), dec("-1")},
		{FactorConcentration, dec("0.05"), "portfolio share in one zip, percent", dec("50"), dec("100")},
		{FactorExpenseRatio, dec("0.05"), "operating expenses over income, percent", dec("55"), dec("105")},
	}}
}

// factorFile is the on-disk shape. HJSON so the table can carry
// comments next to each threshold.
type factorFile struct {
	Factors []struct {
		ID          string  `json:"id"`
		Weight      float64 `json:"weight"`
		Description string  `json:"description"`
		Best        float64 `json:"best"`
		Worst       float64 `json:"worst"`
	} `json:"factors"`
}

// LoadConfig reads a factor table from an HJSON file and validates it.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("risk config: %w", err)
	}
	var file factorFile
	if err := hjson.Unmarshal(raw, &file); err != nil {
		return Config{}, fmt.Errorf("risk config %s: %w", path, err)
	}
	cfg := Config{}
	for _, f := range file.Factors {
		cfg.Factors = append(cfg.Factors, FactorConfig{
			ID:          FactorID(f.ID),
			Weight:      decimal.NewFromFloat(f.Weight),
			Description: f.Description,
			Best:        decimal.NewFromFloat(f.Best),
			Worst:       decimal.NewFromFloat(f.Worst),
		})
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("risk config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the table is complete and the weights form a
// probability mass.
func (c Config) Validate() error {
	required := []FactorID{
		FactorDSCR, FactorCashOnCash, FactorVacancy, FactorLTV,
		FactorAppreciation, FactorRentToPrice, FactorPropertyAge,
		FactorDaysOnMarket, FactorPopGrowth, FactorConcentration,
		FactorExpenseRatio,
	}
	seen := make(map[FactorID]bool, len(c.Factors))
	sum := decimal.Zero
	for _, f := range c.Factors {
		seen[f.ID] = true
		sum = sum.Add(f.Weight)
		if f.Best.Equal(f.Worst) {
			return fmt.Errorf("%w: %s", ErrInvertedAnchor, f.ID)
		}
		if f.Weight.IsNegative() {
			return fmt.Errorf("negative weight for %s", f.ID)
		}
	}
	for _, id := range required {
		if !seen[id] {
			return fmt.Errorf("%w: %s", ErrMissingFactor, id)
		}
	}
	if !sum.Equal(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: got %s", ErrBadWeights, sum)
	}
	return nil
}
