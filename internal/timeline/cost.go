package timeline

import (
	"fmt"

	"bilingo/internal/config"
	"bilingo/internal/sheet"
	"bilingo/internal/textutil"
)

// Per million characters, in US dollars.
const (
	StandardRatePerMillion = 4.00
	PremiumRatePerMillion  = 16.00
)

// Estimate is an advisory narration cost.
type Estimate struct {
	Characters int
	Provider   config.Provider
	Standard   float64
	Premium    float64
}

// Free reports whether the provider charges nothing.
func (e Estimate) Free() bool {
	return e.Provider != config.ProviderSecondary
}

// String renders the estimate as generate and estimate print it.
func (e Estimate) String() string {
	if e.Free() {
		return fmt.Sprintf("Free (%s)", e.Provider)
	}
	return fmt.Sprintf("~$%.4f (Std) / ~$%.4f (WaveNet)", e.Standard, e.Premium)
}

// EstimateCost sums the characters of both columns. Costs are only computed
// for the cloud provider.
func EstimateCost(rows []sheet.Row, provider config.Provider) Estimate {
	if provider == "" {
		provider = config.ProviderPrimary
	}
	chars := 0
	for _, row := range rows {
		chars += textutil.CharCount(row.Text1, row.Text2)
	}
	est := Estimate{Characters: chars, Provider: provider}
	if provider == config.ProviderSecondary {
		est.Standard = float64(chars) / 1_000_000 * StandardRatePerMillion
		est.Premium = float64(chars) / 1_000_000 * PremiumRatePerMillion
	}
	return est
}
