package contracts

// SensitivityResult is the impact of a fixed ±10% price perturbation of one
// material on a chemistry's battery cost at a single month. Transient,
// computed on demand.
type SensitivityResult struct {
	Material              string  `json:"material"`
	ContributionUSDPerKWh float64 `json:"contribution_usd_per_kwh"`
	EffectiveTonsPerGWh   float64 `json:"effective_tons_per_gwh"`
	DeltaUp               float64 `json:"delta_up"`
	DeltaDown             float64 `json:"delta_down"`
	Impact                float64 `json:"impact"`
}
