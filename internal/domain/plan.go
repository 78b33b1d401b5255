package domain

// PlanName identifies a subscription plan.
type PlanName string

// Known plans
const (
	PlanFree    PlanName = "Free"
	PlanStarter PlanName = "Starter"
	PlanGrowth  PlanName = "Growth"
	PlanPro     PlanName = "Pro"
)

// IsValid reports whether p is a known plan.
func (p PlanName) IsValid() bool {
	switch p {
	case PlanFree, PlanStarter, PlanGrowth, PlanPro:
		return true
	default:
		return false
	}
}

// Plan describes a row of the pricing table. Billing is not processed;
// the catalogue is static.
type Plan struct {
	Name PlanName `json:"name"`
	// PriceUSD is the monthly price in whole dollars.
	PriceUSD int `json:"price_usd"`
	// MonthlyCredits is ignored when Unlimited is set.
	MonthlyCredits int      `json:"monthly_credits"`
	Unlimited      bool     `json:"unlimited"`
	Model          string   `json:"model"`
	Features       []string `json:"features"`
}

var plans = []Plan{
	{
		Name:           PlanFree,
		PriceUSD:       0,
		MonthlyCredits: 10,
		Model:          "Basic",
		Features:       []string{"Standard Support"},
	},
	{
		Name:           PlanStarter,
		PriceUSD:       49,
		MonthlyCredits: 1000,
		Model:          "Basic",
		Features:       []string{"Analytics (24h)", "Standard Support"},
	},
	{
		Name:           PlanGrowth,
		PriceUSD:       199,
		MonthlyCredits: 5000,
		Model:          "Advanced Neural",
		Features:       []string{"Real-time Analytics", "Priority Feed", "API Access", "Dedicated Support"},
	},
	{
		Name:      PlanPro,
		PriceUSD:  599,
		Unlimited: true,
		Model:     "Custom Training",
		Features:  []string{"Enterprise Scale", "White Label Options", "Team Management"},
	},
}

// Plans returns the plan catalogue in ascending price order.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	for i, p := range plans {
		p.Features = append([]string(nil), p.Features...)
		out[i] = p
	}
	return out
}
