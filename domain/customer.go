package domain

const (
	CategoryHomeEntertainment = "Home Entertainment"
	CategoryHomeAppliances    = "Home Appliances"
	CategoryMobileDevices     = "Mobile & Personal Devices"
	CategoryBusinessSolutions = "Business Solutions"
	CategoryAutomotive        = "Automotive & Mobility Technologies"
)

// Categories lists the preferred-category options in display order.
var Categories = []string{
	CategoryHomeEntertainment,
	CategoryHomeAppliances,
	CategoryMobileDevices,
	CategoryBusinessSolutions,
	CategoryAutomotive,
}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// CustomerInput is one submitted customer form.
// Only SpendingScore and MembershipYears feed the segment assignment.
type CustomerInput struct {
	SpendingScore      int     `json:"spending_score" validate:"gte=0,lte=100"`
	MembershipYears    float64 `json:"membership_years" validate:"gte=0,lte=20"`
	Age                int     `json:"age" validate:"gte=15,lte=100"`
	Income             int     `json:"income" validate:"gte=1000,lte=500000"`
	PurchaseFrequency  int     `json:"purchase_frequency" validate:"gte=1,lte=50"`
	LastPurchaseAmount int     `json:"last_purchase_amount" validate:"gte=1,lte=10000"`
	PreferredCategory  string  `json:"preferred_category" validate:"required,category"`
}
