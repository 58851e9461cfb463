package domain

// Tier is the loyalty classification bucket derived from a point total.
// It is never stored, always recomputed.
type Tier string

const (
	TierBronze   Tier = "Bronze"
	TierSilver   Tier = "Silver"
	TierGold     Tier = "Gold"
	TierPlatinum Tier = "Platinum"
)

// TierFor classifies a point total.
func TierFor(points int64) Tier {
	switch {
	case points >= 200:
		return TierPlatinum
	case points >= 150:
		return TierGold
	case points >= 75:
		return TierSilver
	default:
		return TierBronze
	}
}

// LoyaltyAccount is a per-customer lifetime point balance.
type LoyaltyAccount struct {
	Name   string `gorm:"primaryKey;size:200" json:"name"`
	Points int64  `json:"points"`
}

// TableName Specify table name
func (LoyaltyAccount) TableName() string {
	return "loyalty_account"
}

// LoyaltyEntry is a listed account with its derived tier.
type LoyaltyEntry struct {
	Name   string `json:"name"`
	Points int64  `json:"points"`
	Tier   Tier   `json:"tier"`
}

// LoyaltyChange reports the effect of a point adjustment. Level changes
// are observational only and never stored.
type LoyaltyChange struct {
	Name      string `json:"name"`
	OldPoints int64  `json:"old_points"`
	NewPoints int64  `json:"new_points"`
	OldTier   Tier   `json:"old_tier"`
	NewTier   Tier   `json:"new_tier"`
	LevelUp   bool   `json:"level_up"`
	LevelDown bool   `json:"level_down"`
}

// LoyaltyStats summarizes the loyalty ledger.
type LoyaltyStats struct {
	TotalCustomers int     `json:"total_customers"`
	TotalPoints    int64   `json:"total_points"`
	AveragePoints  float64 `json:"average_points"`
	TopCustomer    string  `json:"top_customer"`
	TopPoints      int64   `json:"top_points"`
}
