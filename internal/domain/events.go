package domain

// Event bus topics. Payloads mirror the snapshots replayed to a
// dashboard on connect.
const (
	TopicSalesUpdate    = "sales:update"
	TopicProductsUpdate = "products:update"
	TopicLoyaltyUpdate  = "loyalty:update"
	TopicConfigUpdate   = "config:update"
	TopicThemeUpdate    = "theme:update"
	TopicCalcUpdate     = "calculator:update"
)
