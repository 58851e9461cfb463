package apiserver

// InitRouter registers all API routes. Call after webserver.Init.
func InitRouter() {
	registerSalesRoutes()
	registerStatsRoutes()
	registerLoyaltyRoutes()
	registerSettingsRoutes()
	registerExportRoutes()
}
