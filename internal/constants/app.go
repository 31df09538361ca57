package constants

const (
	AppMarketplace = "marketplace-service"

	AudienceUser = "user"
)
