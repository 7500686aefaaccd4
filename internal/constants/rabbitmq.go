package constants

const (
	SearchExchange = "search_exchange"

	SavedSearchCreatedRoutingKey = "saved_search.created"
	SavedSearchCreatedEventName  = "SavedSearchCreatedEvent"
	SavedSearchCreatedVersion    = "1.0.0"
)
