package handler

// Handlers groups every HTTP handler the router mounts. DevToken and Result
// are nil when their routes are disabled.
type Handlers struct {
	Chat     *ChatHandler
	Result   *ResultHandler
	Health   *HealthHandler
	DevToken *DevTokenHandler
}
