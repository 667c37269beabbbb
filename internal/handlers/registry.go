package handlers

// AppHandlers bundles the handlers for route registration.
type AppHandlers struct {
	AuthHandler   *AuthHandler
	UserHandler   *UserHandler
	ConfigHandler *ConfigHandler
}
