package handlers

// AppHandlers bundles the constructed handlers for route registration.
type AppHandlers struct {
	AuthHandler        *AuthHandler
	ChefHandler        *ChefHandler
	ReviewHandler      *ReviewHandler
	ApplicationHandler *ApplicationHandler
	ContactHandler     *ContactHandler
	FileHandler        *FileHandler
}
