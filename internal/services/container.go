package services

// ServiceContainer bundles the wired services for handler construction.
type ServiceContainer struct {
	AuthService        AuthService
	ChefService        ChefService
	ReviewService      ReviewService
	ApplicationService ApplicationService
	ContactService     ContactService
}
