package services

// ServiceContainer bundles the services for handler wiring.
type ServiceContainer struct {
	AuthService         AuthService
	VerificationService VerificationService
	UserService         UserService
	RBACService         RBACService
}
