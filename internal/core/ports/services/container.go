package services

// ServiceContainer bundles all services handed to the HTTP layer at boot.
type ServiceContainer struct {
	Authz   AuthzSvcFacade
	Balance BalanceSvcFacade
	Entry   EntrySvcFacade
	Session SessionSvcFacade
	Closure ClosureSvcFacade
	User    UserSvcFacade
}
