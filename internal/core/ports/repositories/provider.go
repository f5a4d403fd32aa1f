package repositories

// RepositoryProvider bundles the concrete repositories handed to the service
// container at boot.
type RepositoryProvider struct {
	EntryRepo   EntryRepositoryFacade
	CounterRepo CounterRepositoryFacade
	BalanceRepo BalanceRepositoryFacade
	ClosureRepo ClosureRepositoryFacade
	UserRepo    UserRepositoryFacade
}
