package repositories

// RepositoryProvider groups the repository implementations wired at startup.
type RepositoryProvider struct {
	AccountRepo     AccountRepository
	TransactionRepo TransactionRepository
}
