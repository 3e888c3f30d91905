package services

// ServiceContainer groups the service facades handed to route registration.
type ServiceContainer struct {
	Account AccountSvcFacade
	Ledger  LedgerSvcFacade
}
