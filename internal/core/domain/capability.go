package domain

// Capability names an action the reconciliation core gates on roles. The
// core depends on capability checks, never on ambient role globals.
type Capability string

const (
	CapRecordEntries   Capability = "record_entries"
	CapValidateEntries Capability = "validate_entries"
	CapAssignOpening   Capability = "assign_opening_balance"
	CapCloseSessions   Capability = "close_sessions"
	CapManageUsers     Capability = "manage_users"
)
