package models

// User is profile data resolved by the identity service
type User struct {
	ID    uint64
	Email string
}

// WithdrawResult is the outcome of a withdrawal attempt.
// A declined withdrawal is a completed call with Withdrawn set to false,
// not an error. Balance is nil when the ledger did not report one.
type WithdrawResult struct {
	Withdrawn bool
	Message   string
	Balance   *float64
}
