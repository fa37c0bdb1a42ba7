// Package resilience groups the fault tolerance helpers used around the database.
//
// Storage failures are never retried automatically; the circuit breaker only
// makes requests fail fast while the database is known to be unreachable.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.DBConfig())
//	err := cb.Run(func() error {
//	    return tx.Commit()
//	})
package resilience
