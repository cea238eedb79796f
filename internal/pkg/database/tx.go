package database

import "context"

// TxManager runs a function inside an atomic transaction. The implementation
// decides isolation and retry behavior; services only see the outcome.
type TxManager interface {
	RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}
