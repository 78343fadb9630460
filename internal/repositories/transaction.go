package repositories

import "context"

// TxFunc is the body of a transaction. The Repositories it receives are
// bound to the transaction and must not be used after fn returns.
type TxFunc func(ctx context.Context, repos Repositories) error
