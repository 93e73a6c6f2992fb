package output

import "context"

// Pacer is waited on before every remote call.
type Pacer interface {
	Wait(ctx context.Context) error
}
