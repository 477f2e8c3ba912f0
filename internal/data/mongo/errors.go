package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/movement"
)

// storeError wraps a driver error, tagging connectivity failures with
// movement.ErrStoreUnavailable so the API can answer 503 instead of 500
func storeError(op string, err error) error {
	if isUnavailable(err) {
		return fmt.Errorf("%s: %w: %v", op, movement.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUnavailable(err error) bool {
	return mongo.IsNetworkError(err) ||
		mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		errors.Is(err, context.DeadlineExceeded)
}
