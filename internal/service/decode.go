// Package service contains the business logic of the coaching platform:
// directory, partnership ledger, catalog and the request lifecycle engine.
package service

import (
	"encoding/json"

	"rightfit/internal/models"
)

// decodeInto round-trips an already validated payload map through JSON into a
// typed model. Validation runs first, so a failure here means the payload and
// the model went out of sync.
func decodeInto(data map[string]any, dest any) *models.AppError {
	b, err := json.Marshal(data)
	if err != nil {
		return models.NewInternalError(err)
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
