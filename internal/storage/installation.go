package storage

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/keepers/internal/repositories/records"
	"github.com/google/uuid"
)

var newUUID = uuid.NewString

// InstallationID returns the identifier of this installation, generating and
// storing one on first use. It is the distinct id reported with telemetry.
func InstallationID(ctx context.Context, repo records.Repository) (string, error) {
	raw, err := repo.Get(ctx, InstallationIDKey)
	if err != nil {
		return "", err
	}
	if len(raw) > 0 {
		if id, err := uuid.ParseBytes(raw); err == nil {
			return id.String(), nil
		}
	}

	id := newUUID()
	if err := repo.Set(ctx, InstallationIDKey, []byte(id)); err != nil {
		return "", fmt.Errorf("failed to store installation id: %w", err)
	}
	return id, nil
}
