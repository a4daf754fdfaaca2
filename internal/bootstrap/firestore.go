package bootstrap

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/sales-dashboard/pkg/logger"
)

// InitFirestore opens a client for projectID. FIRESTORE_EMULATOR_HOST is
// honoured by the client library.
func InitFirestore(ctx context.Context, projectID string) (*firestore.Client, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("firestore connected", "project", projectID)
	return client, nil
}
