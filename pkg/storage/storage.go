package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hearthcast/hearthcast/pkg/types"
	"github.com/levenlabs/go-lflag"
)

var ErrSiteNotFound = errors.New("site not found")

// Database defines the interface for persisting data and retrieving settings.
type Database interface {
	// Settings
	GetSettings(ctx context.Context, siteID string) (types.Settings, int, error)
	SetSettings(ctx context.Context, siteID string, settings types.Settings, version int) error

	// Estimate history
	SaveEstimate(ctx context.Context, siteID string, est types.SavedEstimate) error
	GetEstimateHistory(ctx context.Context, siteID string, start, end time.Time) ([]types.SavedEstimate, error)

	// Lifecycle
	Close() error
}

// Configured sets up the Storage provider based on flags.
func Configured() Database {
	provider := lflag.String("storage-provider", "firestore", "Storage provider to use (available: firestore)")

	var p struct{ Database }

	fs := configuredFirestore()

	lflag.Do(func() {
		switch *provider {
		case "firestore":
			if err := fs.Validate(); err != nil {
				panic(fmt.Sprintf("firestore validation failed: %v", err))
			}
			p.Database = fs
			if err := fs.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("firestore init failed: %v", err))
			}
		default:
			panic(fmt.Sprintf("unknown storage provider: %s", *provider))
		}
	})

	return &p
}
