package storagemock

import (
	"context"
	"time"

	"github.com/hearthcast/hearthcast/pkg/storage"
	"github.com/hearthcast/hearthcast/pkg/types"
	"github.com/stretchr/testify/mock"
)

type MockDatabase struct {
	mock.Mock
}

var _ storage.Database = (*MockDatabase)(nil)

func (m *MockDatabase) GetSettings(ctx context.Context, siteID string) (types.Settings, int, error) {
	args := m.Called(ctx, siteID)
	// return empty if not specified, or checks args
	if len(args) > 0 {
		return args.Get(0).(types.Settings), args.Int(1), args.Error(2)
	}
	return types.Settings{}, 0, nil
}

func (m *MockDatabase) SetSettings(ctx context.Context, siteID string, settings types.Settings, version int) error {
	args := m.Called(ctx, siteID, settings, version)
	return args.Error(0)
}

func (m *MockDatabase) SaveEstimate(ctx context.Context, siteID string, est types.SavedEstimate) error {
	args := m.Called(ctx, siteID, est)
	return args.Error(0)
}

func (m *MockDatabase) GetEstimateHistory(ctx context.Context, siteID string, start, end time.Time) ([]types.SavedEstimate, error) {
	args := m.Called(ctx, siteID, start, end)
	if ests, ok := args.Get(0).([]types.SavedEstimate); ok {
		return ests, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDatabase) Close() error {
	args := m.Called()
	return args.Error(0)
}
