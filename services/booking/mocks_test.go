package booking

import (
	"context"

	"reservas/models"

	"github.com/stretchr/testify/mock"
)

type mockChecker struct {
	mock.Mock
	before func()
}

func (m *mockChecker) CheckConflicts(ctx context.Context, resourceID int, start, end string) (*models.ConflictReport, error) {
	if m.before != nil {
		m.before()
	}
	args := m.Called(ctx, resourceID, start, end)
	report, _ := args.Get(0).(*models.ConflictReport)
	return report, args.Error(1)
}

type mockSubmitter struct {
	mock.Mock
	before func()
}

func (m *mockSubmitter) Create(ctx context.Context, req models.BookingRequest) (*models.Reservation, error) {
	if m.before != nil {
		m.before()
	}
	args := m.Called(ctx, req)
	created, _ := args.Get(0).(*models.Reservation)
	return created, args.Error(1)
}
