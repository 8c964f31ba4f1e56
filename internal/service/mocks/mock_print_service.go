package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"vaultprint/internal/service"
)

type MockPrintService struct {
	mock.Mock
}

func (m *MockPrintService) Print(ctx context.Context, req service.PrintRequest) (*service.PrintReceipt, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PrintReceipt), args.Error(1)
}
