package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/skolarity/fee_ledger_app/internal/apperrors"
	"github.com/skolarity/fee_ledger_app/internal/core/domain"
	portsrepo "github.com/skolarity/fee_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/skolarity/fee_ledger_app/internal/core/ports/services"
	"github.com/skolarity/fee_ledger_app/internal/core/services"
	"github.com/skolarity/fee_ledger_app/internal/dto"
)

// --- Mock HistoryRepository ---
type MockHistoryRepository struct {
	mock.Mock
}

var _ portsrepo.HistoryRepository = (*MockHistoryRepository)(nil)

func (m *MockHistoryRepository) AppendHistoryInTx(ctx context.Context, tx pgx.Tx, entry domain.HistoryEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockHistoryRepository) ListHistoryByFeeID(ctx context.Context, feeID string, limit int, nextToken *string) ([]domain.HistoryEntry, *string, error) {
	args := m.Called(ctx, feeID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.HistoryEntry), returnedNextToken, args.Error(2)
}

// --- Test Suite Setup ---
type HistoryServiceTestSuite struct {
	suite.Suite
	mockHistoryRepo *MockHistoryRepository
	mockFeeRepo     *MockFeeRepository
	service         portssvc.HistorySvcFacade
	tx              pgx.Tx
	feeID           string
	actorID         string
}

func (suite *HistoryServiceTestSuite) SetupTest() {
	suite.mockHistoryRepo = new(MockHistoryRepository)
	suite.mockFeeRepo = new(MockFeeRepository)
	suite.service = services.NewHistoryService(suite.mockHistoryRepo, suite.mockFeeRepo)

	suite.tx = &stubTx{}
	suite.feeID = uuid.NewString()
	suite.actorID = uuid.NewString()
}

func (suite *HistoryServiceTestSuite) sampleEntry(action domain.HistoryAction) domain.HistoryEntry {
	amount := decimal.NewFromInt(200)
	return domain.HistoryEntry{
		HistoryID: uuid.NewString(),
		FeeID:     suite.feeID,
		Action:    action,
		Details: domain.HistoryDetails{
			ItemID:   uuid.NewString(),
			ItemKind: domain.KindDiscount,
			Amount:   &amount,
		},
		ActorID:   suite.actorID,
		CreatedAt: time.Now().UTC(),
	}
}

// --- RecordInTx ---

func (suite *HistoryServiceTestSuite) TestRecordInTx_Success() {
	ctx := context.Background()
	amount := decimal.NewFromInt(200)
	details := domain.HistoryDetails{
		ItemID:   uuid.NewString(),
		ItemKind: domain.KindDiscount,
		Amount:   &amount,
	}

	var appended domain.HistoryEntry
	suite.mockHistoryRepo.On("AppendHistoryInTx", ctx, suite.tx, mock.AnythingOfType("domain.HistoryEntry")).
		Run(func(args mock.Arguments) {
			appended = args.Get(2).(domain.HistoryEntry)
		}).Return(nil).Once()

	err := suite.service.RecordInTx(ctx, suite.tx, suite.feeID, domain.ActionDiscountAdded, details, suite.actorID)

	suite.Require().NoError(err)
	suite.NotEmpty(appended.HistoryID)
	suite.Equal(suite.feeID, appended.FeeID)
	suite.Equal(domain.ActionDiscountAdded, appended.Action)
	suite.Equal(suite.actorID, appended.ActorID)
	suite.Equal(details.ItemID, appended.Details.ItemID)
	suite.False(appended.CreatedAt.IsZero())
	suite.mockHistoryRepo.AssertExpectations(suite.T())
}

func (suite *HistoryServiceTestSuite) TestRecordInTx_MissingActor() {
	ctx := context.Background()

	err := suite.service.RecordInTx(ctx, suite.tx, suite.feeID, domain.ActionChargeAdded, domain.HistoryDetails{}, "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockHistoryRepo.AssertNotCalled(suite.T(), "AppendHistoryInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HistoryServiceTestSuite) TestRecordInTx_RepositoryError() {
	ctx := context.Background()

	suite.mockHistoryRepo.On("AppendHistoryInTx", ctx, suite.tx, mock.AnythingOfType("domain.HistoryEntry")).Return(apperrors.ErrInternal).Once()

	err := suite.service.RecordInTx(ctx, suite.tx, suite.feeID, domain.ActionFeeWaived, domain.HistoryDetails{}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInternal)
}

// --- GetHistory ---

func (suite *HistoryServiceTestSuite) TestGetHistory_Success() {
	ctx := context.Background()
	entries := []domain.HistoryEntry{
		suite.sampleEntry(domain.ActionDiscountAdded),
		suite.sampleEntry(domain.ActionFeeAssigned),
	}

	suite.mockFeeRepo.On("FindFeeByID", ctx, suite.feeID).Return(&domain.EnrollmentFee{FeeID: suite.feeID}, nil).Once()
	suite.mockHistoryRepo.On("ListHistoryByFeeID", ctx, suite.feeID, 20, (*string)(nil)).Return(entries, "next-page", nil).Once()

	resp, err := suite.service.GetHistory(ctx, suite.feeID, dto.ListHistoryParams{})

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Len(resp.Entries, 2)
	suite.Equal(string(domain.ActionDiscountAdded), resp.Entries[0].Action)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("next-page", *resp.NextToken)
}

func (suite *HistoryServiceTestSuite) TestGetHistory_ClampsLimit() {
	ctx := context.Background()

	suite.mockFeeRepo.On("FindFeeByID", ctx, suite.feeID).Return(&domain.EnrollmentFee{FeeID: suite.feeID}, nil).Once()
	suite.mockHistoryRepo.On("ListHistoryByFeeID", ctx, suite.feeID, 100, (*string)(nil)).Return([]domain.HistoryEntry{}, nil, nil).Once()

	resp, err := suite.service.GetHistory(ctx, suite.feeID, dto.ListHistoryParams{Limit: 5000})

	suite.Require().NoError(err)
	suite.Empty(resp.Entries)
	suite.Nil(resp.NextToken)
	suite.mockHistoryRepo.AssertExpectations(suite.T())
}

func (suite *HistoryServiceTestSuite) TestGetHistory_FeeNotFound() {
	ctx := context.Background()

	suite.mockFeeRepo.On("FindFeeByID", ctx, suite.feeID).Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.GetHistory(ctx, suite.feeID, dto.ListHistoryParams{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(resp)
	suite.mockHistoryRepo.AssertNotCalled(suite.T(), "ListHistoryByFeeID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHistoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(HistoryServiceTestSuite))
}
