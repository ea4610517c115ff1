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

// stubTx stands in for a live pgx transaction; none of its methods are
// invoked because all transaction control goes through the repository mock.
type stubTx struct {
	pgx.Tx
}

// --- Mock FeeRepository ---
type MockFeeRepository struct {
	mock.Mock
}

var _ portsrepo.FeeRepositoryWithTx = (*MockFeeRepository)(nil)

func (m *MockFeeRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockFeeRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockFeeRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockFeeRepository) FindFeeByID(ctx context.Context, feeID string) (*domain.EnrollmentFee, error) {
	args := m.Called(ctx, feeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EnrollmentFee), args.Error(1)
}

func (m *MockFeeRepository) ListFeesByStudent(ctx context.Context, studentID string) ([]domain.EnrollmentFee, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EnrollmentFee), args.Error(1)
}

func (m *MockFeeRepository) ListLineItems(ctx context.Context, feeID string, kind domain.LineItemKind) ([]domain.LineItem, error) {
	args := m.Called(ctx, feeID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *MockFeeRepository) FindFeeByIDForUpdate(ctx context.Context, tx pgx.Tx, feeID string) (*domain.EnrollmentFee, error) {
	args := m.Called(ctx, tx, feeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EnrollmentFee), args.Error(1)
}

func (m *MockFeeRepository) ListActiveLineItemsInTx(ctx context.Context, tx pgx.Tx, feeID string) (domain.LineItemSet, error) {
	args := m.Called(ctx, tx, feeID)
	return args.Get(0).(domain.LineItemSet), args.Error(1)
}

func (m *MockFeeRepository) FindLineItemInTx(ctx context.Context, tx pgx.Tx, itemID string) (*domain.LineItem, error) {
	args := m.Called(ctx, tx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LineItem), args.Error(1)
}

func (m *MockFeeRepository) InsertFeeInTx(ctx context.Context, tx pgx.Tx, fee domain.EnrollmentFee) error {
	args := m.Called(ctx, tx, fee)
	return args.Error(0)
}

func (m *MockFeeRepository) InsertLineItemInTx(ctx context.Context, tx pgx.Tx, item domain.LineItem) error {
	args := m.Called(ctx, tx, item)
	return args.Error(0)
}

func (m *MockFeeRepository) SoftDeleteLineItemInTx(ctx context.Context, tx pgx.Tx, itemID string, deletedBy string, deletedAt time.Time) error {
	args := m.Called(ctx, tx, itemID, deletedBy, deletedAt)
	return args.Error(0)
}

func (m *MockFeeRepository) UpdateFeeSnapshotInTx(ctx context.Context, tx pgx.Tx, fee domain.EnrollmentFee) error {
	args := m.Called(ctx, tx, fee)
	return args.Error(0)
}

// --- Mock FeeStructureRepository ---
type MockFeeStructureRepository struct {
	mock.Mock
}

var _ portsrepo.FeeStructureRepository = (*MockFeeStructureRepository)(nil)

func (m *MockFeeStructureRepository) SaveFeeStructure(ctx context.Context, fs domain.FeeStructure) error {
	args := m.Called(ctx, fs)
	return args.Error(0)
}

func (m *MockFeeStructureRepository) FindFeeStructureByID(ctx context.Context, structureID string) (*domain.FeeStructure, error) {
	args := m.Called(ctx, structureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeStructure), args.Error(1)
}

func (m *MockFeeStructureRepository) ListFeeStructures(ctx context.Context, limit int, offset int) ([]domain.FeeStructure, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeStructure), args.Error(1)
}

// --- Mock DiscountTypeRepository ---
type MockDiscountTypeRepository struct {
	mock.Mock
}

var _ portsrepo.DiscountTypeRepository = (*MockDiscountTypeRepository)(nil)

func (m *MockDiscountTypeRepository) SaveDiscountType(ctx context.Context, dt domain.DiscountType) error {
	args := m.Called(ctx, dt)
	return args.Error(0)
}

func (m *MockDiscountTypeRepository) FindDiscountTypeByID(ctx context.Context, discountTypeID string) (*domain.DiscountType, error) {
	args := m.Called(ctx, discountTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DiscountType), args.Error(1)
}

func (m *MockDiscountTypeRepository) ListDiscountTypes(ctx context.Context, limit int, offset int) ([]domain.DiscountType, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DiscountType), args.Error(1)
}

// --- Mock HistoryRecorder ---
type MockHistoryRecorder struct {
	mock.Mock
}

var _ portssvc.HistoryRecorderSvc = (*MockHistoryRecorder)(nil)

func (m *MockHistoryRecorder) RecordInTx(ctx context.Context, tx pgx.Tx, feeID string, action domain.HistoryAction, details domain.HistoryDetails, actorID string) error {
	args := m.Called(ctx, tx, feeID, action, details, actorID)
	return args.Error(0)
}

// --- Test Suite Setup ---
type FeeServiceTestSuite struct {
	suite.Suite
	mockFeeRepo          *MockFeeRepository
	mockStructureRepo    *MockFeeStructureRepository
	mockDiscountTypeRepo *MockDiscountTypeRepository
	mockHistory          *MockHistoryRecorder
	service              portssvc.FeeSvcFacade
	tx                   pgx.Tx
	actorID              string
	structure            domain.FeeStructure
	discountType         domain.DiscountType
}

func (suite *FeeServiceTestSuite) SetupTest() {
	suite.mockFeeRepo = new(MockFeeRepository)
	suite.mockStructureRepo = new(MockFeeStructureRepository)
	suite.mockDiscountTypeRepo = new(MockDiscountTypeRepository)
	suite.mockHistory = new(MockHistoryRecorder)
	suite.service = services.NewFeeService(suite.mockFeeRepo, suite.mockStructureRepo, suite.mockDiscountTypeRepo, suite.mockHistory)

	suite.tx = &stubTx{}
	suite.actorID = uuid.NewString()

	suite.structure = domain.FeeStructure{
		StructureID: uuid.NewString(),
		Name:        "Grade 5 Fees",
		Term:        "2026-T1",
		Components: []domain.FeeComponent{
			{Name: "Tuition", Kind: domain.ComponentTuition, Amount: decimal.NewFromInt(800)},
			{Name: "Sports Levy", Kind: domain.ComponentLevy, Amount: decimal.NewFromInt(200)},
		},
		IsActive: true,
	}
	suite.discountType = domain.DiscountType{
		DiscountTypeID: uuid.NewString(),
		Name:           "Sibling Discount",
		IsActive:       true,
	}
}

// newFee builds a pending fee with base 1000 and no line items applied.
func (suite *FeeServiceTestSuite) newFee() *domain.EnrollmentFee {
	base := decimal.NewFromInt(1000)
	return &domain.EnrollmentFee{
		FeeID:            uuid.NewString(),
		EnrollmentID:     uuid.NewString(),
		StudentID:        uuid.NewString(),
		StructureID:      suite.structure.StructureID,
		BaseAmount:       base,
		DiscountedAmount: base,
		FinalAmount:      base,
		PaymentStatus:    domain.PaymentPending,
		Version:          1,
	}
}

// expectMutationTx wires the Begin/FindForUpdate/Rollback plumbing shared
// by every mutation test. Commit is expected separately so failure tests
// can assert it never happens.
func (suite *FeeServiceTestSuite) expectMutationTx(fee *domain.EnrollmentFee) {
	ctx := context.Background()
	suite.mockFeeRepo.On("Begin", ctx).Return(suite.tx, nil)
	suite.mockFeeRepo.On("Rollback", ctx, suite.tx).Return(nil)
	suite.mockFeeRepo.On("FindFeeByIDForUpdate", ctx, suite.tx, fee.FeeID).Return(fee, nil)
}

// --- AssignFee ---

func (suite *FeeServiceTestSuite) TestAssignFee_Success() {
	ctx := context.Background()
	req := dto.AssignFeeRequest{
		EnrollmentID: uuid.NewString(),
		StudentID:    uuid.NewString(),
		StructureID:  suite.structure.StructureID,
	}

	suite.mockStructureRepo.On("FindFeeStructureByID", ctx, suite.structure.StructureID).Return(&suite.structure, nil).Once()
	suite.mockFeeRepo.On("Begin", ctx).Return(suite.tx, nil).Once()
	suite.mockFeeRepo.On("Rollback", ctx, suite.tx).Return(nil)
	suite.mockFeeRepo.On("InsertFeeInTx", ctx, suite.tx, mock.AnythingOfType("domain.EnrollmentFee")).Return(nil).Once()
	suite.mockHistory.On("RecordInTx", ctx, suite.tx, mock.AnythingOfType("string"), domain.ActionFeeAssigned, mock.AnythingOfType("domain.HistoryDetails"), suite.actorID).Return(nil).Once()
	suite.mockFeeRepo.On("Commit", ctx, suite.tx).Return(nil).Once()

	fee, err := suite.service.AssignFee(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(fee)
	suite.NotEmpty(fee.FeeID)
	suite.Equal(req.EnrollmentID, fee.EnrollmentID)
	suite.True(fee.BaseAmount.Equal(decimal.NewFromInt(1000)))
	suite.True(fee.DiscountedAmount.Equal(decimal.NewFromInt(1000)))
	suite.True(fee.FinalAmount.Equal(decimal.NewFromInt(1000)))
	suite.Equal(domain.PaymentPending, fee.PaymentStatus)
	suite.Equal(int64(1), fee.Version)
	suite.Equal(suite.actorID, fee.CreatedBy)

	suite.mockFeeRepo.AssertExpectations(suite.T())
	suite.mockHistory.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestAssignFee_InactiveStructure() {
	ctx := context.Background()
	inactive := suite.structure
	inactive.IsActive = false

	suite.mockStructureRepo.On("FindFeeStructureByID", ctx, inactive.StructureID).Return(&inactive, nil).Once()

	fee, err := suite.service.AssignFee(ctx, dto.AssignFeeRequest{
		EnrollmentID: uuid.NewString(),
		StudentID:    uuid.NewString(),
		StructureID:  inactive.StructureID,
	}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(fee)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "InsertFeeInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FeeServiceTestSuite) TestAssignFee_StructureNotFound() {
	ctx := context.Background()
	structureID := uuid.NewString()

	suite.mockStructureRepo.On("FindFeeStructureByID", ctx, structureID).Return(nil, apperrors.ErrNotFound).Once()

	fee, err := suite.service.AssignFee(ctx, dto.AssignFeeRequest{
		EnrollmentID: uuid.NewString(),
		StudentID:    uuid.NewString(),
		StructureID:  structureID,
	}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(fee)
}

// --- AddDiscount ---

func (suite *FeeServiceTestSuite) TestAddDiscount_Success() {
	ctx := context.Background()
	fee := suite.newFee()

	suite.mockDiscountTypeRepo.On("FindDiscountTypeByID", ctx, suite.discountType.DiscountTypeID).Return(&suite.discountType, nil).Once()
	suite.expectMutationTx(fee)
	suite.mockFeeRepo.On("ListActiveLineItemsInTx", ctx, suite.tx, fee.FeeID).Return(domain.LineItemSet{}, nil).Once()
	suite.mockFeeRepo.On("InsertLineItemInTx", ctx, suite.tx, mock.AnythingOfType("domain.LineItem")).Return(nil).Once()

	var savedFee domain.EnrollmentFee
	suite.mockFeeRepo.On("UpdateFeeSnapshotInTx", ctx, suite.tx, mock.AnythingOfType("domain.EnrollmentFee")).
		Run(func(args mock.Arguments) {
			savedFee = args.Get(2).(domain.EnrollmentFee)
		}).Return(nil).Once()
	suite.mockHistory.On("RecordInTx", ctx, suite.tx, fee.FeeID, domain.ActionDiscountAdded, mock.AnythingOfType("domain.HistoryDetails"), suite.actorID).Return(nil).Once()
	suite.mockFeeRepo.On("Commit", ctx, suite.tx).Return(nil).Once()

	item, err := suite.service.AddDiscount(ctx, fee.FeeID, dto.AddDiscountRequest{
		Amount:         decimal.NewFromInt(200),
		DiscountTypeID: suite.discountType.DiscountTypeID,
		Reason:         "sibling discount",
	}, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(item)
	suite.Equal(domain.KindDiscount, item.Kind)
	suite.Equal(suite.discountType.DiscountTypeID, item.DiscountTypeID)
	suite.Equal(suite.actorID, item.CreatedBy)

	suite.True(savedFee.DiscountedAmount.Equal(decimal.NewFromInt(800)))
	suite.True(savedFee.FinalAmount.Equal(decimal.NewFromInt(800)))
	suite.Equal(domain.PaymentPending, savedFee.PaymentStatus)
	suite.Equal(int64(2), savedFee.Version)

	suite.mockFeeRepo.AssertExpectations(suite.T())
	suite.mockHistory.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestAddDiscount_CombinedExceedsBase() {
	ctx := context.Background()
	fee := suite.newFee()
	existing := domain.LineItemSet{
		Discounts: []domain.LineItem{
			{ItemID: uuid.NewString(), FeeID: fee.FeeID, Kind: domain.KindDiscount, Amount: decimal.NewFromInt(900)},
		},
	}

	suite.mockDiscountTypeRepo.On("FindDiscountTypeByID", ctx, suite.discountType.DiscountTypeID).Return(&suite.discountType, nil).Once()
	suite.expectMutationTx(fee)
	suite.mockFeeRepo.On("ListActiveLineItemsInTx", ctx, suite.tx, fee.FeeID).Return(existing, nil).Once()

	item, err := suite.service.AddDiscount(ctx, fee.FeeID, dto.AddDiscountRequest{
		Amount:         decimal.NewFromInt(200),
		DiscountTypeID: suite.discountType.DiscountTypeID,
	}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(item)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "InsertLineItemInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.mockHistory.AssertNotCalled(suite.T(), "RecordInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FeeServiceTestSuite) TestAddDiscount_NonPositiveAmount() {
	ctx := context.Background()

	item, err := suite.service.AddDiscount(ctx, uuid.NewString(), dto.AddDiscountRequest{
		Amount:         decimal.Zero,
		DiscountTypeID: suite.discountType.DiscountTypeID,
	}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(item)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *FeeServiceTestSuite) TestAddDiscount_InactiveDiscountType() {
	ctx := context.Background()
	inactive := suite.discountType
	inactive.IsActive = false

	suite.mockDiscountTypeRepo.On("FindDiscountTypeByID", ctx, inactive.DiscountTypeID).Return(&inactive, nil).Once()

	item, err := suite.service.AddDiscount(ctx, uuid.NewString(), dto.AddDiscountRequest{
		Amount:         decimal.NewFromInt(100),
		DiscountTypeID: inactive.DiscountTypeID,
	}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(item)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

// --- AddCharge / AddArrear ---

func (suite *FeeServiceTestSuite) TestAddCharge_RaisesFinalAmount() {
	ctx := context.Background()
	fee := suite.newFee()

	suite.expectMutationTx(fee)
	suite.mockFeeRepo.On("ListActiveLineItemsInTx", ctx, suite.tx, fee.FeeID).Return(domain.LineItemSet{}, nil).Once()
	suite.mockFeeRepo.On("InsertLineItemInTx", ctx, suite.tx, mock.AnythingOfType("domain.LineItem")).Return(nil).Once()

	var savedFee domain.EnrollmentFee
	suite.mockFeeRepo.On("UpdateFeeSnapshotInTx", ctx, suite.tx, mock.AnythingOfType("domain.EnrollmentFee")).
		Run(func(args mock.Arguments) {
			savedFee = args.Get(2).(domain.EnrollmentFee)
		}).Return(nil).Once()
	suite.mockHistory.On("RecordInTx", ctx, suite.tx, fee.FeeID, domain.ActionChargeAdded, mock.AnythingOfType("domain.HistoryDetails"), suite.actorID).Return(nil).Once()
	suite.mockFeeRepo.On("Commit", ctx, suite.tx).Return(nil).Once()

	item, err := suite.service.AddCharge(ctx, fee.FeeID, dto.AddChargeRequest{
		Amount: decimal.NewFromInt(100),
		Reason: "lab breakage",
	}, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.KindCharge, item.Kind)
	suite.True(savedFee.FinalAmount.Equal(decimal.NewFromInt(1100)))
	suite.True(savedFee.DiscountedAmount.Equal(decimal.NewFromInt(1000)))
	suite.mockFeeRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestAddArrear_PreservesWaivedStatus() {
	ctx := context.Background()
	fee := suite.newFee()
	fee.PaymentStatus = domain.PaymentWaived

	suite.expectMutationTx(fee)
	suite.mockFeeRepo.On("ListActiveLineItemsInTx", ctx, suite.tx, fee.FeeID).Return(domain.LineItemSet{}, nil).Once()
	suite.mockFeeRepo.On("InsertLineItemInTx", ctx, suite.tx, mock.AnythingOfType("domain.LineItem")).Return(nil).Once()

	var savedFee domain.EnrollmentFee
	suite.mockFeeRepo.On("UpdateFeeSnapshotInTx", ctx, suite.tx, mock.AnythingOfType("domain.EnrollmentFee")).
		Run(func(args mock.Arguments) {
			savedFee = args.Get(2).(domain.EnrollmentFee)
		}).Return(nil).Once()
	suite.mockHistory.On("RecordInTx", ctx, suite.tx, fee.FeeID, domain.ActionArrearAdded, mock.AnythingOfType("domain.HistoryDetails"), suite.actorID).Return(nil).Once()
	suite.mockFeeRepo.On("Commit", ctx, suite.tx).Return(nil).Once()

	_, err := suite.service.AddArrear(ctx, fee.FeeID, dto.AddArrearRequest{
		Amount: decimal.NewFromInt(50),
		Reason: "previous term balance",
	}, suite.actorID)

	suite.Require().NoError(err)
	// The waived status is administrative; recomputation never reverts it.
	suite.Equal(domain.PaymentWaived, savedFee.PaymentStatus)
	suite.True(savedFee.FinalAmount.Equal(decimal.NewFromInt(1050)))
}

// --- AddTransaction ---

func (suite *FeeServiceTestSuite) TestAddTransaction_FullPaymentMarksPaid() {
	ctx := context.Background()
	fee := suite.newFee()

	suite.expectMutationTx(fee)
	suite.mockFeeRepo.On("ListActiveLineItemsInTx", ctx, suite.tx, fee.FeeID).Return(domain.LineItemSet{}, nil).Once()
	suite.mockFeeRepo.On("InsertLineItemInTx", ctx, suite.tx, mock.AnythingOfType("domain.LineItem")).Return(nil).Once()

	var savedFee domain.EnrollmentFee
	suite.mockFeeRepo.On("UpdateFeeSnapshotInTx", ctx, suite.tx, mock.AnythingOfType("domain.EnrollmentFee")).
		Run(func(args mock.Arguments) {
			savedFee = args.Get(2).(domain.EnrollmentFee)
		}).Return(nil).Once()
	suite.mockHistory.On("RecordInTx", ctx, suite.tx, fee.FeeID, domain.ActionTransactionAdded, mock.AnythingOfType("domain.HistoryDetails"), suite.actorID).Return(nil).Once()
	suite.mockFeeRepo.On("Commit", ctx, suite.tx).Return(nil).Once()

	item, err := suite.service.AddTransaction(ctx, fee.FeeID, dto.AddTransactionRequest{
		Amount:    decimal.NewFromInt(1000),
		VoucherNo: "RCPT-0042",
	}, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.KindTransaction, item.Kind)
	suite.Equal("RCPT-0042", item.VoucherNo)
	suite.Equal(domain.PaymentPaid, savedFee.PaymentStatus)
	suite.mockFeeRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestAddTransaction_PartialPayment() {
	ctx := context.Background()
	fee := suite.newFee()

	suite.expectMutationTx(fee)
	suite.mockFeeRepo.On("ListActiveLineItemsInTx", ctx, suite.tx, fee.FeeID).Return(domain.LineItemSet{}, nil).Once()
	suite.mockFeeRepo.On("InsertLineItemInTx", ctx, suite.tx, mock.AnythingOfType("domain.LineItem")).Return(nil).Once()

	var savedFee domain.EnrollmentFee
	suite.mockFeeRepo.On("UpdateFeeSnapshotInTx", ctx, suite.tx, mock.AnythingOfType("domain.EnrollmentFee")).
		Run(func(args mock.Arguments) {
			savedFee = args.Get(2).(domain.EnrollmentFee)
		}).Return(nil).Once()
	suite.mockHistory.On("RecordInTx", ctx, suite.tx, fee.FeeID, domain.ActionTransactionAdded, mock.AnythingOfType("domain.HistoryDetails"), suite.actorID).Return(nil).Once()
	suite.mockFeeRepo.On("Commit", ctx, suite.tx).Return(nil).Once()

	_, err := suite.service.AddTransaction(ctx, fee.FeeID, dto.AddTransactionRequest{
		Amount: decimal.NewFromInt(400),
	}, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentPartial, savedFee.PaymentStatus)
}

func (suite *FeeServiceTestSuite) TestAddTransaction_AlreadySettled() {
	ctx := context.Background()
	fee := suite.newFee()
	fee.PaymentStatus = domain.PaymentPaid

	suite.expectMutationTx(fee)

	item, err := suite.service.AddTransaction(ctx, fee.FeeID, dto.AddTransactionRequest{
		Amount: decimal.NewFromInt(100),
	}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadySettled)
	suite.Nil(item)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "InsertLineItemInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *FeeServiceTestSuite) TestAddTransaction_WaivedFeeRejectsPayment() {
	ctx := context.Background()
	fee := suite.newFee()
	fee.PaymentStatus = domain.PaymentWaived

	suite.expectMutationTx(fee)

	_, err := suite.service.AddTransaction(ctx, fee.FeeID, dto.AddTransactionRequest{
		Amount: decimal.NewFromInt(100),
	}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadySettled)
}

// --- Remove operations ---

func (suite *FeeServiceTestSuite) TestRemoveDiscount_RestoresBalance() {
	ctx := context.Background()
	fee := suite.newFee()
	fee.DiscountedAmount = decimal.NewFromInt(800)
	fee.FinalAmount = decimal.NewFromInt(800)

	item := &domain.LineItem{
		ItemID: uuid.NewString(),
		FeeID:  fee.FeeID,
		Kind:   domain.KindDiscount,
		Amount: decimal.NewFromInt(200),
	}

	suite.expectMutationTx(fee)
	suite.mockFeeRepo.On("FindLineItemInTx", ctx, suite.tx, item.ItemID).Return(item, nil).Once()
	suite.mockFeeRepo.On("SoftDeleteLineItemInTx", ctx, suite.tx, item.ItemID, suite.actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	// The discount is soft-removed, so the reloaded active set is empty.
	suite.mockFeeRepo.On("ListActiveLineItemsInTx", ctx, suite.tx, fee.FeeID).Return(domain.LineItemSet{}, nil).Once()

	var savedFee domain.EnrollmentFee
	suite.mockFeeRepo.On("UpdateFeeSnapshotInTx", ctx, suite.tx, mock.AnythingOfType("domain.EnrollmentFee")).
		Run(func(args mock.Arguments) {
			savedFee = args.Get(2).(domain.EnrollmentFee)
		}).Return(nil).Once()
	suite.mockHistory.On("RecordInTx", ctx, suite.tx, fee.FeeID, domain.ActionDiscountRemoved, mock.AnythingOfType("domain.HistoryDetails"), suite.actorID).Return(nil).Once()
	suite.mockFeeRepo.On("Commit", ctx, suite.tx).Return(nil).Once()

	err := suite.service.RemoveDiscount(ctx, fee.FeeID, item.ItemID, suite.actorID)

	suite.Require().NoError(err)
	suite.True(savedFee.DiscountedAmount.Equal(decimal.NewFromInt(1000)))
	suite.True(savedFee.FinalAmount.Equal(decimal.NewFromInt(1000)))
	suite.mockFeeRepo.AssertExpectations(suite.T())
	suite.mockHistory.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestRemoveDiscount_ActorFallsBackToItemCreator() {
	ctx := context.Background()
	fee := suite.newFee()
	creatorID := uuid.NewString()

	item := &domain.LineItem{
		ItemID: uuid.NewString(),
		FeeID:  fee.FeeID,
		Kind:   domain.KindDiscount,
		Amount: decimal.NewFromInt(200),
		AuditFields: domain.AuditFields{
			CreatedBy: creatorID,
		},
	}

	suite.expectMutationTx(fee)
	suite.mockFeeRepo.On("FindLineItemInTx", ctx, suite.tx, item.ItemID).Return(item, nil).Once()
	suite.mockFeeRepo.On("SoftDeleteLineItemInTx", ctx, suite.tx, item.ItemID, creatorID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockFeeRepo.On("ListActiveLineItemsInTx", ctx, suite.tx, fee.FeeID).Return(domain.LineItemSet{}, nil).Once()
	suite.mockFeeRepo.On("UpdateFeeSnapshotInTx", ctx, suite.tx, mock.AnythingOfType("domain.EnrollmentFee")).Return(nil).Once()
	suite.mockHistory.On("RecordInTx", ctx, suite.tx, fee.FeeID, domain.ActionDiscountRemoved, mock.AnythingOfType("domain.HistoryDetails"), creatorID).Return(nil).Once()
	suite.mockFeeRepo.On("Commit", ctx, suite.tx).Return(nil).Once()

	err := suite.service.RemoveDiscount(ctx, fee.FeeID, item.ItemID, "")

	suite.Require().NoError(err)
	suite.mockHistory.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestRemoveCharge_WrongKindIsNotFound() {
	ctx := context.Background()
	fee := suite.newFee()

	// The item exists but is a discount, not a charge.
	item := &domain.LineItem{
		ItemID: uuid.NewString(),
		FeeID:  fee.FeeID,
		Kind:   domain.KindDiscount,
		Amount: decimal.NewFromInt(200),
	}

	suite.expectMutationTx(fee)
	suite.mockFeeRepo.On("FindLineItemInTx", ctx, suite.tx, item.ItemID).Return(item, nil).Once()

	err := suite.service.RemoveCharge(ctx, fee.FeeID, item.ItemID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "SoftDeleteLineItemInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FeeServiceTestSuite) TestRemoveArrear_AlreadyRemovedIsNotFound() {
	ctx := context.Background()
	fee := suite.newFee()
	deletedAt := time.Now().UTC()

	item := &domain.LineItem{
		ItemID:    uuid.NewString(),
		FeeID:     fee.FeeID,
		Kind:      domain.KindArrear,
		Amount:    decimal.NewFromInt(50),
		DeletedAt: &deletedAt,
	}

	suite.expectMutationTx(fee)
	suite.mockFeeRepo.On("FindLineItemInTx", ctx, suite.tx, item.ItemID).Return(item, nil).Once()

	err := suite.service.RemoveArrear(ctx, fee.FeeID, item.ItemID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- UpdateEnrollmentFee (rebase) ---

func (suite *FeeServiceTestSuite) TestUpdateEnrollmentFee_RebaseRecomputesBalances() {
	ctx := context.Background()
	fee := suite.newFee()
	fee.DiscountedAmount = decimal.NewFromInt(800)
	fee.FinalAmount = decimal.NewFromInt(800)

	newStructure := domain.FeeStructure{
		StructureID: uuid.NewString(),
		Name:        "Grade 6 Fees",
		Term:        "2026-T2",
		Components: []domain.FeeComponent{
			{Name: "Tuition", Kind: domain.ComponentTuition, Amount: decimal.NewFromInt(1200)},
		},
		IsActive: true,
	}
	existing := domain.LineItemSet{
		Discounts: []domain.LineItem{
			{ItemID: uuid.NewString(), FeeID: fee.FeeID, Kind: domain.KindDiscount, Amount: decimal.NewFromInt(200)},
		},
	}

	suite.mockStructureRepo.On("FindFeeStructureByID", ctx, newStructure.StructureID).Return(&newStructure, nil).Once()
	suite.expectMutationTx(fee)
	suite.mockFeeRepo.On("ListActiveLineItemsInTx", ctx, suite.tx, fee.FeeID).Return(existing, nil).Once()

	var savedFee domain.EnrollmentFee
	suite.mockFeeRepo.On("UpdateFeeSnapshotInTx", ctx, suite.tx, mock.AnythingOfType("domain.EnrollmentFee")).
		Run(func(args mock.Arguments) {
			savedFee = args.Get(2).(domain.EnrollmentFee)
		}).Return(nil).Once()
	suite.mockHistory.On("RecordInTx", ctx, suite.tx, fee.FeeID, domain.ActionFeeUpdated, mock.AnythingOfType("domain.HistoryDetails"), suite.actorID).Return(nil).Once()
	suite.mockFeeRepo.On("Commit", ctx, suite.tx).Return(nil).Once()

	updated, err := suite.service.UpdateEnrollmentFee(ctx, fee.FeeID, dto.UpdateFeeStructureRequest{
		StructureID: newStructure.StructureID,
	}, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(newStructure.StructureID, updated.StructureID)
	suite.True(savedFee.BaseAmount.Equal(decimal.NewFromInt(1200)))
	suite.True(savedFee.DiscountedAmount.Equal(decimal.NewFromInt(1000)))
	suite.True(savedFee.FinalAmount.Equal(decimal.NewFromInt(1000)))
	suite.mockFeeRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestUpdateEnrollmentFee_DiscountsExceedNewBase() {
	ctx := context.Background()
	fee := suite.newFee()

	smaller := domain.FeeStructure{
		StructureID: uuid.NewString(),
		Name:        "Reduced Fees",
		Term:        "2026-T2",
		Components: []domain.FeeComponent{
			{Name: "Tuition", Kind: domain.ComponentTuition, Amount: decimal.NewFromInt(100)},
		},
		IsActive: true,
	}
	existing := domain.LineItemSet{
		Discounts: []domain.LineItem{
			{ItemID: uuid.NewString(), FeeID: fee.FeeID, Kind: domain.KindDiscount, Amount: decimal.NewFromInt(200)},
		},
	}

	suite.mockStructureRepo.On("FindFeeStructureByID", ctx, smaller.StructureID).Return(&smaller, nil).Once()
	suite.expectMutationTx(fee)
	suite.mockFeeRepo.On("ListActiveLineItemsInTx", ctx, suite.tx, fee.FeeID).Return(existing, nil).Once()

	updated, err := suite.service.UpdateEnrollmentFee(ctx, fee.FeeID, dto.UpdateFeeStructureRequest{
		StructureID: smaller.StructureID,
	}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(updated)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "UpdateFeeSnapshotInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

// --- WaiveFee ---

func (suite *FeeServiceTestSuite) TestWaiveFee_Success() {
	ctx := context.Background()
	fee := suite.newFee()

	suite.expectMutationTx(fee)

	var savedFee domain.EnrollmentFee
	suite.mockFeeRepo.On("UpdateFeeSnapshotInTx", ctx, suite.tx, mock.AnythingOfType("domain.EnrollmentFee")).
		Run(func(args mock.Arguments) {
			savedFee = args.Get(2).(domain.EnrollmentFee)
		}).Return(nil).Once()
	suite.mockHistory.On("RecordInTx", ctx, suite.tx, fee.FeeID, domain.ActionFeeWaived, mock.AnythingOfType("domain.HistoryDetails"), suite.actorID).Return(nil).Once()
	suite.mockFeeRepo.On("Commit", ctx, suite.tx).Return(nil).Once()

	updated, err := suite.service.WaiveFee(ctx, fee.FeeID, dto.WaiveFeeRequest{Reason: "hardship case"}, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentWaived, updated.PaymentStatus)
	suite.Equal(domain.PaymentWaived, savedFee.PaymentStatus)
	suite.Equal(int64(2), savedFee.Version)
	suite.mockHistory.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestWaiveFee_AlreadyWaived() {
	ctx := context.Background()
	fee := suite.newFee()
	fee.PaymentStatus = domain.PaymentWaived

	suite.expectMutationTx(fee)

	updated, err := suite.service.WaiveFee(ctx, fee.FeeID, dto.WaiveFeeRequest{Reason: "again"}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(updated)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "UpdateFeeSnapshotInTx", mock.Anything, mock.Anything, mock.Anything)
}

// --- Transactional behaviour ---

func (suite *FeeServiceTestSuite) TestMutation_HistoryFailureAbortsCommit() {
	ctx := context.Background()
	fee := suite.newFee()

	suite.expectMutationTx(fee)
	suite.mockFeeRepo.On("ListActiveLineItemsInTx", ctx, suite.tx, fee.FeeID).Return(domain.LineItemSet{}, nil).Once()
	suite.mockFeeRepo.On("InsertLineItemInTx", ctx, suite.tx, mock.AnythingOfType("domain.LineItem")).Return(nil).Once()
	suite.mockFeeRepo.On("UpdateFeeSnapshotInTx", ctx, suite.tx, mock.AnythingOfType("domain.EnrollmentFee")).Return(nil).Once()
	suite.mockHistory.On("RecordInTx", ctx, suite.tx, fee.FeeID, domain.ActionChargeAdded, mock.AnythingOfType("domain.HistoryDetails"), suite.actorID).Return(apperrors.ErrInternal).Once()

	item, err := suite.service.AddCharge(ctx, fee.FeeID, dto.AddChargeRequest{
		Amount: decimal.NewFromInt(100),
	}, suite.actorID)

	suite.Require().Error(err)
	suite.Nil(item)
	// The snapshot write must never commit without its audit record.
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.mockFeeRepo.AssertCalled(suite.T(), "Rollback", ctx, suite.tx)
}

func (suite *FeeServiceTestSuite) TestMutation_RetriesOnConflict() {
	ctx := context.Background()
	fee1 := suite.newFee()
	fee2 := *fee1
	conflictErr := apperrors.NewAppError(409, "serialization failure", apperrors.ErrConflict)

	suite.mockFeeRepo.On("Begin", ctx).Return(suite.tx, nil).Twice()
	suite.mockFeeRepo.On("Rollback", ctx, suite.tx).Return(nil)
	// Each attempt reloads the fee under lock.
	suite.mockFeeRepo.On("FindFeeByIDForUpdate", ctx, suite.tx, fee1.FeeID).Return(fee1, nil).Once()
	suite.mockFeeRepo.On("FindFeeByIDForUpdate", ctx, suite.tx, fee1.FeeID).Return(&fee2, nil).Once()
	suite.mockFeeRepo.On("ListActiveLineItemsInTx", ctx, suite.tx, fee1.FeeID).Return(domain.LineItemSet{}, nil).Twice()
	suite.mockFeeRepo.On("InsertLineItemInTx", ctx, suite.tx, mock.AnythingOfType("domain.LineItem")).Return(nil).Twice()
	suite.mockFeeRepo.On("UpdateFeeSnapshotInTx", ctx, suite.tx, mock.AnythingOfType("domain.EnrollmentFee")).Return(nil).Twice()
	suite.mockHistory.On("RecordInTx", ctx, suite.tx, fee1.FeeID, domain.ActionChargeAdded, mock.AnythingOfType("domain.HistoryDetails"), suite.actorID).Return(nil).Twice()
	suite.mockFeeRepo.On("Commit", ctx, suite.tx).Return(conflictErr).Once()
	suite.mockFeeRepo.On("Commit", ctx, suite.tx).Return(nil).Once()

	item, err := suite.service.AddCharge(ctx, fee1.FeeID, dto.AddChargeRequest{
		Amount: decimal.NewFromInt(100),
	}, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(item)
	suite.mockFeeRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestMutation_FeeNotFound() {
	ctx := context.Background()
	feeID := uuid.NewString()

	suite.mockFeeRepo.On("Begin", ctx).Return(suite.tx, nil).Once()
	suite.mockFeeRepo.On("Rollback", ctx, suite.tx).Return(nil)
	suite.mockFeeRepo.On("FindFeeByIDForUpdate", ctx, suite.tx, feeID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AddCharge(ctx, feeID, dto.AddChargeRequest{
		Amount: decimal.NewFromInt(100),
	}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestFeeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FeeServiceTestSuite))
}
