package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/olebsk/bank_ledger_app/internal/apperrors"
	"github.com/olebsk/bank_ledger_app/internal/core/domain"
	portsrepo "github.com/olebsk/bank_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/olebsk/bank_ledger_app/internal/core/ports/services"
	"github.com/olebsk/bank_ledger_app/internal/core/services"
	"github.com/olebsk/bank_ledger_app/internal/dto"
)

// MockAccountRepository is a mock type for the AccountRepository interface
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepository = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ExistsByNumber(ctx context.Context, accountNumber string) (bool, error) {
	args := m.Called(ctx, accountNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountNumber string) error {
	args := m.Called(ctx, accountNumber)
	return args.Error(0)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	opening := decimal.RequireFromString("1000.00")
	req := dto.CreateAccountRequest{
		AccountNumber: "1234567890AB",
		Balance:       &opening,
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	createdAccount, err := suite.service.CreateAccount(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(createdAccount)
	suite.NotEmpty(createdAccount.AccountID)
	suite.Equal(req.AccountNumber, createdAccount.AccountNumber)
	suite.True(createdAccount.Balance.Equal(opening))
	suite.WithinDuration(time.Now(), createdAccount.CreatedAt, time.Second)
	suite.WithinDuration(time.Now(), createdAccount.LastUpdatedAt, time.Second)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DefaultsToZeroBalance() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{AccountNumber: "1234567890AB"}

	suite.mockRepo.On("SaveAccount", ctx, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.Balance.IsZero()
	})).Return(nil).Once()

	createdAccount, err := suite.service.CreateAccount(ctx, req)

	suite.Require().NoError(err)
	suite.True(createdAccount.Balance.IsZero())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_NegativeBalance() {
	ctx := context.Background()
	opening := decimal.RequireFromString("-5.00")
	req := dto.CreateAccountRequest{
		AccountNumber: "1234567890AB",
		Balance:       &opening,
	}

	createdAccount, err := suite.service.CreateAccount(ctx, req)

	suite.Require().Error(err)
	suite.Nil(createdAccount)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount")
}

func (suite *AccountServiceTestSuite) TestCreateAccount_TooManyDecimalPlaces() {
	ctx := context.Background()
	opening := decimal.RequireFromString("10.005")
	req := dto.CreateAccountRequest{
		AccountNumber: "1234567890AB",
		Balance:       &opening,
	}

	createdAccount, err := suite.service.CreateAccount(ctx, req)

	suite.Require().Error(err)
	suite.Nil(createdAccount)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount")
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateNumber() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{AccountNumber: "1234567890AB"}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(apperrors.ErrDuplicate).Once()

	createdAccount, err := suite.service.CreateAccount(ctx, req)

	suite.Require().Error(err)
	suite.Nil(createdAccount)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByNumber_Success() {
	ctx := context.Background()
	expected := &domain.Account{
		AccountID:     "acc-1",
		AccountNumber: "1234567890AB",
		Balance:       decimal.RequireFromString("42.50"),
	}

	suite.mockRepo.On("FindAccountByNumber", ctx, "1234567890AB").Return(expected, nil).Once()

	account, err := suite.service.GetAccountByNumber(ctx, "1234567890AB")

	suite.Require().NoError(err)
	suite.Equal(expected, account)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByNumber_NotFound() {
	ctx := context.Background()

	suite.mockRepo.On("FindAccountByNumber", ctx, "0000000000XX").Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.GetAccountByNumber(ctx, "0000000000XX")

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_Renumber() {
	ctx := context.Background()
	existing := &domain.Account{
		AccountID:     "acc-1",
		AccountNumber: "1234567890AB",
		Balance:       decimal.RequireFromString("100.00"),
	}
	newNumber := "0987654321XY"
	req := dto.UpdateAccountRequest{AccountNumber: &newNumber}

	suite.mockRepo.On("FindAccountByNumber", ctx, "1234567890AB").Return(existing, nil).Once()
	suite.mockRepo.On("ExistsByNumber", ctx, newNumber).Return(false, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.AccountNumber == newNumber && acc.AccountID == "acc-1"
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, "1234567890AB", req)

	suite.Require().NoError(err)
	suite.Equal(newNumber, updated.AccountNumber)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_RejectsBalancePatch() {
	ctx := context.Background()
	balance := decimal.RequireFromString("9999.99")
	req := dto.UpdateAccountRequest{Balance: &balance}

	updated, err := suite.service.UpdateAccount(ctx, "1234567890AB", req)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindAccountByNumber")
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount")
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NumberTaken() {
	ctx := context.Background()
	existing := &domain.Account{
		AccountID:     "acc-1",
		AccountNumber: "1234567890AB",
	}
	newNumber := "0987654321XY"
	req := dto.UpdateAccountRequest{AccountNumber: &newNumber}

	suite.mockRepo.On("FindAccountByNumber", ctx, "1234567890AB").Return(existing, nil).Once()
	suite.mockRepo.On("ExistsByNumber", ctx, newNumber).Return(true, nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, "1234567890AB", req)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount")
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NotFound() {
	ctx := context.Background()
	newNumber := "0987654321XY"
	req := dto.UpdateAccountRequest{AccountNumber: &newNumber}

	suite.mockRepo.On("FindAccountByNumber", ctx, "1234567890AB").Return(nil, apperrors.ErrNotFound).Once()

	updated, err := suite.service.UpdateAccount(ctx, "1234567890AB", req)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Success() {
	ctx := context.Background()

	suite.mockRepo.On("DeleteAccount", ctx, "1234567890AB").Return(nil).Once()

	err := suite.service.DeleteAccount(ctx, "1234567890AB")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_NotFound() {
	ctx := context.Background()

	suite.mockRepo.On("DeleteAccount", ctx, "0000000000XX").Return(apperrors.ErrNotFound).Once()

	err := suite.service.DeleteAccount(ctx, "0000000000XX")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_RepoError() {
	ctx := context.Background()
	expectedErr := assert.AnError

	suite.mockRepo.On("DeleteAccount", ctx, "1234567890AB").Return(expectedErr).Once()

	err := suite.service.DeleteAccount(ctx, "1234567890AB")

	suite.Require().Error(err)
	suite.ErrorIs(err, expectedErr)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
