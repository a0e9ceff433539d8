// internal/services/revenue_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/dungeun/video-platform-sub018/internal/apperrors"
	"github.com/dungeun/video-platform-sub018/internal/models"
	"github.com/dungeun/video-platform-sub018/internal/money"
)

type RevenueServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *RevenueService
	user    *models.User
}

func (s *RevenueServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.service = NewRevenueService(s.db)
	s.user = createTestUser(s.T(), s.db, models.UserTypeBusiness)
}

func (s *RevenueServiceTestSuite) rows() []models.Revenue {
	var rows []models.Revenue
	s.Require().NoError(s.db.Order("created_at").Find(&rows).Error)
	return rows
}

func (s *RevenueServiceTestSuite) TestRecordTx() {
	sourceID := uuid.New()
	err := s.service.RecordTx(s.db, models.RevenueSourcePayment, sourceID, &s.user.ID,
		models.RevenueEntryPlatformFee, 1_000_000, 0.1)
	s.Require().NoError(err)

	rows := s.rows()
	s.Require().Len(rows, 1)
	s.Equal(money.Amount(1_000_000), rows[0].Gross)
	s.Equal(money.Amount(100_000), rows[0].Fee)
	s.Equal(money.Amount(900_000), rows[0].Net)
	s.Equal(rows[0].Gross, rows[0].Fee.Add(rows[0].Net))
	s.Equal(time.Now().Year(), rows[0].Year)
	s.Equal(int(time.Now().Month()), rows[0].Month)
}

func (s *RevenueServiceTestSuite) TestRecordTxRejectsBadRate() {
	err := s.service.RecordTx(s.db, models.RevenueSourcePayment, uuid.New(), nil,
		models.RevenueEntryPlatformFee, 1_000_000, 1.5)
	s.True(apperrors.IsCode(err, apperrors.CodeValidation))
	s.Empty(s.rows())
}

func (s *RevenueServiceTestSuite) TestRecordTxReplayIsHarmless() {
	sourceID := uuid.New()
	for i := 0; i < 3; i++ {
		err := s.service.RecordTx(s.db, models.RevenueSourcePayment, sourceID, &s.user.ID,
			models.RevenueEntryPlatformFee, 1_000_000, 0.1)
		s.Require().NoError(err)
	}
	s.Len(s.rows(), 1)
}

func (s *RevenueServiceTestSuite) TestReverseTx() {
	sourceID := uuid.New()
	s.Require().NoError(s.service.RecordTx(s.db, models.RevenueSourcePayment, sourceID, &s.user.ID,
		models.RevenueEntryPlatformFee, 1_000_000, 0.1))

	s.Require().NoError(s.service.ReverseTx(s.db, models.RevenueSourcePayment, sourceID))

	rows := s.rows()
	s.Require().Len(rows, 2)
	s.Equal(models.RevenueEntryReversal, rows[1].EntryType)
	s.Equal(money.Amount(-1_000_000), rows[1].Gross)
	s.Equal(money.Amount(-100_000), rows[1].Fee)
	s.Equal(money.Amount(-900_000), rows[1].Net)

	// the ledger nets out to zero
	s.Equal(money.Amount(0), rows[0].Fee.Add(rows[1].Fee))
	s.Equal(money.Amount(0), rows[0].Net.Add(rows[1].Net))
}

func (s *RevenueServiceTestSuite) TestReverseTxSingleShot() {
	sourceID := uuid.New()
	s.Require().NoError(s.service.RecordTx(s.db, models.RevenueSourcePayment, sourceID, &s.user.ID,
		models.RevenueEntryPlatformFee, 1_000_000, 0.1))

	s.Require().NoError(s.service.ReverseTx(s.db, models.RevenueSourcePayment, sourceID))
	s.Require().NoError(s.service.ReverseTx(s.db, models.RevenueSourcePayment, sourceID))

	// the unique index blocked the second reversal row
	s.Len(s.rows(), 2)
}

func (s *RevenueServiceTestSuite) TestReverseTxNoEntries() {
	s.Require().NoError(s.service.ReverseTx(s.db, models.RevenueSourcePayment, uuid.New()))
	s.Empty(s.rows())
}

func (s *RevenueServiceTestSuite) TestGetMonthlySummary() {
	other := createTestUser(s.T(), s.db, models.UserTypeInfluencer)

	s.Require().NoError(s.service.RecordTx(s.db, models.RevenueSourcePayment, uuid.New(), &s.user.ID,
		models.RevenueEntryPlatformFee, 1_000_000, 0.1))
	s.Require().NoError(s.service.RecordTx(s.db, models.RevenueSourceSuperChat, uuid.New(), &other.ID,
		models.RevenueEntryCreatorEarning, 50_000, 0.1))

	now := time.Now()

	// platform-wide
	summary, err := s.service.GetMonthlySummary(nil, now.Year(), int(now.Month()))
	s.Require().NoError(err)
	s.Equal(money.Amount(1_050_000), summary.TotalGross)
	s.Equal(money.Amount(105_000), summary.TotalFee)
	s.Equal(int64(2), summary.EntryCount)

	// per user
	summary, err = s.service.GetMonthlySummary(&other.ID, now.Year(), int(now.Month()))
	s.Require().NoError(err)
	s.Equal(money.Amount(50_000), summary.TotalGross)
	s.Equal(int64(1), summary.EntryCount)
}

func (s *RevenueServiceTestSuite) TestGetMonthlySummaryReflectsReversals() {
	sourceID := uuid.New()
	s.Require().NoError(s.service.RecordTx(s.db, models.RevenueSourcePayment, sourceID, &s.user.ID,
		models.RevenueEntryPlatformFee, 1_000_000, 0.1))
	s.Require().NoError(s.service.ReverseTx(s.db, models.RevenueSourcePayment, sourceID))

	now := time.Now()
	summary, err := s.service.GetMonthlySummary(nil, now.Year(), int(now.Month()))
	s.Require().NoError(err)
	s.Equal(money.Amount(0), summary.TotalGross)
	s.Equal(money.Amount(0), summary.TotalFee)
	s.Equal(money.Amount(0), summary.TotalNet)
	s.Equal(int64(2), summary.EntryCount)
}

func (s *RevenueServiceTestSuite) TestGetMonthlySummaryEmptyMonth() {
	summary, err := s.service.GetMonthlySummary(nil, 2001, 1)
	s.Require().NoError(err)
	s.Equal(money.Amount(0), summary.TotalGross)
	s.Equal(int64(0), summary.EntryCount)
}

func (s *RevenueServiceTestSuite) TestGetMonthlySummaryRejectsBadMonth() {
	_, err := s.service.GetMonthlySummary(nil, 2026, 13)
	s.True(apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = s.service.GetMonthlySummary(nil, 2026, 0)
	s.True(apperrors.IsCode(err, apperrors.CodeValidation))
}

func (s *RevenueServiceTestSuite) TestListRevenues() {
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.service.RecordTx(s.db, models.RevenueSourcePayment, uuid.New(), &s.user.ID,
			models.RevenueEntryPlatformFee, 100_000, 0.1))
	}

	revenues, total, err := s.service.ListRevenues(&s.user.ID, paginationDefaults())
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Len(revenues, 3)
}

func TestRevenueServiceSuite(t *testing.T) {
	suite.Run(t, new(RevenueServiceTestSuite))
}
