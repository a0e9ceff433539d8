// internal/services/settlement_service_test.go
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

type SettlementServiceTestSuite struct {
	suite.Suite
	db         *gorm.DB
	service    *SettlementService
	business   *models.User
	influencer *models.User
	admin      *models.User
}

func (s *SettlementServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.service = NewSettlementService(s.db, newTestConfig())
	s.business = createTestUser(s.T(), s.db, models.UserTypeBusiness)
	s.influencer = createTestUser(s.T(), s.db, models.UserTypeInfluencer)
	s.admin = createTestUser(s.T(), s.db, models.UserTypeAdmin)
}

// completedApplication seeds a finished campaign engagement: a completed
// application whose deliverable passed review.
func (s *SettlementServiceTestSuite) completedApplication(influencerID uuid.UUID, price money.Amount) *models.Application {
	campaign := createTestCampaign(s.T(), s.db, s.business.ID, models.CampaignStatusActive)

	now := time.Now()
	app := &models.Application{
		CampaignID:    campaign.ID,
		InfluencerID:  influencerID,
		ProposedPrice: price,
		Status:        models.ApplicationStatusCompleted,
		DecidedBy:     &s.business.ID,
		DecidedAt:     &now,
	}
	s.Require().NoError(s.db.Create(app).Error)

	content := &models.Content{
		ApplicationID: app.ID,
		MediaURLs:     models.JSONB{"urls": []string{"https://videos.example.com/final"}},
		ReviewStatus:  models.ContentStatusApproved,
		SubmittedAt:   now,
		ReviewedAt:    &now,
	}
	s.Require().NoError(s.db.Create(content).Error)

	return app
}

func (s *SettlementServiceTestSuite) request() *models.Settlement {
	settlement, err := s.service.RequestSettlement(s.influencer.ID, &RequestSettlementRequest{
		BankName:    "First Bank",
		BankAccount: "110-2345-6789",
	})
	s.Require().NoError(err)
	return settlement
}

func (s *SettlementServiceTestSuite) TestRequestSettlementScopedByApplicationIDs() {
	appA := s.completedApplication(s.influencer.ID, 500_000)
	appB := s.completedApplication(s.influencer.ID, 300_000)

	settlement, err := s.service.RequestSettlement(s.influencer.ID, &RequestSettlementRequest{
		BankName:       "First Bank",
		BankAccount:    "110-2345-6789",
		ApplicationIDs: []uuid.UUID{appA.ID},
	})
	s.Require().NoError(err)
	s.Equal(money.Amount(500_000), settlement.TotalAmount)
	s.Require().Len(settlement.Items, 1)
	s.Equal(appA.ID, settlement.Items[0].ApplicationID)

	// the application outside the requested set stays settleable
	var unclaimed models.Application
	s.Require().NoError(s.db.First(&unclaimed, appB.ID).Error)
	s.Nil(unclaimed.SettledAt)

	// and a later scoped request picks it up
	second, err := s.service.RequestSettlement(s.influencer.ID, &RequestSettlementRequest{
		BankName:       "First Bank",
		BankAccount:    "110-2345-6789",
		ApplicationIDs: []uuid.UUID{appB.ID},
	})
	s.Require().NoError(err)
	s.Equal(money.Amount(300_000), second.TotalAmount)
}

func (s *SettlementServiceTestSuite) TestRequestSettlementSkipsIneligibleIDs() {
	app := s.completedApplication(s.influencer.ID, 500_000)

	settlement, err := s.service.RequestSettlement(s.influencer.ID, &RequestSettlementRequest{
		BankName:       "First Bank",
		BankAccount:    "110-2345-6789",
		ApplicationIDs: []uuid.UUID{app.ID, uuid.New()},
	})
	s.Require().NoError(err)
	s.Require().Len(settlement.Items, 1)
	s.Equal(app.ID, settlement.Items[0].ApplicationID)

	// a set with nothing settleable in it is an empty request
	_, err = s.service.RequestSettlement(s.influencer.ID, &RequestSettlementRequest{
		BankName:       "First Bank",
		BankAccount:    "110-2345-6789",
		ApplicationIDs: []uuid.UUID{uuid.New()},
	})
	s.True(apperrors.IsCode(err, apperrors.CodeNothingToSettle))
}

func (s *SettlementServiceTestSuite) TestRequestSettlement() {
	appA := s.completedApplication(s.influencer.ID, 500_000)
	appB := s.completedApplication(s.influencer.ID, 300_000)

	settlement := s.request()

	s.Equal(models.SettlementStatusRequested, settlement.Status)
	s.Equal(money.Amount(800_000), settlement.TotalAmount)
	s.Require().Len(settlement.Items, 2)
	s.Equal(settlement.TotalAmount, settlement.SumItems())

	// both applications are now claimed
	for _, id := range []uuid.UUID{appA.ID, appB.ID} {
		var app models.Application
		s.Require().NoError(s.db.First(&app, id).Error)
		s.NotNil(app.SettledAt)
	}
}

func (s *SettlementServiceTestSuite) TestRequestSettlementAppliesInfluencerFee() {
	cfg := newTestConfig()
	cfg.Payment.InfluencerFeeRate = 0.1
	service := NewSettlementService(s.db, cfg)

	s.completedApplication(s.influencer.ID, 500_000)

	settlement, err := service.RequestSettlement(s.influencer.ID, &RequestSettlementRequest{
		BankName:    "First Bank",
		BankAccount: "110-2345-6789",
	})
	s.Require().NoError(err)
	s.Equal(money.Amount(450_000), settlement.TotalAmount)
}

func (s *SettlementServiceTestSuite) TestRequestSettlementNothingToSettle() {
	_, err := s.service.RequestSettlement(s.influencer.ID, &RequestSettlementRequest{
		BankName:    "First Bank",
		BankAccount: "110-2345-6789",
	})
	s.True(apperrors.IsCode(err, apperrors.CodeNothingToSettle))
}

func (s *SettlementServiceTestSuite) TestRequestSettlementSkipsUnfinishedWork() {
	// approved but not completed
	campaign := createTestCampaign(s.T(), s.db, s.business.ID, models.CampaignStatusActive)
	app := &models.Application{
		CampaignID:    campaign.ID,
		InfluencerID:  s.influencer.ID,
		ProposedPrice: 500_000,
		Status:        models.ApplicationStatusApproved,
	}
	s.Require().NoError(s.db.Create(app).Error)

	_, err := s.service.RequestSettlement(s.influencer.ID, &RequestSettlementRequest{
		BankName:    "First Bank",
		BankAccount: "110-2345-6789",
	})
	s.True(apperrors.IsCode(err, apperrors.CodeNothingToSettle))
}

func (s *SettlementServiceTestSuite) TestApplicationSettledOnlyOnce() {
	s.completedApplication(s.influencer.ID, 500_000)
	s.request()

	// everything is claimed by the first settlement
	_, err := s.service.RequestSettlement(s.influencer.ID, &RequestSettlementRequest{
		BankName:    "First Bank",
		BankAccount: "110-2345-6789",
	})
	s.True(apperrors.IsCode(err, apperrors.CodeNothingToSettle))
}

func (s *SettlementServiceTestSuite) TestProcessSettlementApprove() {
	s.completedApplication(s.influencer.ID, 500_000)
	settlement := s.request()

	processed, err := s.service.ProcessSettlement(s.admin.ID, settlement.ID, &ProcessSettlementRequest{
		Action:    "approve",
		AdminNote: "verified bank details",
	})
	s.Require().NoError(err)
	s.Equal(models.SettlementStatusApproved, processed.Status)
	s.Equal("verified bank details", processed.AdminNote)
	s.Require().NotNil(processed.ProcessedBy)
	s.Equal(s.admin.ID, *processed.ProcessedBy)

	// a second decision hits the conditional update and conflicts
	_, err = s.service.ProcessSettlement(s.admin.ID, settlement.ID, &ProcessSettlementRequest{Action: "reject"})
	s.Error(err)
}

func (s *SettlementServiceTestSuite) TestProcessSettlementRejectReleasesApplications() {
	app := s.completedApplication(s.influencer.ID, 500_000)
	settlement := s.request()

	processed, err := s.service.ProcessSettlement(s.admin.ID, settlement.ID, &ProcessSettlementRequest{
		Action:    "reject",
		AdminNote: "bank account mismatch",
	})
	s.Require().NoError(err)
	s.Equal(models.SettlementStatusRejected, processed.Status)

	var released models.Application
	s.Require().NoError(s.db.First(&released, app.ID).Error)
	s.Nil(released.SettledAt)

	// the released application is settleable again
	again := s.request()
	s.Equal(money.Amount(500_000), again.TotalAmount)
}

func (s *SettlementServiceTestSuite) TestProcessSettlementRequiresAdmin() {
	s.completedApplication(s.influencer.ID, 500_000)
	settlement := s.request()

	_, err := s.service.ProcessSettlement(s.influencer.ID, settlement.ID, &ProcessSettlementRequest{Action: "approve"})
	s.True(apperrors.IsCode(err, apperrors.CodeForbidden))
}

func (s *SettlementServiceTestSuite) TestMarkPaid() {
	s.completedApplication(s.influencer.ID, 500_000)
	settlement := s.request()

	_, err := s.service.ProcessSettlement(s.admin.ID, settlement.ID, &ProcessSettlementRequest{Action: "approve"})
	s.Require().NoError(err)

	paid, err := s.service.MarkPaid(s.admin.ID, settlement.ID)
	s.Require().NoError(err)
	s.Equal(models.SettlementStatusPaid, paid.Status)
	s.NotNil(paid.PaidAt)
}

func (s *SettlementServiceTestSuite) TestMarkPaidRequiresApproval() {
	s.completedApplication(s.influencer.ID, 500_000)
	settlement := s.request()

	_, err := s.service.MarkPaid(s.admin.ID, settlement.ID)
	s.True(apperrors.IsCode(err, apperrors.CodeInvalidTransition))
}

func (s *SettlementServiceTestSuite) TestGetSettlementAccess() {
	s.completedApplication(s.influencer.ID, 500_000)
	settlement := s.request()

	_, err := s.service.GetSettlement(s.influencer.ID, settlement.ID)
	s.NoError(err)

	_, err = s.service.GetSettlement(s.admin.ID, settlement.ID)
	s.NoError(err)

	_, err = s.service.GetSettlement(s.business.ID, settlement.ID)
	s.True(apperrors.IsCode(err, apperrors.CodeForbidden))
}

func (s *SettlementServiceTestSuite) TestListSettlements() {
	s.completedApplication(s.influencer.ID, 500_000)
	s.request()

	other := createTestUser(s.T(), s.db, models.UserTypeInfluencer)
	s.completedApplication(other.ID, 200_000)
	_, err := s.service.RequestSettlement(other.ID, &RequestSettlementRequest{
		BankName:    "Second Bank",
		BankAccount: "220-0000-1111",
	})
	s.Require().NoError(err)

	// an influencer sees only their own settlements
	mine, total, err := s.service.ListSettlements(&s.influencer.ID, paginationDefaults())
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Len(mine, 1)

	// the admin listing is unfiltered
	all, total, err := s.service.ListSettlements(nil, paginationDefaults())
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Len(all, 2)
}

func TestSettlementServiceSuite(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}
