// internal/services/campaign_service_test.go
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
	"github.com/dungeun/video-platform-sub018/internal/utils"
)

type CampaignServiceTestSuite struct {
	suite.Suite
	db         *gorm.DB
	service    *CampaignService
	business   *models.User
	influencer *models.User
	admin      *models.User
}

func (s *CampaignServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.service = NewCampaignService(s.db)
	s.business = createTestUser(s.T(), s.db, models.UserTypeBusiness)
	s.influencer = createTestUser(s.T(), s.db, models.UserTypeInfluencer)
	s.admin = createTestUser(s.T(), s.db, models.UserTypeAdmin)
}

func (s *CampaignServiceTestSuite) validCreateRequest() *CreateCampaignRequest {
	return &CreateCampaignRequest{
		Title:           "Summer product push",
		Description:     "Short-form video series",
		Budget:          1_000_000,
		PlatformFeeRate: 0.1,
		StartDate:       time.Now().Add(24 * time.Hour),
		EndDate:         time.Now().Add(30 * 24 * time.Hour),
	}
}

func (s *CampaignServiceTestSuite) TestCreateCampaign() {
	campaign, err := s.service.CreateCampaign(s.business.ID, s.validCreateRequest())
	s.Require().NoError(err)

	s.Equal(models.CampaignStatusDraft, campaign.Status)
	s.Equal(money.Amount(1_000_000), campaign.Budget)
	s.Equal(0.1, campaign.PlatformFeeRate)
	s.False(campaign.IsPaid)
	s.NotEqual(uuid.Nil, campaign.ID)
}

func (s *CampaignServiceTestSuite) TestCreateCampaignRejectsNonBusiness() {
	_, err := s.service.CreateCampaign(s.influencer.ID, s.validCreateRequest())
	s.True(apperrors.IsCode(err, apperrors.CodeForbidden))
}

func (s *CampaignServiceTestSuite) TestCreateCampaignRejectsBadDates() {
	req := s.validCreateRequest()
	req.StartDate, req.EndDate = req.EndDate, req.StartDate
	_, err := s.service.CreateCampaign(s.business.ID, req)
	s.True(apperrors.IsCode(err, apperrors.CodeValidation))
}

func (s *CampaignServiceTestSuite) TestUpdateCampaign() {
	campaign, err := s.service.CreateCampaign(s.business.ID, s.validCreateRequest())
	s.Require().NoError(err)

	title := "Renamed campaign"
	budget := int64(2_000_000)
	updated, err := s.service.UpdateCampaign(s.business.ID, campaign.ID, &UpdateCampaignRequest{
		Title:  &title,
		Budget: &budget,
	})
	s.Require().NoError(err)
	s.Equal("Renamed campaign", updated.Title)
	s.Equal(money.Amount(2_000_000), updated.Budget)
}

func (s *CampaignServiceTestSuite) TestUpdateCampaignOnlyOwner() {
	campaign, err := s.service.CreateCampaign(s.business.ID, s.validCreateRequest())
	s.Require().NoError(err)

	other := createTestUser(s.T(), s.db, models.UserTypeBusiness)
	title := "hijack"
	_, err = s.service.UpdateCampaign(other.ID, campaign.ID, &UpdateCampaignRequest{Title: &title})
	s.True(apperrors.IsCode(err, apperrors.CodeForbidden))
}

func (s *CampaignServiceTestSuite) TestUpdateCampaignLockedOnceActive() {
	campaign := createTestCampaign(s.T(), s.db, s.business.ID, models.CampaignStatusActive)

	title := "too late"
	_, err := s.service.UpdateCampaign(s.business.ID, campaign.ID, &UpdateCampaignRequest{Title: &title})
	s.True(apperrors.IsCode(err, apperrors.CodeInvalidTransition))
}

func (s *CampaignServiceTestSuite) TestSubmitCampaign() {
	campaign, err := s.service.CreateCampaign(s.business.ID, s.validCreateRequest())
	s.Require().NoError(err)

	submitted, err := s.service.SubmitCampaign(s.business.ID, campaign.ID)
	s.Require().NoError(err)
	s.Equal(models.CampaignStatusPending, submitted.Status)

	// pending has no edge back to pending
	_, err = s.service.SubmitCampaign(s.business.ID, campaign.ID)
	s.True(apperrors.IsCode(err, apperrors.CodeInvalidTransition))
}

func (s *CampaignServiceTestSuite) TestReviewCampaignApprove() {
	campaign, err := s.service.CreateCampaign(s.business.ID, s.validCreateRequest())
	s.Require().NoError(err)
	_, err = s.service.SubmitCampaign(s.business.ID, campaign.ID)
	s.Require().NoError(err)

	reviewed, err := s.service.ReviewCampaign(s.admin.ID, campaign.ID, &ReviewCampaignRequest{
		Approve: true,
		Note:    "looks good",
	})
	s.Require().NoError(err)

	// approval does not activate; activation requires a confirmed payment
	s.Equal(models.CampaignStatusPending, reviewed.Status)
	s.False(reviewed.IsPaid)
	s.Equal("looks good", reviewed.ReviewNote)
	s.Require().NotNil(reviewed.ReviewedBy)
	s.Equal(s.admin.ID, *reviewed.ReviewedBy)
	s.NotNil(reviewed.ReviewedAt)
}

func (s *CampaignServiceTestSuite) TestReviewCampaignReject() {
	campaign, err := s.service.CreateCampaign(s.business.ID, s.validCreateRequest())
	s.Require().NoError(err)
	_, err = s.service.SubmitCampaign(s.business.ID, campaign.ID)
	s.Require().NoError(err)

	reviewed, err := s.service.ReviewCampaign(s.admin.ID, campaign.ID, &ReviewCampaignRequest{
		Approve: false,
		Note:    "budget too low",
	})
	s.Require().NoError(err)
	s.Equal(models.CampaignStatusDraft, reviewed.Status)
}

func (s *CampaignServiceTestSuite) TestReviewCampaignRequiresAdmin() {
	campaign, err := s.service.CreateCampaign(s.business.ID, s.validCreateRequest())
	s.Require().NoError(err)

	_, err = s.service.ReviewCampaign(s.business.ID, campaign.ID, &ReviewCampaignRequest{Approve: true})
	s.True(apperrors.IsCode(err, apperrors.CodeForbidden))
}

func (s *CampaignServiceTestSuite) TestReviewCampaignRefusesActive() {
	campaign := createTestCampaign(s.T(), s.db, s.business.ID, models.CampaignStatusActive)

	_, err := s.service.ReviewCampaign(s.admin.ID, campaign.ID, &ReviewCampaignRequest{Approve: true})
	s.True(apperrors.IsCode(err, apperrors.CodeInvalidTransition))
}

func (s *CampaignServiceTestSuite) TestUpdateStatusCancel() {
	campaign, err := s.service.CreateCampaign(s.business.ID, s.validCreateRequest())
	s.Require().NoError(err)

	cancelled, err := s.service.UpdateStatus(s.business.ID, campaign.ID, models.CampaignStatusCancelled)
	s.Require().NoError(err)
	s.Equal(models.CampaignStatusCancelled, cancelled.Status)
}

func (s *CampaignServiceTestSuite) TestUpdateStatusRefusesDirectActivation() {
	campaign, err := s.service.CreateCampaign(s.business.ID, s.validCreateRequest())
	s.Require().NoError(err)

	_, err = s.service.UpdateStatus(s.business.ID, campaign.ID, models.CampaignStatusActive)
	s.True(apperrors.IsCode(err, apperrors.CodeInvalidTransition))
}

func (s *CampaignServiceTestSuite) TestUpdateStatusResumesPaidPausedCampaign() {
	campaign := createTestCampaign(s.T(), s.db, s.business.ID, models.CampaignStatusActive)

	paused, err := s.service.UpdateStatus(s.business.ID, campaign.ID, models.CampaignStatusPaused)
	s.Require().NoError(err)
	s.Equal(models.CampaignStatusPaused, paused.Status)

	resumed, err := s.service.UpdateStatus(s.business.ID, campaign.ID, models.CampaignStatusActive)
	s.Require().NoError(err)
	s.Equal(models.CampaignStatusActive, resumed.Status)
}

func (s *CampaignServiceTestSuite) TestUpdateStatusRefusesResumeWhenUnpaid() {
	campaign := createTestCampaign(s.T(), s.db, s.business.ID, models.CampaignStatusPaused)
	s.Require().NoError(s.db.Model(campaign).Update("is_paid", false).Error)

	_, err := s.service.UpdateStatus(s.business.ID, campaign.ID, models.CampaignStatusActive)
	s.True(apperrors.IsCode(err, apperrors.CodeInvalidTransition))
}

func (s *CampaignServiceTestSuite) TestUpdateStatusUnknownStatus() {
	campaign, err := s.service.CreateCampaign(s.business.ID, s.validCreateRequest())
	s.Require().NoError(err)

	_, err = s.service.UpdateStatus(s.business.ID, campaign.ID, models.CampaignStatus("archived"))
	s.True(apperrors.IsCode(err, apperrors.CodeValidation))
}

func (s *CampaignServiceTestSuite) TestActivateCampaignTx() {
	campaign := createTestCampaign(s.T(), s.db, s.business.ID, models.CampaignStatusPending)
	campaign.IsPaid = true

	s.Require().NoError(ActivateCampaignTx(s.db, campaign))
	s.Equal(models.CampaignStatusActive, campaign.Status)
	s.Equal(money.Amount(100_000), campaign.PlatformFee)

	// already active is a no-op
	s.Require().NoError(ActivateCampaignTx(s.db, campaign))
	s.Equal(models.CampaignStatusActive, campaign.Status)
}

func (s *CampaignServiceTestSuite) TestActivateCampaignTxRefusesUnpaid() {
	campaign := createTestCampaign(s.T(), s.db, s.business.ID, models.CampaignStatusPending)

	err := ActivateCampaignTx(s.db, campaign)
	s.True(apperrors.IsCode(err, apperrors.CodeInvalidTransition))
	s.Equal(models.CampaignStatusPending, campaign.Status)
}

func (s *CampaignServiceTestSuite) TestGetCampaignNotFound() {
	_, err := s.service.GetCampaign(uuid.New())
	s.True(apperrors.IsCode(err, apperrors.CodeNotFound))
}

func (s *CampaignServiceTestSuite) TestSearchCampaignsByStatus() {
	createTestCampaign(s.T(), s.db, s.business.ID, models.CampaignStatusActive)
	createTestCampaign(s.T(), s.db, s.business.ID, models.CampaignStatusActive)
	createTestCampaign(s.T(), s.db, s.business.ID, models.CampaignStatusDraft)

	active := models.CampaignStatusActive
	campaigns, total, err := s.service.SearchCampaigns(CampaignSearchParams{
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"},
		Status:           &active,
	})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Len(campaigns, 2)
}

func (s *CampaignServiceTestSuite) TestSearchCampaignsByBusiness() {
	other := createTestUser(s.T(), s.db, models.UserTypeBusiness)
	createTestCampaign(s.T(), s.db, s.business.ID, models.CampaignStatusActive)
	createTestCampaign(s.T(), s.db, other.ID, models.CampaignStatusActive)

	campaigns, total, err := s.service.SearchCampaigns(CampaignSearchParams{
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"},
		BusinessID:       &other.ID,
	})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(campaigns, 1)
	s.Equal(other.ID, campaigns[0].BusinessID)
}

func TestCampaignServiceSuite(t *testing.T) {
	suite.Run(t, new(CampaignServiceTestSuite))
}
