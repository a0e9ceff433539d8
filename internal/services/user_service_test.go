// internal/services/user_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/dungeun/video-platform-sub018/internal/apperrors"
	"github.com/dungeun/video-platform-sub018/internal/models"
)

type UserServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *UserService
	user    *models.User
}

func (s *UserServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.service = NewUserService(s.db)
	s.user = createTestUser(s.T(), s.db, models.UserTypeInfluencer)
}

func (s *UserServiceTestSuite) TestGetPublicProfile() {
	profile, err := s.service.GetPublicProfile(s.user.ID)
	s.Require().NoError(err)
	s.Equal(s.user.Username, profile.Username)

	// sensitive columns stay out of the public view
	s.Empty(profile.Email)
	s.Empty(profile.PasswordHash)
}

func (s *UserServiceTestSuite) TestUpdateProfile() {
	updated, err := s.service.UpdateProfile(s.user.ID, &UpdateUserProfileRequest{
		Username:    "new_handle",
		ProfileData: map[string]interface{}{"bio": "video things"},
	})
	s.Require().NoError(err)
	s.Equal("new_handle", updated.Username)
	s.Equal("video things", updated.ProfileData["bio"])

	// profile data merges rather than replaces
	updated, err = s.service.UpdateProfile(s.user.ID, &UpdateUserProfileRequest{
		ProfileData: map[string]interface{}{"channel": "shorts"},
	})
	s.Require().NoError(err)
	s.Equal("video things", updated.ProfileData["bio"])
	s.Equal("shorts", updated.ProfileData["channel"])
}

func (s *UserServiceTestSuite) TestUpdateProfileUsernameTaken() {
	other := createTestUser(s.T(), s.db, models.UserTypeBusiness)

	_, err := s.service.UpdateProfile(s.user.ID, &UpdateUserProfileRequest{
		Username: other.Username,
	})
	s.True(apperrors.IsCode(err, apperrors.CodeConflict))
}

func (s *UserServiceTestSuite) TestDeleteAccount() {
	s.Require().NoError(s.service.DeleteAccount(s.user.ID, "Secret123!"))

	var user models.User
	err := s.db.First(&user, s.user.ID).Error
	s.True(errors.Is(err, gorm.ErrRecordNotFound))

	// soft delete: the row is retained
	s.Require().NoError(s.db.Unscoped().First(&user, s.user.ID).Error)
	s.True(user.DeletedAt.Valid)
}

func (s *UserServiceTestSuite) TestDeleteAccountWrongPassword() {
	err := s.service.DeleteAccount(s.user.ID, "Wrong123!")
	s.True(apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func (s *UserServiceTestSuite) TestDeleteAccountBlockedByActiveCampaign() {
	business := createTestUser(s.T(), s.db, models.UserTypeBusiness)
	createTestCampaign(s.T(), s.db, business.ID, models.CampaignStatusActive)

	err := s.service.DeleteAccount(business.ID, "Secret123!")
	s.True(apperrors.IsCode(err, apperrors.CodeConflict))
}

func (s *UserServiceTestSuite) TestDeleteAccountBlockedByUnsettledEarnings() {
	business := createTestUser(s.T(), s.db, models.UserTypeBusiness)
	campaign := createTestCampaign(s.T(), s.db, business.ID, models.CampaignStatusCompleted)

	app := &models.Application{
		CampaignID:    campaign.ID,
		InfluencerID:  s.user.ID,
		ProposedPrice: 500_000,
		Status:        models.ApplicationStatusCompleted,
	}
	s.Require().NoError(s.db.Create(app).Error)

	err := s.service.DeleteAccount(s.user.ID, "Secret123!")
	s.True(apperrors.IsCode(err, apperrors.CodeConflict))
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
