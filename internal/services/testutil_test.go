// internal/services/testutil_test.go
package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dungeun/video-platform-sub018/internal/config"
	"github.com/dungeun/video-platform-sub018/internal/models"
	"github.com/dungeun/video-platform-sub018/internal/money"
	"github.com/dungeun/video-platform-sub018/internal/utils"
)

func paginationDefaults() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
}

// newTestDB opens a fresh in-memory database per test. The uuid in the DSN
// keeps shared-cache connections of one test away from another.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Campaign{},
		&models.Application{},
		&models.Content{},
		&models.Payment{},
		&models.SuperChat{},
		&models.Settlement{},
		&models.SettlementItem{},
		&models.Revenue{},
		&models.AdminSettings{},
		&models.AuditLog{},
	))

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
		Payment: config.PaymentConfig{
			DefaultPlatformFeeRate: 0.1,
			InfluencerFeeRate:      0,
		},
	}
}

func createTestUser(t *testing.T, db *gorm.DB, userType models.UserType) *models.User {
	t.Helper()

	tag := uuid.New().String()[:8]
	user := &models.User{
		Username: "user_" + tag,
		Email:    fmt.Sprintf("%s@example.com", tag),
		UserType: userType,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("Secret123!"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCampaign(t *testing.T, db *gorm.DB, businessID uuid.UUID, status models.CampaignStatus) *models.Campaign {
	t.Helper()

	campaign := &models.Campaign{
		BusinessID:      businessID,
		Title:           "Spring launch",
		Budget:          1_000_000,
		PlatformFeeRate: 0.1,
		Status:          status,
		StartDate:       time.Now().Add(24 * time.Hour),
		EndDate:         time.Now().Add(30 * 24 * time.Hour),
	}
	if status == models.CampaignStatusActive {
		campaign.IsPaid = true
		campaign.PlatformFee = money.ApplyRate(campaign.Budget, campaign.PlatformFeeRate)
	}
	require.NoError(t, db.Create(campaign).Error)
	return campaign
}

// fakeGateway stands in for the external payment service. The hooks run
// inside the gateway call, where tests can interleave database work.
type fakeGateway struct {
	mu           sync.Mutex
	confirmCalls int
	cancelCalls  int
	confirmErr   error
	cancelErr    error
	onConfirm    func()
	onCancel     func()
}

func (g *fakeGateway) Confirm(paymentKey string, amount money.Amount) error {
	g.mu.Lock()
	g.confirmCalls++
	hook, err := g.onConfirm, g.confirmErr
	g.mu.Unlock()
	if hook != nil {
		hook()
	}
	return err
}

func (g *fakeGateway) Cancel(paymentKey string, amount money.Amount, reason string) error {
	g.mu.Lock()
	g.cancelCalls++
	hook, err := g.onCancel, g.cancelErr
	g.mu.Unlock()
	if hook != nil {
		hook()
	}
	return err
}

func (g *fakeGateway) calls() (confirms, cancels int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.confirmCalls, g.cancelCalls
}
