// internal/models/campaign_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dungeun/video-platform-sub018/internal/money"
)

func TestCampaignTotalCharge(t *testing.T) {
	c := &Campaign{Budget: 1_000_000, PlatformFeeRate: 0.1}
	assert.Equal(t, money.Amount(1_100_000), c.TotalCharge())

	c = &Campaign{Budget: 1_000_000, PlatformFeeRate: 0}
	assert.Equal(t, money.Amount(1_000_000), c.TotalCharge())
}

func TestCampaignEditable(t *testing.T) {
	for status, want := range map[CampaignStatus]bool{
		CampaignStatusDraft:     true,
		CampaignStatusPending:   true,
		CampaignStatusActive:    false,
		CampaignStatusCompleted: false,
		CampaignStatusCancelled: false,
	} {
		c := &Campaign{Status: status}
		assert.Equal(t, want, c.Editable(), "%s", status)
	}
}

func TestSettlementSumItems(t *testing.T) {
	s := &Settlement{Items: []SettlementItem{
		{Amount: 500_000},
		{Amount: 300_000},
		{Amount: 200_000},
	}}
	assert.Equal(t, money.Amount(1_000_000), s.SumItems())

	empty := &Settlement{}
	assert.Equal(t, money.Amount(0), empty.SumItems())
}
