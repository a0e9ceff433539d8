// internal/models/common_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCampaignStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to CampaignStatus }{
		{CampaignStatusDraft, CampaignStatusPending},
		{CampaignStatusDraft, CampaignStatusCancelled},
		{CampaignStatusPending, CampaignStatusActive},
		{CampaignStatusPending, CampaignStatusCancelled},
		{CampaignStatusActive, CampaignStatusPaused},
		{CampaignStatusActive, CampaignStatusCompleted},
		{CampaignStatusActive, CampaignStatusCancelled},
		{CampaignStatusPaused, CampaignStatusActive},
		{CampaignStatusPaused, CampaignStatusCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	forbidden := []struct{ from, to CampaignStatus }{
		{CampaignStatusDraft, CampaignStatusActive}, // activation requires review + payment
		{CampaignStatusDraft, CampaignStatusDraft},
		{CampaignStatusPending, CampaignStatusDraft},
		{CampaignStatusActive, CampaignStatusPending},
		{CampaignStatusCompleted, CampaignStatusActive},
		{CampaignStatusCancelled, CampaignStatusDraft},
		{CampaignStatusCancelled, CampaignStatusActive},
	}
	for _, tc := range forbidden {
		assert.False(t, tc.from.CanTransitionTo(tc.to), "%s -> %s should be forbidden", tc.from, tc.to)
	}
}

func TestCampaignStatusValid(t *testing.T) {
	for _, s := range []CampaignStatus{
		CampaignStatusDraft, CampaignStatusPending, CampaignStatusActive,
		CampaignStatusPaused, CampaignStatusCompleted, CampaignStatusCancelled,
	} {
		assert.True(t, s.Valid(), "%s", s)
	}
	assert.False(t, CampaignStatus("archived").Valid())
	assert.False(t, CampaignStatus("").Valid())
}

func TestApplicationStatusTransitions(t *testing.T) {
	assert.True(t, ApplicationStatusPending.CanTransitionTo(ApplicationStatusApproved))
	assert.True(t, ApplicationStatusPending.CanTransitionTo(ApplicationStatusRejected))
	assert.True(t, ApplicationStatusApproved.CanTransitionTo(ApplicationStatusCompleted))

	assert.False(t, ApplicationStatusPending.CanTransitionTo(ApplicationStatusCompleted))
	assert.False(t, ApplicationStatusApproved.CanTransitionTo(ApplicationStatusRejected))
	assert.False(t, ApplicationStatusRejected.CanTransitionTo(ApplicationStatusApproved))
	assert.False(t, ApplicationStatusCompleted.CanTransitionTo(ApplicationStatusApproved))
}

func TestContentStatusTransitions(t *testing.T) {
	assert.True(t, ContentStatusSubmitted.CanTransitionTo(ContentStatusApproved))
	assert.True(t, ContentStatusSubmitted.CanTransitionTo(ContentStatusRejected))
	// a rejected deliverable may be resubmitted
	assert.True(t, ContentStatusRejected.CanTransitionTo(ContentStatusSubmitted))

	assert.False(t, ContentStatusApproved.CanTransitionTo(ContentStatusRejected))
	assert.False(t, ContentStatusApproved.CanTransitionTo(ContentStatusSubmitted))
	assert.False(t, ContentStatusRejected.CanTransitionTo(ContentStatusApproved))
}

func TestPaymentStatusTransitions(t *testing.T) {
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusApproved))
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusFailed))
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusCancelled))
	// refund of an approved payment
	assert.True(t, PaymentStatusApproved.CanTransitionTo(PaymentStatusCancelled))

	assert.False(t, PaymentStatusApproved.CanTransitionTo(PaymentStatusPending))
	assert.False(t, PaymentStatusFailed.CanTransitionTo(PaymentStatusApproved))
	assert.False(t, PaymentStatusCancelled.CanTransitionTo(PaymentStatusApproved))
}

func TestSettlementStatusTransitions(t *testing.T) {
	assert.True(t, SettlementStatusRequested.CanTransitionTo(SettlementStatusApproved))
	assert.True(t, SettlementStatusRequested.CanTransitionTo(SettlementStatusRejected))
	assert.True(t, SettlementStatusApproved.CanTransitionTo(SettlementStatusPaid))

	assert.False(t, SettlementStatusRequested.CanTransitionTo(SettlementStatusPaid))
	assert.False(t, SettlementStatusRejected.CanTransitionTo(SettlementStatusApproved))
	assert.False(t, SettlementStatusPaid.CanTransitionTo(SettlementStatusApproved))
}
