// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// Campaigns
	KeyCampaignCreated   = "campaign.created"
	KeyCampaignUpdated   = "campaign.updated"
	KeyCampaignNotFound  = "campaign.not_found"
	KeyCampaignSubmitted = "campaign.submitted"
	KeyCampaignReviewed  = "campaign.reviewed"
	KeyCampaignActivated = "campaign.activated"

	// Applications
	KeyApplicationCreated   = "application.created"
	KeyApplicationNotFound  = "application.not_found"
	KeyApplicationDuplicate = "application.duplicate"
	KeyApplicationDecided   = "application.decided"

	// Content
	KeyContentSubmitted = "content.submitted"
	KeyContentNotFound  = "content.not_found"
	KeyContentReviewed  = "content.reviewed"

	// Payments
	KeyPaymentCreated       = "payment.created"
	KeyPaymentSuccess       = "payment.success"
	KeyPaymentNotFound      = "payment.not_found"
	KeyPaymentCancelled     = "payment.cancelled"
	KeyPaymentAmountInvalid = "payment.invalid_amount"

	// Settlements
	KeySettlementRequested = "settlement.requested"
	KeySettlementNotFound  = "settlement.not_found"
	KeySettlementProcessed = "settlement.processed"
	KeySettlementPaid      = "settlement.paid"
	KeySettlementEmpty     = "settlement.nothing_to_settle"

	// SuperChats
	KeySuperChatCreated = "super_chat.created"

	// Admin
	KeyAdminActionSuccess   = "admin.action_success"
	KeyAdminAccessDenied    = "admin.access_denied"
	KeyAdminSettingsUpdated = "admin.settings_updated"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
)
