package constants

// Promotion status constants.
const (
	PromotionStatusPendingPayment = "pending_payment"
	PromotionStatusActive         = "active"
	PromotionStatusCompleted      = "completed"
	PromotionStatusCancelled      = "cancelled"
	PromotionStatusFailed         = "failed"
)

// Promotion package tier constants.
const (
	PackageTypeSpotlight = "spotlight"
	PackageTypeFeature   = "feature"
	PackageTypeLaunch    = "launch"
)

// Display surface constants.
const (
	SurfaceHero            = "hero"
	SurfaceFeatured        = "featured"
	SurfaceSpotlightSearch = "spotlight_search"
)

// Promoted content type constants.
const (
	ContentTypeOpportunity = "opportunity"
	ContentTypeJob         = "job"
	ContentTypeEvent       = "event"
	ContentTypeResource    = "resource"
	ContentTypeAll         = "all"
)

// Queue names.
const (
	QueueDefault = "default"
)

// Async task type names.
const (
	TaskPromotionPaymentTimeout = "promotion:payment_timeout"
)
