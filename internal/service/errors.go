package service

import "errors"

// Sentinel errors exposed to handlers. They map to response codes with
// errors.Is; wrapped variants keep the original cause.
var (
	ErrPromotionInvalid           = errors.New("promotion input invalid")
	ErrPromotionNotFound          = errors.New("promotion not found")
	ErrUnknownPackageType         = errors.New("unknown package type")
	ErrConflictingActivePromotion = errors.New("an active promotion already exists for this content")
	ErrInvalidTransition          = errors.New("transition not legal from current status")
	ErrSurfaceUnknown             = errors.New("unknown display surface")
	ErrDisplayLimitInvalid        = errors.New("display limit must be positive")
	ErrCatalogIntegrity           = errors.New("package catalog entitlement containment violated")
)
