package models

import (
	"github.com/promolane/internal/constants"
)

// PackageType identifies a promotion tier.
type PackageType string

const (
	PackageTypeSpotlight PackageType = constants.PackageTypeSpotlight
	PackageTypeFeature   PackageType = constants.PackageTypeFeature
	PackageTypeLaunch    PackageType = constants.PackageTypeLaunch
)

// Valid reports whether the package type is a known tier.
func (t PackageType) Valid() bool {
	switch t {
	case PackageTypeSpotlight, PackageTypeFeature, PackageTypeLaunch:
		return true
	}
	return false
}

// Surface identifies a place promoted content can be shown.
type Surface string

const (
	SurfaceHero            Surface = constants.SurfaceHero
	SurfaceFeatured        Surface = constants.SurfaceFeatured
	SurfaceSpotlightSearch Surface = constants.SurfaceSpotlightSearch
)

// Valid reports whether the surface is known.
func (s Surface) Valid() bool {
	switch s {
	case SurfaceHero, SurfaceFeatured, SurfaceSpotlightSearch:
		return true
	}
	return false
}

// VisualEnhancement describes how the rendering layer should decorate a
// promoted item within a surface.
type VisualEnhancement struct {
	Highlighted bool   `json:"highlighted"`
	BorderStyle string `json:"border_style"`
	Priority    int    `json:"priority"`
}

// PromotionPackage is an immutable catalog entry for one promotion tier.
type PromotionPackage struct {
	PackageType         PackageType       `json:"package_type"`
	DisplayEntitlements []Surface         `json:"display_entitlements"`
	DefaultDurationDays int               `json:"default_duration_days"`
	BoostMultiplier     float64           `json:"boost_multiplier"`
	Visual              VisualEnhancement `json:"visual"`
}

// Entitles reports whether this tier may appear on the given surface.
func (p PromotionPackage) Entitles(surface Surface) bool {
	for _, s := range p.DisplayEntitlements {
		if s == surface {
			return true
		}
	}
	return false
}
