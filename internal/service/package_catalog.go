package service

import (
	"fmt"

	"github.com/promolane/internal/models"
)

// PackageCatalog is the read-only lookup over the fixed promotion tiers.
// Entitlement containment (spotlight within feature within launch) is
// validated once at construction; a violated catalog must never be served.
type PackageCatalog struct {
	packages map[models.PackageType]models.PromotionPackage
	ordered  []models.PackageType
}

// NewDefaultCatalog builds the catalog from the built-in tier definitions.
func NewDefaultCatalog() (*PackageCatalog, error) {
	return NewCatalog(defaultPackages())
}

// NewCatalog builds a catalog from explicit tier definitions and validates
// the containment invariant, failing fast on violation.
func NewCatalog(packages []models.PromotionPackage) (*PackageCatalog, error) {
	catalog := &PackageCatalog{
		packages: make(map[models.PackageType]models.PromotionPackage, len(packages)),
	}
	for _, pkg := range packages {
		if !pkg.PackageType.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPackageType, pkg.PackageType)
		}
		if pkg.DefaultDurationDays <= 0 {
			return nil, fmt.Errorf("%w: %s has non-positive duration", ErrCatalogIntegrity, pkg.PackageType)
		}
		if pkg.BoostMultiplier < 1.0 {
			return nil, fmt.Errorf("%w: %s has boost multiplier below 1.0", ErrCatalogIntegrity, pkg.PackageType)
		}
		catalog.packages[pkg.PackageType] = pkg
		catalog.ordered = append(catalog.ordered, pkg.PackageType)
	}
	if err := catalog.verifyContainment(); err != nil {
		return nil, err
	}
	return catalog, nil
}

// Get returns the catalog entry for a tier.
func (c *PackageCatalog) Get(packageType models.PackageType) (models.PromotionPackage, error) {
	pkg, ok := c.packages[packageType]
	if !ok {
		return models.PromotionPackage{}, fmt.Errorf("%w: %s", ErrUnknownPackageType, packageType)
	}
	return pkg, nil
}

// List returns all catalog entries in definition order.
func (c *PackageCatalog) List() []models.PromotionPackage {
	result := make([]models.PromotionPackage, 0, len(c.ordered))
	for _, t := range c.ordered {
		result = append(result, c.packages[t])
	}
	return result
}

// EntitledPackages returns the tiers allowed to appear on a surface.
func (c *PackageCatalog) EntitledPackages(surface models.Surface) []models.PackageType {
	var result []models.PackageType
	for _, t := range c.ordered {
		if c.packages[t].Entitles(surface) {
			result = append(result, t)
		}
	}
	return result
}

// verifyContainment enforces spotlight ⊆ feature ⊆ launch on entitlements.
func (c *PackageCatalog) verifyContainment() error {
	chain := []models.PackageType{
		models.PackageTypeSpotlight,
		models.PackageTypeFeature,
		models.PackageTypeLaunch,
	}
	for i := 0; i < len(chain)-1; i++ {
		lower, ok := c.packages[chain[i]]
		if !ok {
			return fmt.Errorf("%w: missing tier %s", ErrCatalogIntegrity, chain[i])
		}
		higher, ok := c.packages[chain[i+1]]
		if !ok {
			return fmt.Errorf("%w: missing tier %s", ErrCatalogIntegrity, chain[i+1])
		}
		for _, surface := range lower.DisplayEntitlements {
			if !higher.Entitles(surface) {
				return fmt.Errorf("%w: %s entitles %s but %s does not",
					ErrCatalogIntegrity, lower.PackageType, surface, higher.PackageType)
			}
		}
	}
	return nil
}

func defaultPackages() []models.PromotionPackage {
	return []models.PromotionPackage{
		{
			PackageType:         models.PackageTypeSpotlight,
			DisplayEntitlements: []models.Surface{models.SurfaceSpotlightSearch},
			DefaultDurationDays: 7,
			BoostMultiplier:     1.2,
			Visual: models.VisualEnhancement{
				Highlighted: true,
				BorderStyle: "subtle",
				Priority:    1,
			},
		},
		{
			PackageType: models.PackageTypeFeature,
			DisplayEntitlements: []models.Surface{
				models.SurfaceSpotlightSearch,
				models.SurfaceFeatured,
			},
			DefaultDurationDays: 14,
			BoostMultiplier:     1.5,
			Visual: models.VisualEnhancement{
				Highlighted: true,
				BorderStyle: "accent",
				Priority:    5,
			},
		},
		{
			PackageType: models.PackageTypeLaunch,
			DisplayEntitlements: []models.Surface{
				models.SurfaceSpotlightSearch,
				models.SurfaceFeatured,
				models.SurfaceHero,
			},
			DefaultDurationDays: 30,
			BoostMultiplier:     2.0,
			Visual: models.VisualEnhancement{
				Highlighted: true,
				BorderStyle: "premium",
				Priority:    10,
			},
		},
	}
}
