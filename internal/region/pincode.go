// Package region maps postal codes to city regions.
package region

import "github.com/sakshiot4/UrbanWatch-plus/internal/models"

// Pincode membership sets for the four outer regions. Anything else,
// including an empty or unknown pincode, resolves to central.
var (
	southPincodes = map[string]struct{}{
		"400001": {}, "400002": {}, "400003": {}, "400004": {},
		"400005": {}, "400006": {}, "400020": {}, "400032": {},
	}
	westPincodes = map[string]struct{}{
		"400050": {}, "400051": {}, "400052": {}, "400053": {},
		"400054": {}, "400058": {},
	}
	eastPincodes = map[string]struct{}{
		"400070": {}, "400071": {}, "400074": {}, "400075": {},
		"400077": {}, "400080": {},
	}
	northPincodes = map[string]struct{}{
		"400067": {}, "400091": {}, "400092": {}, "400064": {},
		"400097": {},
	}
)

// FromPincode resolves a pincode to a region tag. Total function: it never
// fails and falls back to central.
func FromPincode(pincode string) string {
	switch {
	case contains(southPincodes, pincode):
		return models.RegionSouth
	case contains(westPincodes, pincode):
		return models.RegionWest
	case contains(eastPincodes, pincode):
		return models.RegionEast
	case contains(northPincodes, pincode):
		return models.RegionNorth
	default:
		return models.RegionCentral
	}
}

func contains(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
