package models

// User roles
const (
	RoleCitizen    = "citizen"
	RoleOfficer    = "officer"
	RoleContractor = "contractor"
)

// Complaint categories
const (
	CategoryWater       = "water"
	CategoryRoad        = "road"
	CategoryElectricity = "electricity"
	CategorySanitation  = "sanitation"
	CategoryOther       = "other"
)

// City regions
const (
	RegionNorth   = "north"
	RegionSouth   = "south"
	RegionEast    = "east"
	RegionWest    = "west"
	RegionCentral = "central"
)

// Contractor approval statuses
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// ValidCategories is the set of accepted complaint categories.
var ValidCategories = map[string]struct{}{
	CategoryWater:       {},
	CategoryRoad:        {},
	CategoryElectricity: {},
	CategorySanitation:  {},
	CategoryOther:       {},
}

// ValidRegions is the set of accepted regions.
var ValidRegions = map[string]struct{}{
	RegionNorth:   {},
	RegionSouth:   {},
	RegionEast:    {},
	RegionWest:    {},
	RegionCentral: {},
}

// ValidRoles is the set of accepted user roles.
var ValidRoles = map[string]struct{}{
	RoleCitizen:    {},
	RoleOfficer:    {},
	RoleContractor: {},
}

// IsValidCategory reports whether category is a known complaint category.
func IsValidCategory(category string) bool {
	_, ok := ValidCategories[category]
	return ok
}

// IsValidRegion reports whether region is a known region.
func IsValidRegion(region string) bool {
	_, ok := ValidRegions[region]
	return ok
}
