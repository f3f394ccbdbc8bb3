package rbac

// catalog is the static registry of grantable resource types. Authorization
// fails closed for anything outside it.
var catalog = map[Resource]struct{}{
	ResourceRole:           {},
	ResourceUser:           {},
	ResourceGrant:          {},
	ResourceAuditLog:       {},
	ResourceHotel:          {},
	ResourceRoomCategory:   {},
	ResourceRoom:           {},
	ResourceBooking:        {},
	ResourceRoomService:    {},
	ResourceMenuCategory:   {},
	ResourceMenuItem:       {},
	ResourceTable:          {},
	ResourceReservation:    {},
	ResourceOrder:          {},
	ResourceDiscountRule:   {},
	ResourceLaundryService: {},
	ResourceLaundryOrder:   {},
	ResourceReview:         {},
	ResourceCampaign:       {},
	ResourcePromotion:      {},
	ResourceStaff:          {},
	ResourceAttendance:     {},
	ResourcePayroll:        {},
	ResourceInvoice:        {},
	ResourcePayment:        {},
	ResourceCustomer:       {},
}

var permissions = map[Permission]struct{}{
	PermissionCreate: {},
	PermissionRead:   {},
	PermissionUpdate: {},
	PermissionDelete: {},
}

// KnownResource reports whether the resource type is registered.
func KnownResource(r Resource) bool {
	_, ok := catalog[r]
	return ok
}

// KnownPermission reports whether the permission kind is registered.
func KnownPermission(p Permission) bool {
	_, ok := permissions[p]
	return ok
}

// Resources returns every registered resource type. Order is unspecified.
func Resources() []Resource {
	out := make([]Resource, 0, len(catalog))
	for r := range catalog {
		out = append(out, r)
	}
	return out
}
