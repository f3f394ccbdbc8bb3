package rbac

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Permission is an atomic capability kind over a resource type.
type Permission string

const (
	PermissionCreate Permission = "create"
	PermissionRead   Permission = "read"
	PermissionUpdate Permission = "update"
	PermissionDelete Permission = "delete"
)

// Resource identifies a protected resource type. The enumeration is closed:
// grants reference these values, never free-text names, so a misspelled
// resource cannot silently widen access.
type Resource string

const (
	ResourceRole           Resource = "role"
	ResourceUser           Resource = "user"
	ResourceGrant          Resource = "grant"
	ResourceAuditLog       Resource = "audit_log"
	ResourceHotel          Resource = "hotel"
	ResourceRoomCategory   Resource = "room_category"
	ResourceRoom           Resource = "room"
	ResourceBooking        Resource = "booking"
	ResourceRoomService    Resource = "room_service_request"
	ResourceMenuCategory   Resource = "menu_category"
	ResourceMenuItem       Resource = "menu_item"
	ResourceTable          Resource = "table"
	ResourceReservation    Resource = "table_reservation"
	ResourceOrder          Resource = "restaurant_order"
	ResourceDiscountRule   Resource = "discount_rule"
	ResourceLaundryService Resource = "laundry_service"
	ResourceLaundryOrder   Resource = "laundry_order"
	ResourceReview         Resource = "review"
	ResourceCampaign       Resource = "campaign"
	ResourcePromotion      Resource = "promotion"
	ResourceStaff          Resource = "staff"
	ResourceAttendance     Resource = "attendance"
	ResourcePayroll        Resource = "payroll"
	ResourceInvoice        Resource = "invoice"
	ResourcePayment        Resource = "payment"
	ResourceCustomer       Resource = "customer"
)

// Grant allows a role to exercise one permission on one resource type.
// Grants are only ever added or removed, never mutated.
type Grant struct {
	RoleID     uuid.UUID
	Resource   Resource
	Permission Permission
	CreatedAt  time.Time
}

// PermissionForMethod maps an HTTP method to the permission kind it
// requires. Anything that is not an explicit mutation (GET, HEAD, custom
// actions) requires read.
func PermissionForMethod(method string) Permission {
	switch method {
	case http.MethodPost:
		return PermissionCreate
	case http.MethodPut, http.MethodPatch:
		return PermissionUpdate
	case http.MethodDelete:
		return PermissionDelete
	default:
		return PermissionRead
	}
}
