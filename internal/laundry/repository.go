package laundry

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryPort defines data access for laundry offerings and orders.
type RepositoryPort interface {
	ListOfferings(ctx context.Context) ([]Offering, error)
	GetOffering(ctx context.Context, id uuid.UUID) (Offering, error)
	CreateOffering(ctx context.Context, o Offering) (Offering, error)
	UpdateOffering(ctx context.Context, o Offering) (Offering, error)
	DeleteOffering(ctx context.Context, id uuid.UUID) error

	ListOrders(ctx context.Context, roomID *uuid.UUID, status OrderStatus) ([]Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (Order, error)
	CreateOrder(ctx context.Context, o Order) (Order, error)
	UpdateOrder(ctx context.Context, o Order) (Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status OrderStatus) (Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}
