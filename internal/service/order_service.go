package service

import (
	"context"

	"ai-mart-inventory/internal/model"
	"ai-mart-inventory/internal/repository"

	"github.com/google/uuid"
)

type OrderService interface {
	List(ctx context.Context, storeID uuid.UUID) ([]model.Order, error)
}

type orderService struct {
	orders repository.OrderRepository
}

func NewOrderService(orders repository.OrderRepository) OrderService {
	return &orderService{orders: orders}
}

func (s *orderService) List(ctx context.Context, storeID uuid.UUID) ([]model.Order, error) {
	return s.orders.ListByStore(ctx, storeID)
}
