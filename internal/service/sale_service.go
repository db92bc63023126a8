package service

import (
	"context"
	"errors"
	"fmt"

	"ai-mart-inventory/internal/event"
	"ai-mart-inventory/internal/model"
	"ai-mart-inventory/internal/repository"
	"ai-mart-inventory/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const recentSalesLimit = 100

type SaleService interface {
	Record(ctx context.Context, storeID uuid.UUID, req RecordSaleRequest, actor string) (*SaleResult, error)
	ListRecent(ctx context.Context, storeID uuid.UUID) ([]model.Sale, error)
}

type RecordSaleRequest struct {
	ItemID   uuid.UUID `json:"item_id" validate:"uuid_required"`
	Quantity int       `json:"quantity" validate:"gt=0"`
}

type SaleResult struct {
	Sale *model.Sale `json:"sale"`
	Item *model.Item `json:"item"`
}

type saleService struct {
	repo   *repository.Repository
	events event.Publisher
	log    *zap.Logger
}

func NewSaleService(repo *repository.Repository, events event.Publisher, log *zap.Logger) SaleService {
	return &saleService{repo: repo, events: events, log: log.Named("sales")}
}

// Record takes qty off the shelf and the backing count under an item row
// lock, then stores the sale.
func (s *saleService) Record(ctx context.Context, storeID uuid.UUID, req RecordSaleRequest, actor string) (*SaleResult, error) {
	if err := validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var res SaleResult
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		item, err := tx.Items.FindByIDForUpdate(ctx, storeID, req.ItemID)
		if err != nil {
			return err
		}
		if item.RackStock < req.Quantity {
			return ErrInsufficientStock
		}
		item.RackStock -= req.Quantity
		item.TotalStock = max(0, item.TotalStock-req.Quantity)
		if err := tx.Items.UpdateStock(ctx, item.ID, item.RackStock, item.TotalStock); err != nil {
			return err
		}

		sale := &model.Sale{StoreID: storeID, ItemID: item.ID, Quantity: req.Quantity}
		sale.CreatedBy = actor
		if err := tx.Sales.Create(ctx, sale); err != nil {
			return err
		}
		res = SaleResult{Sale: sale, Item: item}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	s.log.Info("sale recorded",
		zap.String("store_id", storeID.String()),
		zap.String("item_id", res.Item.ID.String()),
		zap.Int("qty", req.Quantity),
	)
	s.events.Publish(ctx, stockEvent(event.ActionSaleRecorded, storeID, res,
		fmt.Sprintf("sold %d x %s", req.Quantity, res.Item.Name)))
	return &res, nil
}

func (s *saleService) ListRecent(ctx context.Context, storeID uuid.UUID) ([]model.Sale, error) {
	return s.repo.Sales.ListRecent(ctx, storeID, recentSalesLimit)
}
