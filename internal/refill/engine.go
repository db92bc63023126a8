package refill

import (
	"context"
	"errors"
	"fmt"

	"ai-mart-inventory/internal/model"
	"ai-mart-inventory/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options tunes a single run.
type Options struct {
	// DryRun computes the plan without writing anything.
	DryRun bool
}

// Publisher is told about runs that changed stock. It is called after
// commit and must not block.
type Publisher interface {
	RefillApplied(storeID uuid.UUID, summary Summary)
}

type Engine struct {
	db        *gorm.DB
	log       *zap.Logger
	publisher Publisher
}

type Option func(*Engine)

func WithPublisher(p Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

func NewEngine(db *gorm.DB, log *zap.Logger, opts ...Option) *Engine {
	e := &Engine{db: db, log: log.Named("refill")}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes one refill pass for storeID.
//
// A live run holds the store row lock and the row locks of every item it
// plans over for the whole transaction, so runs on the same store serialise
// and a concurrent sale either lands before the read or waits for commit.
// Any persistence error rolls back every change of the run.
func (e *Engine) Run(ctx context.Context, storeID uuid.UUID, opts Options) (*Result, error) {
	if opts.DryRun {
		return e.preview(ctx, storeID)
	}

	var (
		res  *Result
		plan Plan
	)
	err := repository.New(e.db).WithTx(ctx, func(tx *repository.Repository) error {
		store, err := tx.Stores.FindByIDForUpdate(ctx, storeID)
		if err != nil {
			return lookupErr(err)
		}
		if !store.Settings.AutoRefill {
			res = disabled(storeID, false)
			return nil
		}

		items, err := tx.Items.ListByStoreForUpdate(ctx, storeID)
		if err != nil {
			return fmt.Errorf("load items: %w", err)
		}
		plan = planFor(items)
		summary, err := apply(ctx, tx, storeID, plan)
		if err != nil {
			return err
		}
		res = &Result{StoreID: storeID, Message: MessageComplete, Summary: summary}
		return nil
	})
	if err != nil {
		e.log.Error("refill run failed", zap.String("store_id", storeID.String()), zap.Error(err))
		return nil, err
	}

	e.log.Info("refill run complete",
		zap.String("store_id", storeID.String()),
		zap.Int("moved", len(res.Summary.Moved)),
		zap.Int("orders", len(res.Summary.Orders)),
		zap.Int("skipped", len(res.Summary.Skipped)),
	)
	if e.publisher != nil && plan.Changes() {
		e.publisher.RefillApplied(storeID, res.Summary)
	}
	return res, nil
}

func (e *Engine) preview(ctx context.Context, storeID uuid.UUID) (*Result, error) {
	repo := repository.New(e.db)
	store, err := repo.Stores.FindByID(ctx, storeID)
	if err != nil {
		return nil, lookupErr(err)
	}
	if !store.Settings.AutoRefill {
		return disabled(storeID, true), nil
	}
	items, err := repo.Items.ListByStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	plan := planFor(items)
	return &Result{StoreID: storeID, DryRun: true, Message: MessageComplete, Summary: plan.Preview()}, nil
}

func planFor(items []model.Item) Plan {
	states := make([]ItemState, 0, len(items))
	for i := range items {
		states = append(states, StateOf(&items[i]))
	}
	return BuildPlan(states)
}

// StateOf projects a persisted item onto the planner's view.
func StateOf(it *model.Item) ItemState {
	return ItemState{
		ID:        it.ID,
		Shelf:     it.RackStock,
		Backing:   it.TotalStock,
		Threshold: it.Threshold,
		Capacity:  it.Capacity(),
	}
}

func apply(ctx context.Context, tx *repository.Repository, storeID uuid.UUID, plan Plan) (Summary, error) {
	s := newSummary()
	for _, d := range plan.Decisions {
		if d.Skipped {
			s.Skipped = append(s.Skipped, SkippedItem{ItemID: d.ItemID, Reason: d.Reason})
			continue
		}
		if d.Move > 0 {
			if err := tx.Items.UpdateStock(ctx, d.ItemID, d.NewShelf, d.NewBacking); err != nil {
				return Summary{}, fmt.Errorf("update item %s: %w", d.ItemID, err)
			}
			s.Moved = append(s.Moved, MovedItem{ItemID: d.ItemID, Moved: d.Move})
		}
		if d.OrderQty > 0 {
			order := &model.Order{
				StoreID:  storeID,
				ItemID:   d.ItemID,
				Quantity: d.OrderQty,
				Status:   model.OrderCreated,
				Note:     model.AutoRefillOrderNote,
			}
			order.CreatedBy = "auto-refill"
			if err := tx.Orders.Create(ctx, order); err != nil {
				return Summary{}, fmt.Errorf("create order for item %s: %w", d.ItemID, err)
			}
			id := order.ID
			s.Orders = append(s.Orders, OrderEntry{ItemID: d.ItemID, OrderID: &id, Qty: d.OrderQty})
		}
	}
	return s, nil
}

func disabled(storeID uuid.UUID, dry bool) *Result {
	return &Result{StoreID: storeID, DryRun: dry, Message: MessageDisabled, Summary: newSummary()}
}

func lookupErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrStoreNotFound
	}
	return fmt.Errorf("load store: %w", err)
}
