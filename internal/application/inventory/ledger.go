package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReceiveLineInput is one goods receipt line applied to stock
type ReceiveLineInput struct {
	StoreID      int64
	MasterItemID int64
	Quantity     int
	UnitCost     decimal.Decimal
	ReceivedDate time.Time
	PRID         int64
	// POID is set for PO-mediated receipts; the transaction then references the PO
	POID          *int64
	PONumber      string
	SupplierName  string
	InvoiceNumber string
	ExpiryDate    *time.Time
	Notes         string
	UserID        *int64
}

// ReceiveLineResult describes the lot created for a receipt line
type ReceiveLineResult struct {
	LotID         int64
	LotNumber     string
	StoreItemID   int64
	TransactionID int64
	TotalCost     decimal.Decimal
	NewQuantity   int
}

// Ledger applies goods receipts to store items, lots and stock transactions.
// It never opens its own transaction: callers pass repositories bound to theirs.
type Ledger struct {
	lotNumbers shared.NumberGenerator
	logger     *zap.Logger
}

// NewLedger creates a new Ledger
func NewLedger(lotNumbers shared.NumberGenerator, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		lotNumbers: lotNumbers,
		logger:     logger,
	}
}

// ReceiveLine finds or creates the store item, inserts a lot, increments the
// on-hand quantity and appends a receive transaction.
func (l *Ledger) ReceiveLine(ctx context.Context, repos LedgerRepositories, in ReceiveLineInput) (*ReceiveLineResult, error) {
	if in.Quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Receive quantity must be a positive integer")
	}
	if in.UnitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unit cost cannot be negative")
	}
	if in.ReceivedDate.IsZero() {
		in.ReceivedDate = time.Now()
	}

	item, err := repos.StoreItemRepo().GetOrCreate(ctx, in.StoreID, in.MasterItemID)
	if err != nil {
		return nil, fmt.Errorf("get or create store item: %w", err)
	}

	prID := in.PRID
	lot, err := inventory.NewInventoryLot(inventory.LotSpec{
		StoreItemID:   item.ID,
		LotNumber:     l.lotNumbers.Next(),
		Quantity:      in.Quantity,
		UnitCost:      in.UnitCost,
		ReceivedDate:  in.ReceivedDate,
		ExpiryDate:    in.ExpiryDate,
		PRID:          &prID,
		POID:          in.POID,
		SupplierName:  in.SupplierName,
		InvoiceNumber: in.InvoiceNumber,
		Notes:         in.Notes,
	})
	if err != nil {
		return nil, err
	}
	if err := repos.LotRepo().Create(ctx, lot); err != nil {
		return nil, fmt.Errorf("create lot: %w", err)
	}

	if err := item.IncreaseStock(in.Quantity); err != nil {
		return nil, err
	}
	if err := repos.StoreItemRepo().Save(ctx, item); err != nil {
		return nil, fmt.Errorf("save store item: %w", err)
	}

	refType, refID, refNumber, notes := inventory.ReferenceTypePR, in.PRID, "", "PR Receive: "+lot.LotNumber
	if in.POID != nil {
		refType, refID, refNumber = inventory.ReferenceTypePO, *in.POID, in.PONumber
		notes = fmt.Sprintf("Receive PO:%s Lot:%s", in.PONumber, lot.LotNumber)
	}
	txn, err := inventory.NewReceiveTransaction(item, lot, refType, refID, refNumber, in.UserID, notes)
	if err != nil {
		return nil, err
	}
	if err := repos.TransactionRepo().Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("create stock transaction: %w", err)
	}

	l.logger.Debug("Stock received",
		zap.Int64("store_item_id", item.ID),
		zap.String("lot_number", lot.LotNumber),
		zap.Int("quantity", in.Quantity),
		zap.Int("on_hand", item.Quantity),
	)

	return &ReceiveLineResult{
		LotID:         lot.ID,
		LotNumber:     lot.LotNumber,
		StoreItemID:   item.ID,
		TransactionID: txn.ID,
		TotalCost:     lot.TotalCost,
		NewQuantity:   item.Quantity,
	}, nil
}
