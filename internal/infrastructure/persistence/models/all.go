package models

// All returns every persistence model, parents before children
func All() []interface{} {
	return []interface{}{
		&AccountModel{},
		&StoreModel{},
		&BalanceEntryModel{},
		&AdjustmentModel{},
		&VendorModel{},
		&ProductModel{},
		&LedgerEntryModel{},
		&StoreInventoryModel{},
		&StoreInventoryLineModel{},
		&OrderModel{},
		&OrderLineModel{},
		&OrderMatrixModel{},
		&OrderMatrixLineModel{},
		&PreOrderModel{},
		&PreOrderLineModel{},
		&PurchaseOrderModel{},
		&PurchaseOrderLineModel{},
		&InvoiceModel{},
		&InvoiceLineModel{},
		&CreditMemoModel{},
		&StorePaymentModel{},
		&VendorInvoiceModel{},
		&VendorInvoiceLineModel{},
		&VendorCreditMemoModel{},
		&VendorPaymentModel{},
		&VendorDisputeModel{},
		&DisputeNoteModel{},
		&IssueModel{},
		&WorkOrderModel{},
		&WorkOrderLineModel{},
		&SequenceModel{},
	}
}

// SequenceModel holds the last value handed out per document number key
type SequenceModel struct {
	Key   string `gorm:"column:seq_key;type:varchar(100);primaryKey"`
	Value int64  `gorm:"column:last_value;not null;default:0"`
}

// TableName returns the table name for GORM
func (SequenceModel) TableName() string {
	return "document_sequences"
}
