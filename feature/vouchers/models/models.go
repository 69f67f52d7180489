package models

import "time"

// Voucher is one (customer, order) pair with the barcodes matched to it.
type Voucher struct {
	CustomerID int      `json:"customer_id"`
	OrderID    int      `json:"order_id"`
	Barcodes   []string `json:"barcodes"`
}

// CustomerCount is a customer and the number of orders they placed.
type CustomerCount struct {
	CustomerID int `json:"customer_id"`
	Orders     int `json:"orders"`
}

// Output is the consolidated result handed to every report writer.
type Output struct {
	TopCustomers   []CustomerCount `json:"top_customers"`
	UnusedBarcodes []string        `json:"unused_barcodes"`
	Vouchers       []Voucher       `json:"vouchers"`
}

// VoucherBarcode is the exported row for a single matched barcode.
type VoucherBarcode struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RunID      string    `gorm:"size:36;index" json:"run_id"`
	CustomerID int       `gorm:"index" json:"customer_id"`
	OrderID    int       `gorm:"index" json:"order_id"`
	Barcode    string    `gorm:"size:64" json:"barcode"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName overrides the table name used by VoucherBarcode.
func (VoucherBarcode) TableName() string {
	return "voucher_barcodes"
}
