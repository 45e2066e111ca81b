package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// DocumentType represents the legal document issued for a sale.
// Invoices require an identified customer; receipts do not.
type DocumentType int

const (
	DocumentTypeReceipt DocumentType = 0
	DocumentTypeInvoice DocumentType = 1
)

func (t DocumentType) String() string {
	names := [...]string{"Receipt", "Invoice"}
	if int(t) < 0 || int(t) >= len(names) {
		return "Receipt"
	}
	return names[t]
}

// RequiresCustomer reports whether the document type needs an identified customer
func (t DocumentType) RequiresCustomer() bool {
	return t == DocumentTypeInvoice
}

// IsValid reports whether the value is a known document type
func (t DocumentType) IsValid() bool {
	return t == DocumentTypeReceipt || t == DocumentTypeInvoice
}

func (t DocumentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *DocumentType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = DocumentType(i)
		return nil
	}
	switch str {
	case "Receipt":
		*t = DocumentTypeReceipt
	case "Invoice":
		*t = DocumentTypeInvoice
	}
	return nil
}

func (t DocumentType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *DocumentType) Scan(value interface{}) error {
	if value == nil {
		*t = DocumentTypeReceipt
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = DocumentType(v)
	case int:
		*t = DocumentType(v)
	}
	return nil
}
