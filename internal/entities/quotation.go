package entities

import (
	"time"

	"github.com/shopspring/decimal"

	"repair-office/pkg/types"
)

const (
	QuotationPrefix        = "QT"
	QuotationDefaultStatus = "QUOTATION"
)

// Quotation is one document that moves through quotation, delivery note and
// receipt. ID is the system key; QuotationID is the editable business number.
type Quotation struct {
	ID            string
	QuotationID   string
	CurrentStatus string

	CustomerName    string
	CustomerTaxID   string
	CustomerPhone   string
	CustomerAddress string
	Salesman        string
	Remark          string

	IssueDateStr      string
	IssueDate         *time.Time
	PriceValidityDays *int32
	ValidUntilStr     string
	ValidUntil        *time.Time
	OffererName       string

	DeliveryNoteNo           string
	DeliveryDateStr          string
	DeliveryDate             *time.Time
	PaymentTerm              string
	DueDateStr               string
	DueDate                  *time.Time
	DeliveryAddress          string
	ReceiverName             string
	ReceivedDateStr          string
	ReceivedDate             *time.Time
	SenderName               string
	SentDateStr              string
	SentDate                 *time.Time
	DeliveryAuthorizedSigner string

	ReceiptNo                 string
	ReceiptIssueDateStr       string
	ReceiptIssueDate          *time.Time
	PaymentMethod             string
	ChequeBank                string
	ChequeBranch              string
	ChequeNo                  string
	ChequeAmount              decimal.NullDecimal
	ChequeDateStr             string
	ChequeDate                *time.Time
	GoodsReceivedCheckDateStr string
	GoodsReceivedCheckDate    *time.Time
	MoneyReceiverName         string
	MoneyReceiveDateStr       string
	MoneyReceiveDate          *time.Time
	ReceiptAuthorizedSigner   string

	Sections []QuotationSection

	types.BaseEntity
}

type QuotationSection struct {
	ID          int64
	DocumentID  string
	SectionName string
	SortOrder   int
	Items       []QuotationItem
}

type QuotationItem struct {
	ID          int64
	SectionID   int64
	Description string
	Quantity    decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
	SortOrder   int
}

func (i QuotationItem) Amount() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// Total is derived from the items and never stored.
func (q Quotation) Total() decimal.Decimal {
	total := decimal.Zero
	for _, s := range q.Sections {
		for _, it := range s.Items {
			total = total.Add(it.Amount())
		}
	}
	return total
}

// QuotationSummary is a list row; Total is computed by the query.
type QuotationSummary struct {
	ID             string
	QuotationID    string
	DeliveryNoteNo string
	ReceiptNo      string
	CustomerName   string
	CurrentStatus  string
	IssueDate      *time.Time
	IssueDateStr   string
	Total          decimal.Decimal
}
