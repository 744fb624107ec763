package dto

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/shopspring/decimal"
)

// QuotationHeaderDTO is shared by the create and update payloads and the
// detail response.
type QuotationHeaderDTO struct {
	QuotationID   string `json:"quotation_id" validate:"omitempty,max=50"`
	CurrentStatus string `json:"current_status" validate:"omitempty,max=30"`

	CustomerName    string `json:"customer_name" validate:"omitempty,max=255"`
	CustomerTaxID   string `json:"customer_tax_id" validate:"omitempty,max=20"`
	CustomerPhone   string `json:"customer_phone" validate:"omitempty,max=50"`
	CustomerAddress string `json:"customer_address"`
	Salesman        string `json:"salesman"`
	Remark          string `json:"remark"`

	IssueDateStr      string      `json:"issue_date_str"`
	IssueDate         null.String `json:"issue_date" validate:"omitempty,date_ymd"`
	PriceValidityDays *int32      `json:"price_validity_days" validate:"omitempty,gte=0"`
	ValidUntilStr     string      `json:"valid_until_str"`
	ValidUntil        null.String `json:"valid_until" validate:"omitempty,date_ymd"`
	OffererName       string      `json:"offerer_name"`

	DeliveryNoteNo           string      `json:"delivery_note_no"`
	DeliveryDateStr          string      `json:"delivery_date_str"`
	DeliveryDate             null.String `json:"delivery_date" validate:"omitempty,date_ymd"`
	PaymentTerm              string      `json:"payment_term"`
	DueDateStr               string      `json:"due_date_str"`
	DueDate                  null.String `json:"due_date" validate:"omitempty,date_ymd"`
	DeliveryAddress          string      `json:"delivery_address"`
	ReceiverName             string      `json:"receiver_name"`
	ReceivedDateStr          string      `json:"received_date_str"`
	ReceivedDate             null.String `json:"received_date" validate:"omitempty,date_ymd"`
	SenderName               string      `json:"sender_name"`
	SentDateStr              string      `json:"sent_date_str"`
	SentDate                 null.String `json:"sent_date" validate:"omitempty,date_ymd"`
	DeliveryAuthorizedSigner string      `json:"delivery_authorized_signer"`

	ReceiptNo                 string              `json:"receipt_no"`
	ReceiptIssueDateStr       string              `json:"receipt_issue_date_str"`
	ReceiptIssueDate          null.String         `json:"receipt_issue_date" validate:"omitempty,date_ymd"`
	PaymentMethod             string              `json:"payment_method"`
	ChequeBank                string              `json:"cheque_bank"`
	ChequeBranch              string              `json:"cheque_branch"`
	ChequeNo                  string              `json:"cheque_no"`
	ChequeAmount              decimal.NullDecimal `json:"cheque_amount"`
	ChequeDateStr             string              `json:"cheque_date_str"`
	ChequeDate                null.String         `json:"cheque_date" validate:"omitempty,date_ymd"`
	GoodsReceivedCheckDateStr string              `json:"goods_received_check_date_str"`
	GoodsReceivedCheckDate    null.String         `json:"goods_received_check_date" validate:"omitempty,date_ymd"`
	MoneyReceiverName         string              `json:"money_receiver_name"`
	MoneyReceiveDateStr       string              `json:"money_receive_date_str"`
	MoneyReceiveDate          null.String         `json:"money_receive_date" validate:"omitempty,date_ymd"`
	ReceiptAuthorizedSigner   string              `json:"receipt_authorized_signer"`
}

type QuotationItemDTO struct {
	ID          int64           `json:"id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit" validate:"omitempty,max=50"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	SortOrder   int             `json:"sort_order,omitempty"`
}

type QuotationSectionDTO struct {
	ID          int64              `json:"id,omitempty"`
	SectionName string             `json:"section_name" validate:"omitempty,max=255"`
	SortOrder   int                `json:"sort_order,omitempty"`
	Items       []QuotationItemDTO `json:"items" validate:"dive"`
}

type SaveQuotationDTO struct {
	QuotationHeaderDTO
	ProductSections []QuotationSectionDTO `json:"productSections" validate:"dive"`
}

type QuotationDTO struct {
	ID string `json:"id"`
	QuotationHeaderDTO
	ProductSections []QuotationSectionDTO `json:"productSections"`
	Total           decimal.Decimal       `json:"total"`
	CreatedAt       *time.Time            `json:"created_at"`
}

type QuotationListItemDTO struct {
	ID             string          `json:"id"`
	QuotationID    string          `json:"quotation_id"`
	DeliveryNoteNo string          `json:"delivery_note_no"`
	ReceiptNo      string          `json:"receipt_no"`
	CustomerName   string          `json:"customer_name"`
	CurrentStatus  string          `json:"current_status"`
	IssueDate      *string         `json:"issue_date"`
	IssueDateStr   string          `json:"issue_date_str"`
	Total          decimal.Decimal `json:"total"`
}

type CreatedQuotationDTO struct {
	ID string `json:"id"`
}
