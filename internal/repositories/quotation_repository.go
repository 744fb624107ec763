package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"repair-office/internal/entities"
	apperrors "repair-office/pkg/errors"
	"repair-office/pkg/types"
)

const (
	documentTable        = "documents"
	documentSectionTable = "document_sections"
	documentItemTable    = "document_items"
)

type QuotationRepositoryInterface interface {
	GetQuotations(ctx context.Context, opts types.ListOptions) (types.ListResult[entities.QuotationSummary], error)
	FindQuotation(ctx context.Context, id string) (*entities.Quotation, error)
	InsertQuotation(ctx context.Context, tx pgx.Tx, q entities.Quotation) error
	UpdateQuotation(ctx context.Context, tx pgx.Tx, q entities.Quotation) error
	ReplaceSections(ctx context.Context, tx pgx.Tx, documentID string, sections []entities.QuotationSection) error
	DeleteQuotation(ctx context.Context, id string) error
}

type QuotationRepository struct {
	storage Querier
	logger  *zap.Logger
}

func NewQuotationRepository(storage Querier, logger *zap.Logger) QuotationRepositoryInterface {
	return &QuotationRepository{storage: storage, logger: logger}
}

// quotationHeaderColumns and quotationHeaderFields must stay in the same order.
var quotationHeaderColumns = []string{
	"quotation_id", "current_status",
	"customer_name", "customer_tax_id", "customer_phone", "customer_address",
	"salesman", "remark",
	"issue_date_str", "issue_date", "price_validity_days", "valid_until_str", "valid_until", "offerer_name",
	"delivery_note_no", "delivery_date_str", "delivery_date", "payment_term", "due_date_str", "due_date", "delivery_address",
	"receiver_name", "received_date_str", "received_date", "sender_name", "sent_date_str", "sent_date", "delivery_authorized_signer",
	"receipt_no", "receipt_issue_date_str", "receipt_issue_date", "payment_method",
	"cheque_bank", "cheque_branch", "cheque_no", "cheque_amount", "cheque_date_str", "cheque_date",
	"goods_received_check_date_str", "goods_received_check_date", "money_receiver_name",
	"money_receive_date_str", "money_receive_date", "receipt_authorized_signer",
}

// quotationHeaderFields returns pointers to the header fields of q, usable
// both as scan targets and, dereferenced, as statement values.
func quotationHeaderFields(q *entities.Quotation) []interface{} {
	return []interface{}{
		&q.QuotationID, &q.CurrentStatus,
		&q.CustomerName, &q.CustomerTaxID, &q.CustomerPhone, &q.CustomerAddress,
		&q.Salesman, &q.Remark,
		&q.IssueDateStr, &q.IssueDate, &q.PriceValidityDays, &q.ValidUntilStr, &q.ValidUntil, &q.OffererName,
		&q.DeliveryNoteNo, &q.DeliveryDateStr, &q.DeliveryDate, &q.PaymentTerm, &q.DueDateStr, &q.DueDate, &q.DeliveryAddress,
		&q.ReceiverName, &q.ReceivedDateStr, &q.ReceivedDate, &q.SenderName, &q.SentDateStr, &q.SentDate, &q.DeliveryAuthorizedSigner,
		&q.ReceiptNo, &q.ReceiptIssueDateStr, &q.ReceiptIssueDate, &q.PaymentMethod,
		&q.ChequeBank, &q.ChequeBranch, &q.ChequeNo, &q.ChequeAmount, &q.ChequeDateStr, &q.ChequeDate,
		&q.GoodsReceivedCheckDateStr, &q.GoodsReceivedCheckDate, &q.MoneyReceiverName,
		&q.MoneyReceiveDateStr, &q.MoneyReceiveDate, &q.ReceiptAuthorizedSigner,
	}
}

func quotationHeaderValues(q entities.Quotation) map[string]interface{} {
	fields := quotationHeaderFields(&q)
	values := make(map[string]interface{}, len(fields))
	for i, col := range quotationHeaderColumns {
		values[col] = derefField(fields[i])
	}
	return values
}

func derefField(p interface{}) interface{} {
	switch v := p.(type) {
	case *string:
		return *v
	case **int32:
		return *v
	case **time.Time:
		return *v
	case *decimal.NullDecimal:
		return *v
	}
	panic(fmt.Sprintf("quotation header: unhandled field type %T", p))
}

func scanQuotationSummary(row pgx.Row) (entities.QuotationSummary, error) {
	var s entities.QuotationSummary
	err := row.Scan(
		&s.ID, &s.QuotationID, &s.DeliveryNoteNo, &s.ReceiptNo,
		&s.CustomerName, &s.CurrentStatus, &s.IssueDate, &s.IssueDateStr, &s.Total,
	)
	if err != nil {
		return s, fmt.Errorf("scan quotation: %w", err)
	}
	return s, nil
}

func (r *QuotationRepository) GetQuotations(ctx context.Context, opts types.ListOptions) (types.ListResult[entities.QuotationSummary], error) {
	return listRows(ctx, r.storage, QuotationListSpec, opts, scanQuotationSummary)
}

func (r *QuotationRepository) FindQuotation(ctx context.Context, id string) (*entities.Quotation, error) {
	columns := append([]string{"id"}, quotationHeaderColumns...)
	columns = append(columns, "created_at")
	query, args, err := psql.Select(columns...).
		From(documentTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var q entities.Quotation
	dest := append([]interface{}{&q.ID}, quotationHeaderFields(&q)...)
	dest = append(dest, &q.CreatedAt)
	if err := r.storage.QueryRow(ctx, query, args...).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan quotation %s: %w", id, err)
	}

	if q.Sections, err = r.loadSections(ctx, id); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuotationRepository) loadSections(ctx context.Context, documentID string) ([]entities.QuotationSection, error) {
	query, args, err := psql.Select("id", "document_id", "section_name", "sort_order").
		From(documentSectionTable).
		Where(sq.Eq{"document_id": documentID}).
		OrderBy("sort_order ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load sections of %s: %w", documentID, err)
	}
	sections, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.QuotationSection, error) {
		var s entities.QuotationSection
		err := row.Scan(&s.ID, &s.DocumentID, &s.SectionName, &s.SortOrder)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("load sections of %s: %w", documentID, err)
	}
	if len(sections) == 0 {
		return sections, nil
	}

	ids := make([]int64, 0, len(sections))
	index := make(map[int64]int, len(sections))
	for i, s := range sections {
		ids = append(ids, s.ID)
		index[s.ID] = i
	}

	query, args, err = psql.Select("id", "section_id", "description", "quantity", "unit", "unit_price", "sort_order").
		From(documentItemTable).
		Where("section_id = ANY(?)", ids).
		OrderBy("sort_order ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err = r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load items of %s: %w", documentID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var it entities.QuotationItem
		if err := rows.Scan(&it.ID, &it.SectionID, &it.Description, &it.Quantity, &it.Unit, &it.UnitPrice, &it.SortOrder); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		i := index[it.SectionID]
		sections[i].Items = append(sections[i].Items, it)
	}
	return sections, rows.Err()
}

func (r *QuotationRepository) InsertQuotation(ctx context.Context, tx pgx.Tx, q entities.Quotation) error {
	values := quotationHeaderValues(q)
	values["id"] = q.ID

	query, args, err := psql.Insert(documentTable).SetMap(values).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert quotation %s: %w", q.ID, err)
	}
	return nil
}

func (r *QuotationRepository) UpdateQuotation(ctx context.Context, tx pgx.Tx, q entities.Quotation) error {
	query, args, err := psql.Update(documentTable).
		SetMap(quotationHeaderValues(q)).
		Where(sq.Eq{"id": q.ID}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update quotation %s: %w", q.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ReplaceSections drops the document's sections (items go with them) and
// inserts the new ones numbered 1..n in the given order.
func (r *QuotationRepository) ReplaceSections(ctx context.Context, tx pgx.Tx, documentID string, sections []entities.QuotationSection) error {
	query, args, err := psql.Delete(documentSectionTable).Where(sq.Eq{"document_id": documentID}).ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("clear sections of %s: %w", documentID, err)
	}

	for si, section := range sections {
		query, args, err := psql.Insert(documentSectionTable).
			Columns("document_id", "section_name", "sort_order").
			Values(documentID, section.SectionName, si+1).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return err
		}

		var sectionID int64
		if err := tx.QueryRow(ctx, query, args...).Scan(&sectionID); err != nil {
			return fmt.Errorf("insert section %d of %s: %w", si+1, documentID, err)
		}
		if len(section.Items) == 0 {
			continue
		}

		items := psql.Insert(documentItemTable).
			Columns("section_id", "description", "quantity", "unit", "unit_price", "sort_order")
		for ii, it := range section.Items {
			items = items.Values(sectionID, it.Description, it.Quantity, it.Unit, it.UnitPrice, ii+1)
		}
		query, args, err = items.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("insert items of section %d of %s: %w", si+1, documentID, err)
		}
	}
	return nil
}

// DeleteQuotation removes the header; sections and items are removed by
// ON DELETE CASCADE.
func (r *QuotationRepository) DeleteQuotation(ctx context.Context, id string) error {
	query, args, err := psql.Delete(documentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}

	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete quotation %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
