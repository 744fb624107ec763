package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"repair-office/internal/entities"
	db "repair-office/internal/infrastructure/bd"
	"repair-office/pkg/types"
)

var repairCaseColumns = []string{
	"case_id", "cus_first_name", "cus_last_name", "cus_phone", "case_institution",
	"broken_symptom", "case_type", "case_status", "case_brand", "case_model",
	"case_sn", "case_durable_articles", "case_equipment",
	"date_pick_up", "date_before_pick_up", "date_complete", "date_delivered",
	"ref_sent_repair_id", "created_at",
}

var RepairCaseListSpec = db.ListSpec{
	From:          "repair_cases",
	Columns:       repairCaseColumns,
	SearchColumns: []string{"case_id", "cus_first_name", "cus_last_name", "cus_phone"},
	Filters: map[string]string{
		"caseStatus": "case_status",
		"caseType":   "case_type",
	},
	DateColumn:    "date_pick_up",
	CreatedColumn: "created_at",
	SortColumns: map[string]string{
		"caseId":          "case_id",
		"cusFirstName":    "cus_first_name",
		"cusLastName":     "cus_last_name",
		"cusPhone":        "cus_phone",
		"caseInstitution": "case_institution",
		"caseType":        "case_type",
		"caseStatus":      "case_status",
		"caseBrand":       "case_brand",
		"caseModel":       "case_model",
		"datePickUp":      "date_pick_up",
		"dateComplete":    "date_complete",
		"dateDelivered":   "date_delivered",
		"created_at":      "created_at",
	},
	DefaultSortColumn: "created_at",
	DefaultOrder:      []string{"created_at DESC"},
	Direction:         db.DescUnlessAsc,
}

var sentRepairColumns = []string{
	"case_s_id", "case_s_to_mechanic", "case_s_order_no", "case_s_cus_name",
	"date_s_of_sent", "case_s_type", "case_s_brand", "case_s_model", "case_s_sn",
	"broken_symptom", "case_s_equipment", "date_of_received", "case_s_recipient",
	"created_at",
}

var SentRepairListSpec = db.ListSpec{
	From:    "sent_repairs",
	Columns: sentRepairColumns,
	SearchColumns: []string{
		"case_s_id", "case_s_cus_name", "case_s_to_mechanic", "case_s_order_no", "case_s_sn",
	},
	Filters: map[string]string{"caseSType": "case_s_type"},
	Predicates: map[string]db.PredicateFunc{
		"status": sentRepairStatusPredicate,
	},
	DateColumn:    "date_s_of_sent",
	CreatedColumn: "created_at",
	SortColumns: map[string]string{
		"caseSId":         "case_s_id",
		"caseSToMechanic": "case_s_to_mechanic",
		"caseSOrderNo":    "case_s_order_no",
		"caseSCusName":    "case_s_cus_name",
		"DateSOfSent":     "date_s_of_sent",
		"caseSType":       "case_s_type",
		"caseSBrand":      "case_s_brand",
		"caseSModel":      "case_s_model",
		"dateOfReceived":  "date_of_received",
		"created_at":      "created_at",
	},
	DefaultSortColumn: "created_at",
	DefaultOrder:      []string{"created_at DESC", "case_s_id DESC"},
	Direction:         db.DescUnlessAsc,
	TieBreaker:        "case_s_id DESC",
}

// sentRepairStatusPredicate filters on whether the unit came back. Other
// values apply no filter.
func sentRepairStatusPredicate(v string) (sq.Sqlizer, bool) {
	switch v {
	case entities.SentRepairStatusReturned:
		return sq.NotEq{"date_of_received": nil}, true
	case entities.SentRepairStatusOut:
		return sq.Eq{"date_of_received": nil}, true
	}
	return nil, false
}

var projectColumns = []string{
	"p_id", "p_address", "p_detail", "p_status", "date_create", "date_complete", "created_at",
}

var ProjectListSpec = db.ListSpec{
	From:          "projects",
	Columns:       projectColumns,
	SearchColumns: []string{"p_id", "p_address", "p_detail"},
	Filters:       map[string]string{"pStatus": "p_status"},
	DateColumn:    "date_create",
	CreatedColumn: "created_at",
	SortColumns: map[string]string{
		"pId":          "p_id",
		"pAddress":     "p_address",
		"pDetail":      "p_detail",
		"pStatus":      "p_status",
		"dateCreate":   "date_create",
		"dateComplete": "date_complete",
		"created_at":   "created_at",
	},
	DefaultSortColumn: "p_id",
	// length first so PJ-1000 sorts after PJ-999
	DefaultOrder: []string{"LENGTH(p_id) DESC", "p_id DESC"},
	Direction:    db.AscUnlessDesc,
}

var QuotationListSpec = db.ListSpec{
	From: "documents d",
	Columns: []string{
		"d.id", "d.quotation_id", "d.delivery_note_no", "d.receipt_no",
		"d.customer_name", "d.current_status", "d.issue_date", "d.issue_date_str",
		`COALESCE((
			SELECT SUM(di.quantity * di.unit_price)
			FROM document_sections ds
			JOIN document_items di ON di.section_id = ds.id
			WHERE ds.document_id = d.id
		), 0) AS total`,
	},
	SearchColumns: []string{"d.id", "d.customer_name", "d.quotation_id", "d.delivery_note_no", "d.receipt_no"},
	Filters:       map[string]string{"status": "d.current_status"},
	BoundColumn:   "d.issue_date",
	CreatedColumn: "d.created_at",
	SortColumns: map[string]string{
		"id":             "d.id",
		"quotationId":    "d.quotation_id",
		"deliveryNoteNo": "d.delivery_note_no",
		"receiptNo":      "d.receipt_no",
		"customerName":   "d.customer_name",
		"status":         "d.current_status",
		"issueDate":      "d.issue_date",
		"total":          "total",
	},
	DefaultSortColumn: "d.created_at",
	DefaultOrder:      []string{"d.created_at DESC"},
	Direction:         db.DescUnlessAsc,
}

// listRows runs the page query and, outside keyset mode, the count query.
func listRows[T any](ctx context.Context, storage Querier, spec db.ListSpec, opts types.ListOptions, scan func(row pgx.Row) (T, error)) (types.ListResult[T], error) {
	q, err := db.Build(spec, opts)
	if err != nil {
		return types.ListResult[T]{}, err
	}

	rows, err := storage.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return types.ListResult[T]{}, fmt.Errorf("list %s: %w", spec.From, err)
	}
	defer rows.Close()

	items := make([]T, 0, q.Limit)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return types.ListResult[T]{}, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return types.ListResult[T]{}, fmt.Errorf("list %s: %w", spec.From, err)
	}

	result := types.ListResult[T]{Rows: items, Page: opts.Page, Limit: opts.Limit}
	if q.Keyset {
		hasMore := uint64(len(items)) == q.Limit
		result.HasMore = &hasMore
		return result, nil
	}

	var total uint64
	if err := storage.QueryRow(ctx, q.CountSQL, q.CountArgs...).Scan(&total); err != nil {
		return types.ListResult[T]{}, fmt.Errorf("count %s: %w", spec.From, err)
	}
	result.Total = &total
	return result, nil
}

// exportRows returns every row matching opts in list order, capped at max.
func exportRows[T any](ctx context.Context, storage Querier, spec db.ListSpec, opts types.ListOptions, max uint64, scan func(row pgx.Row) (T, error)) ([]T, error) {
	opts.LastDate = ""
	pred, err := spec.Predicate(opts)
	if err != nil {
		return nil, err
	}

	b := psql.Select(spec.Columns...).From(spec.From)
	if len(pred) > 0 {
		b = b.Where(pred)
	}
	query, args, err := b.OrderBy(spec.OrderBy(opts)...).Limit(max).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", spec.From, err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
