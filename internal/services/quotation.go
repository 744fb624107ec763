package services

import (
	"context"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"repair-office/internal/dto"
	"repair-office/internal/entities"
	"repair-office/internal/repositories"
	"repair-office/pkg/types"
	"repair-office/pkg/utils"
)

type QuotationServiceInterface interface {
	GetQuotations(ctx context.Context, opts types.ListOptions) (types.ListResult[dto.QuotationListItemDTO], error)
	FindQuotation(ctx context.Context, id string) (*dto.QuotationDTO, error)
	CreateQuotation(ctx context.Context, payload dto.SaveQuotationDTO) (*dto.CreatedQuotationDTO, error)
	UpdateQuotation(ctx context.Context, id string, payload dto.SaveQuotationDTO) error
	DeleteQuotation(ctx context.Context, id string) error
}

type QuotationService struct {
	ids       repositories.IDAllocator
	repo      repositories.QuotationRepositoryInterface
	txManager repositories.TxManagerInterface
	logger    *zap.Logger
}

func NewQuotationService(
	repo repositories.QuotationRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) QuotationServiceInterface {
	return &QuotationService{
		ids:       repositories.QuotationSequence,
		repo:      repo,
		txManager: txManager,
		logger:    logger,
	}
}

func (s *QuotationService) GetQuotations(ctx context.Context, opts types.ListOptions) (types.ListResult[dto.QuotationListItemDTO], error) {
	res, err := s.repo.GetQuotations(ctx, opts)
	if err != nil {
		return types.ListResult[dto.QuotationListItemDTO]{}, err
	}
	return mapList(res, func(q entities.QuotationSummary) dto.QuotationListItemDTO {
		return dto.QuotationListItemDTO{
			ID:             q.ID,
			QuotationID:    q.QuotationID,
			DeliveryNoteNo: q.DeliveryNoteNo,
			ReceiptNo:      q.ReceiptNo,
			CustomerName:   q.CustomerName,
			CurrentStatus:  q.CurrentStatus,
			IssueDate:      utils.FormatDate(q.IssueDate),
			IssueDateStr:   q.IssueDateStr,
			Total:          q.Total,
		}
	}), nil
}

func (s *QuotationService) FindQuotation(ctx context.Context, id string) (*dto.QuotationDTO, error) {
	q, err := s.repo.FindQuotation(ctx, id)
	if err != nil {
		return nil, err
	}
	res := quotationToDTO(*q)
	return &res, nil
}

// CreateQuotation allocates the QT-NNN system id, inserts the header and its
// sections in one transaction. A blank quotation_id takes the system id.
func (s *QuotationService) CreateQuotation(ctx context.Context, payload dto.SaveQuotationDTO) (*dto.CreatedQuotationDTO, error) {
	q, err := quotationFromDTO(payload)
	if err != nil {
		return nil, err
	}

	err = repositories.RetryOnConflict(ctx, s.txManager, s.logger, func(tx pgx.Tx) error {
		id, err := s.ids.Next(ctx, tx, entities.QuotationPrefix)
		if err != nil {
			return err
		}
		q.ID = id
		q.QuotationID = payload.QuotationID
		if q.QuotationID == "" {
			q.QuotationID = id
		}

		if err := s.repo.InsertQuotation(ctx, tx, q); err != nil {
			return err
		}
		return s.repo.ReplaceSections(ctx, tx, id, q.Sections)
	})
	if err != nil {
		s.logger.Error("create quotation failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("quotation created", zap.String("id", q.ID), zap.String("quotationId", q.QuotationID))
	return &dto.CreatedQuotationDTO{ID: q.ID}, nil
}

func (s *QuotationService) UpdateQuotation(ctx context.Context, id string, payload dto.SaveQuotationDTO) error {
	q, err := quotationFromDTO(payload)
	if err != nil {
		return err
	}
	q.ID = id
	if q.QuotationID == "" {
		q.QuotationID = id
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.repo.UpdateQuotation(ctx, tx, q); err != nil {
			return err
		}
		return s.repo.ReplaceSections(ctx, tx, id, q.Sections)
	})
	if err != nil {
		return err
	}

	s.logger.Info("quotation updated", zap.String("id", id), zap.Int("sections", len(q.Sections)))
	return nil
}

func (s *QuotationService) DeleteQuotation(ctx context.Context, id string) error {
	if err := s.repo.DeleteQuotation(ctx, id); err != nil {
		return err
	}
	s.logger.Info("quotation deleted", zap.String("id", id))
	return nil
}

func quotationFromDTO(d dto.SaveQuotationDTO) (entities.Quotation, error) {
	h := d.QuotationHeaderDTO
	dates, err := parseDates(map[string]null.String{
		"issue_date":                h.IssueDate,
		"valid_until":               h.ValidUntil,
		"delivery_date":             h.DeliveryDate,
		"due_date":                  h.DueDate,
		"received_date":             h.ReceivedDate,
		"sent_date":                 h.SentDate,
		"receipt_issue_date":        h.ReceiptIssueDate,
		"cheque_date":               h.ChequeDate,
		"goods_received_check_date": h.GoodsReceivedCheckDate,
		"money_receive_date":        h.MoneyReceiveDate,
	})
	if err != nil {
		return entities.Quotation{}, err
	}

	status := h.CurrentStatus
	if status == "" {
		status = entities.QuotationDefaultStatus
	}

	q := entities.Quotation{
		QuotationID:     h.QuotationID,
		CurrentStatus:   status,
		CustomerName:    h.CustomerName,
		CustomerTaxID:   h.CustomerTaxID,
		CustomerPhone:   h.CustomerPhone,
		CustomerAddress: h.CustomerAddress,
		Salesman:        h.Salesman,
		Remark:          h.Remark,

		IssueDateStr:      h.IssueDateStr,
		IssueDate:         dates["issue_date"],
		PriceValidityDays: h.PriceValidityDays,
		ValidUntilStr:     h.ValidUntilStr,
		ValidUntil:        dates["valid_until"],
		OffererName:       h.OffererName,

		DeliveryNoteNo:           h.DeliveryNoteNo,
		DeliveryDateStr:          h.DeliveryDateStr,
		DeliveryDate:             dates["delivery_date"],
		PaymentTerm:              h.PaymentTerm,
		DueDateStr:               h.DueDateStr,
		DueDate:                  dates["due_date"],
		DeliveryAddress:          h.DeliveryAddress,
		ReceiverName:             h.ReceiverName,
		ReceivedDateStr:          h.ReceivedDateStr,
		ReceivedDate:             dates["received_date"],
		SenderName:               h.SenderName,
		SentDateStr:              h.SentDateStr,
		SentDate:                 dates["sent_date"],
		DeliveryAuthorizedSigner: h.DeliveryAuthorizedSigner,

		ReceiptNo:                 h.ReceiptNo,
		ReceiptIssueDateStr:       h.ReceiptIssueDateStr,
		ReceiptIssueDate:          dates["receipt_issue_date"],
		PaymentMethod:             h.PaymentMethod,
		ChequeBank:                h.ChequeBank,
		ChequeBranch:              h.ChequeBranch,
		ChequeNo:                  h.ChequeNo,
		ChequeAmount:              h.ChequeAmount,
		ChequeDateStr:             h.ChequeDateStr,
		ChequeDate:                dates["cheque_date"],
		GoodsReceivedCheckDateStr: h.GoodsReceivedCheckDateStr,
		GoodsReceivedCheckDate:    dates["goods_received_check_date"],
		MoneyReceiverName:         h.MoneyReceiverName,
		MoneyReceiveDateStr:       h.MoneyReceiveDateStr,
		MoneyReceiveDate:          dates["money_receive_date"],
		ReceiptAuthorizedSigner:   h.ReceiptAuthorizedSigner,
	}

	q.Sections = make([]entities.QuotationSection, 0, len(d.ProductSections))
	for i, sec := range d.ProductSections {
		section := entities.QuotationSection{SectionName: sec.SectionName, SortOrder: i + 1}
		for j, it := range sec.Items {
			section.Items = append(section.Items, entities.QuotationItem{
				Description: it.Description,
				Quantity:    it.Quantity,
				Unit:        it.Unit,
				UnitPrice:   it.UnitPrice,
				SortOrder:   j + 1,
			})
		}
		q.Sections = append(q.Sections, section)
	}
	return q, nil
}

func nullDate(s *string) null.String {
	return null.StringFromPtr(s)
}

func quotationToDTO(q entities.Quotation) dto.QuotationDTO {
	res := dto.QuotationDTO{
		ID: q.ID,
		QuotationHeaderDTO: dto.QuotationHeaderDTO{
			QuotationID:     q.QuotationID,
			CurrentStatus:   q.CurrentStatus,
			CustomerName:    q.CustomerName,
			CustomerTaxID:   q.CustomerTaxID,
			CustomerPhone:   q.CustomerPhone,
			CustomerAddress: q.CustomerAddress,
			Salesman:        q.Salesman,
			Remark:          q.Remark,

			IssueDateStr:      q.IssueDateStr,
			IssueDate:         nullDate(utils.FormatDate(q.IssueDate)),
			PriceValidityDays: q.PriceValidityDays,
			ValidUntilStr:     q.ValidUntilStr,
			ValidUntil:        nullDate(utils.FormatDate(q.ValidUntil)),
			OffererName:       q.OffererName,

			DeliveryNoteNo:           q.DeliveryNoteNo,
			DeliveryDateStr:          q.DeliveryDateStr,
			DeliveryDate:             nullDate(utils.FormatDate(q.DeliveryDate)),
			PaymentTerm:              q.PaymentTerm,
			DueDateStr:               q.DueDateStr,
			DueDate:                  nullDate(utils.FormatDate(q.DueDate)),
			DeliveryAddress:          q.DeliveryAddress,
			ReceiverName:             q.ReceiverName,
			ReceivedDateStr:          q.ReceivedDateStr,
			ReceivedDate:             nullDate(utils.FormatDate(q.ReceivedDate)),
			SenderName:               q.SenderName,
			SentDateStr:              q.SentDateStr,
			SentDate:                 nullDate(utils.FormatDate(q.SentDate)),
			DeliveryAuthorizedSigner: q.DeliveryAuthorizedSigner,

			ReceiptNo:                 q.ReceiptNo,
			ReceiptIssueDateStr:       q.ReceiptIssueDateStr,
			ReceiptIssueDate:          nullDate(utils.FormatDate(q.ReceiptIssueDate)),
			PaymentMethod:             q.PaymentMethod,
			ChequeBank:                q.ChequeBank,
			ChequeBranch:              q.ChequeBranch,
			ChequeNo:                  q.ChequeNo,
			ChequeAmount:              q.ChequeAmount,
			ChequeDateStr:             q.ChequeDateStr,
			ChequeDate:                nullDate(utils.FormatDate(q.ChequeDate)),
			GoodsReceivedCheckDateStr: q.GoodsReceivedCheckDateStr,
			GoodsReceivedCheckDate:    nullDate(utils.FormatDate(q.GoodsReceivedCheckDate)),
			MoneyReceiverName:         q.MoneyReceiverName,
			MoneyReceiveDateStr:       q.MoneyReceiveDateStr,
			MoneyReceiveDate:          nullDate(utils.FormatDate(q.MoneyReceiveDate)),
			ReceiptAuthorizedSigner:   q.ReceiptAuthorizedSigner,
		},
		ProductSections: make([]dto.QuotationSectionDTO, 0, len(q.Sections)),
		Total:           q.Total(),
		CreatedAt:       q.CreatedAt,
	}

	for _, sec := range q.Sections {
		section := dto.QuotationSectionDTO{
			ID:          sec.ID,
			SectionName: sec.SectionName,
			SortOrder:   sec.SortOrder,
			Items:       make([]dto.QuotationItemDTO, 0, len(sec.Items)),
		}
		for _, it := range sec.Items {
			section.Items = append(section.Items, dto.QuotationItemDTO{
				ID:          it.ID,
				Description: it.Description,
				Quantity:    it.Quantity,
				Unit:        it.Unit,
				UnitPrice:   it.UnitPrice,
				Amount:      it.Amount(),
				SortOrder:   it.SortOrder,
			})
		}
		res.ProductSections = append(res.ProductSections, section)
	}
	return res
}
