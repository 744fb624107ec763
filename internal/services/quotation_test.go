package services

import (
	"context"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"repair-office/internal/dto"
	"repair-office/internal/entities"
	apperrors "repair-office/pkg/errors"
	"repair-office/pkg/types"
)

func newQuotationService(repo *fakeQuotationRepo) *QuotationService {
	return &QuotationService{ids: &fakeIDs{}, repo: repo, txManager: &fakeTx{}, logger: zap.NewNop()}
}

func quotationPayload() dto.SaveQuotationDTO {
	return dto.SaveQuotationDTO{
		QuotationHeaderDTO: dto.QuotationHeaderDTO{
			CustomerName: "บริษัท ตัวอย่าง จำกัด",
			IssueDate:    null.StringFrom("2024-06-01"),
		},
		ProductSections: []dto.QuotationSectionDTO{
			{
				SectionName: "ฮาร์ดแวร์",
				Items: []dto.QuotationItemDTO{
					{Description: "RAM 16GB", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("1250.50")},
					{Description: "SSD 1TB", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(2900)},
				},
			},
			{
				SectionName: "ค่าบริการ",
				Items: []dto.QuotationItemDTO{
					{Description: "ติดตั้ง", Quantity: decimal.RequireFromString("1.5"), UnitPrice: decimal.NewFromInt(300)},
				},
			},
		},
	}
}

func TestQuotationService_CreateDefaults(t *testing.T) {
	ctx := context.Background()
	repo := newFakeQuotationRepo()
	svc := newQuotationService(repo)

	created, err := svc.CreateQuotation(ctx, quotationPayload())
	require.NoError(t, err)
	assert.Equal(t, "QT-001", created.ID)

	got, err := svc.FindQuotation(ctx, "QT-001")
	require.NoError(t, err)
	assert.Equal(t, "QT-001", got.QuotationID)
	assert.Equal(t, entities.QuotationDefaultStatus, got.CurrentStatus)
	assert.Equal(t, "2024-06-01", got.IssueDate.String)

	require.Len(t, got.ProductSections, 2)
	assert.Equal(t, 1, got.ProductSections[0].SortOrder)
	assert.Equal(t, 2, got.ProductSections[1].SortOrder)
	assert.Equal(t, 2, got.ProductSections[0].Items[1].SortOrder)
	assert.True(t, decimal.RequireFromString("2501").Equal(got.ProductSections[0].Items[0].Amount))
	assert.True(t, decimal.RequireFromString("5851").Equal(got.Total), got.Total.String())
}

func TestQuotationService_CreateKeepsBusinessNumber(t *testing.T) {
	repo := newFakeQuotationRepo()
	svc := newQuotationService(repo)

	payload := quotationPayload()
	payload.QuotationID = "QO-2024/015"
	payload.CurrentStatus = "DELIVERY_NOTE"
	created, err := svc.CreateQuotation(context.Background(), payload)
	require.NoError(t, err)

	doc := repo.docs[created.ID]
	assert.Equal(t, "QO-2024/015", doc.QuotationID)
	assert.Equal(t, "DELIVERY_NOTE", doc.CurrentStatus)
}

func TestQuotationService_UpdateReplacesSections(t *testing.T) {
	ctx := context.Background()
	repo := newFakeQuotationRepo()
	svc := newQuotationService(repo)

	created, err := svc.CreateQuotation(ctx, quotationPayload())
	require.NoError(t, err)

	payload := quotationPayload()
	payload.ProductSections = payload.ProductSections[1:]
	payload.ReceiptNo = "RC-001"
	require.NoError(t, svc.UpdateQuotation(ctx, created.ID, payload))

	got, err := svc.FindQuotation(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "RC-001", got.ReceiptNo)
	assert.Equal(t, created.ID, got.QuotationID)
	require.Len(t, got.ProductSections, 1)
	assert.Equal(t, 1, got.ProductSections[0].SortOrder)
	assert.True(t, decimal.NewFromInt(450).Equal(got.Total))

	assert.ErrorIs(t, svc.UpdateQuotation(ctx, "QT-404", payload), apperrors.ErrNotFound)
}

func TestQuotationService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := newFakeQuotationRepo()
	svc := newQuotationService(repo)

	created, err := svc.CreateQuotation(ctx, quotationPayload())
	require.NoError(t, err)

	list, err := svc.GetQuotations(ctx, types.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list.Rows, 1)
	assert.Equal(t, "บริษัท ตัวอย่าง จำกัด", list.Rows[0].CustomerName)
	require.NotNil(t, list.Rows[0].IssueDate)
	assert.Equal(t, "2024-06-01", *list.Rows[0].IssueDate)

	require.NoError(t, svc.DeleteQuotation(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteQuotation(ctx, created.ID), apperrors.ErrNotFound)
}

func TestQuotationService_RejectsBadDate(t *testing.T) {
	payload := quotationPayload()
	payload.DueDate = null.StringFrom("31-12-2024")

	_, err := newQuotationService(newFakeQuotationRepo()).CreateQuotation(context.Background(), payload)
	var invalid *apperrors.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Message, "due_date")
}
