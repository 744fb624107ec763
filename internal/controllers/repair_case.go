package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"repair-office/internal/dto"
	"repair-office/internal/services"
	"repair-office/pkg/api"
	"repair-office/pkg/utils"
)

type RepairCaseController struct {
	repairCaseService services.RepairCaseServiceInterface
	logger            *zap.Logger
}

func NewRepairCaseController(repairCaseService services.RepairCaseServiceInterface, logger *zap.Logger) *RepairCaseController {
	return &RepairCaseController{repairCaseService: repairCaseService, logger: logger}
}

func (c *RepairCaseController) GetRepairCases(ctx echo.Context) error {
	opts := utils.ParseListOptions(ctx.QueryParams())

	res, err := c.repairCaseService.GetRepairCases(ctx.Request().Context(), opts)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessList(ctx, "repair cases", res)
}

func (c *RepairCaseController) GetFilterOptions(ctx echo.Context) error {
	res, err := c.repairCaseService.GetFilterOptions(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "filter options", res)
}

func (c *RepairCaseController) FindRepairCase(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.repairCaseService.FindRepairCase(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "repair case", res)
}

func (c *RepairCaseController) CreateRepairCase(ctx echo.Context) error {
	var payload dto.CreateRepairCaseDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.repairCaseService.CreateRepairCase(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "repair case created", res)
}

func (c *RepairCaseController) UpdateRepairCase(ctx echo.Context) error {
	var payload dto.UpdateRepairCaseDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.repairCaseService.UpdateRepairCase(ctx.Request().Context(), payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "repair case updated", http.StatusOK)
}

func (c *RepairCaseController) DeleteRepairCase(ctx echo.Context) error {
	var payload dto.DeleteRepairCaseDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.repairCaseService.DeleteRepairCase(ctx.Request().Context(), payload.CaseID); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "repair case deleted", http.StatusOK)
}

// PrintRepairCase streams the job sheet PDF inline.
func (c *RepairCaseController) PrintRepairCase(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	out, err := c.repairCaseService.PrintRepairCase(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ctx.Response().Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="Repair-%s.pdf"`, id))
	return ctx.Blob(http.StatusOK, "application/pdf", out)
}

var repairCaseHeaders = []interface{}{
	"เลขที่งาน", "ชื่อ", "นามสกุล", "เบอร์โทร", "หน่วยงาน", "ประเภท", "สถานะ",
	"ยี่ห้อ", "รุ่น", "S/N", "เลขครุภัณฑ์", "อุปกรณ์ที่มาด้วย", "อาการเสีย",
	"วันที่รับ", "วันที่ก่อนรับ", "วันที่ซ่อมเสร็จ", "วันที่ส่งคืน", "เลขที่ส่งซ่อม",
}

// ExportRepairCases writes every case matching the list filters as XLSX.
func (c *RepairCaseController) ExportRepairCases(ctx echo.Context) error {
	opts := utils.ParseListOptions(ctx.QueryParams())

	rows, err := c.repairCaseService.ExportRepairCases(ctx.Request().Context(), opts)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	f, err := repairCasesWorkbook(rows)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer f.Close()

	fileName := fmt.Sprintf("repair_cases_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}

func repairCasesWorkbook(rows []dto.RepairCaseDTO) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "งานซ่อม"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &repairCaseHeaders); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(repairCaseHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, style); err != nil {
		return nil, err
	}

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			r.CaseID, r.CusFirstName, r.CusLastName, r.CusPhone, r.CaseInstitution, r.CaseType, r.CaseStatus,
			r.CaseBrand, r.CaseModel, r.CaseSN, r.CaseDurableArticles, r.CaseEquipment, r.BrokenSymptom,
			deref(r.DatePickUp), deref(r.DateBeforePicUp), deref(r.DateComplete), deref(r.DateDelivered), deref(r.RefSentRepairID),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	f.SetColWidth(sheet, "B", "E", 20)
	f.SetColWidth(sheet, "M", "M", 40)
	return f, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
