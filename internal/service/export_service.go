package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/gmviana11/fornecedor-conecta/internal/repository"
	"github.com/gmviana11/fornecedor-conecta/internal/store"
)

const (
	SheetSuppliers = "Fornecedores"
	SheetRequests  = "Solicitacoes"

	exportTimeLayout = "2006-01-02 15:04:05"
)

var (
	supplierHeaders = []any{"ID", "Nome", "Categoria", "Status", "Email", "Telefone", "Website", "Endereço", "Tags", "Comentários", "Criado em", "Atualizado em"}
	requestHeaders  = []any{"ID", "Título", "Cliente", "Fornecedor", "Categoria", "Status", "Orçamento", "Preço", "Prazo", "Nota", "Criado em", "Atualizado em"}
)

type ExportService struct {
	suppliers *repository.SupplierRepository
	requests  *repository.ServiceRequestRepository
	users     *repository.UserRepository
	now       func() time.Time
}

func NewExportService(suppliers *repository.SupplierRepository, requests *repository.ServiceRequestRepository, users *repository.UserRepository) *ExportService {
	return &ExportService{
		suppliers: suppliers,
		requests:  requests,
		users:     users,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WriteWorkbook writes an XLSX workbook with one sheet of suppliers and one
// of service requests.
func (s *ExportService) WriteWorkbook(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	suppliers := s.suppliers.List()
	supplierRows := make([][]any, 0, len(suppliers))
	for _, sup := range suppliers {
		supplierRows = append(supplierRows, []any{
			sup.ID, sup.Name, sup.Category, string(sup.Status), sup.Email, sup.Phone,
			deref(sup.Website), sup.Address, strings.Join(sup.Tags, ", "), len(sup.Comments),
			sup.CreatedAt.Format(exportTimeLayout), sup.UpdatedAt.Format(exportTimeLayout),
		})
	}

	requests := s.requests.List()
	requestRows := make([][]any, 0, len(requests))
	for _, r := range requests {
		var price, timeline string
		if r.SupplierResponse != nil {
			price, timeline = deref(r.SupplierResponse.Price), deref(r.SupplierResponse.Timeline)
		}
		var stars any = ""
		if r.Rating != nil {
			stars = r.Rating.Stars
		}
		requestRows = append(requestRows, []any{
			r.ID, r.Title, r.UserName, r.SupplierName, r.Category, string(r.Status),
			deref(r.Budget), price, timeline, stars,
			r.CreatedAt.Format(exportTimeLayout), r.UpdatedAt.Format(exportTimeLayout),
		})
	}

	if err := writeSheet(f, SheetSuppliers, supplierHeaders, supplierRows, headerStyle); err != nil {
		return err
	}
	if err := writeSheet(f, SheetRequests, requestHeaders, requestRows, headerStyle); err != nil {
		return err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(SheetSuppliers); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []any, rows [][]any, headerStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// SnapshotJSON serialises every collection under its storage key.
func (s *ExportService) SnapshotJSON() ([]byte, time.Time, error) {
	takenAt := s.now()
	doc := map[string]any{
		"takenAt":          takenAt,
		store.KeySuppliers: s.suppliers.List(),
		store.KeyServices:  s.requests.List(),
		store.KeyUsers:     s.users.List(),
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("encode snapshot: %w", err)
	}
	return raw, takenAt, nil
}
