package exporter

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/model"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/scoring"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/store"
)

// Exporter 产品目录导出器
type Exporter struct {
	store *store.Store
}

// NewExporter 创建导出器
func NewExporter(st *store.Store) *Exporter {
	return &Exporter{store: st}
}

const catalogSheet = "Tours"

var catalogHeaders = []string{
	"Bokun ID", "Product Name", "Supplier", "Location", "Audited", "Active",
	"Net Adult", "Net Child", "Net Private",
	"Shared Factor", "Private Factor",
	"PVP Adult", "PVP Child", "PVP Private", "Per Pax Cost",
	"Health Status", "Health Score", "OTA Score", "Global Suitable",
}

// Export 导出全部产品为工作簿（派生价读取时计算，与库内净价一致）
func (e *Exporter) Export() (*excelize.File, error) {
	tours, err := e.store.ListTours(store.TourQueryOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}

	suppliers, err := e.supplierNames()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", catalogSheet); err != nil {
		_ = f.Close()
		return nil, err
	}

	for col, header := range catalogHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(catalogSheet, cell, header); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	for i, tour := range tours {
		record, err := e.store.GetTourRecord(tour.ID)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to load tour %d: %w", tour.ID, err)
		}
		if record == nil {
			continue
		}

		row, err := e.catalogRow(record, suppliers)
		if err != nil {
			_ = f.Close()
			return nil, err
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(catalogSheet, cell, &row); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func (e *Exporter) catalogRow(record *model.TourRecord, suppliers map[int64]string) ([]interface{}, error) {
	computed, err := scoring.ComputePricing(record.Pricing)
	if err != nil {
		return nil, fmt.Errorf("failed to compute pricing for tour %d: %w", record.Tour.ID, err)
	}

	supplierName := ""
	if record.Tour.SupplierID != nil {
		supplierName = suppliers[*record.Tour.SupplierID]
	}

	row := []interface{}{
		int64Cell(record.Tour.BokunID),
		record.Tour.Name,
		supplierName,
		record.Tour.Location,
		boolCell(record.Tour.Audited),
		boolCell(record.Tour.Active),
	}

	if p := record.Pricing; p != nil {
		row = append(row,
			floatCell(p.NetRateAdult), floatCell(p.NetRateChild), floatCell(p.NetRatePrivate),
			floatCell(p.SharedFactor), floatCell(p.PrivateFactor),
		)
	} else {
		row = append(row, "", "", "", "", "")
	}

	row = append(row,
		floatCell(computed.SuggestedPvpAdult),
		floatCell(computed.SuggestedPvpChild),
		floatCell(computed.SuggestedPvpPrivate),
		floatCell(computed.PerPaxCost),
	)

	if a := record.Audit; a != nil {
		row = append(row, string(a.HealthStatus), a.HealthScore, a.OTAScore, boolCell(a.GlobalSuitable))
	} else {
		row = append(row, "", "", "", "")
	}

	return row, nil
}

func (e *Exporter) supplierNames() (map[int64]string, error) {
	suppliers, err := e.store.ListSuppliers()
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	names := make(map[int64]string, len(suppliers))
	for _, s := range suppliers {
		names[s.ID] = s.Name
	}
	return names, nil
}

func int64Cell(v *int64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func floatCell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	// 保留两位小数，避免浮点尾数污染导出
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func boolCell(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}
