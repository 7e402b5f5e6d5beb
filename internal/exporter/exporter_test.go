package exporter

import (
	"path/filepath"
	"testing"

	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/importer"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/model"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/store"
)

func TestExport_CatalogRow(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "satconnect.db")
	st, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	supplierID, _, err := st.FindOrCreateSupplier("Acme Tours")
	if err != nil {
		t.Fatalf("create supplier: %v", err)
	}

	bokunID := int64(912345)
	net := 65.0
	audited := true
	cxl := "Free cancellation"
	tx, err := st.BeginTx()
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	draft := &model.TourDraft{
		BokunID:            &bokunID,
		Name:               "City Walking Tour",
		SupplierID:         &supplierID,
		Audited:            &audited,
		NetRateAdult:       &net,
		CancellationPolicy: &cxl,
	}
	tourID, _, err := store.UpsertTourTx(tx, draft)
	if err != nil {
		t.Fatalf("upsert tour: %v", err)
	}
	if err := store.UpsertPricingTx(tx, tourID, draft); err != nil {
		t.Fatalf("upsert pricing: %v", err)
	}
	if err := store.EnsureAuditTx(tx, tourID); err != nil {
		t.Fatalf("ensure audit: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := importer.RecomputeAudit(st, tourID); err != nil {
		t.Fatalf("recompute audit: %v", err)
	}

	f, err := NewExporter(st).Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })

	name, err := f.GetCellValue(catalogSheet, "B2")
	if err != nil || name != "City Walking Tour" {
		t.Fatalf("name cell got=%q err=%v", name, err)
	}
	supplier, _ := f.GetCellValue(catalogSheet, "C2")
	if supplier != "Acme Tours" {
		t.Fatalf("supplier cell got=%q", supplier)
	}
	// PVP Adult 列：65 x 默认倍率 1.5
	pvp, _ := f.GetCellValue(catalogSheet, "L2")
	if pvp != "97.50" {
		t.Fatalf("pvp adult cell got=%q", pvp)
	}
}
