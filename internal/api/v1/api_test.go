package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/config"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/model"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/parser"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := filepath.Join(t.TempDir(), "satconnect.db")
	st, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	h := NewHandler(st, config.DefaultConfig())
	r := gin.New()
	api := r.Group("/api")
	h.RegisterRoutes(api)
	return r, st
}

func importFixture(t *testing.T, r *gin.Engine, csv string) {
	t.Helper()

	mapping := parser.ColumnMapping{
		parser.FieldBokunID:            0,
		parser.FieldProductName:        1,
		parser.FieldSupplierName:       2,
		parser.FieldNetRateAdult:       3,
		parser.FieldAudited:            4,
		parser.FieldCancellationPolicy: 5,
	}
	mappingJSON, _ := json.Marshal(mapping)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "tours.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(csv)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	_ = mw.WriteField("mapping", string(mappingJSON))
	_ = mw.WriteField("headerRow", "0")
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("import status: %d body=%s", w.Code, w.Body.String())
	}

	// NDJSON：最后一个非空行必须是 complete 事件
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	var last map[string]interface{}
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &last); err != nil {
		t.Fatalf("decode last event: %v body=%s", err, w.Body.String())
	}
	if last["type"] != "complete" {
		t.Fatalf("last event want=complete got=%v", last)
	}
}

func TestImportEndpoint_StreamsNDJSON(t *testing.T) {
	r, st := newTestRouter(t)

	importFixture(t, r,
		"id,name,supplier,net,audited,cxl\n"+
			"1,Tour A,Acme Tours,65.00,TRUE,Free cancellation\n"+
			",Tour B,Acme Tours,70.00,TRUE,Free cancellation\n")

	if n, _ := st.CountTours(); n != 1 {
		t.Fatalf("tour count want=1 got=%d", n)
	}
}

func TestGetTour_IncludesComputedPricing(t *testing.T) {
	r, st := newTestRouter(t)

	importFixture(t, r,
		"id,name,supplier,net,audited,cxl\n"+
			"912345,City Walking Tour,Acme Tours,65.00,TRUE,Free cancellation\n")

	tour, err := st.GetTourByBokunID(912345)
	if err != nil || tour == nil {
		t.Fatalf("get tour: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/tours/%d", tour.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d body=%s", w.Code, w.Body.String())
	}

	var detail tourDetail
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if detail.Computed == nil || detail.Computed.SuggestedPvpAdult == nil {
		t.Fatalf("missing computed pricing: %+v", detail.Computed)
	}
	// 65 x 默认倍率 1.5
	if *detail.Computed.SuggestedPvpAdult != 97.50 {
		t.Fatalf("pvp adult want=97.50 got=%v", *detail.Computed.SuggestedPvpAdult)
	}
	if detail.Audit == nil {
		t.Fatalf("missing audit block")
	}
}

func TestPatchTour_RecomputesAudit(t *testing.T) {
	r, st := newTestRouter(t)

	importFixture(t, r,
		"id,name,supplier,net,audited,cxl\n"+
			"1,Tour A,Acme Tours,65.00,FALSE,Free cancellation\n")

	tour, err := st.GetTourByBokunID(1)
	if err != nil || tour == nil {
		t.Fatalf("get tour: %v", err)
	}

	audit, _ := st.GetAudit(tour.ID)
	if audit.HealthStatus != model.HealthAuditRequired {
		t.Fatalf("precondition: want AUDIT_REQUIRED got=%s", audit.HealthStatus)
	}

	body := strings.NewReader(`{"audited": true}`)
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/tours/%d", tour.ID), body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("patch status: %d body=%s", w.Code, w.Body.String())
	}

	audit, err = st.GetAudit(tour.ID)
	if err != nil {
		t.Fatalf("reload audit: %v", err)
	}
	// 审核通过后重算：不再是 AUDIT_REQUIRED
	if audit.HealthStatus == model.HealthAuditRequired {
		t.Fatalf("audit must be recomputed after patch, got=%s", audit.HealthStatus)
	}
}

func TestStatusEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}

	var resp StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Initialized {
		t.Fatalf("empty system must not report initialized")
	}

	importFixture(t, r,
		"id,name,supplier,net,audited,cxl\n"+
			"1,Tour A,Acme Tours,65.00,TRUE,Free cancellation\n")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Initialized || resp.TotalTours != 1 || resp.TotalSuppliers != 1 {
		t.Fatalf("status after import got=%+v", resp)
	}
	if resp.LastImportTime == "" {
		t.Fatalf("missing last import time")
	}
}

func TestCustomAttributes_CreateAndConflict(t *testing.T) {
	r, _ := newTestRouter(t)

	body := strings.NewReader(`{"key": "custom_commission", "label": "Commission %"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/custom-attributes", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status: %d body=%s", w.Code, w.Body.String())
	}

	// custom_ 前缀被剥掉，按裸 key 去重
	body = strings.NewReader(`{"key": "commission"}`)
	req = httptest.NewRequest(http.MethodPost, "/api/custom-attributes", body)
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate key want=409 got=%d", w.Code)
	}
}

func TestExportTours_ReturnsWorkbook(t *testing.T) {
	r, _ := newTestRouter(t)

	importFixture(t, r,
		"id,name,supplier,net,audited,cxl\n"+
			"1,Tour A,Acme Tours,65.00,TRUE,Free cancellation\n")

	req := httptest.NewRequest(http.MethodGet, "/api/export/tours", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("export status: %d", w.Code)
	}
	// xlsx 是 zip 容器
	if !bytes.HasPrefix(w.Body.Bytes(), []byte{0x50, 0x4B, 0x03, 0x04}) {
		t.Fatalf("export body is not a workbook")
	}
}
