package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/model"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/parser"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "satconnect.db")
	st, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

var testMapping = parser.ColumnMapping{
	parser.FieldBokunID:            0,
	parser.FieldProductName:        1,
	parser.FieldSupplierName:       2,
	parser.FieldNetRateAdult:       3,
	parser.FieldSharedFactor:       4,
	parser.FieldAudited:            5,
	parser.FieldCancellationPolicy: 6,
}

func runImport(t *testing.T, st *store.Store, csv string) (complete ProgressEvent, logs []string) {
	t.Helper()

	runner := NewRunner(st, nil)
	ch := runner.Run(Options{
		Input:     strings.NewReader(csv),
		Filename:  "tours.csv",
		Mapping:   testMapping,
		HeaderRow: 0,
	})

	sawStart := false
	for evt := range ch {
		switch evt.Type {
		case "start":
			sawStart = true
		case "log":
			logs = append(logs, evt.Message)
		case "complete":
			complete = evt
		case "error":
			t.Fatalf("unexpected error event: %s", evt.Message)
		}
	}
	if !sawStart {
		t.Fatalf("missing start event")
	}
	if complete.Type != "complete" {
		t.Fatalf("missing complete event")
	}
	return complete, logs
}

func TestRun_RowFailureIsolation(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)

	// 第 2 行缺 bokun_id，其余行必须照常入库
	csv := "id,name,supplier,net,factor,audited,cxl\n" +
		"1,Tour A,Acme Tours,65.00,1.5,TRUE,Free cancellation\n" +
		",Tour B,Acme Tours,70.00,1.5,TRUE,Free cancellation\n" +
		"3,Tour C,Beta Travel,80.00,1.5,FALSE,Free cancellation\n"

	complete, logs := runImport(t, st, csv)

	if complete.Updated == nil || *complete.Updated != 2 {
		t.Fatalf("updated want=2 got=%v", complete.Updated)
	}
	if complete.Errors == nil || *complete.Errors != 1 {
		t.Fatalf("errors want=1 got=%v", complete.Errors)
	}
	if len(logs) != 1 || !strings.Contains(logs[0], "row 2 skipped") {
		t.Fatalf("log events got=%v", logs)
	}

	if n, err := st.CountTours(); err != nil || n != 2 {
		t.Fatalf("tour count want=2 got=%d err=%v", n, err)
	}
	if n, err := st.CountSuppliers(); err != nil || n != 2 {
		t.Fatalf("supplier count want=2 got=%d err=%v", n, err)
	}
}

func TestRun_ReimportUpdatesInPlace(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)

	csv := "id,name,supplier,net,factor,audited,cxl\n" +
		"912345,City Walking Tour,Acme Tours,65.00,1.5,TRUE,Free cancellation\n"

	complete, _ := runImport(t, st, csv)
	if *complete.Updated != 1 || *complete.Errors != 0 {
		t.Fatalf("first import got updated=%d errors=%d", *complete.Updated, *complete.Errors)
	}

	// 同一 bokun_id 重新导入：就地更新，总数不变
	csv = "id,name,supplier,net,factor,audited,cxl\n" +
		"912345,City Walking Tour v2,Acme Tours,70.00,1.5,TRUE,Free cancellation\n"
	complete, _ = runImport(t, st, csv)
	if *complete.Updated != 1 || *complete.Errors != 0 {
		t.Fatalf("re-import got updated=%d errors=%d", *complete.Updated, *complete.Errors)
	}

	if n, _ := st.CountTours(); n != 1 {
		t.Fatalf("re-import must not duplicate, count=%d", n)
	}

	tour, err := st.GetTourByBokunID(912345)
	if err != nil || tour == nil {
		t.Fatalf("get tour: %v", err)
	}
	if tour.Name != "City Walking Tour v2" {
		t.Fatalf("name want updated got=%q", tour.Name)
	}

	pricing, err := st.GetPricing(tour.ID)
	if err != nil {
		t.Fatalf("get pricing: %v", err)
	}
	if pricing.NetRateAdult == nil || *pricing.NetRateAdult != 70.0 {
		t.Fatalf("net adult want=70 got=%v", pricing.NetRateAdult)
	}
}

func TestRun_OutOfRangeFactorSkipsRow(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)

	csv := "id,name,supplier,net,factor,audited,cxl\n" +
		"1,Tour A,Acme Tours,65.00,2.5,TRUE,Free cancellation\n"

	complete, logs := runImport(t, st, csv)
	if *complete.Errors != 1 || *complete.Updated != 0 {
		t.Fatalf("got updated=%d errors=%d", *complete.Updated, *complete.Errors)
	}
	if len(logs) != 1 || !strings.Contains(logs[0], "shared_factor 2.50 out of range") {
		t.Fatalf("logs got=%v", logs)
	}
	// 校验失败的行不得留下任何落库痕迹
	if n, _ := st.CountTours(); n != 0 {
		t.Fatalf("rejected row must not persist, count=%d", n)
	}
}

func TestRun_BlankRowsAreNotErrors(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)

	csv := "id,name,supplier,net,factor,audited,cxl\n" +
		"1,Tour A,Acme Tours,65.00,1.5,TRUE,Free cancellation\n" +
		",,,,,,\n" +
		"2,Tour B,Acme Tours,70.00,1.5,TRUE,Free cancellation\n"

	complete, _ := runImport(t, st, csv)
	if *complete.Updated != 2 || *complete.Errors != 0 {
		t.Fatalf("blank rows must not count as errors: updated=%d errors=%d", *complete.Updated, *complete.Errors)
	}
}

func TestRun_AuditRecomputedAfterWrite(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)

	csv := "id,name,supplier,net,factor,audited,cxl\n" +
		"1,Tour A,Acme Tours,65.00,1.5,TRUE,Free cancellation\n" +
		"2,Tour B,Acme Tours,70.00,1.5,FALSE,Free cancellation\n"

	runImport(t, st, csv)

	auditedTour, err := st.GetTourByBokunID(1)
	if err != nil || auditedTour == nil {
		t.Fatalf("get tour 1: %v", err)
	}
	audit, err := st.GetAudit(auditedTour.ID)
	if err != nil || audit == nil {
		t.Fatalf("get audit 1: %v", err)
	}
	// 已审核但缺素材/行程细节：INCOMPLETE
	if audit.HealthStatus != model.HealthIncomplete {
		t.Fatalf("tour 1 status want=INCOMPLETE got=%s (issues=%v)", audit.HealthStatus, audit.Issues)
	}
	if audit.GlobalSuitable {
		t.Fatalf("non-HEALTHY tour cannot be globally suitable")
	}

	unauditedTour, err := st.GetTourByBokunID(2)
	if err != nil || unauditedTour == nil {
		t.Fatalf("get tour 2: %v", err)
	}
	audit, err = st.GetAudit(unauditedTour.ID)
	if err != nil || audit == nil {
		t.Fatalf("get audit 2: %v", err)
	}
	if audit.HealthStatus != model.HealthAuditRequired {
		t.Fatalf("tour 2 status want=AUDIT_REQUIRED got=%s", audit.HealthStatus)
	}
	if audit.HealthScore != 0 {
		t.Fatalf("unaudited score want=0 got=%d", audit.HealthScore)
	}
}

func TestRun_StreamDecodeErrorIsBatchFatal(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)

	runner := NewRunner(st, nil)
	ch := runner.Run(Options{
		Input:    strings.NewReader(""),
		Filename: "empty.csv",
		Mapping:  testMapping,
	})

	var sawError bool
	for evt := range ch {
		if evt.Type == "error" {
			sawError = true
		}
		if evt.Type == "complete" {
			t.Fatalf("fatal stream error must not complete")
		}
	}
	if !sawError {
		t.Fatalf("missing error event")
	}
}

func TestRun_SlowConsumerStillGetsCompleteEvent(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)

	// 行数远超事件通道缓冲，生产方会在写入完成后阻塞等待消费
	const rows = 300
	var sb strings.Builder
	sb.WriteString("id,name,supplier,net,factor,audited,cxl\n")
	for i := 1; i <= rows; i++ {
		fmt.Fprintf(&sb, "%d,Tour %d,Acme Tours,65.00,1.5,TRUE,Free cancellation\n", i, i)
	}

	runner := NewRunner(st, nil)
	ch := runner.Run(Options{
		Input:     strings.NewReader(sb.String()),
		Filename:  "tours.csv",
		Mapping:   testMapping,
		HeaderRow: 0,
	})

	// 消费方迟到：等生产方灌满缓冲并阻塞后才开始读
	time.Sleep(200 * time.Millisecond)

	steps := 0
	var complete ProgressEvent
	for evt := range ch {
		switch evt.Type {
		case "progress":
			steps++
		case "complete":
			complete = evt
		case "error":
			t.Fatalf("unexpected error event: %s", evt.Message)
		}
	}

	if steps != rows {
		t.Fatalf("progress events want=%d got=%d", rows, steps)
	}
	if complete.Type != "complete" {
		t.Fatalf("missing complete event")
	}
	if complete.Updated == nil || *complete.Updated != rows {
		t.Fatalf("updated want=%d got=%v", rows, complete.Updated)
	}
	if complete.Errors == nil || *complete.Errors != 0 {
		t.Fatalf("errors want=0 got=%v", complete.Errors)
	}
}

func TestRun_CancelledConsumerDoesNotBlockWrites(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)

	const rows = 300
	var sb strings.Builder
	sb.WriteString("id,name,supplier,net,factor,audited,cxl\n")
	for i := 1; i <= rows; i++ {
		fmt.Fprintf(&sb, "%d,Tour %d,Acme Tours,65.00,1.5,TRUE,Free cancellation\n", i, i)
	}

	ctx, cancel := context.WithCancel(context.Background())

	runner := NewRunner(st, nil)
	ch := runner.Run(Options{
		Context:   ctx,
		Input:     strings.NewReader(sb.String()),
		Filename:  "tours.csv",
		Mapping:   testMapping,
		HeaderRow: 0,
	})

	// 消费方立即断开，不再读事件
	cancel()

	// 通道最终关闭说明导入协程没有卡死
	deadline := time.After(10 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				goto drained
			}
		case <-deadline:
			t.Fatalf("import goroutine did not finish after cancel")
		}
	}
drained:

	tours, err := st.ListTours(store.TourQueryOptions{})
	if err != nil {
		t.Fatalf("list tours: %v", err)
	}
	if len(tours) != rows {
		t.Fatalf("tours want=%d got=%d", rows, len(tours))
	}
}
