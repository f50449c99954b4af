//go:build e2e

// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"wind-workers/internal/common/camunda"
	"wind-workers/internal/common/config"
	"wind-workers/internal/common/database"
	"wind-workers/internal/common/logger"
	"wind-workers/internal/windfarm/engine"

	cd "wind-workers/internal/workers/catalog/compare-districts"
	ld "wind-workers/internal/workers/catalog/lookup-district"
	cp "wind-workers/internal/workers/projection/calculate-projection"
	cfc "wind-workers/internal/workers/projection/capacity-factor-curve"
	ew "wind-workers/internal/workers/projection/export-workbook"
)

var zeebeClient zbc.Client

func brokerAddress() string {
	if addr := os.Getenv("ZEEBE_ADDRESS"); addr != "" {
		return addr
	}
	return "localhost:26500"
}

func TestMain(m *testing.M) {
	var err error

	zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         brokerAddress(),
		UsePlaintextConnection: true,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to create Zeebe client: %v", err))
	}

	code := m.Run()

	zeebeClient.Close()
	os.Exit(code)
}

func TestFullE2E(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg := &config.Config{
		Camunda: config.CamundaConfig{BrokerAddress: brokerAddress()},
		Engine:  config.EngineConfig{Formula: string(engine.FormulaEmpirical)},
		Redis:   config.RedisConfig{Address: os.Getenv("REDIS_ADDRESS"), CacheTTL: 60},
		Workers: map[string]config.WorkerConfig{},
	}
	log := logger.NewTestLogger(t)

	// 1. Services
	_, err := zeebeClient.NewTopologyCommand().Send(ctx)
	require.NoError(t, err, "Zeebe topology request failed")
	t.Log("Zeebe connected")

	var cache cp.ProjectionCache
	if cfg.Redis.Enabled() {
		rdb, err := database.NewRedis(cfg.Redis)
		require.NoError(t, err)
		require.NoError(t, rdb.Ping(ctx), "Redis ping failed")
		defer rdb.Close()
		cache = rdb
		t.Log("Redis connected")
	}

	// 2. Workers
	projection, err := cp.NewHandler(cp.HandlerOptions{AppConfig: cfg, Logger: log, Cache: cache})
	require.NoError(t, err)

	group := camunda.NewWorkerGroup(zeebeClient, log)
	defer group.Close()

	wcfg := config.WorkerConfig{Enabled: true, MaxJobsActive: 5, Timeout: 30000}
	require.True(t, group.Start(ld.TaskType, wcfg, ld.NewHandler(nil, log)))
	require.True(t, group.Start(cd.TaskType, wcfg, cd.NewHandler(nil, log)))
	require.True(t, group.Start(cp.TaskType, wcfg, projection))
	require.True(t, group.Start(cfc.TaskType, wcfg, cfc.NewHandler(nil, log)))
	require.True(t, group.Start(ew.TaskType, wcfg, ew.NewHandler(nil, log)))

	// 3. Process
	deployAllBPMN(t, ctx)

	t.Run("wind-projection", func(t *testing.T) {
		vars := runProcess(t, ctx, "wind-projection", map[string]interface{}{
			"district":   "Indore",
			"capacityMw": 2.5,
		})

		var summary engine.Summary
		decodeVar(t, vars, "summary", &summary)
		assert.Equal(t, "44.0%", summary.CapacityFactor)

		var breakEven int
		decodeVar(t, vars, "breakEvenYear", &breakEven)
		assert.Equal(t, 5, breakEven)

		var costs engine.CostBreakdown
		decodeVar(t, vars, "costs", &costs)
		assert.Greater(t, costs.Investment, 0.0)
		assert.InDelta(t, 100.0, costs.InvestmentShare+costs.OMShare, 1e-6)

		var within bool
		decodeVar(t, vars, "paybackWithinLifetime", &within)
		assert.True(t, within)

		var fileName string
		decodeVar(t, vars, "fileName", &fileName)
		assert.True(t, strings.HasPrefix(fileName, "wind-projection-indore-"), fileName)
		assert.True(t, strings.HasSuffix(fileName, ".xlsx"), fileName)

		var encoded string
		decodeVar(t, vars, "workbookBase64", &encoded)
		raw, err := base64.StdEncoding.DecodeString(encoded)
		require.NoError(t, err)

		var size int
		decodeVar(t, vars, "sizeBytes", &size)
		assert.Equal(t, len(raw), size)

		f, err := excelize.OpenReader(bytes.NewReader(raw))
		require.NoError(t, err)
		defer f.Close()
		assert.Contains(t, f.GetSheetList(), ew.SummarySheet)
		assert.Contains(t, f.GetSheetList(), ew.SeriesSheet)
	})
}

func deployAllBPMN(t *testing.T, ctx context.Context) {
	t.Helper()

	var bpmnDir string
	for _, path := range []string{"bpmn", "../bpmn", "../../bpmn"} {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			bpmnDir = path
			break
		}
	}
	require.NotEmpty(t, bpmnDir, "BPMN directory not found")

	files, err := os.ReadDir(bpmnDir)
	require.NoError(t, err)

	deployed := 0
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(strings.ToLower(f.Name()), ".bpmn") {
			continue
		}
		path := filepath.Join(bpmnDir, f.Name())
		_, err := zeebeClient.NewDeployResourceCommand().AddResourceFile(path).Send(ctx)
		require.NoError(t, err, "deploy %s", path)
		t.Logf("Deployed: %s", f.Name())
		deployed++
	}
	require.Positive(t, deployed, "no BPMN files deployed")
}

func runProcess(t *testing.T, ctx context.Context, processID string, vars map[string]interface{}) map[string]json.RawMessage {
	t.Helper()

	cmd, err := zeebeClient.NewCreateInstanceCommand().
		BPMNProcessId(processID).
		LatestVersion().
		VariablesFromMap(vars)
	require.NoError(t, err)

	resp, err := cmd.WithResult().Send(ctx)
	require.NoError(t, err, "process %s did not complete", processID)

	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(resp.GetVariables()), &out))
	return out
}

func decodeVar(t *testing.T, vars map[string]json.RawMessage, name string, out interface{}) {
	t.Helper()
	raw, ok := vars[name]
	require.True(t, ok, "variable %s missing", name)
	require.NoError(t, json.Unmarshal(raw, out))
}

func BenchmarkHandler_CalculateProjection(b *testing.B) {
	handler, err := cp.NewHandler(cp.HandlerOptions{Logger: logger.NewNoOpLogger()})
	if err != nil {
		b.Fatal(err)
	}
	capacity := 2.5
	input := &cp.Input{District: "Indore", CapacityMW: &capacity}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}

func BenchmarkHandler_ExportWorkbook(b *testing.B) {
	projection, err := cp.NewHandler(cp.HandlerOptions{Logger: logger.NewNoOpLogger()})
	if err != nil {
		b.Fatal(err)
	}
	out, err := projection.Execute(context.Background(), &cp.Input{District: "Indore"})
	if err != nil {
		b.Fatal(err)
	}

	handler := ew.NewHandler(nil, logger.NewNoOpLogger())
	input := &ew.Input{District: "Indore", Parameters: &out.Parameters, Projection: &out.Projection}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}

func BenchmarkHandler_LookupDistrict(b *testing.B) {
	handler := ld.NewHandler(nil, logger.NewNoOpLogger())
	input := &ld.Input{District: "Ujjain"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}
