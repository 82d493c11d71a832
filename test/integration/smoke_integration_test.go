//go:build integration
// +build integration

package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/archbench/archbench-engine/internal/engine"
	"github.com/archbench/archbench-engine/internal/simd"
	"github.com/archbench/archbench-engine/pkg/config"
	"github.com/archbench/archbench-engine/pkg/models"
)

const daemonConfigYAML = `
log_level: warn
http_addr: "127.0.0.1:0"
grpc_addr: "127.0.0.1:0"
batch_parallelism: 2
node_defaults:
  gateway:
    latencyMs: 3
    varianceFactor: 1.2
    capacityRps: 20000
    failureRate: 0.001
    costPerHour: 0.04
`

const checkoutScenario = `{
  "name": "checkout",
  "workload": {"targetRps": 1500, "targetP95Ms": 40},
  "nodes": [
    {"id": "gw", "type": "gateway"},
    {"id": "api", "type": "service"},
    {"id": "orders", "type": "database", "dbConfig": {"engine": "postgres", "tables": [{"name": "orders", "sizeClass": "L", "indexes": ["customer_id"]}]}},
    {"id": "events", "type": "queue"}
  ],
  "edges": [
    {"from": "gw", "to": "api"},
    {"from": "api", "to": "orders"},
    {"from": "api", "to": "events"}
  ]
}`

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (p *recordingPublisher) Publish(subject string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return nil
}

func newStack(t *testing.T, pub simd.Publisher) (*simd.Service, *simd.Notifier) {
	t.Helper()
	cfg, err := config.ParseConfigYAML([]byte(daemonConfigYAML))
	if err != nil {
		t.Fatalf("ParseConfigYAML error: %v", err)
	}
	eng := engine.New(cfg.DefaultsTable())
	notifier := simd.NewNotifier(pub, cfg.NATSSubject)
	service := simd.NewService(eng, simd.NewMetrics(eng.Defaults().Len()), notifier)
	service.SetBatchParallelism(cfg.BatchParallelism)
	return service, notifier
}

// TestIntegration_Smoke_HTTPAndGRPC drives one scenario through both transports
// and checks they agree, that metrics count both, and that events were published.
func TestIntegration_Smoke_HTTPAndGRPC(t *testing.T) {
	pub := &recordingPublisher{}
	service, notifier := newStack(t, pub)

	httpSrv := httptest.NewServer(simd.NewHTTPServer(service).Handler())
	defer httpSrv.Close()

	resp, err := http.Post(httpSrv.URL+"/simulate", "application/json", strings.NewReader(checkoutScenario))
	if err != nil {
		t.Fatalf("POST /simulate error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var httpResult models.SimulationResult
	if err := json.NewDecoder(resp.Body).Decode(&httpResult); err != nil {
		t.Fatalf("decode result: %v", err)
	}

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	grpcServer := grpc.NewServer()
	simd.RegisterSimulationServiceServer(grpcServer, simd.NewSimulationGRPCServer(service))
	go func() { _ = grpcServer.Serve(lis) }()
	defer grpcServer.Stop()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	client := simd.NewSimulationServiceClient(conn)

	req := new(structpb.Struct)
	if err := protojson.Unmarshal([]byte(checkoutScenario), req); err != nil {
		t.Fatalf("build request: %v", err)
	}
	out, err := client.Simulate(context.Background(), req)
	if err != nil {
		t.Fatalf("gRPC Simulate error: %v", err)
	}

	data, err := protojson.Marshal(out)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	var grpcResult models.SimulationResult
	if err := json.Unmarshal(data, &grpcResult); err != nil {
		t.Fatalf("decode gRPC result: %v", err)
	}

	if httpResult.LatencyMsP95 != grpcResult.LatencyMsP95 || httpResult.Score != grpcResult.Score || httpResult.Status != grpcResult.Status {
		t.Fatalf("transports disagree: http=%+v grpc=%+v", httpResult, grpcResult)
	}

	_, err = client.Simulate(context.Background(), &structpb.Struct{})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for empty scenario, got %v", err)
	}

	notifier.Wait()
	pub.mu.Lock()
	published := len(pub.subjects)
	pub.mu.Unlock()
	if published != 2 {
		t.Fatalf("expected 2 published events, got %d", published)
	}

	if got := service.Metrics().Simulations(); got != 2 {
		t.Fatalf("expected 2 simulations counted, got %d", got)
	}
	if got := service.Metrics().Failures(simd.ReasonValidation); got != 1 {
		t.Fatalf("expected 1 validation failure counted, got %d", got)
	}
}

// TestIntegration_Smoke_Batch checks that a batch mixes results and errors in order.
func TestIntegration_Smoke_Batch(t *testing.T) {
	service, notifier := newStack(t, &recordingPublisher{})
	defer notifier.Wait()

	httpSrv := httptest.NewServer(simd.NewHTTPServer(service).Handler())
	defer httpSrv.Close()

	body := `{"scenarios":[` + checkoutScenario + `,null,` + checkoutScenario + `]}`
	resp, err := http.Post(httpSrv.URL+"/v1/simulations:batch", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST batch error: %v", err)
	}
	defer resp.Body.Close()

	var out struct {
		Results []struct {
			Index  int                      `json:"index"`
			Result *models.SimulationResult `json:"result"`
			Error  *simd.Problem            `json:"error"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode batch: %v", err)
	}
	if len(out.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(out.Results))
	}
	for i, r := range out.Results {
		if r.Index != i {
			t.Fatalf("result %d has index %d", i, r.Index)
		}
	}
	if out.Results[1].Error == nil || out.Results[1].Error.Detail != "Request body is null" {
		t.Fatalf("expected null scenario error, got %+v", out.Results[1])
	}
	if out.Results[0].Result == nil || out.Results[2].Result == nil {
		t.Fatal("expected valid scenarios to produce results")
	}
}
