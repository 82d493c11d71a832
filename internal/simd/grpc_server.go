package simd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/archbench/archbench-engine/internal/normalize"
	"github.com/archbench/archbench-engine/internal/validation"
	"github.com/archbench/archbench-engine/pkg/logger"
	"github.com/archbench/archbench-engine/pkg/models"
)

const (
	// SimulationServiceName is the fully qualified gRPC service name.
	SimulationServiceName = "archbench.v1.SimulationService"
	simulateFullMethod    = "/" + SimulationServiceName + "/Simulate"
)

// SimulationServiceServer is the server API for archbench.v1.SimulationService.
// Requests and responses are google.protobuf.Struct values carrying the same
// JSON documents as the HTTP API.
type SimulationServiceServer interface {
	Simulate(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// SimulationServiceDesc describes archbench.v1.SimulationService.
var SimulationServiceDesc = grpc.ServiceDesc{
	ServiceName: SimulationServiceName,
	HandlerType: (*SimulationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Simulate",
			Handler:    simulateHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "archbench/v1/simulation.proto",
}

// RegisterSimulationServiceServer registers srv on s.
func RegisterSimulationServiceServer(s grpc.ServiceRegistrar, srv SimulationServiceServer) {
	s.RegisterService(&SimulationServiceDesc, srv)
}

func simulateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SimulationServiceServer).Simulate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: simulateFullMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SimulationServiceServer).Simulate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// SimulationServiceClient is the client API for archbench.v1.SimulationService.
type SimulationServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewSimulationServiceClient creates a client on cc.
func NewSimulationServiceClient(cc grpc.ClientConnInterface) *SimulationServiceClient {
	return &SimulationServiceClient{cc: cc}
}

// Simulate invokes archbench.v1.SimulationService/Simulate.
func (c *SimulationServiceClient) Simulate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, simulateFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// SimulationGRPCServer implements SimulationServiceServer on top of a Service.
type SimulationGRPCServer struct {
	service *Service
}

// NewSimulationGRPCServer creates a gRPC server backed by service.
func NewSimulationGRPCServer(service *Service) *SimulationGRPCServer {
	return &SimulationGRPCServer{service: service}
}

func (s *SimulationGRPCServer) Simulate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	scenario, err := structToScenario(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	result, err := s.service.Simulate(ctx, scenario)
	if err != nil {
		var verr *validation.ValidationError
		var cerr *normalize.ConfigurationError
		switch {
		case errors.As(err, &verr):
			return nil, status.Error(codes.InvalidArgument, verr.Detail)
		case errors.As(err, &cerr):
			logger.Error("simulation failed (gRPC)", "error", err)
			return nil, status.Error(codes.FailedPrecondition, cerr.Error())
		default:
			return nil, status.Error(codes.Internal, err.Error())
		}
	}

	out, err := resultToStruct(result)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func structToScenario(in *structpb.Struct) (*models.Scenario, error) {
	data, err := protojson.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	var scenario *models.Scenario
	if err := json.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return scenario, nil
}

func resultToStruct(result *models.SimulationResult) (*structpb.Struct, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return out, nil
}
