package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "csat.v1.Dashboard"

const (
	MethodListDashboards   = "ListDashboards"
	MethodSelectDashboard  = "SelectDashboard"
	MethodSetFilters       = "SetFilters"
	MethodResetFilters     = "ResetFilters"
	MethodGetGaugeData     = "GetGaugeData"
	MethodDrillDown        = "DrillDown"
	MethodToggleGauge      = "ToggleGauge"
	MethodRefresh          = "Refresh"
	MethodGetStatus        = "GetStatus"
	MethodListGaugeTypes   = "ListGaugeTypes"
	MethodGetFilterOptions = "GetFilterOptions"
)

// DashboardServer is the server API for the csat.v1.Dashboard service. Every
// method takes and returns a google.protobuf.Struct.
type DashboardServer interface {
	ListDashboards(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SelectDashboard(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetFilters(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResetFilters(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetGaugeData(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DrillDown(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ToggleGauge(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Refresh(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListGaugeTypes(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetFilterOptions(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(DashboardServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func methodDesc(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(DashboardServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(DashboardServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// DashboardServiceDesc is the grpc.ServiceDesc for the csat.v1.Dashboard service.
var DashboardServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DashboardServer)(nil),
	Methods: []grpc.MethodDesc{
		methodDesc(MethodListDashboards, DashboardServer.ListDashboards),
		methodDesc(MethodSelectDashboard, DashboardServer.SelectDashboard),
		methodDesc(MethodSetFilters, DashboardServer.SetFilters),
		methodDesc(MethodResetFilters, DashboardServer.ResetFilters),
		methodDesc(MethodGetGaugeData, DashboardServer.GetGaugeData),
		methodDesc(MethodDrillDown, DashboardServer.DrillDown),
		methodDesc(MethodToggleGauge, DashboardServer.ToggleGauge),
		methodDesc(MethodRefresh, DashboardServer.Refresh),
		methodDesc(MethodGetStatus, DashboardServer.GetStatus),
		methodDesc(MethodListGaugeTypes, DashboardServer.ListGaugeTypes),
		methodDesc(MethodGetFilterOptions, DashboardServer.GetFilterOptions),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "csat/v1/dashboard.proto",
}

// RegisterDashboardServer registers srv on s.
func RegisterDashboardServer(s grpc.ServiceRegistrar, srv DashboardServer) {
	s.RegisterService(&DashboardServiceDesc, srv)
}

// DashboardClient calls the csat.v1.Dashboard service.
type DashboardClient struct {
	cc grpc.ClientConnInterface
}

func NewDashboardClient(cc grpc.ClientConnInterface) *DashboardClient {
	return &DashboardClient{cc: cc}
}

// Call invokes method with in, which may be nil.
func (c *DashboardClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
