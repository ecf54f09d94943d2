package bgprocv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "bgproc.v1.BgProc"

const (
	BgProc_Create_FullMethodName     = "/bgproc.v1.BgProc/Create"
	BgProc_Get_FullMethodName        = "/bgproc.v1.BgProc/Get"
	BgProc_List_FullMethodName       = "/bgproc.v1.BgProc/List"
	BgProc_Terminate_FullMethodName  = "/bgproc.v1.BgProc/Terminate"
	BgProc_Remove_FullMethodName     = "/bgproc.v1.BgProc/Remove"
	BgProc_EndSession_FullMethodName = "/bgproc.v1.BgProc/EndSession"
	BgProc_Notices_FullMethodName    = "/bgproc.v1.BgProc/Notices"
	BgProc_History_FullMethodName    = "/bgproc.v1.BgProc/History"
	BgProc_Ping_FullMethodName       = "/bgproc.v1.BgProc/Ping"
)

// BgProcClient is the client API for the BgProc service.
type BgProcClient interface {
	Create(ctx context.Context, in *CreateRequest, opts ...grpc.CallOption) (*CreateResponse, error)
	Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*GetResponse, error)
	List(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ListResponse, error)
	Terminate(ctx context.Context, in *TerminateRequest, opts ...grpc.CallOption) (*TerminateResponse, error)
	Remove(ctx context.Context, in *RemoveRequest, opts ...grpc.CallOption) (*RemoveResponse, error)
	EndSession(ctx context.Context, in *EndSessionRequest, opts ...grpc.CallOption) (*EndSessionResponse, error)
	Notices(ctx context.Context, in *NoticesRequest, opts ...grpc.CallOption) (*NoticesResponse, error)
	History(ctx context.Context, in *HistoryRequest, opts ...grpc.CallOption) (*HistoryResponse, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
}

type bgProcClient struct {
	cc grpc.ClientConnInterface
}

func NewBgProcClient(cc grpc.ClientConnInterface) BgProcClient {
	return &bgProcClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bgProcClient) Create(ctx context.Context, in *CreateRequest, opts ...grpc.CallOption) (*CreateResponse, error) {
	return invoke[CreateResponse](ctx, c.cc, BgProc_Create_FullMethodName, in, opts)
}

func (c *bgProcClient) Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*GetResponse, error) {
	return invoke[GetResponse](ctx, c.cc, BgProc_Get_FullMethodName, in, opts)
}

func (c *bgProcClient) List(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ListResponse, error) {
	return invoke[ListResponse](ctx, c.cc, BgProc_List_FullMethodName, in, opts)
}

func (c *bgProcClient) Terminate(ctx context.Context, in *TerminateRequest, opts ...grpc.CallOption) (*TerminateResponse, error) {
	return invoke[TerminateResponse](ctx, c.cc, BgProc_Terminate_FullMethodName, in, opts)
}

func (c *bgProcClient) Remove(ctx context.Context, in *RemoveRequest, opts ...grpc.CallOption) (*RemoveResponse, error) {
	return invoke[RemoveResponse](ctx, c.cc, BgProc_Remove_FullMethodName, in, opts)
}

func (c *bgProcClient) EndSession(ctx context.Context, in *EndSessionRequest, opts ...grpc.CallOption) (*EndSessionResponse, error) {
	return invoke[EndSessionResponse](ctx, c.cc, BgProc_EndSession_FullMethodName, in, opts)
}

func (c *bgProcClient) Notices(ctx context.Context, in *NoticesRequest, opts ...grpc.CallOption) (*NoticesResponse, error) {
	return invoke[NoticesResponse](ctx, c.cc, BgProc_Notices_FullMethodName, in, opts)
}

func (c *bgProcClient) History(ctx context.Context, in *HistoryRequest, opts ...grpc.CallOption) (*HistoryResponse, error) {
	return invoke[HistoryResponse](ctx, c.cc, BgProc_History_FullMethodName, in, opts)
}

func (c *bgProcClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, BgProc_Ping_FullMethodName, in, opts)
}

// BgProcServer is the server API for the BgProc service. Implementations
// must embed UnimplementedBgProcServer.
type BgProcServer interface {
	Create(context.Context, *CreateRequest) (*CreateResponse, error)
	Get(context.Context, *GetRequest) (*GetResponse, error)
	List(context.Context, *ListRequest) (*ListResponse, error)
	Terminate(context.Context, *TerminateRequest) (*TerminateResponse, error)
	Remove(context.Context, *RemoveRequest) (*RemoveResponse, error)
	EndSession(context.Context, *EndSessionRequest) (*EndSessionResponse, error)
	Notices(context.Context, *NoticesRequest) (*NoticesResponse, error)
	History(context.Context, *HistoryRequest) (*HistoryResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	mustEmbedUnimplementedBgProcServer()
}

type UnimplementedBgProcServer struct{}

func (UnimplementedBgProcServer) Create(context.Context, *CreateRequest) (*CreateResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Create not implemented")
}
func (UnimplementedBgProcServer) Get(context.Context, *GetRequest) (*GetResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Get not implemented")
}
func (UnimplementedBgProcServer) List(context.Context, *ListRequest) (*ListResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method List not implemented")
}
func (UnimplementedBgProcServer) Terminate(context.Context, *TerminateRequest) (*TerminateResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Terminate not implemented")
}
func (UnimplementedBgProcServer) Remove(context.Context, *RemoveRequest) (*RemoveResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Remove not implemented")
}
func (UnimplementedBgProcServer) EndSession(context.Context, *EndSessionRequest) (*EndSessionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method EndSession not implemented")
}
func (UnimplementedBgProcServer) Notices(context.Context, *NoticesRequest) (*NoticesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Notices not implemented")
}
func (UnimplementedBgProcServer) History(context.Context, *HistoryRequest) (*HistoryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method History not implemented")
}
func (UnimplementedBgProcServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedBgProcServer) mustEmbedUnimplementedBgProcServer() {}

func RegisterBgProcServer(s grpc.ServiceRegistrar, srv BgProcServer) {
	s.RegisterService(&BgProc_ServiceDesc, srv)
}

func unary[Req any, Resp any](fullMethod string, call func(BgProcServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BgProcServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BgProcServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var BgProc_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BgProcServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Create", Handler: unary(BgProc_Create_FullMethodName, BgProcServer.Create)},
		{MethodName: "Get", Handler: unary(BgProc_Get_FullMethodName, BgProcServer.Get)},
		{MethodName: "List", Handler: unary(BgProc_List_FullMethodName, BgProcServer.List)},
		{MethodName: "Terminate", Handler: unary(BgProc_Terminate_FullMethodName, BgProcServer.Terminate)},
		{MethodName: "Remove", Handler: unary(BgProc_Remove_FullMethodName, BgProcServer.Remove)},
		{MethodName: "EndSession", Handler: unary(BgProc_EndSession_FullMethodName, BgProcServer.EndSession)},
		{MethodName: "Notices", Handler: unary(BgProc_Notices_FullMethodName, BgProcServer.Notices)},
		{MethodName: "History", Handler: unary(BgProc_History_FullMethodName, BgProcServer.History)},
		{MethodName: "Ping", Handler: unary(BgProc_Ping_FullMethodName, BgProcServer.Ping)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bgprocv1",
}
