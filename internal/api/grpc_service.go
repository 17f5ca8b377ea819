package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProductShowcaseServiceName is the fully qualified gRPC service name.
const ProductShowcaseServiceName = "showcase.v1.ProductShowcase"

// Messages are google.protobuf.Struct values whose fields mirror the JSON API.
// Keeping the schema in Struct lets HTTP and gRPC share one set of field names
// without a code generation step.

// ProductShowcaseServer is the server API for the ProductShowcase service.
type ProductShowcaseServer interface {
	GetProductDetail(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetRelatedProducts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListApprovedReviews(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitReview(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitQuote(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(ProductShowcaseServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ProductShowcaseServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ProductShowcaseServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ProductShowcaseServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ProductShowcaseServiceDesc describes the ProductShowcase service for grpc.Server.RegisterService.
var ProductShowcaseServiceDesc = grpc.ServiceDesc{
	ServiceName: ProductShowcaseServiceName,
	HandlerType: (*ProductShowcaseServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("GetProductDetail", ProductShowcaseServer.GetProductDetail),
		unaryHandler("GetRelatedProducts", ProductShowcaseServer.GetRelatedProducts),
		unaryHandler("ListApprovedReviews", ProductShowcaseServer.ListApprovedReviews),
		unaryHandler("SubmitReview", ProductShowcaseServer.SubmitReview),
		unaryHandler("SubmitQuote", ProductShowcaseServer.SubmitQuote),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "showcase/v1/showcase.proto",
}

// RegisterProductShowcaseServer registers srv on s.
func RegisterProductShowcaseServer(s grpc.ServiceRegistrar, srv ProductShowcaseServer) {
	s.RegisterService(&ProductShowcaseServiceDesc, srv)
}

// ProductShowcaseClient calls the ProductShowcase service.
type ProductShowcaseClient struct {
	cc grpc.ClientConnInterface
}

func NewProductShowcaseClient(cc grpc.ClientConnInterface) *ProductShowcaseClient {
	return &ProductShowcaseClient{cc: cc}
}

func (c *ProductShowcaseClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ProductShowcaseServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProductShowcaseClient) GetProductDetail(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetProductDetail", in, opts...)
}

func (c *ProductShowcaseClient) GetRelatedProducts(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetRelatedProducts", in, opts...)
}

func (c *ProductShowcaseClient) ListApprovedReviews(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ListApprovedReviews", in, opts...)
}

func (c *ProductShowcaseClient) SubmitReview(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "SubmitReview", in, opts...)
}

func (c *ProductShowcaseClient) SubmitQuote(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "SubmitQuote", in, opts...)
}
