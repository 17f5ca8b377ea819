package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/rs/zerolog"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"product-showcase-service/internal/auth"
	"product-showcase-service/internal/service"
)

// GRPCHandler implements ProductShowcaseServer on top of the service layer.
type GRPCHandler struct {
	svc *service.Service
	log zerolog.Logger
}

// NewGRPCHandler creates a new GRPCHandler.
func NewGRPCHandler(svc *service.Service, logger zerolog.Logger) *GRPCHandler {
	return &GRPCHandler{svc: svc, log: logger}
}

// --- Helper: Error Mapping ---

func (s *GRPCHandler) mapServiceErrorToGrpcStatus(err error, method string) error {
	if err == nil {
		return nil
	}

	var (
		verr *service.ValidationError
		nerr *service.NotFoundError
		cerr *service.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		st := status.New(codes.InvalidArgument, verr.Message)
		br := &errdetails.BadRequest{}
		for _, v := range verr.Violations {
			br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       v.Field,
				Description: v.Message,
			})
		}
		if detailed, derr := st.WithDetails(br); derr == nil {
			return detailed.Err()
		}
		return st.Err()
	case errors.As(err, &nerr):
		return status.Error(codes.NotFound, nerr.Error())
	case errors.As(err, &cerr):
		return status.Error(codes.AlreadyExists, cerr.Message)
	default:
		s.log.Error().Err(err).Str("method", method).Msg("gRPC request failed")
		return status.Error(codes.Internal, "internal server error")
	}
}

// --- ProductShowcaseServer ---

func (s *GRPCHandler) GetProductDetail(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := productIDField(req)
	if err != nil {
		return nil, s.mapServiceErrorToGrpcStatus(err, "GetProductDetail")
	}
	view, err := s.svc.GetProductDetail(ctx, id, auth.IdentityFrom(ctx))
	if err != nil {
		return nil, s.mapServiceErrorToGrpcStatus(err, "GetProductDetail")
	}
	return toStruct(view)
}

func (s *GRPCHandler) GetRelatedProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := productIDField(req)
	if err != nil {
		return nil, s.mapServiceErrorToGrpcStatus(err, "GetRelatedProducts")
	}
	related, err := s.svc.GetRelatedProducts(ctx, id)
	if err != nil {
		return nil, s.mapServiceErrorToGrpcStatus(err, "GetRelatedProducts")
	}
	return toStruct(map[string]any{"products": related})
}

func (s *GRPCHandler) ListApprovedReviews(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := productIDField(req)
	if err != nil {
		return nil, s.mapServiceErrorToGrpcStatus(err, "ListApprovedReviews")
	}
	list, err := s.svc.ListApprovedReviews(ctx, id)
	if err != nil {
		return nil, s.mapServiceErrorToGrpcStatus(err, "ListApprovedReviews")
	}
	return toStruct(list)
}

func (s *GRPCHandler) SubmitReview(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	principal, ok := auth.PrincipalFrom(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "authentication required")
	}
	id, err := productIDField(req)
	if err != nil {
		return nil, s.mapServiceErrorToGrpcStatus(err, "SubmitReview")
	}
	var input service.ReviewInput
	if err := fromStruct(req, &input); err != nil {
		return nil, s.mapServiceErrorToGrpcStatus(err, "SubmitReview")
	}
	res, err := s.svc.SubmitReview(ctx, id, principal.UserID, principal.UserName, input)
	if err != nil {
		return nil, s.mapServiceErrorToGrpcStatus(err, "SubmitReview")
	}
	return toStruct(res)
}

func (s *GRPCHandler) SubmitQuote(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := productIDField(req)
	if err != nil {
		return nil, s.mapServiceErrorToGrpcStatus(err, "SubmitQuote")
	}
	var input service.QuoteInput
	if err := fromStruct(req, &input); err != nil {
		return nil, s.mapServiceErrorToGrpcStatus(err, "SubmitQuote")
	}
	res, err := s.svc.SubmitQuote(ctx, id, input)
	if err != nil {
		return nil, s.mapServiceErrorToGrpcStatus(err, "SubmitQuote")
	}
	return toStruct(res)
}

// --- Helper Functions for Conversion ---

// productIDField reads "productId" as either a whole number or a numeric string.
func productIDField(req *structpb.Struct) (int64, error) {
	v, ok := req.GetFields()["productId"]
	if !ok {
		return service.ParseProductID("")
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n != math.Trunc(n) || n > math.MaxInt64 || n < math.MinInt64 {
			return service.ParseProductID(strconv.FormatFloat(n, 'f', -1, 64))
		}
		return service.ParseProductID(strconv.FormatInt(int64(n), 10))
	case *structpb.Value_StringValue:
		return service.ParseProductID(kind.StringValue)
	default:
		return service.ParseProductID(fmt.Sprint(v.AsInterface()))
	}
}

// fromStruct decodes req into dst through its JSON form so field names and types
// follow the same rules as the HTTP API.
func fromStruct(req *structpb.Struct, dst any) error {
	raw, err := req.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &service.ValidationError{
			Message:    "invalid request payload",
			Violations: []service.FieldViolation{{Field: "body", Rule: "json", Message: err.Error()}},
		}
	}
	return nil
}

func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := &structpb.Struct{}
	if err := out.UnmarshalJSON(raw); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}
