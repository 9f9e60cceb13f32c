package client

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn

	mu          sync.RWMutex
	accessToken string
}

// NewParkDeskClient prepares a connection to endpointURL. Dialing is lazy;
// the first call connects. A zero timeout leaves calls without a deadline.
func NewParkDeskClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	if err := c.InitGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {
	base := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(rpc.CodecName)),
	}
	conn, err := grpc.NewClient(s.endpointURL, append(base, opts...)...)
	if err != nil {
		return err
	}
	s.conn = conn
	return nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.token(); token != "" && !rpc.Public[method] {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(t string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = t
}

// LoggedIn reports whether a token is held.
func (s *GRPCClient) LoggedIn() bool {
	return s.token() != ""
}

// Logout forgets the token. The server keeps no session state.
func (s *GRPCClient) Logout() {
	s.setToken("")
}

func (s *GRPCClient) call(ctx context.Context, method string, in, out any) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return mapError(s.conn.Invoke(ctx, rpc.FullMethod(method), in, out))
}

func invoke[Resp any](ctx context.Context, s *GRPCClient, method string, in any) (*Resp, error) {
	out := new(Resp)
	if err := s.call(ctx, method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// Login stores the returned token for every following call.
func (s *GRPCClient) Login(ctx context.Context, username, password string) (*rpc.LoginResponse, error) {
	resp, err := invoke[rpc.LoginResponse](ctx, s, rpc.MethodLogin, &rpc.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	s.setToken(resp.AccessToken)
	return resp, nil
}

// Ping fails with ErrUnavailable when the server cannot be reached.
func (s *GRPCClient) Ping(ctx context.Context) (*rpc.PingResponse, error) {
	resp, err := invoke[rpc.PingResponse](ctx, s, rpc.MethodPing, &rpc.Empty{})
	if err != nil {
		return nil, err
	}
	if resp.Status != "OK" {
		return nil, ErrUnavailable
	}
	return resp, nil
}
