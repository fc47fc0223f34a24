package hostrpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region client-struct

// Client calls the Host service.
type Client struct {
	conn   *grpc.ClientConn
	caller grpc.ClientConnInterface
}

// #endregion client-struct

// #region constructor

// NewClient connects to a Host service at addr.
func NewClient(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, caller: conn}, nil
}

// NewClientWithConn uses an existing connection, which the caller owns.
func NewClientWithConn(cc grpc.ClientConnInterface) *Client {
	return &Client{caller: cc}
}

// #endregion constructor

// #region close

// Close shuts down a connection opened by NewClient.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region dispatch

// Dispatch runs a command on the host.
func (c *Client) Dispatch(ctx context.Context, name string, args map[string]string) (Reply, error) {
	req, err := encodeRequest(name, args)
	if err != nil {
		return Reply{}, err
	}
	out := new(structpb.Struct)
	if err := c.caller.Invoke(ctx, MethodDispatch, req, out); err != nil {
		return Reply{}, fmt.Errorf("dispatch rpc: %w", err)
	}
	return decodeReply(out), nil
}

// #endregion dispatch
