package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/rpggio/retroboard/internal/app"
	"github.com/rpggio/retroboard/internal/domain/user"
	"github.com/rpggio/retroboard/internal/feed"
	"github.com/rpggio/retroboard/internal/sqlite"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	App    *app.App
	Broker *feed.MemoryBroker

	nextID atomic.Int64
}

// RPCError is a JSON-RPC error returned by the server.
type RPCError struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    map[string]string `json:"data"`
}

func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	broker := feed.NewMemoryBroker()
	application := app.New(db, broker, nil, app.Options{MCPEnabled: true, MCPAuthEnabled: true})
	server := httptest.NewServer(application.Handler)

	t.Cleanup(func() {
		server.Close()
		_ = broker.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server: server,
		DB:     db,
		App:    application,
		Broker: broker,
	}
}

// Register creates a user and returns its API token.
func (ts *TestServer) Register(t *testing.T, name string) (userID, token string) {
	t.Helper()
	reg, err := ts.App.Users.Register(context.Background(), user.RegisterRequest{Name: name})
	require.NoError(t, err)
	return reg.User.ID, reg.Token
}

// Call invokes an RPC method as the holder of token. An empty token calls
// anonymously. The result is decoded into out when out is non-nil.
func (ts *TestServer) Call(t *testing.T, token, method string, params, out any) *RPCError {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      ts.nextID.Add(1),
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *RPCError       `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	if envelope.Error != nil {
		return envelope.Error
	}
	if out != nil {
		require.NoError(t, json.Unmarshal(envelope.Result, out))
	}
	return nil
}

// MustCall is Call that fails the test on an RPC error.
func (ts *TestServer) MustCall(t *testing.T, token, method string, params, out any) {
	t.Helper()
	rpcErr := ts.Call(t, token, method, params, out)
	require.Nil(t, rpcErr, "%s failed: %+v", method, rpcErr)
}

// Dial opens a board subscription as the holder of token.
func (ts *TestServer) Dial(t *testing.T, token, boardID string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(ts.Server.URL, "http") + "/ws/boards/" + boardID + "?token=" + url.QueryEscape(token)
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}
