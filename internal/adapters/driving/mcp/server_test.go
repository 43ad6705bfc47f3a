package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil ports returns error", func(t *testing.T) {
		server, err := NewServer(nil)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingActiveLookup)
	})

	t.Run("nil active lookup returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingActiveLookup)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Active: lookupOf(nil)})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingActiveLookup)
	assert.NoError(t, (&Ports{Active: lookupOf(nil)}).Validate())
}

// connect opens an in-memory client session against a server built from ports.
func connect(t *testing.T, ports *Ports) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server, err := NewServer(ports)
	require.NoError(t, err)

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func toolNames(t *testing.T, session *mcp.ClientSession) []string {
	t.Helper()
	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	return names
}

func TestServer_ListsTools(t *testing.T) {
	session := connect(t, &Ports{Active: lookupOf(&mockController{})})

	names := toolNames(t, session)

	assert.ElementsMatch(t, []string{"status", "navigate", "view", "find", "highlight", "toggle_outline"}, names)
}

func TestServer_SaveToolNeedsSaver(t *testing.T) {
	session := connect(t, &Ports{
		Active: lookupOf(&mockController{}),
		Saver:  &mockSaver{},
	})

	assert.Contains(t, toolNames(t, session), "save")
}

func TestServer_CallNavigate(t *testing.T) {
	controller := &mockController{}
	session := connect(t, &Ports{Active: lookupOf(controller)})

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "navigate",
		Arguments: map[string]any{"page": 4},
	})

	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.Len(t, controller.navigations, 1)
	assert.Equal(t, 4, controller.navigations[0].Page)
}

func TestServer_Handler(t *testing.T) {
	server, err := NewServer(&Ports{Active: lookupOf(nil)})
	require.NoError(t, err)

	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	// A bare GET without a session is refused by the streamable transport.
	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.GreaterOrEqual(t, resp.StatusCode, 400)
}
