package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/lobbyhub/internal/bridge"
	"github.com/vovakirdan/lobbyhub/internal/config"
	"github.com/vovakirdan/lobbyhub/internal/core"
	"github.com/vovakirdan/lobbyhub/internal/proto"
)

var testTokens = &bridge.TokenConfig{
	Key:      []byte("test-bridge-key"),
	Identity: "exec-test",
	TTL:      time.Hour,
}

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := zerolog.Nop()
	lobby := core.NewLobby(nil, core.HandoffInfo{
		BridgeIdentity: "exec-test",
		Endpoints:      []string{"ws://127.0.0.1:9090"},
	}, &logger)
	bridgeSvc := bridge.NewService(lobby.Rooms(), &logger)

	server := NewServer(lobby, bridgeSvc, testTokens, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

// outboundMsg mirrors proto.Outbound with a raw payload for assertions.
type outboundMsg struct {
	Type  string          `json:"type"`
	ID    string          `json:"id,omitempty"`
	Event string          `json:"event,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, match func(outboundMsg) bool) outboundMsg {
	t.Helper()

	for {
		var msg outboundMsg
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			t.Fatalf("read ws message: %v", err)
		}
		if match(msg) {
			return msg
		}
	}
}

func sendRequest(t *testing.T, ctx context.Context, conn *websocket.Conn, reqType, id string, data any) {
	t.Helper()

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal request data: %v", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: reqType, ID: id, Data: raw}); err != nil {
		t.Fatalf("write ws request: %v", err)
	}
}

func readIdentity(t *testing.T, ctx context.Context, conn *websocket.Conn) string {
	t.Helper()

	msg := readUntil(t, ctx, conn, func(m outboundMsg) bool { return true })
	if msg.Type != proto.OutboundTypeEvent || msg.Event != proto.EventUserIdentity {
		t.Fatalf("first message is %s/%s, want the assigned identity", msg.Type, msg.Event)
	}
	var data proto.UserIdentityData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		t.Fatalf("decode identity: %v", err)
	}
	if data.UserID == "" {
		t.Fatal("empty identity")
	}
	return data.UserID
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketLobbyFlow(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	identityA := readIdentity(t, ctx, connA)

	sendRequest(t, ctx, connA, proto.InboundTypeCreateRoom, "1", proto.CreateRoomData{
		Name:       "duel",
		MaxMembers: 2,
	})
	created := readUntil(t, ctx, connA, func(m outboundMsg) bool {
		return m.Type == proto.OutboundTypeResult && m.ID == "1"
	})
	var createResult proto.CreateRoomResult
	if err := json.Unmarshal(created.Data, &createResult); err != nil {
		t.Fatalf("decode create result: %v", err)
	}
	if !createResult.Ok || createResult.RoomID == "" {
		t.Fatalf("unexpected create result: %+v", createResult)
	}

	connB := dialWS(t, ctx, ts)
	identityB := readIdentity(t, ctx, connB)
	if identityB == identityA {
		t.Fatal("two connections share one identity")
	}

	sendRequest(t, ctx, connB, proto.InboundTypeJoinRoom, "2", proto.JoinRoomData{
		RoomID: createResult.RoomID,
	})
	joined := readUntil(t, ctx, connB, func(m outboundMsg) bool {
		return m.Type == proto.OutboundTypeResult && m.ID == "2"
	})
	var joinResult proto.JoinRoomResult
	if err := json.Unmarshal(joined.Data, &joinResult); err != nil {
		t.Fatalf("decode join result: %v", err)
	}
	if joinResult.Status != core.JoinCodeOk || joinResult.Room == nil || len(joinResult.Room.Members) != 2 {
		t.Fatalf("unexpected join result: %+v", joinResult)
	}

	sendRequest(t, ctx, connB, proto.InboundTypeRoomList, "3", struct{}{})
	listed := readUntil(t, ctx, connB, func(m outboundMsg) bool {
		return m.Type == proto.OutboundTypeResult && m.ID == "3"
	})
	var listResult proto.RoomListResult
	if err := json.Unmarshal(listed.Data, &listResult); err != nil {
		t.Fatalf("decode room list: %v", err)
	}
	if len(listResult.Rooms) != 1 || listResult.Rooms[0].MemberCount != 2 {
		t.Fatalf("unexpected room list: %+v", listResult)
	}

	sendRequest(t, ctx, connA, proto.InboundTypeChat, "", proto.ChatData{Text: "glhf"})
	chat := readUntil(t, ctx, connB, func(m outboundMsg) bool {
		return m.Type == proto.OutboundTypeEvent && m.Event == proto.EventChat
	})
	var chatData proto.ChatEventData
	if err := json.Unmarshal(chat.Data, &chatData); err != nil {
		t.Fatalf("decode chat event: %v", err)
	}
	if chatData.Text != "glhf" || chatData.From != identityA {
		t.Fatalf("unexpected chat event: %+v", chatData)
	}
}

func TestRoomsAPIListsOpenRooms(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	readIdentity(t, ctx, conn)
	sendRequest(t, ctx, conn, proto.InboundTypeCreateRoom, "1", proto.CreateRoomData{
		Name:       "open-room",
		MaxMembers: 4,
	})
	readUntil(t, ctx, conn, func(m outboundMsg) bool {
		return m.Type == proto.OutboundTypeResult && m.ID == "1"
	})

	resp, err := ts.Client().Get(ts.URL + "/api/rooms")
	if err != nil {
		t.Fatalf("rooms request failed: %v", err)
	}
	defer resp.Body.Close()

	var rooms []proto.RoomSummary
	if err := json.NewDecoder(resp.Body).Decode(&rooms); err != nil {
		t.Fatalf("decode rooms: %v", err)
	}
	if len(rooms) != 1 || rooms[0].Name != "open-room" || rooms[0].MemberCount != 1 {
		t.Fatalf("unexpected rooms listing: %+v", rooms)
	}
}

func postBridge(t *testing.T, ts *httptest.Server, token string, body proto.BridgeValidateRequest) *stdhttp.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal bridge request: %v", err)
	}
	req, err := stdhttp.NewRequest(stdhttp.MethodPost, ts.URL+"/bridge/validate_session", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("build bridge request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("bridge request failed: %v", err)
	}
	return resp
}

func TestBridgeRouteRequiresAuth(t *testing.T) {
	ts := startTestServer(t)

	resp := postBridge(t, ts, "", proto.BridgeValidateRequest{RoomID: "x", Token: "y"})
	defer resp.Body.Close()
	if resp.StatusCode != stdhttp.StatusUnauthorized {
		t.Fatalf("unauthenticated request got %d, want 401", resp.StatusCode)
	}
}

func TestBridgeValidateSessionEndToEnd(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	readIdentity(t, ctx, conn)

	sendRequest(t, ctx, conn, proto.InboundTypeCreateRoom, "1", proto.CreateRoomData{
		Name:       "match",
		MaxMembers: 2,
	})
	readUntil(t, ctx, conn, func(m outboundMsg) bool {
		return m.Type == proto.OutboundTypeResult && m.ID == "1"
	})

	sendRequest(t, ctx, conn, proto.InboundTypeStartRoom, "", struct{}{})
	startedMsg := readUntil(t, ctx, conn, func(m outboundMsg) bool {
		return m.Type == proto.OutboundTypeEvent && m.Event == proto.EventRoomStarted
	})
	var started proto.RoomStartedData
	if err := json.Unmarshal(startedMsg.Data, &started); err != nil {
		t.Fatalf("decode room started: %v", err)
	}
	if started.BridgeIdentity != "exec-test" || len(started.Endpoints) == 0 {
		t.Fatalf("unexpected handoff payload: %+v", started)
	}

	serviceToken, err := bridge.GenerateServiceToken(testTokens)
	if err != nil {
		t.Fatalf("generate service token: %v", err)
	}

	resp := postBridge(t, ts, serviceToken, proto.BridgeValidateRequest{
		RoomID: started.RoomID,
		Token:  started.Identity + ":game-session",
	})
	defer resp.Body.Close()
	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("bridge request got %d, want 200", resp.StatusCode)
	}
	var result proto.BridgeValidateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode bridge response: %v", err)
	}
	if !result.Valid {
		t.Fatal("member session rejected")
	}

	resp2 := postBridge(t, ts, serviceToken, proto.BridgeValidateRequest{
		RoomID: started.RoomID,
		Token:  "not-a-uuid:game-session",
	})
	defer resp2.Body.Close()
	var result2 proto.BridgeValidateResponse
	if err := json.NewDecoder(resp2.Body).Decode(&result2); err != nil {
		t.Fatalf("decode bridge response: %v", err)
	}
	if result2.Valid {
		t.Fatal("malformed session token validated")
	}
}
