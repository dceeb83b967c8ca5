package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/lobbyhub/internal/core"
	"github.com/vovakirdan/lobbyhub/internal/proto"
)

// chatMessagesPerMinute caps how many chat lines one connection may relay.
const chatMessagesPerMinute = 120

// WSHandler upgrades HTTP connections and bridges them to core clients.
type WSHandler struct {
	lobby *core.Lobby
	log   *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(lobby *core.Lobby, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{lobby: lobby, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := h.lobby.Connect(r.URL.Query().Get("name"))
	defer h.lobby.Disconnect(client)

	// The assigned identity must be the first outgoing message; the write
	// loop has not started yet, so this write has no competitor.
	if err := wsjson.Write(ctx, conn, proto.Outbound{
		Type:  proto.OutboundTypeEvent,
		Event: proto.EventUserIdentity,
		Data:  proto.UserIdentityData{UserID: client.ID.String()},
	}); err != nil {
		h.log.Warn().Err(err).Msg("write identity")
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Correlated replies and lobby events merge in the write loop; the
	// connection allows only one concurrent writer.
	replies := make(chan proto.Outbound, 8)

	stopLimiter := make(chan struct{})
	defer close(stopLimiter)
	chatLimiter := newRateLimiter(chatMessagesPerMinute)
	chatLimiter.startReset(stopLimiter)

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client, replies, chatLimiter)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client, replies)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client, replies chan<- proto.Outbound, chatLimiter *rateLimiter) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		if inbound.Type == proto.InboundTypeChat && !chatLimiter.allow() {
			continue
		}

		out := h.dispatch(ctx, client, inbound)
		if out == nil {
			continue
		}

		select {
		case replies <- *out:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client, replies <-chan proto.Outbound) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Stringer("client_id", client.ID).Msg("write ws event")
				return err
			}
		case out := <-replies:
			if err := wsjson.Write(ctx, conn, out); err != nil {
				h.log.Error().Err(err).Stringer("client_id", client.ID).Msg("write ws reply")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
