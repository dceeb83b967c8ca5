package http

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/lobbyhub/internal/core"
	"github.com/vovakirdan/lobbyhub/internal/proto"
)

// dispatch validates one inbound request, invokes the lobby and shapes the
// correlated reply. A nil return means no reply: either the request kind
// carries none, or the lobby dropped it silently.
func (h *WSHandler) dispatch(ctx context.Context, client *core.Client, inbound proto.Inbound) *proto.Outbound {
	switch inbound.Type {
	case proto.InboundTypeCreateRoom:
		var data proto.CreateRoomData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return protoError(inbound.ID, "bad_request", "malformed create_room payload")
		}
		if data.Schema != 0 && data.Schema != proto.CreateRoomSchemaVersion {
			return protoError(inbound.ID, "bad_request", "unsupported create_room schema")
		}
		if data.Name == "" || data.MaxMembers <= 0 {
			return protoError(inbound.ID, "bad_request", "name and positive max_members are required")
		}

		reply := h.lobby.CreateRoom(client, core.RoomSpec{
			Name:       data.Name,
			Password:   data.Password,
			MaxMembers: data.MaxMembers,
		})
		return &proto.Outbound{
			Type: proto.OutboundTypeResult,
			ID:   inbound.ID,
			Data: proto.CreateRoomResult{Ok: reply.Ok, RoomID: reply.RoomID.String()},
		}

	case proto.InboundTypeJoinRoom:
		var data proto.JoinRoomData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return protoError(inbound.ID, "bad_request", "malformed join_room payload")
		}
		roomID, err := uuid.Parse(data.RoomID)
		if err != nil {
			return protoError(inbound.ID, "bad_request", "malformed room id")
		}

		reply := h.lobby.JoinRoom(ctx, client, roomID, data.Password)
		result := proto.JoinRoomResult{Status: reply.Result.Code()}
		if reply.Room != nil {
			members := make([]string, 0, len(reply.Room.Members))
			for _, id := range reply.Room.Members {
				members = append(members, id.String())
			}
			result.Room = &proto.RoomInfo{
				RoomID:  reply.Room.ID.String(),
				Name:    reply.Room.Name,
				OwnerID: reply.Room.OwnerID.String(),
				Members: members,
			}
		}
		return &proto.Outbound{Type: proto.OutboundTypeResult, ID: inbound.ID, Data: result}

	case proto.InboundTypeLeaveRoom:
		ok := h.lobby.LeaveRoom(client)
		return &proto.Outbound{
			Type: proto.OutboundTypeResult,
			ID:   inbound.ID,
			Data: proto.LeaveRoomResult{Ok: ok},
		}

	case proto.InboundTypeChat:
		var data proto.ChatData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return protoError(inbound.ID, "bad_request", "malformed chat payload")
		}
		if data.Text == "" {
			return protoError(inbound.ID, "bad_request", "text is required")
		}
		h.lobby.SendChat(ctx, client, core.Message{Text: data.Text, CreatedAt: time.Now()})
		return nil

	case proto.InboundTypeStartRoom:
		h.lobby.StartRoom(client)
		return nil

	case proto.InboundTypeRemoveRoom:
		h.lobby.RemoveRoom(client)
		return nil

	case proto.InboundTypeRoomList:
		rooms := h.lobby.RoomList()
		result := proto.RoomListResult{Rooms: make([]proto.RoomSummary, 0, len(rooms))}
		for _, r := range rooms {
			result.Rooms = append(result.Rooms, proto.RoomSummary{
				RoomID:          r.ID.String(),
				Name:            r.Name,
				MaxMembers:      r.MaxMembers,
				MemberCount:     r.MemberCount,
				PasswordEnabled: r.PasswordEnabled,
			})
		}
		return &proto.Outbound{Type: proto.OutboundTypeResult, ID: inbound.ID, Data: result}

	default:
		return protoError(inbound.ID, "invalid_message", "unknown message type")
	}
}

func protoError(id, code, msg string) *proto.Outbound {
	return &proto.Outbound{
		Type:  proto.OutboundTypeError,
		ID:    id,
		Error: &proto.Error{Code: code, Msg: msg},
	}
}

// outboundFromEvent maps a core event to its wire form.
func outboundFromEvent(ev *core.Event) proto.Outbound {
	out := proto.Outbound{Type: proto.OutboundTypeEvent}

	switch ev.Kind {
	case core.EventRoomAnnounced:
		out.Event = proto.EventRoomAnnounced
		out.Data = proto.RoomAnnouncedData{
			RoomID:          ev.Announce.RoomID.String(),
			OwnerID:         ev.Announce.OwnerID.String(),
			Name:            ev.Announce.Name,
			MaxMembers:      ev.Announce.MaxMembers,
			MemberCount:     ev.Announce.MemberCount,
			PasswordEnabled: ev.Announce.PasswordEnabled,
		}
	case core.EventRoomTitleChanged:
		out.Event = proto.EventRoomTitleChanged
		out.Data = proto.RoomTitleChangedData{
			RoomID:      ev.Title.RoomID.String(),
			MaxMembers:  ev.Title.MaxMembers,
			MemberCount: ev.Title.MemberCount,
		}
	case core.EventMemberJoined:
		out.Event = proto.EventMemberJoined
		out.Data = proto.MemberData{RoomID: ev.RoomID.String(), UserID: ev.UserID.String()}
	case core.EventMemberLeft:
		out.Event = proto.EventMemberLeft
		out.Data = proto.MemberData{RoomID: ev.RoomID.String(), UserID: ev.UserID.String()}
	case core.EventChatMessage:
		out.Event = proto.EventChat
		out.Data = proto.ChatEventData{
			RoomID: ev.Message.RoomID.String(),
			From:   ev.Message.From.String(),
			Text:   ev.Message.Text,
			TS:     ev.Message.CreatedAt.Unix(),
		}
	case core.EventHistory:
		msgs := make([]proto.ChatEventData, 0, len(ev.Messages))
		for _, m := range ev.Messages {
			msgs = append(msgs, proto.ChatEventData{
				RoomID: m.RoomID.String(),
				From:   m.From.String(),
				Text:   m.Text,
				TS:     m.CreatedAt.Unix(),
			})
		}
		out.Event = proto.EventHistory
		out.Data = proto.HistoryData{RoomID: ev.RoomID.String(), Messages: msgs}
	case core.EventRoomStarted:
		out.Event = proto.EventRoomStarted
		out.Data = proto.RoomStartedData{
			RoomID:         ev.Started.RoomID.String(),
			Identity:       ev.Started.Identity.String(),
			BridgeIdentity: ev.Started.BridgeIdentity,
			Endpoints:      ev.Started.Endpoints,
			MemberCount:    ev.Started.MemberCount,
		}
	case core.EventRoomRemoved:
		out.Event = proto.EventRoomRemoved
		out.Data = proto.RoomRemovedData{RoomID: ev.RoomID.String()}
	}

	return out
}
