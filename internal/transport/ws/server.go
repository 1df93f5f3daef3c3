package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"blackledger.io/internal/engine"
	"blackledger.io/internal/protocol"
)

// Server is the command gateway. It validates envelopes against the command
// schema and forwards them to the dispatcher. It knows nothing about roles,
// channels or rendering; the authorization verdict arrives on the envelope.
type Server struct {
	engine *engine.Engine
	log    *log.Logger
	schema *jsonschema.Schema

	upgrader websocket.Upgrader
}

func NewServer(e *engine.Engine, schemaPath string, logger *log.Logger) (*Server, error) {
	schema, err := jsonschema.Compile(schemaPath)
	if err != nil {
		return nil, err
	}
	s := &Server{
		engine: e,
		log:    logger,
		schema: schema,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
	return s, nil
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		out := make(chan protocol.ResultMsg, 16)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case res, ok := <-out:
					if !ok {
						return
					}
					b, err := json.Marshal(res)
					if err != nil {
						continue
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				return
			}
			res, drop := s.handle(msg)
			if drop {
				continue
			}
			select {
			case out <- res:
			case <-ctx.Done():
				return
			}
		}
	}
}

// handle turns one raw frame into a result. Frames that are not command
// envelopes at all are dropped rather than answered.
func (s *Server) handle(msg []byte) (protocol.ResultMsg, bool) {
	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeCommand {
		return protocol.ResultMsg{}, true
	}

	var cmd protocol.CommandMsg
	if err := json.Unmarshal(msg, &cmd); err != nil {
		return badRequest(""), false
	}
	if cmd.ProtocolVersion != protocol.Version {
		return badRequest(cmd.CmdID), false
	}

	var v any
	if err := json.Unmarshal(msg, &v); err != nil {
		return badRequest(cmd.CmdID), false
	}
	if err := s.schema.Validate(v); err != nil {
		return badRequest(cmd.CmdID), false
	}

	res := s.engine.Dispatch(engine.Command{
		ActorID:    cmd.ActorID,
		Authorized: cmd.Authorized,
		Kind:       cmd.Kind,
		Amount:     cmd.Payload.Amount,
		Commodity:  cmd.Payload.Commodity,
		Item:       cmd.Payload.Item,
		Qty:        cmd.Payload.Qty,
	})

	return protocol.ResultMsg{
		Type:    protocol.TypeResult,
		CmdID:   cmd.CmdID,
		OK:      res.OK,
		Error:   res.Err,
		Value:   res.Value,
		Summary: res.Summary,
	}, false
}

func badRequest(cmdID string) protocol.ResultMsg {
	return protocol.ResultMsg{
		Type:  protocol.TypeResult,
		CmdID: cmdID,
		Error: protocol.ErrProtoBadRequest,
	}
}
