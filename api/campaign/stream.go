package campaignapi

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/beka-birhanu/vinom-campaign/game"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const maxFrameSize = 1024

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

var errUnknownFrame = errors.New("unknown frame type")

// stream upgrades to a websocket and answers every frame with the session
// state, so a client can report positions without a request per tick.
func (cc *CampaignController) stream(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}

	// Fail before upgrading so the client gets a plain status.
	if _, err := cc.campaigns.State(ctx.Request.Context(), id); err != nil {
		cc.fail(ctx, err)
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		cc.logger.Warning(fmt.Sprintf("upgrading stream of session %s: %s", id, err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxFrameSize)

	reqCtx := ctx.Request.Context()
	for {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				cc.logger.Warning(fmt.Sprintf("reading stream of session %s: %s", id, err))
			}
			return
		}

		reply := cc.handleFrame(reqCtx, id, frame)
		if err := conn.WriteJSON(reply); err != nil {
			cc.logger.Warning(fmt.Sprintf("writing stream of session %s: %s", id, err))
			return
		}
	}
}

func (cc *CampaignController) handleFrame(ctx context.Context, id uuid.UUID, frame Frame) FrameReply {
	reply := FrameReply{Type: frame.Type}

	var (
		state game.State
		err   error
	)
	switch frame.Type {
	case "tick":
		state, err = cc.campaigns.Tick(ctx, id, frame.X, frame.Y)
	case "move":
		if frame.Radius <= 0 || math.IsNaN(frame.Radius) || math.IsInf(frame.Radius, 0) {
			reply.Error = game.ErrInvalidRadius.Error()
			return reply
		}
		state, err = cc.campaigns.Move(ctx, id, frame.DX, frame.DY, frame.Radius)
	case "state":
		state, err = cc.campaigns.State(ctx, id)
	case "focus":
		focus, err := cc.campaigns.Focus(ctx, id)
		if err != nil {
			reply.Error = err.Error()
			return reply
		}
		reply.Focus = &focus
		return reply
	default:
		err = errUnknownFrame
	}

	if err != nil {
		reply.Error = err.Error()
		return reply
	}
	reply.State = &state
	return reply
}
