package campaignapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/beka-birhanu/vinom-campaign/api/middleware"
	dmn "github.com/beka-birhanu/vinom-campaign/domain"
	"github.com/beka-birhanu/vinom-campaign/game"
	"github.com/beka-birhanu/vinom-campaign/maze"
	"github.com/beka-birhanu/vinom-campaign/service"
	"github.com/beka-birhanu/vinom-campaign/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultLeaderboardLimit = 10

// CampaignController exposes campaign sessions over HTTP.
type CampaignController struct {
	campaigns i.CampaignService
	logger    i.Logger
}

// NewCampaignController initializes a CampaignController.
func NewCampaignController(cs i.CampaignService, logger i.Logger) (*CampaignController, error) {
	if cs == nil || logger == nil {
		return nil, service.ErrMissingDependency
	}
	return &CampaignController{
		campaigns: cs,
		logger:    logger,
	}, nil
}

// RegisterPublic registers public routes.
func (cc *CampaignController) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/leaderboard", cc.leaderboard)
}

// RegisterProtected registers routes that need a token. Opening a session
// takes a player token; everything under a session takes its session token.
func (cc *CampaignController) RegisterProtected(route *gin.RouterGroup) {
	route.POST("/campaign", cc.start)

	session := route.Group("/campaign/:ID")
	session.Use(middleware.RequireSession("ID"))
	{
		session.GET("", cc.state)
		session.POST("/tick", cc.tick)
		session.POST("/move", cc.move)
		session.GET("/focus", cc.focus)
		session.GET("/cells", cc.cells)
		session.POST("/reset", cc.reset)
		session.POST("/advance", cc.advance)
		session.POST("/reseed", cc.reseed)
		session.DELETE("", cc.end)
		session.GET("/stream", cc.stream)
	}
}

// start opens a session for the player named by the token. The body is
// optional.
func (cc *CampaignController) start(ctx *gin.Context) {
	claim, ok := middleware.Claim(ctx, "player_id")
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "a player token is required"})
		return
	}
	playerID, err := uuid.Parse(claim)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "invalid player id"})
		return
	}

	var request StartRequest
	if err := ctx.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, token, err := cc.campaigns.Start(ctx.Request.Context(), playerID, game.Mode(request.Mode), request.Level, request.Seed)
	if err != nil {
		cc.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, &StartResponse{Session: state, Token: token})
}

func (cc *CampaignController) state(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}
	cc.respond(ctx, func() (game.State, error) {
		return cc.campaigns.State(ctx.Request.Context(), id)
	})
}

func (cc *CampaignController) tick(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}

	var request TickRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cc.respond(ctx, func() (game.State, error) {
		return cc.campaigns.Tick(ctx.Request.Context(), id, *request.X, *request.Y)
	})
}

func (cc *CampaignController) move(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}

	var request MoveRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cc.respond(ctx, func() (game.State, error) {
		return cc.campaigns.Move(ctx.Request.Context(), id, request.DX, request.DY, request.Radius)
	})
}

func (cc *CampaignController) focus(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}

	focus, err := cc.campaigns.Focus(ctx.Request.Context(), id)
	if err != nil {
		cc.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, focus)
}

func (cc *CampaignController) cells(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}

	var query ViewportQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewport := maze.Viewport{X: query.X, Y: query.Y, Width: query.Width, Height: query.Height}
	cells, err := cc.campaigns.Cells(ctx.Request.Context(), id, viewport)
	if err != nil {
		cc.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, &CellsResponse{Cells: cells})
}

func (cc *CampaignController) reset(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}
	cc.respond(ctx, func() (game.State, error) {
		return cc.campaigns.Reset(ctx.Request.Context(), id)
	})
}

func (cc *CampaignController) advance(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}

	var request SeedRequest
	if err := ctx.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cc.respond(ctx, func() (game.State, error) {
		return cc.campaigns.Advance(ctx.Request.Context(), id, request.Seed)
	})
}

func (cc *CampaignController) reseed(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}

	var request SeedRequest
	if err := ctx.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cc.respond(ctx, func() (game.State, error) {
		return cc.campaigns.Reseed(ctx.Request.Context(), id, request.Seed)
	})
}

func (cc *CampaignController) end(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}

	if err := cc.campaigns.End(ctx.Request.Context(), id); err != nil {
		cc.fail(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (cc *CampaignController) leaderboard(ctx *gin.Context) {
	var query LeaderboardQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if query.Limit == 0 {
		query.Limit = defaultLeaderboardLimit
	}

	standings, err := cc.campaigns.Leaderboard(ctx.Request.Context(), query.Limit)
	if err != nil {
		cc.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, &LeaderboardResponse{Standings: standings})
}

// respond writes the state returned by fn, or the error it failed with.
func (cc *CampaignController) respond(ctx *gin.Context, fn func() (game.State, error)) {
	state, err := fn()
	if err != nil {
		cc.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// fail maps service errors to statuses. Unknown errors are logged and hidden.
func (cc *CampaignController) fail(ctx *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		cc.logger.Error(err.Error())
		ctx.JSON(status, gin.H{"error": "internal error"})
		return
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotWon), errors.Is(err, game.ErrCampaignWon):
		return http.StatusConflict
	case errors.Is(err, game.ErrInvalidPlayerPosition),
		errors.Is(err, game.ErrMoveTooFar),
		errors.Is(err, game.ErrInvalidRadius),
		errors.Is(err, service.ErrInvalidMode),
		errors.Is(err, dmn.ErrInvalidLevel):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrBlockedMove):
		return http.StatusUnprocessableEntity
	case errors.Is(err, dmn.ErrLevelLocked):
		return http.StatusForbidden
	case errors.Is(err, dmn.ErrMissingPlayer):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func sessionID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return uuid.Nil, false
	}
	return id, true
}
