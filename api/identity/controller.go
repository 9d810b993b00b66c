package identity

import (
	"errors"
	"net/http"

	dmn "github.com/beka-birhanu/vinom-campaign/domain"
	"github.com/beka-birhanu/vinom-campaign/service"
	"github.com/beka-birhanu/vinom-campaign/service/i"
	"github.com/gin-gonic/gin"
)

// IdentityServer handles HTTP requests related to authentication.
type IdentityServer struct {
	authService i.Authenticator
	logger      i.Logger
}

// NewIdentityServer creates a new IdentityServer.
func NewIdentityServer(a i.Authenticator, logger i.Logger) (*IdentityServer, error) {
	if a == nil || logger == nil {
		return nil, service.ErrMissingDependency
	}
	return &IdentityServer{
		authService: a,
		logger:      logger,
	}, nil
}

// RegisterPublic registers public routes.
func (c *IdentityServer) RegisterPublic(route *gin.RouterGroup) {
	auth := route.Group("/auth")
	{
		auth.POST("/register", c.registerUser)
		auth.POST("/login", c.login)
	}
}

// RegisterProtected registers privileged routes.
func (c *IdentityServer) RegisterProtected(route *gin.RouterGroup) {
}

// registerUser handles user registration.
func (c *IdentityServer) registerUser(ctx *gin.Context) {
	var request AuthRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.authService.Register(ctx.Request.Context(), request.Username, request.Password); err != nil {
		c.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// login handles user login.
func (c *IdentityServer) login(ctx *gin.Context) {
	var request AuthRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := c.authService.SignIn(ctx.Request.Context(), request.Username, request.Password)
	if err != nil {
		c.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, &AuthResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Token:    token,
	})
}

func (c *IdentityServer) fail(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, dmn.ErrUsernameTooShort), errors.Is(err, dmn.ErrUsernameTooLong),
		errors.Is(err, dmn.ErrInvalidUsername), errors.Is(err, dmn.ErrWeakPassword):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, i.ErrUsernameTaken):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrBadCredentials):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.logger.Error(err.Error())
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
