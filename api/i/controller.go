package i

import "github.com/gin-gonic/gin"

// Controller registers its routes on the public and token-protected groups.
type Controller interface {
	RegisterPublic(*gin.RouterGroup)
	RegisterProtected(*gin.RouterGroup)
}
