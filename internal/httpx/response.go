package httpx

import "github.com/gin-gonic/gin"

const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func OK(ctx *gin.Context, code int, message string, data any) {
	ctx.JSON(code, Response{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

func Fail(ctx *gin.Context, code int, message string) {
	ctx.JSON(code, Response{
		Status:  StatusError,
		Message: message,
	})
}

// Abort writes an error envelope and stops the handler chain. Used by
// middleware; plain handlers use Fail.
func Abort(ctx *gin.Context, code int, message string) {
	ctx.AbortWithStatusJSON(code, Response{
		Status:  StatusError,
		Message: message,
	})
}
