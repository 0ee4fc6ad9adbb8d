package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func HandleSuccess(c *gin.Context, data any, message string) {
	requestID := getRequestID(c)
	c.JSON(http.StatusOK, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusOK,
		RequestID: requestID,
	})
}

// HandleResult 业务结果本身带失败信息时使用（登录、下单），data 总是返回
func HandleResult(c *gin.Context, status int, success bool, data any, errCode, message string) {
	c.JSON(status, &Response{
		Success:   success,
		Data:      data,
		Error:     errCode,
		Message:   message,
		Code:      status,
		RequestID: getRequestID(c),
	})
}
