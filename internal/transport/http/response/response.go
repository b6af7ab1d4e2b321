package response

import "github.com/gin-gonic/gin"

// Msg 普通错误体 {"msg": ...}
func Msg(msg string) gin.H { return gin.H{"msg": msg} }

// Message 登录接口使用 {"message": ...}
func Message(msg string) gin.H { return gin.H{"message": msg} }

// Errors 校验错误列表 {"errors": [...]}
func Errors(errs any) gin.H { return gin.H{"errors": errs} }

// Error 按状态码取默认文案，customMsg 非空时覆盖
func Error(code int, customMsg string) gin.H {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return Msg(msg)
}
