package response

import "net/http"

// 对外文案（与原有客户端约定一致）
const (
	MsgNotFound           = "Restaurant not found"
	MsgDuplicate          = "Restaurant with the same Email, Commercial_Num or Phone already exists"
	MsgDeleted            = "Restaurant deleted successfully"
	MsgServerError        = "Server Error"
	MsgInvalidCredentials = "Invalid email or password"
	MsgLoginOK            = "Login successful"
	MsgLoginServerError   = "Server error"

	MsgNoToken        = "No token provided, authorization denied"
	MsgMalformedToken = "Token is malformed"
	MsgInvalidToken   = "Token is not valid"
	MsgBodyTooLarge   = "Request body too large"
)

// CodeMsgMap 状态码默认文案
var CodeMsgMap = map[int]string{
	http.StatusBadRequest:            "Bad Request",
	http.StatusUnauthorized:          "Unauthorized",
	http.StatusNotFound:              "Not Found",
	http.StatusRequestEntityTooLarge: MsgBodyTooLarge,
	http.StatusInternalServerError:   MsgServerError,
}
