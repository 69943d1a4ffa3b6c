package domain

import "errors"

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindConflict
	KindForbidden
	KindUnauthorized
)

// Error 是可以直接展示给调用方的业务错误
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Code: "ValidationError", Message: msg}
}

var (
	ErrDuplicateCheckIn    = &Error{Kind: KindConflict, Code: "DuplicateCheckIn", Message: "今天已经签到过了"}
	ErrNoCheckInFound      = &Error{Kind: KindConflict, Code: "NoCheckInFound", Message: "今天没有签到记录"}
	ErrAlreadyCheckedOut   = &Error{Kind: KindConflict, Code: "AlreadyCheckedOut", Message: "今天已经签退过了"}
	ErrInvalidDateRange    = &Error{Kind: KindValidation, Code: "InvalidDateRange", Message: "结束日期不能早于开始日期"}
	ErrEmployeeNotFound    = &Error{Kind: KindNotFound, Code: "EmployeeNotFound", Message: "员工不存在"}
	ErrUserNotFound        = &Error{Kind: KindNotFound, Code: "UserNotFound", Message: "用户不存在"}
	ErrLeaveNotFound       = &Error{Kind: KindNotFound, Code: "LeaveNotFound", Message: "请假申请不存在"}
	ErrAttendanceNotFound  = &Error{Kind: KindNotFound, Code: "AttendanceNotFound", Message: "考勤记录不存在"}
	ErrLeaveAlreadyDecided = &Error{Kind: KindConflict, Code: "LeaveAlreadyDecided", Message: "请假申请已经处理过了"}
	ErrEmailExists         = &Error{Kind: KindConflict, Code: "EmailExists", Message: "邮箱已存在"}
	ErrVersionConflict     = &Error{Kind: KindConflict, Code: "VersionConflict", Message: "数据已被修改，请重试"}
	ErrForbidden           = &Error{Kind: KindForbidden, Code: "Forbidden", Message: "权限不足"}
	ErrUnauthorized        = &Error{Kind: KindUnauthorized, Code: "Unauthorized", Message: "用户未登录或令牌无效"}
	ErrInvalidCredentials  = &Error{Kind: KindUnauthorized, Code: "InvalidCredentials", Message: "邮箱不存在或密码错误"}
)

// KindOf 返回错误的类型，非业务错误返回 0
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
