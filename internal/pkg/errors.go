package pkg

import "errors"

type Kind int

const (
	KindInvalid Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error 业务错误，Message 直接返回给客户端
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Invalid(msg string) *Error   { return NewError(KindInvalid, msg) }
func Forbidden(msg string) *Error { return NewError(KindForbidden, msg) }
func NotFound(msg string) *Error  { return NewError(KindNotFound, msg) }
func Conflict(msg string) *Error  { return NewError(KindConflict, msg) }

// KindOf 非业务错误返回 0
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

var (
	ErrUnauthorized = NewError(KindUnauthorized, "Unauthorized")
	ErrForbidden    = Forbidden("Insufficient permissions")

	ErrUserNotFound         = NotFound("User not found")
	ErrCommunityNotFound    = NotFound("Community not found")
	ErrMembershipNotFound   = NotFound("Membership not found")
	ErrPostNotFound         = NotFound("Post not found")
	ErrCommentNotFound      = NotFound("Comment not found")
	ErrEventNotFound        = NotFound("Event not found")
	ErrNotificationNotFound = NotFound("Notification not found")

	ErrAlreadyMember     = Conflict("Already a member of this community")
	ErrAlreadyLiked      = Conflict("Post already liked")
	ErrLeadCannotLeave   = Conflict("Community lead cannot leave the community")
	ErrLeadRoleLocked    = Conflict("Appoint a new lead before changing the lead's role")
	ErrInvalidRole       = Invalid("Invalid role")
	ErrInvalidRSVP       = Invalid("Invalid RSVP status")
	ErrInvalidRecurrence = Invalid("Invalid recurrence rule")
)

// 会话存储（redis 或数据库）共用
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrStoreUnavailable = errors.New("session store unavailable")
)
