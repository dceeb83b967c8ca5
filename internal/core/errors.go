package core

// JoinResult is the status code returned by Room.Join and carried in the
// join_room reply.
type JoinResult byte

const (
	JoinOk JoinResult = iota
	JoinNotFound
	JoinMaxMemberCount
	JoinInvalidPassword
)

// Wire codes for JoinResult values.
const (
	JoinCodeOk              = "ok"
	JoinCodeNotFound        = "not_found"
	JoinCodeMaxMemberCount  = "max_member_count"
	JoinCodeInvalidPassword = "invalid_password"
)

// Code returns the wire representation of the result.
func (r JoinResult) Code() string {
	switch r {
	case JoinOk:
		return JoinCodeOk
	case JoinNotFound:
		return JoinCodeNotFound
	case JoinMaxMemberCount:
		return JoinCodeMaxMemberCount
	case JoinInvalidPassword:
		return JoinCodeInvalidPassword
	default:
		return JoinCodeNotFound
	}
}
