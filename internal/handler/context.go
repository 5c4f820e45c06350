package handler

type ContextKey string

var (
	RoleCtxKey ContextKey = "role"
	SubCtxKey  ContextKey = "sub"
	MyInfoCtx  ContextKey = "myInfo"
	UserCtx    ContextKey = "user"
	PlayerCtx  ContextKey = "player"
	EventCtx   ContextKey = "event"
)
