package service

import "errors"

// 稳定的领域错误，handler 用 errors.Is 映射到 HTTP 状态码。
// 唯一索引上的并发冲突在仓储层收敛成一致结果，不属于这套错误
var (
	ErrNotFound     = errors.New("not found")
	ErrNotMember    = errors.New("not a member of this club")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidParam = errors.New("invalid param")
)
