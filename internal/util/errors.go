package util

import "errors"

// 错误文案是对外API契约的一部分，前端按原文匹配展示
var (
	ErrUserExists         = errors.New("User already exists")
	ErrInvalidCredentials = errors.New("Invalid credentials")
)
