package service

import (
	"errors"
	"fmt"
)

// ErrBudgetNotFound 指定周期不存在预算
var ErrBudgetNotFound = errors.New("budget period not found")

// ErrDuplicateCategory 同一预算下 (category, type, sub_category) 重复
var ErrDuplicateCategory = errors.New("budget category already exists")

// ValidationError 参数缺失或非法
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StorageError 数据库访问失败，整个对账操作回滚
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("reconcile %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// wrapStorage 将非业务错误包装为 StorageError
func wrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	var se *StorageError
	if errors.Is(err, ErrBudgetNotFound) || errors.As(err, &ve) || errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
