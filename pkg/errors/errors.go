package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突
// 工时条目与审批记录均带 version 列，更新时做 CAS；
// RowsAffected 为 0 说明记录已被并发修改或删除
var ErrOptimisticLock = errors.New("记录已被其他操作修改，请刷新后重试")
