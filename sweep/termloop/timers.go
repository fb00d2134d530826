package termloop

import (
	"fmt"
	"slices"
	"time"

	"github.com/aslpavel/sweep-go/tools/utils"
)

type timer struct {
	interval time.Duration
	deadline time.Time
	repeats  bool
	id       IdType
	callback TimerCallback
}

func (t *timer) update_deadline(now time.Time) {
	t.deadline = now.Add(t.interval)
}

func (t timer) String() string {
	return fmt.Sprintf("Timer(id=%d, callback=%s, deadline=%s, repeats=%v)", t.id, utils.FunctionName(t.callback), time.Until(t.deadline), t.repeats)
}

func (l *Loop) add_timer(interval time.Duration, repeats bool, callback TimerCallback) (IdType, error) {
	if l.timers == nil {
		return 0, fmt.Errorf("cannot add timers before the loop is running, add them in OnInitialize instead")
	}
	l.timer_id_counter++
	t := timer{interval: interval, repeats: repeats, callback: callback, id: l.timer_id_counter}
	t.update_deadline(time.Now())
	l.timers = append(l.timers, &t)
	l.sort_timers()
	return t.id, nil
}

func (l *Loop) remove_timer(id IdType) bool {
	for i := range l.timers {
		if l.timers[i].id == id {
			l.timers = append(l.timers[:i], l.timers[i+1:]...)
			return true
		}
	}
	return false
}

func (l *Loop) dispatch_timers(now time.Time) error {
	l.timers_temp = l.timers_temp[:0]
	l.timers, l.timers_temp = l.timers_temp, l.timers
	dispatched := false
	for _, t := range l.timers_temp {
		if now.After(t.deadline) {
			dispatched = true
			if err := t.callback(t.id); err != nil {
				return err
			}
			if t.repeats {
				t.update_deadline(now)
				l.timers = append(l.timers, t)
			}
		} else {
			l.timers = append(l.timers, t)
		}
	}
	if dispatched {
		l.sort_timers()
	}
	return nil
}

func (l *Loop) sort_timers() {
	slices.SortStableFunc(l.timers, func(a, b *timer) int { return a.deadline.Compare(b.deadline) })
}
