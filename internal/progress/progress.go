// progress реализует индикатор навигации: Idle -> Running при старте
// перехода, Running -> Idle после «оседания» предыдущего маршрута.
//
// Порядок значим: завершение привязано к факту оседания ранее начатого
// перехода, а не к старту нового — иначе индикатор никогда не добегает
// до конца. Компонент чисто косметический и на корректность не влияет.
package progress

import "sync"

// State — состояние индикатора; закрытый enum.
type State int8

const (
	StateIdle State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "idle"
}

// Tracker — индикатор прогресса одной сессии.
// Нулевое значение готово к использованию.
type Tracker struct {
	mu      sync.Mutex
	state   State
	current string
	// pending — количество начатых и ещё не осевших переходов.
	pending int
}

// Start переводит индикатор в Running на каждом переходе по маршруту.
func (t *Tracker) Start(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = StateRunning
	t.current = path
	t.pending++
}

// Settle отмечает оседание ранее начатого перехода. Индикатор гаснет
// только когда осели все начатые переходы; Settle без Start — no-op.
func (t *Tracker) Settle() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pending == 0 {
		return
	}

	t.pending--
	if t.pending == 0 {
		t.state = StateIdle
	}
}

// State возвращает текущее состояние индикатора.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state
}

// Current возвращает путь последнего начатого перехода.
func (t *Tracker) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.current
}
