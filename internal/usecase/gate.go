package usecase

import "sync"

// bookingGate 日付キーごとに予約処理を直列化するゲート
type bookingGate struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newBookingGate() *bookingGate {
	return &bookingGate{
		locks: make(map[string]*sync.Mutex),
	}
}

// lock 指定キーのミューテックスを取得してロックし、解除関数を返す
func (g *bookingGate) lock(key string) func() {
	g.mu.Lock()
	m, ok := g.locks[key]
	if !ok {
		m = &sync.Mutex{}
		g.locks[key] = m
	}
	g.mu.Unlock()

	m.Lock()
	return m.Unlock
}
