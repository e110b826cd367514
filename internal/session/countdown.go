package session

import (
	"sync"
	"time"
)

// Countdown 以一秒为步长倒数到零。准备阶段和答题阶段共用同一个实例，
// 两个阶段在时间上互斥，Start 会先取消上一轮
type Countdown interface {
	// Start 从 seconds 开始倒数，每秒回调 onTick(剩余秒数)，到零回调 onExpire。
	// 回调由实现方的单个 goroutine 依次触发
	Start(seconds int, onTick func(remaining int), onExpire func())
	Stop()
}

// TickerCountdown 基于 time.Ticker 的运行时实现
type TickerCountdown struct {
	mu     sync.Mutex
	cancel chan struct{}
}

func NewTickerCountdown() *TickerCountdown {
	return &TickerCountdown{}
}

func (c *TickerCountdown) Start(seconds int, onTick func(remaining int), onExpire func()) {
	c.Stop()

	c.mu.Lock()
	cancel := make(chan struct{})
	c.cancel = cancel
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		remaining := seconds
		for {
			select {
			case <-cancel:
				return
			case <-ticker.C:
				remaining--
				if remaining > 0 {
					onTick(remaining)
					continue
				}
				onTick(0)
				onExpire()
				return
			}
		}
	}()
}

func (c *TickerCountdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		close(c.cancel)
		c.cancel = nil
	}
}

// ManualCountdown 手动驱动的实现，测试和无头宿主用它从自己的循环里发tick
type ManualCountdown struct {
	mu        sync.Mutex
	remaining int
	active    bool
	onTick    func(remaining int)
	onExpire  func()
}

func NewManualCountdown() *ManualCountdown {
	return &ManualCountdown{}
}

func (c *ManualCountdown) Start(seconds int, onTick func(remaining int), onExpire func()) {
	c.mu.Lock()
	c.remaining = seconds
	c.active = true
	c.onTick = onTick
	c.onExpire = onExpire
	c.mu.Unlock()
}

func (c *ManualCountdown) Stop() {
	c.mu.Lock()
	c.active = false
	c.mu.Unlock()
}

// Advance 同步递送 n 个tick，归零时触发到期回调
func (c *ManualCountdown) Advance(n int) {
	for i := 0; i < n; i++ {
		c.mu.Lock()
		if !c.active {
			c.mu.Unlock()
			return
		}
		c.remaining--
		remaining := c.remaining
		onTick := c.onTick
		onExpire := c.onExpire
		if remaining <= 0 {
			c.active = false
		}
		c.mu.Unlock()

		if remaining > 0 {
			onTick(remaining)
			continue
		}
		onTick(0)
		onExpire()
		return
	}
}

func (c *ManualCountdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

func (c *ManualCountdown) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}
