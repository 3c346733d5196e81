package db

import (
	"context"
	"errors"
	"log"
	"sync"
)

// ErrNoDialer 表示 Connector 未配置打开函数。
var ErrNoDialer = errors.New("connector has no dialer")

// Dialer 负责建立、探活与关闭一个底层连接。
type Dialer[T any] struct {
	Name  string
	Open  func(ctx context.Context) (T, error)
	Ping  func(ctx context.Context, conn T) error
	Close func(ctx context.Context, conn T) error
}

type pendingDial[T any] struct {
	done chan struct{}
	conn T
	err  error
}

// Connector 持有进程级共享的数据库连接句柄。
//
// Acquire 在缓存连接健康时直接复用；若有连接正在建立，则等待其完成而不是重复建立；
// 缓存连接探活失败时先关闭再重连。建立失败会清空进行中的状态，下次调用重新尝试。
// Release 关闭缓存连接，可重复调用。
type Connector[T any] struct {
	dialer Dialer[T]

	mu      sync.Mutex
	conn    T
	ready   bool
	gen     uint64
	pending *pendingDial[T]
}

// NewConnector 构造一个尚未建立连接的 Connector，首次 Acquire 时才会真正连接。
func NewConnector[T any](dialer Dialer[T]) *Connector[T] {
	if dialer.Name == "" {
		dialer.Name = "database"
	}
	return &Connector[T]{dialer: dialer}
}

// Acquire 返回一个可用的连接句柄。
func (c *Connector[T]) Acquire(ctx context.Context) (T, error) {
	var zero T
	if c.dialer.Open == nil {
		return zero, ErrNoDialer
	}

	for {
		c.mu.Lock()

		if c.ready {
			conn, gen := c.conn, c.gen
			c.mu.Unlock()

			if c.dialer.Ping == nil {
				return conn, nil
			}
			pingErr := c.dialer.Ping(ctx, conn)
			if pingErr == nil {
				return conn, nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return zero, ctxErr
			}

			log.Printf("[DB] %s connection is unhealthy, reconnecting: %v", c.dialer.Name, pingErr)
			c.mu.Lock()
			if c.ready && c.gen == gen {
				c.conn = zero
				c.ready = false
				c.gen++
				c.mu.Unlock()
				c.closeQuietly(ctx, conn)
			} else {
				c.mu.Unlock()
			}
			continue
		}

		if pending := c.pending; pending != nil {
			c.mu.Unlock()
			select {
			case <-pending.done:
			case <-ctx.Done():
				return zero, ctx.Err()
			}
			if pending.err != nil {
				return zero, pending.err
			}
			return pending.conn, nil
		}

		pending := &pendingDial[T]{done: make(chan struct{})}
		c.pending = pending
		c.mu.Unlock()

		conn, err := c.dialer.Open(ctx)

		c.mu.Lock()
		c.pending = nil
		if err == nil {
			c.conn = conn
			c.ready = true
			c.gen++
		}
		pending.conn, pending.err = conn, err
		close(pending.done)
		c.mu.Unlock()

		if err != nil {
			log.Printf("[DB] %s connection failed: %v", c.dialer.Name, err)
			return zero, err
		}
		log.Printf("[DB] connected to %s", c.dialer.Name)
		return conn, nil
	}
}

// Release 关闭缓存的连接；没有连接时直接返回 nil。
// 如果有连接正在建立，会等待其结束后再关闭。
func (c *Connector[T]) Release(ctx context.Context) error {
	c.mu.Lock()
	pending := c.pending
	c.mu.Unlock()

	if pending != nil {
		select {
		case <-pending.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	c.mu.Lock()
	if !c.ready {
		c.mu.Unlock()
		return nil
	}
	var zero T
	conn := c.conn
	c.conn = zero
	c.ready = false
	c.gen++
	c.mu.Unlock()

	if c.dialer.Close == nil {
		return nil
	}
	if err := c.dialer.Close(ctx, conn); err != nil {
		return err
	}
	log.Printf("[DB] disconnected from %s", c.dialer.Name)
	return nil
}

// Connected 报告当前是否持有缓存连接。
func (c *Connector[T]) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

func (c *Connector[T]) closeQuietly(ctx context.Context, conn T) {
	if c.dialer.Close == nil {
		return
	}
	if err := c.dialer.Close(ctx, conn); err != nil {
		log.Printf("[DB] failed to close stale %s connection: %v", c.dialer.Name, err)
	}
}
