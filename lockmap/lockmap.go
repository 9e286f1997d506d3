// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lockmap

import "sync"

type holderLock struct {
	holders int
	mu      sync.RWMutex
}

// Lockmap hands out one lock per key. Entries are created on first use and
// dropped once the last holder releases them.
type Lockmap[K comparable] struct {
	l sync.Mutex
	m map[K]*holderLock
}

func New[K comparable](initSize int) *Lockmap[K] {
	return &Lockmap[K]{
		m: make(map[K]*holderLock, initSize),
	}
}

func (l *Lockmap[K]) Lock(key K) {
	l.acquire(key).mu.Lock()
}

func (l *Lockmap[K]) Unlock(key K) {
	l.release(key).mu.Unlock()
}

func (l *Lockmap[K]) RLock(key K) {
	l.acquire(key).mu.RLock()
}

func (l *Lockmap[K]) RUnlock(key K) {
	l.release(key).mu.RUnlock()
}

func (l *Lockmap[K]) acquire(key K) *holderLock {
	l.l.Lock()
	defer l.l.Unlock()

	hl, ok := l.m[key]
	if !ok {
		hl = &holderLock{}
		l.m[key] = hl
	}
	hl.holders++
	return hl
}

func (l *Lockmap[K]) release(key K) *holderLock {
	l.l.Lock()
	defer l.l.Unlock()

	hl, ok := l.m[key]
	if !ok {
		panic("lockmap: unlock of unlocked key")
	}
	hl.holders--
	if hl.holders == 0 {
		delete(l.m, key)
	}
	return hl
}

// Locks returns the number of keys currently held or waited on.
func (l *Lockmap[K]) Locks() int {
	l.l.Lock()
	defer l.l.Unlock()

	return len(l.m)
}
