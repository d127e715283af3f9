// Package proxy implements the proxy table, rotator, and SOCKS5 dialer the
// SMTP and HTTP probing layers tunnel through.
package proxy

import (
	"fmt"
	"math/rand"
	"sync/atomic"
)

// Descriptor is one named proxy entry from the input's proxy table.
type Descriptor struct {
	Host      string
	Port      int
	Username  string
	Password  string
	TimeoutMs int
}

// Table maps a proxy-id to its descriptor, as supplied in the verification
// input.
type Table map[string]Descriptor

// Strategy selects how a Rotator picks the next proxy id.
type Strategy int

const (
	RoundRobin Strategy = iota
	Random
)

// Rotator cycles through an ordered set of proxy ids. Safe for concurrent
// use: RoundRobin advances via an atomic counter, Random draws from
// math/rand which is itself safe for concurrent use since Go 1.20's
// auto-seeded global source.
//
// Shared across calls to check_email at the service layer; its rotation
// counter is process-lifetime, per the proxy layer's lifecycle contract.
type Rotator struct {
	ids      []string
	counter  uint64
	strategy Strategy
}

// NewRotator builds a Rotator over ids using strategy. A nil/empty ids slice
// is valid; Next always returns false for it.
func NewRotator(ids []string, strategy Strategy) *Rotator {
	cp := make([]string, len(ids))
	copy(cp, ids)
	return &Rotator{ids: cp, strategy: strategy}
}

// Next returns the next proxy id per the configured strategy, or false if
// the rotator has no ids.
func (r *Rotator) Next() (string, bool) {
	if r == nil || len(r.ids) == 0 {
		return "", false
	}
	switch r.strategy {
	case Random:
		return r.ids[rand.Intn(len(r.ids))], true
	default: // RoundRobin
		n := atomic.AddUint64(&r.counter, 1)
		return r.ids[(n-1)%uint64(len(r.ids))], true
	}
}

// Len reports how many proxy ids the rotator cycles through.
func (r *Rotator) Len() int {
	if r == nil {
		return 0
	}
	return len(r.ids)
}

// Resolve looks up id in table, formatted for error messages on miss.
func Resolve(table Table, id string) (Descriptor, error) {
	d, ok := table[id]
	if !ok {
		return Descriptor{}, fmt.Errorf("proxy id %q not found in proxy table", id)
	}
	return d, nil
}
