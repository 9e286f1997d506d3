// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"context"
	"fmt"
	"math/big"
	"slices"
	"time"

	"github.com/neilotoole/errgroup"
	"golang.org/x/exp/maps"

	"github.com/ava-labs/intvm/counter"
	"github.com/ava-labs/intvm/intn"
)

// Counter is the view of a deployed instance the checks run against.
type Counter interface {
	Write(ctx context.Context, method string, args ...*big.Int) ([]*big.Int, error)
	ReadOne(ctx context.Context, method string) (*big.Int, error)
}

// CheckResult reports the checks run against one slot.
type CheckResult struct {
	Slot     string        `json:"slot"`
	Kind     string        `json:"kind"`
	Steps    int           `json:"steps"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
}

type slotCheck struct {
	name    string
	kind    intn.Kind
	builtin bool
}

func (s slotCheck) method(op counter.Op) string {
	sfx := fmt.Sprintf("U%d", s.kind.Bits)
	if s.kind.Signed {
		sfx = fmt.Sprintf("I%d", s.kind.Bits)
	}
	switch op {
	case counter.OpGet:
		return "get" + sfx
	case counter.OpGetBuiltin:
		return "get" + sfx + "Builtin"
	case counter.OpSet:
		return "set" + sfx
	case counter.OpSetBuiltin:
		return "set" + sfx + "Builtin"
	default:
		return "increment" + sfx
	}
}

func slotChecks(c *counter.Counter) []slotCheck {
	bySlot := make(map[uint8]*slotCheck)
	for _, m := range c.Methods() {
		s, ok := bySlot[m.Slot]
		if !ok {
			s = &slotCheck{name: m.Kind.String(), kind: m.Kind}
			bySlot[m.Slot] = s
		}
		if m.Op == counter.OpGetBuiltin {
			s.builtin = true
		}
	}
	slots := maps.Keys(bySlot)
	slices.Sort(slots)
	out := make([]slotCheck, 0, len(slots))
	for _, id := range slots {
		out = append(out, *bySlot[id])
	}
	return out
}

// RunChecks exercises every slot of the instance behind [newCounter]. Each
// slot gets its own [Counter] so the checks can run in parallel. A failed
// check does not stop the others; its error is recorded in the result.
func RunChecks(
	ctx context.Context,
	c *counter.Counter,
	newCounter func() (Counter, error),
	parallelism int,
) ([]*CheckResult, error) {
	checks := slotChecks(c)
	results := make([]*CheckResult, len(checks))
	g, gctx := errgroup.WithContextN(ctx, parallelism, len(checks))
	for i, s := range checks {
		i, s := i, s
		g.Go(func() error {
			cnt, err := newCounter()
			if err != nil {
				return err
			}
			start := time.Now()
			steps, err := runSlotCheck(gctx, cnt, s)
			r := &CheckResult{
				Slot:     s.name,
				Kind:     s.kind.String(),
				Steps:    steps,
				Duration: time.Since(start),
				Err:      err,
			}
			if err != nil {
				r.Error = err.Error()
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

type stepper struct {
	ctx   context.Context
	c     Counter
	steps int
}

func (s *stepper) write(method string, args ...*big.Int) error {
	s.steps++
	if _, err := s.c.Write(s.ctx, method, args...); err != nil {
		return fmt.Errorf("step %d: %s: %w", s.steps, method, err)
	}
	return nil
}

func (s *stepper) expect(method string, want *big.Int) error {
	s.steps++
	got, err := s.c.ReadOne(s.ctx, method)
	if err != nil {
		return fmt.Errorf("step %d: %s: %w", s.steps, method, err)
	}
	if got.Cmp(want) != 0 {
		return fmt.Errorf("step %d: %s: expected %s, got %s", s.steps, method, want, got)
	}
	return nil
}

// runSlotCheck plays the reference sequence against one slot: set 10 and
// read it back, set 100 and read it through the builtin accessor when there
// is one, increment and read again. It then checks wraparound at the
// maximum and, for signed slots, the minimum.
func runSlotCheck(ctx context.Context, c Counter, sc slotCheck) (int, error) {
	s := &stepper{ctx: ctx, c: c}
	get := sc.method(counter.OpGet)
	set := sc.method(counter.OpSet)
	inc := sc.method(counter.OpIncrement)

	if err := s.write(set, big.NewInt(10)); err != nil {
		return s.steps, err
	}
	if err := s.expect(get, big.NewInt(10)); err != nil {
		return s.steps, err
	}
	want := big.NewInt(11)
	if sc.builtin {
		getBuiltin := sc.method(counter.OpGetBuiltin)
		if err := s.write(set, big.NewInt(100)); err != nil {
			return s.steps, err
		}
		if err := s.expect(getBuiltin, big.NewInt(100)); err != nil {
			return s.steps, err
		}
		if err := s.write(inc); err != nil {
			return s.steps, err
		}
		if err := s.expect(getBuiltin, big.NewInt(101)); err != nil {
			return s.steps, err
		}
		if err := s.write(sc.method(counter.OpSetBuiltin), big.NewInt(10)); err != nil {
			return s.steps, err
		}
	}
	if err := s.write(inc); err != nil {
		return s.steps, err
	}
	if err := s.expect(get, want); err != nil {
		return s.steps, err
	}

	// Wraparound
	if err := s.write(set, sc.kind.Max()); err != nil {
		return s.steps, err
	}
	if err := s.write(inc); err != nil {
		return s.steps, err
	}
	if err := s.expect(get, sc.kind.Min()); err != nil {
		return s.steps, err
	}
	if sc.kind.Signed {
		if err := s.write(inc); err != nil {
			return s.steps, err
		}
		if err := s.expect(get, new(big.Int).Add(sc.kind.Min(), big.NewInt(1))); err != nil {
			return s.steps, err
		}
		if err := s.write(set, big.NewInt(-1)); err != nil {
			return s.steps, err
		}
		if err := s.write(inc); err != nil {
			return s.steps, err
		}
		if err := s.expect(get, new(big.Int)); err != nil {
			return s.steps, err
		}
	}
	return s.steps, nil
}
