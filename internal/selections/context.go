// Package selections is for internal use to share the look-ahead of the field being
// resolved between the execution engine and the public graphql package without
// creating an import cycle.
package selections

import (
	"context"
	"sync"

	"github.com/graph-gophers/graphql-engine/lookahead"
)

// ctxKey is an unexported unique type used as context key.
type ctxKey struct{}

// Lazy holds the look-ahead and computes the flattened, deduped name list once on demand.
type Lazy struct {
	sel   *lookahead.Selection
	once  sync.Once
	names []string
	set   map[string]struct{}
}

// Selection returns the look-ahead itself.
func (l *Lazy) Selection() *lookahead.Selection {
	if l == nil {
		return nil
	}
	return l.sel
}

// Names returns the deduplicated child field paths computing them once.
func (l *Lazy) Names() []string {
	if l == nil {
		return nil
	}
	l.compute()
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// Has reports if a field path is in the selection list.
func (l *Lazy) Has(name string) bool {
	if l == nil {
		return false
	}
	l.compute()
	_, ok := l.set[name]
	return ok
}

func (l *Lazy) compute() {
	l.once.Do(func() {
		l.names = l.sel.Paths()
		l.set = make(map[string]struct{}, len(l.names))
		for _, n := range l.names {
			l.set[n] = struct{}{}
		}
	})
}

// With stores a lazy wrapper for the look-ahead in the context.
func With(ctx context.Context, sel *lookahead.Selection) context.Context {
	if sel == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, &Lazy{sel: sel})
}

// FromContext retrieves the lazy wrapper (may be nil).
func FromContext(ctx context.Context) *Lazy {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxKey{}).(*Lazy)
	return v
}
