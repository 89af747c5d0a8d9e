package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/waymark/pkg/adapters/memory"
	"github.com/aretw0/waymark/pkg/domain"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		id := fmt.Sprintf("tenant-%d", i)
		_ = mgr.Save(ctx, id, domain.Snapshot{})
		_, _ = mgr.Swap(ctx, id, domain.Snapshot{JobCount: i})
		_ = mgr.Delete(ctx, id)
	}

	if n := mgr.activeLocks(); n != 0 {
		t.Errorf("%d lock entries remain after all operations returned", n)
	}
}
