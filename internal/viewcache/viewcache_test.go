package viewcache

import (
	"sync"
	"testing"
)

func TestGenerationStartsAtZero(t *testing.T) {
	c := New()
	if got := c.Generation("/admin/artigos"); got != 0 {
		t.Errorf("Generation() = %d, want 0", got)
	}
}

func TestInvalidateBumpsOnlyThatPath(t *testing.T) {
	c := New()
	c.Invalidate("/admin/artigos")
	c.Invalidate("/admin/artigos")
	c.Invalidate("/admin/categorias")

	if got := c.Generation("/admin/artigos"); got != 2 {
		t.Errorf("Generation(artigos) = %d, want 2", got)
	}
	if got := c.Generation("/admin/categorias"); got != 1 {
		t.Errorf("Generation(categorias) = %d, want 1", got)
	}
	if got := c.Generation("/admin/usuarios"); got != 0 {
		t.Errorf("Generation(usuarios) = %d, want 0", got)
	}
}

func TestInvalidateConcurrent(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Invalidate("/admin/artigos")
		}()
	}
	wg.Wait()

	if got := c.Generation("/admin/artigos"); got != 50 {
		t.Errorf("Generation() = %d after 50 concurrent bumps, want 50", got)
	}
}
