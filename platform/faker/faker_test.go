package faker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedProvider struct {
	name  string
	bound Source
}

func (p *namedProvider) Name() string    { return p.name }
func (p *namedProvider) Bind(src Source) { p.bound = src }

type plainProvider struct{}

func (plainProvider) Name() string { return "plain" }

func TestAddProviderBindsSource(t *testing.T) {
	f := New(7)
	p := &namedProvider{name: "phone"}

	require.NoError(t, f.AddProvider(p))
	assert.Same(t, f.Source(), p.bound)

	got, ok := f.Provider("phone")
	require.True(t, ok)
	assert.Same(t, p, got)
}

func TestAddProviderRejectsDuplicatesAndEmptyNames(t *testing.T) {
	f := New(7)

	require.NoError(t, f.AddProvider(plainProvider{}))
	assert.Error(t, f.AddProvider(plainProvider{}), "duplicate registration")
	assert.Error(t, f.AddProvider(&namedProvider{}), "empty name")
}

func TestProvidersSorted(t *testing.T) {
	f := New(7)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, f.AddProvider(&namedProvider{name: name}))
	}

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, f.Providers())
}

func TestSeededSourcesAreReproducible(t *testing.T) {
	a, b := New(99), New(99)
	for i := 0; i < 20; i++ {
		require.Equal(t, a.Numerify("+44%#########"), b.Numerify("+44%#########"), "draw %d", i)
	}
}

func TestForkedStreamsAreDeterministic(t *testing.T) {
	childA := NewSource(5).Fork()
	childB := NewSource(5).Fork()
	for i := 0; i < 20; i++ {
		require.Equal(t, childA.Intn(1000), childB.Intn(1000), "draw %d", i)
	}
}

func TestIntnStaysInRange(t *testing.T) {
	src := NewSource(8)
	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		v := src.Intn(3)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 3)
		seen[v] = true
	}
	assert.Len(t, seen, 3)
	assert.Zero(t, src.Intn(1))
	assert.Panics(t, func() { src.Intn(0) })
}

func TestSourceIsSafeForConcurrentUse(t *testing.T) {
	src := NewSource(1)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if v := src.Intn(10); v < 0 || v > 9 {
					t.Errorf("out of range draw %d", v)
					return
				}
				src.Numerify("##")
			}
		}()
	}
	wg.Wait()
}

func TestRandomElement(t *testing.T) {
	items := []string{"AU", "US", "GB", "NZ"}
	src := &fixedSource{values: []int{2}}

	assert.Equal(t, "GB", RandomElement(src, items))
}
