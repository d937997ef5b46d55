package faker

import "github.com/brianvoe/gofakeit/v6"

// Source is the injectable random source consumed by providers.
type Source interface {
	// Intn returns a uniform integer in [0, n). It panics if n <= 0.
	Intn(n int) int
	// Numerify replaces every '#' in pattern with a uniform digit.
	Numerify(pattern string) string
	// Fork derives an independent stream seeded from this one.
	Fork() Source
}

// fakeitSource adapts a seeded gofakeit generator. gofakeit.New guards its
// math/rand stream with a lock, so one source can be shared by goroutines.
type fakeitSource struct {
	f *gofakeit.Faker
}

// NewSource returns a concurrency-safe source. A zero seed lets gofakeit pick
// a random one.
func NewSource(seed int64) Source {
	return &fakeitSource{f: gofakeit.New(seed)}
}

func (s *fakeitSource) Intn(n int) int {
	if n <= 0 {
		panic("faker: Intn called with non-positive n")
	}
	return s.f.Number(0, n-1)
}

func (s *fakeitSource) Numerify(pattern string) string {
	return s.f.Numerify(pattern)
}

func (s *fakeitSource) Fork() Source {
	seed := s.f.Int64()
	if seed == 0 {
		seed = 1
	}
	return NewSource(seed)
}

// RandomElement picks one element uniformly. It panics on an empty slice.
func RandomElement[T any](src Source, items []T) T {
	return items[src.Intn(len(items))]
}
