package hashset

// Set 为整数去重集合；Entries 顺序不确定。
type Set[T comparable] struct {
	entries map[T]struct{}
}

// NewSet 以容量提示创建集合。
func NewSet[T comparable](hint int) *Set[T] {
	if hint < 0 {
		hint = 0
	}
	return &Set[T]{entries: make(map[T]struct{}, hint)}
}

// Add 返回是否为新元素。
func (s *Set[T]) Add(v T) bool {
	if _, ok := s.entries[v]; ok {
		return false
	}
	s.entries[v] = struct{}{}
	return true
}

func (s *Set[T]) Contains(v T) bool {
	_, ok := s.entries[v]
	return ok
}

func (s *Set[T]) Size() int { return len(s.entries) }

func (s *Set[T]) Entries() []T {
	arr := make([]T, 0, len(s.entries))
	for v := range s.entries {
		arr = append(arr, v)
	}
	return arr
}
