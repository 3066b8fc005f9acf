package charclass

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func Test_Set_Union(t *testing.T) {
	testCases := []struct {
		name     string
		a        Set
		b        Set
		expected Set
	}{
		{
			name:     "disjoint ranges stay separate",
			a:        New(Range{'a', 'c'}),
			b:        New(Range{'x', 'z'}),
			expected: New(Range{'a', 'c'}, Range{'x', 'z'}),
		},
		{
			name:     "adjacent ranges merge",
			a:        New(Range{'a', 'm'}),
			b:        New(Range{'n', 'z'}),
			expected: New(Range{'a', 'z'}),
		},
		{
			name:     "overlapping ranges merge",
			a:        New(Range{'a', 'm'}),
			b:        New(Range{'g', 'z'}),
			expected: New(Range{'a', 'z'}),
		},
		{
			name:     "empty union anything is anything",
			a:        Empty(),
			b:        New(Range{'a', 'z'}),
			expected: New(Range{'a', 'z'}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			actual := tc.a.Union(tc.b)
			assert.True(tc.expected.Equal(actual), "expected %s, got %s", tc.expected, actual)
		})
	}
}

func Test_Set_Intersection(t *testing.T) {
	testCases := []struct {
		name     string
		a        Set
		b        Set
		expected Set
	}{
		{
			name:     "disjoint has no intersection",
			a:        New(Range{'a', 'c'}),
			b:        New(Range{'x', 'z'}),
			expected: Empty(),
		},
		{
			name:     "overlapping ranges intersect to the overlap",
			a:        New(Range{'a', 'm'}),
			b:        New(Range{'g', 'z'}),
			expected: New(Range{'g', 'm'}),
		},
		{
			name:     "identical sets intersect to themselves",
			a:        New(Range{'0', '9'}),
			b:        New(Range{'0', '9'}),
			expected: New(Range{'0', '9'}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			actual := tc.a.Intersection(tc.b)
			assert.True(tc.expected.Equal(actual), "expected %s, got %s", tc.expected, actual)
		})
	}
}

func Test_Set_Difference(t *testing.T) {
	testCases := []struct {
		name     string
		a        Set
		b        Set
		expected Set
	}{
		{
			name:     "subtracting disjoint set is a no-op",
			a:        New(Range{'a', 'z'}),
			b:        New(Range{'0', '9'}),
			expected: New(Range{'a', 'z'}),
		},
		{
			name:     "subtracting a middle chunk splits the range",
			a:        New(Range{'a', 'z'}),
			b:        New(Range{'m', 'n'}),
			expected: New(Range{'a', 'l'}, Range{'o', 'z'}),
		},
		{
			name:     "subtracting everything leaves nothing",
			a:        New(Range{'a', 'z'}),
			b:        New(Range{'a', 'z'}),
			expected: Empty(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			actual := tc.a.Difference(tc.b)
			assert.True(tc.expected.Equal(actual), "expected %s, got %s", tc.expected, actual)
		})
	}
}

func Test_Set_Complement(t *testing.T) {
	assert := assert.New(t)

	universe := New(Range{'a', 'z'})
	vowels := New(Range{'a', 'a'}, Range{'e', 'e'}, Range{'i', 'i'}, Range{'o', 'o'}, Range{'u', 'u'})

	consonants := vowels.Complement(universe)

	assert.False(consonants.Contains('a'))
	assert.True(consonants.Contains('b'))
	assert.True(consonants.Contains('z'))
	assert.False(consonants.Contains('u'))
}

func Test_Set_Contains(t *testing.T) {
	assert := assert.New(t)

	s := New(Range{'a', 'f'}, Range{'0', '9'}, Range{'_', '_'})

	assert.True(s.Contains('a'))
	assert.True(s.Contains('f'))
	assert.True(s.Contains('5'))
	assert.True(s.Contains('_'))
	assert.False(s.Contains('g'))
	assert.False(s.Contains('/'))
}

func Test_Set_DisjointWith(t *testing.T) {
	assert := assert.New(t)

	a := New(Range{'a', 'm'})
	b := New(Range{'n', 'z'})
	c := New(Range{'m', 'p'})

	assert.True(a.DisjointWith(b))
	assert.False(a.DisjointWith(c))
}

func Test_FromRangeTable(t *testing.T) {
	assert := assert.New(t)

	digits := FromRangeTable(unicode.Nd)

	assert.True(digits.Contains('0'))
	assert.True(digits.Contains('9'))
	assert.False(digits.Contains('a'))
}

func Test_FromCategoryName(t *testing.T) {
	assert := assert.New(t)

	letters, ok := FromCategoryName("L")
	assert.True(ok)
	assert.True(letters.Contains('a'))
	assert.True(letters.Contains('Z'))
	assert.False(letters.Contains('0'))

	_, ok = FromCategoryName("NotARealCategory")
	assert.False(ok)
}
