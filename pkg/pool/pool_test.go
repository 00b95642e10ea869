package pool

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_Parallelize(t *testing.T) {
	square := func(i int) interface{} { return i * i }
	for _, pl := range []*Pool{nil, NewPool(1), NewPool(0), NewPool(4)} {
		results := pl.Parallelize(50, square)
		require.Len(t, results, 50)
		for i, r := range results {
			assert.Equal(t, i*i, r)
		}
		assert.Empty(t, pl.Parallelize(0, square))
		pl.TearDown()
		pl.TearDown()
	}
}

func TestLockedReader(t *testing.T) {
	data := make([]byte, 64*8)
	for i := range data {
		data[i] = byte(i / 8)
	}
	r := NewLockedReader(bytes.NewReader(data))

	var wg sync.WaitGroup
	seen := make([][]byte, 64)
	for i := 0; i < 64; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]byte, 8)
			_, err := io.ReadFull(r, buf)
			assert.NoError(t, err)
			seen[i] = buf
		}()
	}
	wg.Wait()

	// each chunk is read exactly once
	counts := make(map[byte]int)
	for _, buf := range seen {
		counts[buf[0]]++
	}
	assert.Len(t, counts, 64)
}
