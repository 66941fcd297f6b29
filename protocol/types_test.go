package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometryFromKB(t *testing.T) {
	tests := []struct {
		name     string
		sizeKB   int
		pageSize int
		wantSize int
		wantErr  string
	}{
		{name: "default 24C32", sizeKB: 4, pageSize: 32, wantSize: 4096},
		{name: "single K", sizeKB: 1, pageSize: 8, wantSize: 1024},
		{name: "largest", sizeKB: 64, pageSize: 128, wantSize: 65536},
		{name: "not a power of two", sizeKB: 3, pageSize: 32, wantErr: "power of two"},
		{name: "too large", sizeKB: 128, pageSize: 32, wantErr: "1-64K"},
		{name: "bad page", sizeKB: 4, pageSize: 48, wantErr: "page size"},
		{name: "page too large", sizeKB: 4, pageSize: 256, wantErr: "page size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := GeometryFromKB(tt.sizeKB, tt.pageSize)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSize, g.Size)
			assert.Equal(t, tt.pageSize, g.PageSize)
		})
	}
}

func TestGeometryPages(t *testing.T) {
	assert.Equal(t, 128, Geometry{PageSize: 32, Size: 4096}.Pages())
	assert.Equal(t, 1, Geometry{PageSize: 128, Size: 64}.Pages())
	assert.Equal(t, 0, Geometry{}.Pages())
}

func TestGeometryContains(t *testing.T) {
	g := DefaultGeometry()
	assert.True(t, g.Contains(0, g.Size))
	assert.True(t, g.Contains(g.Size-1, 1))
	assert.False(t, g.Contains(g.Size-1, 2))
	assert.False(t, g.Contains(-1, 1))
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, n := range []int{1, 2, 4, 1024, 65536} {
		assert.True(t, IsPowerOfTwo(n), n)
	}
	for _, n := range []int{0, -2, 3, 48, 1000} {
		assert.False(t, IsPowerOfTwo(n), n)
	}
}

func TestGeometryString(t *testing.T) {
	assert.Equal(t, "4K with page size of 32 bytes", DefaultGeometry().String())
}
