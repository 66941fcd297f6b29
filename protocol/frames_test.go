package protocol

import (
	"bytes"
	"errors"
	"testing"
)

func TestBuildAddressFrame(t *testing.T) {
	tests := []struct {
		name    string
		address int
		want    []byte
		wantErr bool
	}{
		{
			name:    "zero",
			address: 0,
			want:    []byte{0x00, 0x00},
		},
		{
			name:    "big endian",
			address: 0x1234,
			want:    []byte{0x12, 0x34},
		},
		{
			name:    "last byte of 64K",
			address: 0xFFFF,
			want:    []byte{0xFF, 0xFF},
		},
		{
			name:    "negative",
			address: -1,
			wantErr: true,
		},
		{
			name:    "beyond two bytes",
			address: 0x10000,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := BuildAddressFrame(tt.address)

			if tt.wantErr {
				var addrErr *AddressError
				if !errors.As(err, &addrErr) {
					t.Fatalf("expected AddressError, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(frame, tt.want) {
				t.Errorf("frame = % X, want % X", frame, tt.want)
			}
		})
	}
}

func TestBuildWriteFrame(t *testing.T) {
	tests := []struct {
		name     string
		address  int
		data     []byte
		pageSize int
		want     []byte
		errMsg   string
	}{
		{
			name:     "full page",
			address:  0x0020,
			data:     bytes.Repeat([]byte{0xAB}, 32),
			pageSize: 32,
			want:     append([]byte{0x00, 0x20}, bytes.Repeat([]byte{0xAB}, 32)...),
		},
		{
			name:     "tail of page",
			address:  0x013E,
			data:     []byte{0x01, 0x02},
			pageSize: 32,
			want:     []byte{0x01, 0x3E, 0x01, 0x02},
		},
		{
			name:     "crosses page",
			address:  0x003F,
			data:     []byte{0x01, 0x02},
			pageSize: 32,
			errMsg:   "crosses a 32-byte page boundary",
		},
		{
			name:     "empty data",
			address:  0,
			data:     nil,
			pageSize: 32,
			errMsg:   "at least one data byte",
		},
		{
			name:     "oversized page",
			address:  0,
			data:     []byte{0x01},
			pageSize: 256,
			errMsg:   "page size must be 1-128 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := BuildWriteFrame(tt.address, tt.data, tt.pageSize)

			if tt.errMsg != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errMsg)
				}
				if !bytes.Contains([]byte(err.Error()), []byte(tt.errMsg)) {
					t.Errorf("error = %v, want substring %q", err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(frame, tt.want) {
				t.Errorf("frame = % X, want % X", frame, tt.want)
			}
		})
	}
}

func TestPageChunks(t *testing.T) {
	tests := []struct {
		name     string
		address  int
		length   int
		pageSize int
		want     []Chunk
	}{
		{
			name:     "aligned whole pages",
			address:  0,
			length:   64,
			pageSize: 32,
			want:     []Chunk{{0, 0, 32}, {32, 32, 32}},
		},
		{
			name:     "short final chunk",
			address:  0,
			length:   70,
			pageSize: 32,
			want:     []Chunk{{0, 0, 32}, {32, 32, 32}, {64, 64, 6}},
		},
		{
			name:     "unaligned start",
			address:  30,
			length:   40,
			pageSize: 32,
			want:     []Chunk{{30, 0, 2}, {32, 2, 32}, {64, 34, 6}},
		},
		{
			name:     "inside one page",
			address:  5,
			length:   3,
			pageSize: 8,
			want:     []Chunk{{5, 0, 3}},
		},
		{
			name:     "zero length",
			address:  0,
			length:   0,
			pageSize: 32,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PageChunks(tt.address, tt.length, tt.pageSize)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d chunks %v, want %d %v", len(got), got, len(tt.want), tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPageChunksNeverCrossPage(t *testing.T) {
	for _, pageSize := range []int{1, 8, 16, 32, 64, 128} {
		for address := 0; address < 3*pageSize; address += 7 {
			for _, length := range []int{1, pageSize - 1, pageSize, pageSize + 1, 5*pageSize + 3} {
				if length <= 0 {
					continue
				}
				total := 0
				for _, c := range PageChunks(address, length, pageSize) {
					if c.Length > pageSize {
						t.Fatalf("page %d: chunk %+v longer than page", pageSize, c)
					}
					if c.Address/pageSize != (c.Address+c.Length-1)/pageSize {
						t.Fatalf("page %d: chunk %+v crosses a page", pageSize, c)
					}
					if c.Address != address+c.Offset {
						t.Fatalf("page %d: chunk %+v address does not follow offset", pageSize, c)
					}
					total += c.Length
				}
				if total != length {
					t.Fatalf("page %d: chunks cover %d bytes, want %d", pageSize, total, length)
				}
			}
		}
	}
}
