package eeprom

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-i2ceeprom/memimage"
	"github.com/moffa90/go-i2ceeprom/protocol"
	"github.com/moffa90/go-i2ceeprom/simulator"
)

func TestFillThenVerify(t *testing.T) {
	geom := protocol.Geometry{PageSize: 32, Size: 4096}
	dev := simulator.New(geom, simulator.WithContents(make([]byte, geom.Size)))
	prog := newTestProgrammer(t, dev, geom)

	img, err := prog.Fill(context.Background(), memimage.PatternOnes)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0xFF}, geom.Size), img)

	result, err := prog.Verify(context.Background(), img)
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.Zero(t, result.Total)
	assert.Equal(t, geom.Size, result.Bytes)

	stats := dev.Stats()
	assert.LessOrEqual(t, stats.MaxRead, 32, "no raw read longer than a page")
	assert.LessOrEqual(t, stats.MaxWriteData, 32, "no write frame data longer than a page")
	assert.Equal(t, 32, stats.MaxWriteData)
}

func TestProgramThenReadAll(t *testing.T) {
	geometries := []protocol.Geometry{
		{PageSize: 32, Size: 4096},
		{PageSize: 64, Size: 8192},
		{PageSize: 128, Size: 1024},
		{PageSize: 1, Size: 64},
		{PageSize: 128, Size: 64},
	}

	for _, geom := range geometries {
		t.Run(geom.String(), func(t *testing.T) {
			dev := simulator.New(geom)
			prog := newTestProgrammer(t, dev, geom)

			img := memimage.New(geom)
			memimage.Fill(img, memimage.PatternIncrement)
			require.NoError(t, prog.Program(context.Background(), img))
			assert.Equal(t, img, dev.Contents())

			got, err := prog.ReadAll(context.Background())
			require.NoError(t, err)
			assert.Equal(t, img, got)
		})
	}
}

func TestWriteReadBackEveryPage(t *testing.T) {
	geom := protocol.Geometry{PageSize: 16, Size: 1024}
	dev := simulator.New(geom)
	prog := newTestProgrammer(t, dev, geom)

	for address := 0; address < geom.Size; address += geom.PageSize {
		page := bytes.Repeat([]byte{byte(address / geom.PageSize)}, geom.PageSize)
		require.NoError(t, prog.WriteSpan(context.Background(), address, page))

		got := make([]byte, geom.PageSize)
		require.NoError(t, prog.ReadChunk(context.Background(), address, got))
		require.Equal(t, page, got, "page at 0x%04X", address)
	}
}

func TestProgramRecoversFromContention(t *testing.T) {
	geom := protocol.Geometry{PageSize: 32, Size: 1024}
	dev := simulator.New(geom, simulator.WithBusyCycles(5))
	dev.InjectFault(simulator.Fault{Op: simulator.OpWrite, Count: 3, Err: simulator.ErrNACK})

	var retries int
	prog := newTestProgrammer(t, dev, geom, WithRetryCallback(func(RetryEvent) { retries++ }))

	img := memimage.New(geom)
	memimage.Fill(img, memimage.Pattern55)
	require.NoError(t, prog.Program(context.Background(), img))
	assert.Equal(t, img, dev.Contents())
	assert.Equal(t, 3, retries)
}

func TestProgramAbortsOnDeadDevice(t *testing.T) {
	geom := protocol.Geometry{PageSize: 32, Size: 1024}
	writes := 0
	device := &scriptedDevice{writeFn: func(p []byte) (int, error) {
		writes++
		if writes > 4 {
			return 0, simulator.ErrNACK
		}
		return len(p), nil
	}}

	var pages []int
	prog := newTestProgrammer(t, device, geom,
		WithProgressCallback(func(p Progress) { pages = append(pages, p.Page) }))

	err := prog.Program(context.Background(), memimage.New(geom))
	require.Error(t, err)
	assert.True(t, protocol.IsRetriesExhausted(err))
	assert.Contains(t, err.Error(), "write page 4 (address=0x0080)")
	assert.Equal(t, []int{1, 2, 3, 4}, pages, "no progress after the failed page")
}

func TestReadAbortsOnDeadDevice(t *testing.T) {
	geom := protocol.Geometry{PageSize: 32, Size: 1024}
	device := &scriptedDevice{readFn: func(p []byte) (int, error) {
		if len(p) > 1 {
			return 0, simulator.ErrNACK
		}
		return len(p), nil
	}}
	prog := newTestProgrammer(t, device, geom, WithRetries(3))

	_, err := prog.ReadAll(context.Background())
	require.Error(t, err)
	assert.True(t, protocol.IsRetriesExhausted(err))
	assert.Contains(t, err.Error(), "read page 0")
}

func TestVerifyMismatches(t *testing.T) {
	geom := protocol.Geometry{PageSize: 32, Size: 4096}
	reference := bytes.Repeat([]byte{0xFF}, geom.Size)

	contents := append([]byte(nil), reference...)
	corrupt := []int{3, 40, 41, 100, 500, 501, 502, 1000, 2000, 2047, 2048, 3000, 4000, 4095}
	for _, addr := range corrupt {
		contents[addr] = 0x00
	}

	dev := simulator.New(geom, simulator.WithContents(contents))
	var progress []Progress
	prog := newTestProgrammer(t, dev, geom,
		WithProgressCallback(func(p Progress) { progress = append(progress, p) }))

	result, err := prog.Verify(context.Background(), reference)
	require.NoError(t, err, "mismatches are not errors")

	assert.False(t, result.OK())
	assert.Equal(t, len(corrupt), result.Total)
	assert.True(t, result.Truncated())
	require.Len(t, result.Mismatches, DefaultMismatchLimit)
	assert.Equal(t, geom.Size, result.Bytes, "reading continues to the end")

	for i, m := range result.Mismatches {
		assert.Equal(t, corrupt[i], m.Address)
		assert.Equal(t, byte(0x00), m.Actual)
		assert.Equal(t, byte(0xFF), m.Expected)
	}
	assert.Equal(t, "verify error at 0x0003 read 0x00, expect 0xff", result.Mismatches[0].String())

	require.Len(t, progress, geom.Pages()+1)
	assert.Equal(t, PhaseVerifying, progress[0].Phase)
	assert.Equal(t, PhaseComplete, progress[len(progress)-1].Phase)
}

func TestVerifyMismatchLimit(t *testing.T) {
	geom := protocol.Geometry{PageSize: 8, Size: 64}
	dev := simulator.New(geom)
	prog := newTestProgrammer(t, dev, geom, WithMismatchLimit(2))

	result, err := prog.Verify(context.Background(), make([]byte, geom.Size))
	require.NoError(t, err)
	assert.Equal(t, 64, result.Total)
	assert.Len(t, result.Mismatches, 2)
}

func TestVerifyAgainstItself(t *testing.T) {
	geom := protocol.Geometry{PageSize: 64, Size: 2048}
	contents := make([]byte, geom.Size)
	memimage.Fill(contents, memimage.PatternIncrement)
	dev := simulator.New(geom, simulator.WithContents(contents))
	prog := newTestProgrammer(t, dev, geom)

	img, err := prog.ReadAll(context.Background())
	require.NoError(t, err)

	result, err := prog.Verify(context.Background(), img)
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.False(t, result.Truncated())
}

func TestProgressPerPage(t *testing.T) {
	geom := protocol.Geometry{PageSize: 32, Size: 1024}
	dev := simulator.New(geom)

	var progress []Progress
	prog := newTestProgrammer(t, dev, geom,
		WithProgressCallback(func(p Progress) { progress = append(progress, p) }))

	require.NoError(t, prog.Program(context.Background(), memimage.New(geom)))

	require.Len(t, progress, geom.Pages()+1)
	for i, p := range progress[:geom.Pages()] {
		assert.Equal(t, PhaseWriting, p.Phase)
		assert.Equal(t, i+1, p.Page)
		assert.Equal(t, geom.Pages(), p.TotalPages)
		assert.Equal(t, i*geom.PageSize, p.Address)
		assert.Equal(t, (i+1)*geom.PageSize, p.Bytes)
	}
	last := progress[len(progress)-1]
	assert.Equal(t, PhaseComplete, last.Phase)
	assert.InDelta(t, 100.0, last.Percentage, 0.001)
}

func TestImageSizeChecked(t *testing.T) {
	geom := protocol.DefaultGeometry()
	device := &scriptedDevice{}
	prog := newTestProgrammer(t, device, geom)

	var sizeErr *ImageSizeError
	require.ErrorAs(t, prog.Program(context.Background(), make([]byte, 100)), &sizeErr)
	assert.Equal(t, geom.Size, sizeErr.Expected)
	assert.Equal(t, 100, sizeErr.Actual)

	require.ErrorAs(t, prog.Read(context.Background(), make([]byte, geom.Size+1)), &sizeErr)
	_, err := prog.Verify(context.Background(), nil)
	require.ErrorAs(t, err, &sizeErr)

	assert.Zero(t, device.reads+device.writes)
}

func TestProgramCancelled(t *testing.T) {
	geom := protocol.Geometry{PageSize: 32, Size: 1024}
	dev := simulator.New(geom)

	ctx, cancel := context.WithCancel(context.Background())
	prog := newTestProgrammer(t, dev, geom, WithProgressCallback(func(p Progress) {
		if p.Page == 2 {
			cancel()
		}
	}))

	err := prog.Program(ctx, memimage.New(geom))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Contains(t, err.Error(), "cancelled")

	mem := dev.Contents()
	assert.Equal(t, make([]byte, 64), mem[:64], "pages before cancellation completed")
	assert.Equal(t, bytes.Repeat([]byte{0xFF}, 32), mem[64:96])
}

func TestLoggerReceivesSummary(t *testing.T) {
	geom := protocol.Geometry{PageSize: 32, Size: 1024}
	logger := &MockLogger{}
	prog := newTestProgrammer(t, simulator.New(geom), geom, WithLogger(logger))

	_, err := prog.Fill(context.Background(), memimage.PatternAA)
	require.NoError(t, err)
	assert.Contains(t, logger.infoMsgs, "filling device")
	assert.Contains(t, logger.infoMsgs, "write complete")
	assert.Empty(t, logger.errorMsgs)
}
