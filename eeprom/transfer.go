package eeprom

import (
	"context"
	"fmt"
	"time"

	"github.com/moffa90/go-i2ceeprom/memimage"
)

// Mismatch is one byte that read back differently from the reference image.
type Mismatch struct {
	Address  int
	Actual   byte
	Expected byte
}

func (m Mismatch) String() string {
	return fmt.Sprintf("verify error at 0x%04x read 0x%02x, expect 0x%02x", m.Address, m.Actual, m.Expected)
}

// VerifyResult is the outcome of comparing a device against a reference image.
type VerifyResult struct {
	// Mismatches holds the first mismatches, up to the configured limit
	Mismatches []Mismatch

	// Total counts every mismatching byte on the device
	Total int

	// Bytes is the number of bytes compared
	Bytes int
}

// OK reports whether the device matched the reference exactly.
func (r *VerifyResult) OK() bool {
	return r.Total == 0
}

// Truncated reports whether mismatches exist beyond those recorded.
func (r *VerifyResult) Truncated() bool {
	return r.Total > len(r.Mismatches)
}

// Fill prepares an image with pattern and programs it into the whole device.
// The image written is returned so it can serve as a verify reference.
func (p *Programmer) Fill(ctx context.Context, pattern memimage.Pattern) ([]byte, error) {
	img := memimage.New(p.geom)
	memimage.Fill(img, pattern)

	p.logInfo("filling device", "pattern", pattern.String())

	if err := p.Program(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

// Program writes img to the whole device, one page-size stride at a time.
// img must be exactly the device size.
//
// Example:
//
//	img, _, _ := memimage.Load(afero.NewOsFs(), "image.bin", geom)
//	err := prog.Program(ctx, img)
func (p *Programmer) Program(ctx context.Context, img []byte) error {
	if err := p.checkImage(img); err != nil {
		return err
	}

	startTime := time.Now()
	p.logInfo("writing device", "size", p.geom.Size, "page_size", p.geom.PageSize)

	err := p.eachPage(ctx, PhaseWriting, startTime, func(page, address, end int) error {
		if err := p.WriteSpan(ctx, address, img[address:end]); err != nil {
			return fmt.Errorf("write page %d (address=0x%04X): %w", page, address, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.complete(startTime)
	p.logInfo("write complete", "bytes", p.geom.Size, "elapsed", time.Since(startTime).String())
	return nil
}

// Read fills img with the whole device contents, one page-size stride at a time.
// img must be exactly the device size.
func (p *Programmer) Read(ctx context.Context, img []byte) error {
	if err := p.checkImage(img); err != nil {
		return err
	}

	startTime := time.Now()
	p.logInfo("reading device", "size", p.geom.Size, "page_size", p.geom.PageSize)

	err := p.eachPage(ctx, PhaseReading, startTime, func(page, address, end int) error {
		if err := p.ReadChunk(ctx, address, img[address:end]); err != nil {
			return fmt.Errorf("read page %d (address=0x%04X): %w", page, address, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.complete(startTime)
	p.logInfo("read complete", "bytes", p.geom.Size, "elapsed", time.Since(startTime).String())
	return nil
}

// ReadAll reads the whole device into a new image.
func (p *Programmer) ReadAll(ctx context.Context) ([]byte, error) {
	img := memimage.New(p.geom)
	if err := p.Read(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

// Verify reads the device page by page and compares it with reference.
// The device is always read back, even when reference was just written, so
// the result reflects what the part actually retained.
//
// Reading always continues to the end of the device; only the first
// MismatchLimit mismatches are recorded, while Total counts all of them.
// Mismatches are not an error: a nil error with a non-OK result means the
// bus work completed and the contents differ.
func (p *Programmer) Verify(ctx context.Context, reference []byte) (*VerifyResult, error) {
	if err := p.checkImage(reference); err != nil {
		return nil, err
	}

	startTime := time.Now()
	result := &VerifyResult{}
	scratch := make([]byte, p.geom.PageSize)

	p.logInfo("verifying device", "size", p.geom.Size, "page_size", p.geom.PageSize)

	err := p.eachPage(ctx, PhaseVerifying, startTime, func(page, address, end int) error {
		chunk := scratch[:end-address]
		if err := p.ReadChunk(ctx, address, chunk); err != nil {
			return fmt.Errorf("verify page %d (address=0x%04X): %w", page, address, err)
		}

		for i, actual := range chunk {
			expected := reference[address+i]
			if actual == expected {
				continue
			}

			result.Total++
			if len(result.Mismatches) < p.config.MismatchLimit {
				m := Mismatch{Address: address + i, Actual: actual, Expected: expected}
				result.Mismatches = append(result.Mismatches, m)
				p.logDebug("verify mismatch",
					"address", fmt.Sprintf("0x%04X", m.Address),
					"actual", fmt.Sprintf("0x%02X", m.Actual),
					"expected", fmt.Sprintf("0x%02X", m.Expected),
				)
			}
		}
		result.Bytes += len(chunk)
		return nil
	})
	if err != nil {
		return result, err
	}

	p.complete(startTime)
	p.logInfo("verify complete", "mismatches", result.Total, "elapsed", time.Since(startTime).String())
	return result, nil
}

// eachPage runs fn for every page-size stride of the device and reports
// progress after each one. The last stride is clipped to the device size.
func (p *Programmer) eachPage(ctx context.Context, phase string, startTime time.Time,
	fn func(page, address, end int) error) error {
	pages := p.geom.Pages()

	for page := 0; page < pages; page++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}

		address := page * p.geom.PageSize
		end := address + p.geom.PageSize
		if end > p.geom.Size {
			end = p.geom.Size
		}

		if err := fn(page, address, end); err != nil {
			return err
		}

		p.reportProgress(Progress{
			Phase:       phase,
			Page:        page + 1,
			TotalPages:  pages,
			Address:     address,
			Bytes:       end,
			Percentage:  float64(page+1) / float64(pages) * 100,
			ElapsedTime: time.Since(startTime),
		})
	}

	return nil
}

func (p *Programmer) complete(startTime time.Time) {
	pages := p.geom.Pages()
	p.reportProgress(Progress{
		Phase:       PhaseComplete,
		Page:        pages,
		TotalPages:  pages,
		Address:     p.geom.Size - 1,
		Bytes:       p.geom.Size,
		Percentage:  100,
		ElapsedTime: time.Since(startTime),
	})
}

func (p *Programmer) checkImage(img []byte) error {
	if len(img) != p.geom.Size {
		return &ImageSizeError{Expected: p.geom.Size, Actual: len(img)}
	}
	return nil
}
