package tracer

import (
	"math"
	"sort"
)

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split a frame into blocks that can be traced independently. Blocks
	// never overlap and together cover the entire frame.
	Schedule(frameW, frameH uint32) []BlockRequest
}

// Splits the frame into fixed-size blocks visited in row-major order.
type rowScheduler struct {
	blockW uint32
	blockH uint32
}

// Create a scheduler that visits blocks row by row.
func RowScheduler(blockW, blockH uint32) BlockScheduler {
	return &rowScheduler{blockW: blockW, blockH: blockH}
}

func (sch *rowScheduler) Schedule(frameW, frameH uint32) []BlockRequest {
	return splitFrame(frameW, frameH, sch.blockW, sch.blockH)
}

// Splits the frame into fixed-size blocks ordered by the distance of their
// centers to the frame center, so the region of interest converges first.
type centerScheduler struct {
	blockW uint32
	blockH uint32
}

// Create a scheduler that visits blocks from the frame center outwards.
func CenterScheduler(blockW, blockH uint32) BlockScheduler {
	return &centerScheduler{blockW: blockW, blockH: blockH}
}

func (sch *centerScheduler) Schedule(frameW, frameH uint32) []BlockRequest {
	blocks := splitFrame(frameW, frameH, sch.blockW, sch.blockH)

	cx, cy := float64(frameW)/2.0, float64(frameH)/2.0
	dist := func(br *BlockRequest) float64 {
		bx := float64(br.BlockX) + float64(br.BlockW)/2.0
		by := float64(br.BlockY) + float64(br.BlockH)/2.0
		return math.Hypot(bx-cx, by-cy)
	}
	sort.SliceStable(blocks, func(i, j int) bool {
		return dist(&blocks[i]) < dist(&blocks[j])
	})
	return blocks
}

func splitFrame(frameW, frameH, blockW, blockH uint32) []BlockRequest {
	if blockW == 0 || blockW > frameW {
		blockW = frameW
	}
	if blockH == 0 || blockH > frameH {
		blockH = frameH
	}
	if blockW == 0 || blockH == 0 {
		return nil
	}

	blocks := make([]BlockRequest, 0, ((frameW+blockW-1)/blockW)*((frameH+blockH-1)/blockH))
	for y := uint32(0); y < frameH; y += blockH {
		for x := uint32(0); x < frameW; x += blockW {
			blocks = append(blocks, BlockRequest{
				BlockX: x,
				BlockY: y,
				BlockW: min(blockW, frameW-x),
				BlockH: min(blockH, frameH-y),
			})
		}
	}
	return blocks
}
