package tracer

import "testing"

func TestRowScheduler(t *testing.T) {
	type spec struct {
		frameW, frameH uint32
		blockW, blockH uint32
		expBlocks      int
	}
	specs := []spec{
		{8, 8, 4, 4, 4},
		{10, 6, 4, 4, 6},
		{10, 6, 0, 0, 1},
		{3, 3, 16, 16, 1},
		{1, 7, 1, 2, 4},
	}

	for index, s := range specs {
		blocks := RowScheduler(s.blockW, s.blockH).Schedule(s.frameW, s.frameH)
		if len(blocks) != s.expBlocks {
			t.Fatalf("[spec %d] expected %d blocks; got %d", index, s.expBlocks, len(blocks))
		}
		assertFrameCoverage(t, index, blocks, s.frameW, s.frameH)
	}
}

func TestRowSchedulerOrder(t *testing.T) {
	blocks := RowScheduler(2, 2).Schedule(4, 4)
	expOrigins := [][2]uint32{{0, 0}, {2, 0}, {0, 2}, {2, 2}}
	for index, exp := range expOrigins {
		if blocks[index].BlockX != exp[0] || blocks[index].BlockY != exp[1] {
			t.Fatalf("expected block %d origin to be %v; got (%d, %d)", index, exp, blocks[index].BlockX, blocks[index].BlockY)
		}
	}
}

func TestCenterScheduler(t *testing.T) {
	blocks := CenterScheduler(2, 2).Schedule(6, 6)
	if len(blocks) != 9 {
		t.Fatalf("expected 9 blocks; got %d", len(blocks))
	}
	assertFrameCoverage(t, 0, blocks, 6, 6)

	if blocks[0].BlockX != 2 || blocks[0].BlockY != 2 {
		t.Fatalf("expected first block to be the center block; got (%d, %d)", blocks[0].BlockX, blocks[0].BlockY)
	}
}

func assertFrameCoverage(t *testing.T, index int, blocks []BlockRequest, frameW, frameH uint32) {
	t.Helper()

	covered := make([]int, frameW*frameH)
	for _, br := range blocks {
		for y := br.BlockY; y < br.BlockY+br.BlockH; y++ {
			for x := br.BlockX; x < br.BlockX+br.BlockW; x++ {
				if x >= frameW || y >= frameH {
					t.Fatalf("[spec %d] block %+v exceeds frame bounds", index, br)
				}
				covered[y*frameW+x]++
			}
		}
	}
	for pixel, count := range covered {
		if count != 1 {
			t.Fatalf("[spec %d] expected pixel %d to be covered once; got %d", index, pixel, count)
		}
	}
}
