package inject

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

const diskBlockSize = 1 << 20 // 1 MiB

// RunDiskStressWorker writes nBlocks*1MiB of 'x' to a temp file under
// scratch, rewinds, reads it back, closes, deletes, and repeats until
// killed, per spec.md §4.5. It is the body of the "disk-stress"
// internal-worker subcommand.
func RunDiskStressWorker(scratch string, nBlocks, workerID int) {
	block := bytes.Repeat([]byte{'x'}, diskBlockSize)
	path := filepath.Join(scratch, fmt.Sprintf("disk-stress-worker-%d.tmp", workerID))

	for {
		f, err := os.Create(path)
		if err != nil {
			continue
		}
		for i := 0; i < nBlocks; i++ {
			if _, err := f.Write(block); err != nil {
				break
			}
		}
		if _, err := f.Seek(0, 0); err == nil {
			buf := make([]byte, diskBlockSize)
			for i := 0; i < nBlocks; i++ {
				if _, err := f.Read(buf); err != nil {
					break
				}
			}
		}
		f.Close()
		os.Remove(path)
	}
}
