package tailer

import (
	"log"

	"github.com/nxadm/tail"
)

// Follow tails a file, delivering existing content and then appended
// lines. The file may not exist yet; following starts once it appears, and
// rotation reopens it. The returned stop function ends the tail and closes
// the channel.
func Follow(path string) (<-chan string, func(), error) {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: false,
		Poll:      true, // inotify misses events on bind mounts
	})
	if err != nil {
		return nil, nil, err
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		for line := range t.Lines {
			if line.Err != nil {
				log.Printf("tailer: %s: %v", path, line.Err)
				continue
			}
			lines <- line.Text
		}
	}()

	stop := func() {
		t.Stop()
		t.Cleanup()
	}
	return lines, stop, nil
}
