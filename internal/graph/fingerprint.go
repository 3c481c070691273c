package graph

import (
	"fmt"
	"strconv"

	"github.com/zeebo/blake3"
)

// Fingerprint returns a blake3 hex digest of the graph's canonical form
// ("id:duration:pred,pred;" per task in id order). Two inputs that differ
// only in record order or predecessor formatting share a fingerprint.
func (g *TaskGraph) Fingerprint() string {
	hasher := blake3.New()
	buf := make([]byte, 0, 64)
	for _, t := range g.tasks {
		buf = buf[:0]
		buf = strconv.AppendInt(buf, int64(t.ID), 10)
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(t.Duration), 10)
		buf = append(buf, ':')
		for i, p := range t.Preds {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = strconv.AppendInt(buf, int64(p), 10)
		}
		buf = append(buf, ';')
		_, _ = hasher.Write(buf)
	}
	return fmt.Sprintf("%x", hasher.Sum(nil))
}
