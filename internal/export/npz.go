package export

import (
	"fmt"
	"io"

	"github.com/sbinet/npyio/npz"

	"github.com/forPelevin/visecut/internal/domain/tracks"
	"github.com/forPelevin/visecut/internal/domain/viseme"
)

// WriteNPZ stores every track as a float32 array named after its category.
func WriteNPZ(w io.Writer, set *tracks.Set) error {
	zw := npz.NewWriter(w)
	for _, c := range viseme.Categories() {
		if err := zw.Write(string(c), []float32(set.Track(c))); err != nil {
			_ = zw.Close()
			return fmt.Errorf("write npz array %s: %w", c, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close npz: %w", err)
	}
	return nil
}
