// Package export serialises viseme tracks and spikes.
package export

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/forPelevin/visecut/internal/domain/tracks"
	"github.com/forPelevin/visecut/internal/domain/viseme"
)

type xmlDoc struct {
	XMLName   xml.Name   `xml:"visemes"`
	FrameRate int        `xml:"framerate,attr"`
	Tracks    []xmlTrack `xml:"track"`
}

type xmlTrack struct {
	Name   string     `xml:"name,attr"`
	Spikes []xmlSpike `xml:"spike"`
}

type xmlSpike struct {
	Start string `xml:"start,attr"`
	End   string `xml:"end,attr"`
}

// WriteXML emits one <track> per category, sil included, with spike bounds
// in seconds to two decimals.
func WriteXML(w io.Writer, frameRate int, spikes map[viseme.Category][]tracks.Spike) error {
	doc := xmlDoc{FrameRate: frameRate}
	for _, c := range viseme.Categories() {
		tr := xmlTrack{Name: string(c)}
		for _, sp := range spikes[c] {
			tr.Spikes = append(tr.Spikes, xmlSpike{
				Start: fmt.Sprintf("%.2f", sp.Start),
				End:   fmt.Sprintf("%.2f", sp.End),
			})
		}
		doc.Tracks = append(doc.Tracks, tr)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode viseme xml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
