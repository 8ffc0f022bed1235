package subtitles

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/forPelevin/visecut/internal/domain/tracks"
	"github.com/forPelevin/visecut/internal/domain/viseme"
)

// RenderVisemeASS lays every spike out as a subtitle event naming its viseme,
// so the timing can be checked by playing the source audio with the subtitle
// file loaded. Sil spikes are left out unless includeSil is set.
func RenderVisemeASS(spikes map[viseme.Category][]tracks.Spike, includeSil bool) string {
	var events []tracks.Spike
	for c, sp := range spikes {
		if c == viseme.Sil && !includeSil {
			continue
		}
		events = append(events, sp...)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].StartFrame != events[j].StartFrame {
			return events[i].StartFrame < events[j].StartFrame
		}
		return events[i].Viseme < events[j].Viseme
	})

	var b strings.Builder
	b.WriteString(assHeader())
	b.WriteString("\n[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, ev := range events {
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,Viseme,,0,0,0,,%s\n",
			assTime(dur(ev.Start)), assTime(dur(ev.End)), sanitizeASS(string(ev.Viseme)))
	}
	return b.String()
}

func assHeader() string {
	return strings.TrimSpace(`
[Script Info]
ScriptType: v4.00+
PlayResX: 1280
PlayResY: 720
ScaledBorderAndShadow: yes

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Viseme, Inter, 96, &H00FFFFFF, &H00FFD200, &H00000000, &H64000000, 1,0,0,0,100,100,0,0,1,6,2,5, 40,40,40,1
`)
}

func assTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hs := int(d / time.Hour)
	d -= time.Duration(hs) * time.Hour
	ms := int(d / time.Minute)
	d -= time.Duration(ms) * time.Minute
	s := int(d / time.Second)
	d -= time.Duration(s) * time.Second
	cs := int(d / (10 * time.Millisecond))
	return fmt.Sprintf("%d:%02d:%02d.%02d", hs, ms, s, cs)
}

func sanitizeASS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	return strings.TrimSpace(s)
}

// dur rounds to the millisecond so 0.29 s renders as 0:00:00.29.
func dur(sec float64) time.Duration {
	return time.Duration(sec*1000+0.5) * time.Millisecond
}
