package convert

import (
	"bytes"
	"fmt"
	"html/template"
)

// viewerPage is a self-contained page around the viewer payload: an
// audio element plus the segment list, with the active segment
// highlighted as playback moves.
var viewerPage = template.Must(template.New("viewer").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: Georgia, serif; max-width: 46rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.6; }
  h1 { font-size: 1.4rem; }
  audio { width: 100%; margin: 1rem 0; }
  .seg { padding: .4rem .6rem; border-left: 3px solid transparent; cursor: pointer; }
  .seg.active { border-left-color: #4a6fa5; background: #f0f4fa; }
  .seg.quote { font-style: italic; }
  .time { color: #888; font-size: .8rem; margin-right: .5rem; font-family: monospace; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .AudioFile}}<audio id="player" controls src="{{.AudioFile}}"></audio>{{end}}
<div id="segments"></div>
<script>
const payload = {{.Payload}};

const container = document.getElementById("segments");
const player = document.getElementById("player");

function clock(t) {
  const s = Math.max(0, Math.floor(t));
  const mm = String(Math.floor(s / 60)).padStart(2, "0");
  const ss = String(s % 60).padStart(2, "0");
  return mm + ":" + ss;
}

payload.segments.forEach((seg, i) => {
  const div = document.createElement("div");
  div.className = seg.isQuote ? "seg quote" : "seg";
  div.dataset.index = i;
  div.innerHTML = '<span class="time">' + clock(seg.startTime) + "</span>" + seg.text;
  div.addEventListener("click", () => {
    if (player) { player.currentTime = seg.startTime; player.play(); }
  });
  container.appendChild(div);
});

// Active segment: currentTime in [startTime, endTime), final segment
// closed on the right.
function activeIndex(t) {
  const segs = payload.segments;
  for (let i = 0; i < segs.length; i++) {
    const last = i === segs.length - 1;
    if (t >= segs[i].startTime && (t < segs[i].endTime || (last && t <= segs[i].endTime))) {
      return i;
    }
  }
  return -1;
}

if (player) {
  player.addEventListener("timeupdate", () => {
    const idx = activeIndex(player.currentTime);
    container.querySelectorAll(".seg").forEach((el, i) => {
      el.classList.toggle("active", i === idx);
    });
  });
}
</script>
</body>
</html>
`))

// viewerHTML wraps the JSON viewer payload in the standalone page.
// The payload comes from json.Marshal, which escapes angle brackets,
// so inlining it into the script block is safe.
func viewerHTML(title, audioFile string, payload []byte) ([]byte, error) {
	if title == "" {
		title = "Transcript"
	}

	var buf bytes.Buffer
	err := viewerPage.Execute(&buf, struct {
		Title     string
		AudioFile string
		Payload   template.JS
	}{
		Title:     title,
		AudioFile: audioFile,
		Payload:   template.JS(payload), //nolint:gosec
	})
	if err != nil {
		return nil, fmt.Errorf("unable to render viewer page: %w", err)
	}
	return buf.Bytes(), nil
}
