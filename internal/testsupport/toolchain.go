package testsupport

import "strconv"

// Geometry reported by the fake ffprobe.
const (
	FakeWidth    = 40
	FakeHeight   = 20
	FakeDuration = 1.0
)

const fakeProbeScript = `#!/bin/sh
cat <<'JSON'
{"streams":[{"index":0,"codec_type":"video","codec_name":"h264","width":40,"height":20,"duration":"1.0","r_frame_rate":"25/1"}],"format":{"duration":"1.0","size":"2048"}}
JSON
`

// fakeFFmpegScript answers the encoder listing, single-frame grabs, frame
// streams scaled by the -vf filter, and raw-video encodes read from stdin.
func fakeFFmpegScript(frames int) string {
	native := strconv.Itoa(FakeWidth * FakeHeight * 3)
	return `#!/bin/sh
prev=""
vf=""
last=""
for a in "$@"; do
  if [ "$prev" = "-vf" ]; then vf="$a"; fi
  prev="$a"
  last="$a"
done
case "$*" in
*-encoders*)
  printf ' V....D libx264              libx264 H.264 / AVC\n V....D libvpx-vp9           libvpx VP9\n'
  exit 0 ;;
*pipe:0*)
  cat >/dev/null
  printf 'fake-video' > "$last"
  exit 0 ;;
*-frames:v*)
  head -c ` + native + ` /dev/zero | tr '\000' '\100'
  exit 0 ;;
esac
dims=${vf#*scale=}
dims=${dims%%:flags*}
w=${dims%%:*}
h=${dims#*:}
head -c $((w * h * 3 * ` + strconv.Itoa(frames) + `)) /dev/zero | tr '\000' '\100'
`
}
