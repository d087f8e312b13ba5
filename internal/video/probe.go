package video

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/facetag/facetag/internal/utils"
)

// Info describes the first video stream of a file as reported by ffprobe.
type Info struct {
	Width  int
	Height int
	// FrameRate is the stream's rational frame rate, e.g. "30000/1001".
	// It is passed to the encoder verbatim so the output timing matches
	// the input exactly.
	FrameRate   string
	TotalFrames int
	Duration    float64
	Codec       string
}

// FPS returns the frame rate as a float for display.
func (i Info) FPS() float64 {
	fps, err := parseRate(i.FrameRate)
	if err != nil {
		return 0
	}
	return fps
}

// parseRate evaluates a rational rate string like "30000/1001" or "25".
func parseRate(rate string) (float64, error) {
	num, den := rate, "1"
	if i := strings.IndexByte(rate, '/'); i >= 0 {
		num, den = rate[:i], rate[i+1:]
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frame rate %q", rate)
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("invalid frame rate %q", rate)
	}
	return n / d, nil
}

type probeOutput struct {
	Streams []struct {
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
		NbFrames   string `json:"nb_frames"`
		CodecName  string `json:"codec_name"`
		Duration   string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// decodeProbe parses ffprobe's JSON output. needCount reports that the
// container does not carry a frame count and the caller has to count
// packets in a second pass.
func decodeProbe(data []byte) (*Info, bool, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false, fmt.Errorf("cannot parse ffprobe output: %w", err)
	}
	if len(out.Streams) == 0 {
		return nil, false, fmt.Errorf("no video stream found")
	}

	s := out.Streams[0]
	if s.Width <= 0 || s.Height <= 0 {
		return nil, false, fmt.Errorf("invalid video dimensions %dx%d", s.Width, s.Height)
	}
	if _, err := parseRate(s.RFrameRate); err != nil {
		return nil, false, err
	}

	info := &Info{
		Width:     s.Width,
		Height:    s.Height,
		FrameRate: s.RFrameRate,
		Codec:     s.CodecName,
	}

	needCount := true
	if s.NbFrames != "" && s.NbFrames != "N/A" {
		n, err := strconv.Atoi(s.NbFrames)
		if err != nil {
			return nil, false, fmt.Errorf("invalid frame count %q", s.NbFrames)
		}
		info.TotalFrames = n
		needCount = false
	}

	dur := s.Duration
	if dur == "" || dur == "N/A" {
		dur = out.Format.Duration
	}
	if dur != "" && dur != "N/A" {
		if d, err := strconv.ParseFloat(dur, 64); err == nil {
			info.Duration = d
		}
	}

	return info, needCount, nil
}

// Probe inspects the first video stream of the file at path. Containers
// that do not store a frame count (MKV most commonly) cost a second ffprobe
// run that counts packets instead.
func Probe(ctx context.Context, path string) (*Info, error) {
	cmd := utils.NewSafeCommand(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate,nb_frames,codec_name,duration:format=duration",
		"-of", "json",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, probeError(path, err, cmd)
	}

	info, needCount, err := decodeProbe(out)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if needCount {
		n, err := countFrames(ctx, path)
		if err != nil {
			return nil, err
		}
		info.TotalFrames = n
	}

	return info, nil
}

// countFrames counts the stream's packets, which is slow but works for
// containers without a frame count in the header.
func countFrames(ctx context.Context, path string) (int, error) {
	cmd := utils.NewSafeCommand(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-count_packets",
		"-show_entries", "stream=nb_read_packets",
		"-of", "default=nokey=1:noprint_wrappers=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, probeError(path, err, cmd)
	}

	n, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, fmt.Errorf("%s: cannot count frames: %w", path, err)
	}
	return n, nil
}

// probeError folds ffprobe's stderr into the returned error so callers can
// report why the probe failed without keeping the process handle around.
func probeError(path string, err error, cmd *utils.SafeCommand) error {
	if msg := strings.TrimSpace(cmd.Stderr.String()); msg != "" {
		return fmt.Errorf("ffprobe %s: %w: %s", path, err, msg)
	}
	return fmt.Errorf("ffprobe %s: %w", path, err)
}
