// Package video moves raw frames between ffmpeg child processes and the
// annotation loop. The decoder turns any input container into a stream of
// fixed-size bgr24 frames on stdout; the encoder accepts the same stream on
// stdin and writes the output container. Frame geometry and rate come from
// a single ffprobe call up front.
package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/facetag/facetag/internal/utils"
)

// ErrUnknownCodec is returned for output codec names outside the supported
// set. Use Codecs for the valid names.
var ErrUnknownCodec = errors.New("unknown output codec")

// codecArgs maps a FOURCC-style codec name to ffmpeg encoder arguments.
func codecArgs(codec string) ([]string, error) {
	switch strings.ToUpper(codec) {
	case "MJPG":
		return []string{"-c:v", "mjpeg", "-q:v", "3"}, nil
	case "XVID":
		return []string{"-c:v", "mpeg4", "-vtag", "xvid", "-q:v", "3"}, nil
	case "MP4V":
		return []string{"-c:v", "mpeg4", "-q:v", "3"}, nil
	case "H264", "AVC1":
		return []string{"-c:v", "libx264", "-preset", "fast", "-crf", "18", "-pix_fmt", "yuv420p"}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, codec)
}

// ValidateCodec reports whether the codec name is supported.
func ValidateCodec(codec string) error {
	_, err := codecArgs(codec)
	return err
}

// Codecs returns the supported output codec names, sorted.
func Codecs() []string {
	names := []string{"AVC1", "H264", "MJPG", "MP4V", "XVID"}
	sort.Strings(names)
	return names
}

// Decoder streams a video file as raw bgr24 frames.
type Decoder struct {
	cmd       *utils.SafeCommand
	stdout    io.ReadCloser
	frameSize int
	sawEOF    bool
}

// NewDecoder starts an ffmpeg process decoding the file at path into raw
// frames of the given dimensions. The caller must Close it to reap the
// child process.
func NewDecoder(ctx context.Context, path string, width, height int) (*Decoder, error) {
	cmd := utils.NewSafeCommand(ctx, "ffmpeg",
		"-hide_banner",
		"-loglevel", "error",
		"-i", path,
		"-f", "rawvideo",
		"-pix_fmt", "bgr24",
		"-",
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg decoder pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg decoder start: %w", err)
	}
	return &Decoder{cmd: cmd, stdout: stdout, frameSize: 3 * width * height}, nil
}

// ReadFrame fills frame with the next decoded frame. It returns io.EOF when
// the stream ends cleanly and io.ErrUnexpectedEOF when the stream breaks
// off inside a frame.
func (d *Decoder) ReadFrame(frame *BGR24) error {
	if len(frame.Pix) != d.frameSize {
		return fmt.Errorf("frame buffer is %d bytes, decoder produces %d", len(frame.Pix), d.frameSize)
	}
	_, err := io.ReadFull(d.stdout, frame.Pix)
	if err == io.EOF {
		d.sawEOF = true
	}
	return err
}

// Close releases the pipe and reaps the decoder process. The exit status
// only means something when the stream was read to EOF; closing early
// kills the child with a broken pipe, so its status is discarded then.
func (d *Decoder) Close() error {
	d.stdout.Close()
	err := d.cmd.Wait()
	if !d.sawEOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("ffmpeg decoder: %w", err)
	}
	return nil
}

// Command exposes the underlying process for error reporting.
func (d *Decoder) Command() *utils.SafeCommand { return d.cmd }

// Encoder consumes raw bgr24 frames and writes an encoded video file.
type Encoder struct {
	cmd       *utils.SafeCommand
	stdin     io.WriteCloser
	frameSize int
}

// NewEncoder starts an ffmpeg process that encodes raw frames written to it
// into the file at path, overwriting any existing file. rate is a rational
// frame rate string as reported by Probe. The output container is finalized
// by Close; dropping an Encoder without closing it leaves a broken file.
func NewEncoder(ctx context.Context, path string, width, height int, rate, codec string) (*Encoder, error) {
	enc, err := codecArgs(codec)
	if err != nil {
		return nil, err
	}

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "bgr24",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", rate,
		"-i", "-",
	}
	args = append(args, enc...)
	args = append(args, "-y", path)

	cmd := utils.NewSafeCommand(ctx, "ffmpeg", args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg encoder pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg encoder start: %w", err)
	}
	return &Encoder{cmd: cmd, stdin: stdin, frameSize: 3 * width * height}, nil
}

// WriteFrame sends one frame to the encoder. A write error usually means
// the encoder died; its stderr is available through Command.
func (e *Encoder) WriteFrame(frame *BGR24) error {
	if len(frame.Pix) != e.frameSize {
		return fmt.Errorf("frame buffer is %d bytes, encoder expects %d", len(frame.Pix), e.frameSize)
	}
	_, err := e.stdin.Write(frame.Pix)
	return err
}

// Close signals end of input and waits for the encoder to finalize the
// output file. It must be called even after a write error, or the output
// container is left without its trailer.
func (e *Encoder) Close() error {
	if err := e.stdin.Close(); err != nil {
		e.cmd.Wait()
		return fmt.Errorf("ffmpeg encoder: %w", err)
	}
	if err := e.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg encoder: %w", err)
	}
	return nil
}

// Command exposes the underlying process for error reporting.
func (e *Encoder) Command() *utils.SafeCommand { return e.cmd }
