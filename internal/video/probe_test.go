package video

import (
	"math"
	"testing"
)

func TestParseRate(t *testing.T) {
	tests := []struct {
		rate    string
		want    float64
		wantErr bool
	}{
		{"30000/1001", 30000.0 / 1001.0, false},
		{"25/1", 25, false},
		{"25", 25, false},
		{"60/2", 30, false},
		{"0/0", 0, true},
		{"30/0", 0, true},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.rate, func(t *testing.T) {
			got, err := parseRate(tt.rate)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRate(%q) error = %v, wantErr %v", tt.rate, err, tt.wantErr)
			}
			if err == nil && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("parseRate(%q) = %v, want %v", tt.rate, got, tt.want)
			}
		})
	}
}

func TestDecodeProbe(t *testing.T) {
	full := `{
		"streams": [{
			"width": 1920,
			"height": 1080,
			"r_frame_rate": "30000/1001",
			"nb_frames": "300",
			"codec_name": "h264",
			"duration": "10.010000"
		}],
		"format": {"duration": "10.027000"}
	}`

	info, needCount, err := decodeProbe([]byte(full))
	if err != nil {
		t.Fatalf("decodeProbe() error = %v", err)
	}
	if needCount {
		t.Error("needCount = true with nb_frames present")
	}
	if info.Width != 1920 || info.Height != 1080 {
		t.Errorf("dimensions = %dx%d, want 1920x1080", info.Width, info.Height)
	}
	if info.FrameRate != "30000/1001" {
		t.Errorf("FrameRate = %q, want 30000/1001", info.FrameRate)
	}
	if math.Abs(info.FPS()-29.97002997) > 1e-6 {
		t.Errorf("FPS() = %v, want ~29.97", info.FPS())
	}
	if info.TotalFrames != 300 {
		t.Errorf("TotalFrames = %d, want 300", info.TotalFrames)
	}
	if info.Codec != "h264" {
		t.Errorf("Codec = %q, want h264", info.Codec)
	}
	if math.Abs(info.Duration-10.01) > 1e-9 {
		t.Errorf("Duration = %v, want 10.01", info.Duration)
	}
}

func TestDecodeProbeMissingFrameCount(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{
			"absent",
			`{"streams": [{"width": 640, "height": 480, "r_frame_rate": "25/1", "codec_name": "vp9"}]}`,
		},
		{
			"not available",
			`{"streams": [{"width": 640, "height": 480, "r_frame_rate": "25/1", "nb_frames": "N/A", "codec_name": "vp9"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, needCount, err := decodeProbe([]byte(tt.json))
			if err != nil {
				t.Fatalf("decodeProbe() error = %v", err)
			}
			if !needCount {
				t.Error("needCount = false, want true")
			}
			if info.TotalFrames != 0 {
				t.Errorf("TotalFrames = %d, want 0 until counted", info.TotalFrames)
			}
		})
	}
}

func TestDecodeProbeDurationFallsBackToFormat(t *testing.T) {
	data := `{
		"streams": [{"width": 640, "height": 480, "r_frame_rate": "25/1", "nb_frames": "50", "codec_name": "h264", "duration": "N/A"}],
		"format": {"duration": "2.000000"}
	}`

	info, _, err := decodeProbe([]byte(data))
	if err != nil {
		t.Fatalf("decodeProbe() error = %v", err)
	}
	if math.Abs(info.Duration-2.0) > 1e-9 {
		t.Errorf("Duration = %v, want 2.0 from the format section", info.Duration)
	}
}

func TestDecodeProbeErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"garbage", `ffprobe exploded`},
		{"no streams", `{"streams": []}`},
		{"zero width", `{"streams": [{"width": 0, "height": 480, "r_frame_rate": "25/1"}]}`},
		{"bad rate", `{"streams": [{"width": 640, "height": 480, "r_frame_rate": "nope"}]}`},
		{"bad frame count", `{"streams": [{"width": 640, "height": 480, "r_frame_rate": "25/1", "nb_frames": "many"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := decodeProbe([]byte(tt.json)); err == nil {
				t.Error("decodeProbe() error = nil, want an error")
			}
		})
	}
}
