package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ttyrew/ttyrew/internal/charset"
	"github.com/ttyrew/ttyrew/internal/source"
	"github.com/ttyrew/ttyrew/internal/timeline"
	"github.com/ttyrew/ttyrew/internal/ttyrec"
)

var infoCmd = &cobra.Command{
	Use:   "info <recording>",
	Short: "Summarize a recording without playing it",
	Long: `Info decodes a recording and reports its frame counts, durations,
payload size, and detected encoding. The frame count reflects the active
merge window (--timestep), and the capped duration the active --timecap.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

type recordingInfo struct {
	File           string `json:"file"`
	Records        int    `json:"records"`
	Frames         int    `json:"frames"`
	Duration       string `json:"duration"`
	CappedDuration string `json:"capped_duration"`
	PayloadBytes   int64  `json:"payload_bytes"`
	Encoding       string `json:"encoding"`
	RecordedAt     string `json:"recorded_at,omitempty"`
	CorruptAtByte  *int64 `json:"corrupt_at_byte,omitempty"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	if err := applyFlagOverrides(cmd); err != nil {
		return err
	}
	target := args[0]

	rc, err := source.Open(context.Background(), target)
	if err != nil {
		return err
	}
	defer rc.Close()

	recs, epoch, err := ttyrec.ReadAll(rc)
	var corrupt *ttyrec.CorruptError
	if err != nil && !errors.As(err, &corrupt) {
		return err
	}

	var enc charset.Encoding
	if cfg.Terminal.Encoding != "" {
		enc, err = charset.Parse(cfg.Terminal.Encoding)
		if err != nil {
			return err
		}
	} else {
		samples := make([][]byte, len(recs))
		for i, r := range recs {
			samples[i] = r.Data
		}
		enc = charset.Detect(samples)
	}

	timecap, err := cfg.Playback.ParseTimecap()
	if err != nil {
		return err
	}
	tl, err := timeline.Build(recs, timeline.Options{
		Timestep:   uint64(cfg.Playback.TimestepUS),
		Timecap:    uint64(timecap.Microseconds()),
		CapEnabled: true,
	})
	if err != nil {
		return err
	}

	info := recordingInfo{
		File:           target,
		Records:        len(recs),
		Frames:         tl.Len(),
		Duration:       formatUS(tl.RawDuration()),
		CappedDuration: formatUS(tl.Duration()),
		PayloadBytes:   tl.PayloadBytes(),
		Encoding:       enc.String(),
	}
	if !epoch.IsZero() {
		info.RecordedAt = epoch.Format(time.RFC3339)
	}
	if corrupt != nil {
		info.CorruptAtByte = &corrupt.Offset
	}

	if JSONOutput() {
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	recordedAt := "-"
	if !epoch.IsZero() {
		recordedAt = epoch.Format("2006-01-02 15:04:05 MST")
	}
	rows := [][2]string{
		{"File", info.File},
		{"Records", humanize.Comma(int64(info.Records))},
		{"Frames", humanize.Comma(int64(info.Frames))},
		{"Duration", info.Duration},
		{"Capped duration", info.CappedDuration},
		{"Payload", humanize.IBytes(uint64(info.PayloadBytes))},
		{"Encoding", info.Encoding},
		{"Recorded at", recordedAt},
	}
	if corrupt != nil {
		rows = append(rows, [2]string{
			"Corrupt tail",
			fmt.Sprintf("at byte %d (record %d); the prefix is playable", corrupt.Offset, corrupt.Ordinal),
		})
	}
	fmt.Println(renderKV(rows))
	return nil
}

// formatUS renders a microsecond count as a duration string.
func formatUS(us uint64) string {
	return (time.Duration(us) * time.Microsecond).Round(time.Millisecond).String()
}
