package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"asciivid/internal/config"
	"asciivid/internal/export"
	"asciivid/internal/outputs"
	"asciivid/internal/videoenc"
)

type exportFlags struct {
	fps        int
	width      int
	skipStart  int
	skipEnd    int
	round      bool
	noProgress bool
	jsonOut    bool
}

func (f *exportFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.fps, "fps", 0, "Frames per second to extract (defaults to convert.fps)")
	cmd.Flags().IntVarP(&f.width, "width", "w", 0, "Output width in characters (defaults to convert.width)")
	cmd.Flags().IntVar(&f.skipStart, "skip-start", 0, "Extracted frames to drop from the start")
	cmd.Flags().IntVar(&f.skipEnd, "skip-end", 0, "Extracted frames to drop from the end")
	cmd.Flags().BoolVar(&f.round, "round", false, "Export round pixels instead of characters")
	cmd.Flags().BoolVar(&f.noProgress, "no-progress", false, "Hide progress bars")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "Output as JSON")
}

func (f *exportFlags) request(cmd *cobra.Command, cfg *config.Config, path string) export.Request {
	return export.Request{
		Path:            path,
		FPS:             intFlagOr(cmd, "fps", f.fps, cfg.Convert.FPS),
		Width:           intFlagOr(cmd, "width", f.width, cfg.Convert.Width),
		SkipStartFrames: f.skipStart,
		SkipEndFrames:   f.skipEnd,
		SquarePixels:    f.round,
	}
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export a video as ASCII art",
	}
	exportCmd.AddCommand(newExportTextCommand(ctx))
	exportCmd.AddCommand(newExportVideoCommand(ctx))
	return exportCmd
}

type textExportView struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Artifact   string  `json:"artifact"`
	Dimensions string  `json:"dimensions"`
	FPS        int     `json:"fps"`
	FrameCount int     `json:"frame_count"`
	Duration   float64 `json:"duration"`
	Size       int64   `json:"size"`
	Saved      bool    `json:"saved"`
}

func newExportTextCommand(ctx *commandContext) *cobra.Command {
	var flags exportFlags
	cmd := &cobra.Command{
		Use:   "text <video>",
		Short: "Export a compressed frame stream and add it to the history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *outputs.Store) error {
				req := flags.request(cmd, cfg, args[0])
				if err := req.Validate(); err != nil {
					return err
				}
				if err := requireBinaries(cfg); err != nil {
					return err
				}
				logger, err := ctx.ensureLogger()
				if err != nil {
					return err
				}
				reporter := newProgressReporter(cmd.ErrOrStderr(), !flags.noProgress && !flags.jsonOut)
				defer reporter.Finish()
				exporter := export.New(ctx.converter(cfg, logger, reporter.Func()), nil, store, cfg.Paths.DownloadsDir, logger)

				res, err := exporter.Text(cmd.Context(), req)
				if err != nil {
					return err
				}
				reporter.Finish()
				rec := res.Record
				if flags.jsonOut {
					return writeJSON(cmd, textExportView{
						ID:         rec.ID,
						Name:       rec.Name,
						Type:       rec.Type,
						Artifact:   res.Artifact,
						Dimensions: rec.Dimensions,
						FPS:        rec.FPS,
						FrameCount: rec.FrameCount,
						Duration:   rec.Duration,
						Size:       rec.Size,
						Saved:      res.Saved,
					})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Exported %d frames (%s @ %d fps, %s) to %s\n",
					rec.FrameCount, rec.Dimensions, rec.FPS, outputs.FormatSize(rec.Size), res.Artifact)
				if res.Saved {
					fmt.Fprintf(out, "Saved to history as %s\n", rec.ID)
				} else {
					fmt.Fprintln(out, "Not added to history; the file was still written")
				}
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

type videoExportView struct {
	Artifact string `json:"artifact"`
	Format   string `json:"format"`
	Frames   int    `json:"frames"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Size     int    `json:"size"`
}

func newExportVideoCommand(ctx *commandContext) *cobra.Command {
	var flags exportFlags
	cmd := &cobra.Command{
		Use:   "video <video>",
		Short: "Export an MP4 (or WebM) rendering of the ASCII frames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			req := flags.request(cmd, cfg, args[0])
			if err := req.Validate(); err != nil {
				return err
			}
			if err := requireBinaries(cfg); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			reporter := newProgressReporter(cmd.ErrOrStderr(), !flags.noProgress && !flags.jsonOut)
			defer reporter.Finish()
			conv := ctx.converter(cfg, logger, reporter.Func())
			exporter := export.New(conv, videoenc.New(conv, cfg.FFmpeg.FFmpegBinary, logger), nil, cfg.Paths.DownloadsDir, logger)

			res, err := exporter.Video(cmd.Context(), req)
			if err != nil {
				return err
			}
			reporter.Finish()
			if flags.jsonOut {
				return writeJSON(cmd, videoExportView{
					Artifact: res.Artifact,
					Format:   res.Result.Format,
					Frames:   res.Result.Frames,
					Width:    res.Result.Width,
					Height:   res.Result.Height,
					Size:     len(res.Result.Data),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d frames as %s (%dx%d, %s) to %s\n",
				res.Result.Frames, res.Result.Format, res.Result.Width, res.Result.Height,
				outputs.FormatSize(int64(len(res.Result.Data))), res.Artifact)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
